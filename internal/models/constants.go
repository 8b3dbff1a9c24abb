package models

const (
	// DefaultPageSize is used when a list request carries no size.
	DefaultPageSize = 10

	// UserIDHeader identifies the calling user on every request.
	UserIDHeader = "X-Sharer-User-Id"
)

// Page is a from/size window. The window start is rounded down to a
// multiple of Size, so from=5,size=10 is the first page.
type Page struct {
	From int
	Size int
}

// DefaultPage returns the first page with the default size.
func DefaultPage() Page {
	return Page{From: 0, Size: DefaultPageSize}
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

// Limit returns the maximum number of rows in the page.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}
