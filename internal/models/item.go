package models

type Item struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Available   bool   `json:"available" yaml:"available"`
	OwnerID     int64  `json:"-" yaml:"owner_id"`
	RequestID   *int64 `json:"requestId,omitempty" yaml:"request_id"`
}

// ItemPatch carries the fields of a partial item update.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// Apply copies the present fields onto it.
func (p ItemPatch) Apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
}

// ItemShort is the compact item form embedded into booking views.
type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemDetails is the item read view. LastBooking and NextBooking are only
// filled in for the owner.
type ItemDetails struct {
	Item
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
	Comments    []CommentView `json:"comments"`
}
