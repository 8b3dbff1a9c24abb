package export

import (
	"sort"
	"time"

	"shareit/internal/models"
)

const timeLayout = "2006-01-02 15:04"

// Headers are the column titles of the booking report.
var Headers = []interface{}{"ID", "Item ID", "Item", "Booker ID", "Booker", "Start", "End", "Status"}

// Rows converts bookings into report rows ordered by start, then id.
func Rows(bookings []*models.BookingView) [][]interface{} {
	sorted := append([]*models.BookingView(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	rows := make([][]interface{}, 0, len(sorted))
	for _, b := range sorted {
		rows = append(rows, []interface{}{
			b.ID,
			b.Item.ID,
			b.Item.Name,
			b.Booker.ID,
			b.Booker.Name,
			b.Start.UTC().Format(timeLayout),
			b.End.UTC().Format(timeLayout),
			string(b.Status),
		})
	}
	return rows
}

// Period is the half-open report window [From, To).
type Period struct {
	From time.Time
	To   time.Time
}

// PeriodAround returns the window of days before and after now, aligned to
// whole UTC days.
func PeriodAround(now time.Time, daysBack, daysAhead int) Period {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Period{
		From: day.AddDate(0, 0, -daysBack),
		To:   day.AddDate(0, 0, daysAhead+1),
	}
}
