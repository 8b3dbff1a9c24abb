package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingState(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		for raw, want := range map[string]BookingState{
			"":         StateAll,
			"all":      StateAll,
			"PAST":     StatePast,
			"Current":  StateCurrent,
			"future":   StateFuture,
			"WAITING":  StateWaiting,
			"rejected": StateRejected,
		} {
			got, err := ParseBookingState(raw)
			require.NoError(t, err, raw)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseBookingState("UNSUPPORTED_STATUS")
		require.Error(t, err)
		assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", err.Error())
	})
}

func TestPage(t *testing.T) {
	assert.Equal(t, 0, Page{From: 0, Size: 10}.Offset())
	assert.Equal(t, 0, Page{From: 5, Size: 10}.Offset())
	assert.Equal(t, 10, Page{From: 10, Size: 10}.Offset())
	assert.Equal(t, 20, Page{From: 27, Size: 10}.Offset())
	assert.Equal(t, 3, Page{From: 4, Size: 3}.Offset())
	assert.Equal(t, 10, DefaultPage().Limit())
}

func TestPatches(t *testing.T) {
	u := User{ID: 1, Name: "old", Email: "old@example.com"}
	name := "new"
	UserPatch{Name: &name}.Apply(&u)
	assert.Equal(t, "new", u.Name)
	assert.Equal(t, "old@example.com", u.Email)

	it := Item{Name: "drill", Description: "cordless", Available: true}
	off := false
	ItemPatch{Available: &off}.Apply(&it)
	assert.False(t, it.Available)
	assert.Equal(t, "drill", it.Name)
	assert.Equal(t, "cordless", it.Description)
}

func TestLastAndNext(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	bookings := []Booking{
		{ID: 1, Start: now.Add(-72 * time.Hour), End: now.Add(-48 * time.Hour), Status: StatusApproved},
		{ID: 2, Start: now.Add(-24 * time.Hour), End: now.Add(-20 * time.Hour), Status: StatusApproved},
		{ID: 3, Start: now.Add(-2 * time.Hour), End: now.Add(-1 * time.Hour), Status: StatusRejected},
		{ID: 4, Start: now.Add(48 * time.Hour), End: now.Add(50 * time.Hour), Status: StatusWaiting},
		{ID: 5, Start: now.Add(2 * time.Hour), End: now.Add(3 * time.Hour), Status: StatusRejected},
		{ID: 6, Start: now.Add(24 * time.Hour), End: now.Add(25 * time.Hour), Status: StatusApproved},
	}

	last, next := LastAndNext(bookings, now)
	require.NotNil(t, last)
	require.NotNil(t, next)
	assert.Equal(t, int64(2), last.ID)
	assert.Equal(t, int64(6), next.ID)

	last, next = LastAndNext(nil, now)
	assert.Nil(t, last)
	assert.Nil(t, next)
}

func TestBookingCovers(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	b := Booking{Start: now.Add(-time.Hour), End: now.Add(time.Hour)}
	assert.True(t, b.Covers(now))
	assert.True(t, b.Covers(b.Start))
	assert.True(t, b.Covers(b.End))
	assert.False(t, b.Covers(now.Add(2*time.Hour)))
}
