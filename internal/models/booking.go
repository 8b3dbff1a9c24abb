package models

import (
	"fmt"
	"strings"
	"time"
)

// BookingStatus is the approval status stored with a booking.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// IsValid reports whether s is one of the known statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// BookingState is the time/status filter used when listing bookings.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StatePast     BookingState = "PAST"
	StateCurrent  BookingState = "CURRENT"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ErrUnknownState is returned by ParseBookingState for unsupported filters.
type ErrUnknownState struct {
	Value string
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("Unknown state: %s", e.Value)
}

// ParseBookingState parses a state filter, case-insensitively.
// An empty string yields StateAll.
func ParseBookingState(raw string) (BookingState, error) {
	if strings.TrimSpace(raw) == "" {
		return StateAll, nil
	}
	state := BookingState(strings.ToUpper(strings.TrimSpace(raw)))
	switch state {
	case StateAll, StatePast, StateCurrent, StateFuture, StateWaiting, StateRejected:
		return state, nil
	}
	return "", &ErrUnknownState{Value: raw}
}

type Booking struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	ItemID   int64         `json:"itemId"`
	BookerID int64         `json:"bookerId"`
	Status   BookingStatus `json:"status"`
}

// Covers reports whether now falls inside [Start, End].
func (b *Booking) Covers(now time.Time) bool {
	return !b.Start.After(now) && !b.End.Before(now)
}

// BookingInput is what a booker submits to create a booking.
type BookingInput struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

// BookingView is the booking as returned to callers, with item and booker summaries.
type BookingView struct {
	ID     int64         `json:"id"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Status BookingStatus `json:"status"`
	Item   ItemShort     `json:"item"`
	Booker UserShort     `json:"booker"`

	OwnerID int64 `json:"-"`
}

// BookingFilter selects bookings for a booker or for an item owner.
// Exactly one of BookerID and OwnerID is set.
type BookingFilter struct {
	BookerID int64
	OwnerID  int64
	State    BookingState
	Now      time.Time
	Page     Page
}

// BookingShort is the last/next booking attached to an item view.
type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Short converts b into its compact form.
func (b *Booking) Short() *BookingShort {
	return &BookingShort{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

// LastAndNext picks the latest booking that started before now and the
// earliest one starting after now. Rejected bookings are ignored.
func LastAndNext(bookings []Booking, now time.Time) (last, next *BookingShort) {
	var lastB, nextB *Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status == StatusRejected {
			continue
		}
		if b.Start.Before(now) && (lastB == nil || b.Start.After(lastB.Start)) {
			lastB = b
		}
		if b.Start.After(now) && (nextB == nil || b.Start.Before(nextB.Start)) {
			nextB = b
		}
	}
	if lastB != nil {
		last = lastB.Short()
	}
	if nextB != nil {
		next = nextB.Short()
	}
	return last, next
}
