package service

import (
	"context"
	"errors"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	base
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{base: newBase(repo, eventBus, logger)}
}

// Create books an item for bookerID. The new booking starts out WAITING for
// the owner's decision.
func (s *BookingService) Create(ctx context.Context, bookerID int64, in models.BookingInput) (*models.BookingView, error) {
	item, err := s.requireItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	booker, err := s.requireUser(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == bookerID {
		return nil, domain.IllegalOperationf("owner cannot book own item %d", item.ID)
	}
	if !item.Available {
		return nil, domain.IllegalOperationf("item with id %d is not available", item.ID)
	}
	if !in.End.After(in.Start) {
		return nil, domain.IllegalOperationf("booking end must be after its start")
	}

	booking := &models.Booking{
		Start:    in.Start,
		End:      in.End,
		ItemID:   item.ID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBookingChecked(ctx, booking); err != nil {
		switch {
		case errors.Is(err, database.ErrNotAvailable):
			return nil, domain.IllegalOperationf("item with id %d is not available", item.ID)
		case errors.Is(err, database.ErrNotFound):
			return nil, domain.NotFoundf("item with id %d is not found", item.ID)
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", item.ID).Int64("booker_id", bookerID).Msg("booking created")

	view := &models.BookingView{
		ID:      booking.ID,
		Start:   booking.Start,
		End:     booking.End,
		Status:  booking.Status,
		Item:    models.ItemShort{ID: item.ID, Name: item.Name},
		Booker:  models.UserShort{ID: booker.ID, Name: booker.Name},
		OwnerID: item.OwnerID,
	}
	s.publishBooking(events.EventBookingCreated, view)
	return view, nil
}

// UpdateStatus approves or rejects a booking on behalf of the item owner.
// Setting the status a booking already has is refused.
func (s *BookingService) UpdateStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error) {
	view, err := s.repo.GetBookingView(ctx, bookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking with id %d is not found", bookingID)
	}
	if view.OwnerID != ownerID {
		return nil, domain.NotFoundf("booking with id %d is not found", bookingID)
	}

	target := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		target = models.StatusApproved
		eventType = events.EventBookingApproved
	}
	if view.Status == target {
		return nil, domain.IllegalOperationf("booking with id %d is already %s", bookingID, target)
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, target); err != nil {
		return nil, notFoundOr(err, "booking with id %d is not found", bookingID)
	}
	view.Status = target

	metrics.IncBookingStatus(string(target))
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(target)).Msg("booking status changed")
	s.publishBooking(eventType, view)
	return view, nil
}

// Get returns a booking to its booker or to the owner of the booked item.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (*models.BookingView, error) {
	view, err := s.repo.GetBookingView(ctx, bookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking with id %d is not found", bookingID)
	}
	if view.Booker.ID != userID && view.OwnerID != userID {
		return nil, domain.NotFoundf("booking with id %d is not found", bookingID)
	}
	return view, nil
}

// ListByBooker lists the user's own bookings filtered by state.
func (s *BookingService) ListByBooker(ctx context.Context, userID int64, state models.BookingState, page models.Page) ([]*models.BookingView, error) {
	return s.list(ctx, userID, models.BookingFilter{BookerID: userID, State: state, Page: page})
}

// ListByOwner lists bookings of the user's items filtered by state.
func (s *BookingService) ListByOwner(ctx context.Context, userID int64, state models.BookingState, page models.Page) ([]*models.BookingView, error) {
	return s.list(ctx, userID, models.BookingFilter{OwnerID: userID, State: state, Page: page})
}

func (s *BookingService) list(ctx context.Context, userID int64, filter models.BookingFilter) ([]*models.BookingView, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	filter.Now = s.now()

	views, err := s.repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*models.BookingView{}
	}
	return views, nil
}

func (s *BookingService) publishBooking(eventType string, v *models.BookingView) {
	s.publish(eventType, events.BookingEventPayload{
		BookingID: v.ID,
		ItemID:    v.Item.ID,
		ItemName:  v.Item.Name,
		BookerID:  v.Booker.ID,
		OwnerID:   v.OwnerID,
		Status:    string(v.Status),
		Start:     v.Start,
		End:       v.End,
	})
}
