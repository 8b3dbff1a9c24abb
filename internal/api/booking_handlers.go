package api

import (
	"context"
	"net/http"

	"shareit/internal/models"

	"github.com/julienschmidt/httprouter"
)

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookerID, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body bookingRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.services.Bookings.Create(r.Context(), bookerID, models.BookingInput{
		ItemID: body.ItemID,
		Start:  body.Start.Time,
		End:    body.End.Time,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) updateBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bookingID, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	approved, err := approvedParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.services.Bookings.UpdateStatus(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) getBookingOrOwnerList(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "owner" {
		s.listBookings(w, r, s.services.Bookings.ListByOwner)
		return
	}

	uid, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bookingID, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.services.Bookings.Get(r.Context(), uid, bookingID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) listBookerBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.listBookings(w, r, s.services.Bookings.ListByBooker)
}

type bookingLister func(ctx context.Context, userID int64, state models.BookingState, p models.Page) ([]*models.BookingView, error)

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, list bookingLister) {
	uid, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	state, err := bookingState(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	views, err := list(r.Context(), uid, state, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
