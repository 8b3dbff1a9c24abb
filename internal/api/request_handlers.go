package api

import (
	"net/http"

	"shareit/internal/models"

	"github.com/julienschmidt/httprouter"
)

func (s *HTTPServer) createRequest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body itemRequestRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	req, err := s.services.Requests.Create(r.Context(), uid, &models.ItemRequest{Description: body.Description})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) listOwnRequests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	reqs, err := s.services.Requests.ListOwn(r.Context(), uid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *HTTPServer) getRequestOrAll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if ps.ByName("id") == "all" {
		p, err := page(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		reqs, err := s.services.Requests.ListOthers(r.Context(), uid, p)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, reqs)
		return
	}

	requestID, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req, err := s.services.Requests.Get(r.Context(), uid, requestID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
