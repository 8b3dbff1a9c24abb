package api

import (
	"net/http"

	"shareit/internal/models"

	"github.com/julienschmidt/httprouter"
)

func (s *HTTPServer) createItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body itemRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	item, err := s.services.Items.Create(r.Context(), ownerID, &models.Item{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) updateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	itemID, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body itemPatchRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	item, err := s.services.Items.Update(r.Context(), ownerID, itemID, body.patch())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) getItemOrSearch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "search" {
		s.searchItems(w, r, ps)
		return
	}

	uid, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	itemID, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	details, err := s.services.Items.Get(r.Context(), uid, itemID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *HTTPServer) listOwnerItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	items, err := s.services.Items.ListByOwner(r.Context(), ownerID, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) searchItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	items, err := s.services.Items.Search(r.Context(), r.URL.Query().Get("text"), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) postComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	authorID, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	itemID, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body commentRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	comment, err := s.services.Items.PostComment(r.Context(), authorID, itemID, body.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
