package api

import (
	"net/http"

	"shareit/internal/models"

	"github.com/julienschmidt/httprouter"
)

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body userRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.services.Users.Create(r.Context(), &models.User{Name: body.Name, Email: body.Email})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body userPatchRequest
	if err := s.decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.services.Users.Update(r.Context(), id, body.patch())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.services.Users.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := pathID(ps, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.services.Users.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := s.services.Users.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
