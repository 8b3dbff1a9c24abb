package api

import (
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/julienschmidt/httprouter"
)

// userID reads the calling user's id from the identity header.
func userID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(models.UserIDHeader))
	if raw == "" {
		return 0, domain.Validationf("%s header is required", models.UserIDHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s header: %s", models.UserIDHeader, raw)
	}
	return id, nil
}

func pathID(ps httprouter.Params, name string) (int64, error) {
	raw := ps.ByName(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validationf("invalid %s: %s", name, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validationf("invalid %s parameter: %s", name, raw)
	}
	return v, nil
}

// page reads from/size, defaulting to 0 and models.DefaultPageSize.
func page(r *http.Request) (models.Page, error) {
	from, err := queryInt(r, "from", 0)
	if err != nil {
		return models.Page{}, err
	}
	size, err := queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		return models.Page{}, err
	}
	if from < 0 {
		return models.Page{}, domain.Validationf("from must be zero or positive")
	}
	if size <= 0 {
		return models.Page{}, domain.Validationf("size must be positive")
	}
	return models.Page{From: from, Size: size}, nil
}

func bookingState(r *http.Request) (models.BookingState, error) {
	return models.ParseBookingState(r.URL.Query().Get("state"))
}

func approvedParam(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("approved"))
	if raw == "" {
		return false, domain.Validationf("approved parameter is required")
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.Validationf("invalid approved parameter: %s", raw)
	}
	return v, nil
}
