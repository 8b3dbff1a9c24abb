package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2026, 7, 2, 10, 30, 0, 0, time.UTC)

	for _, raw := range []string{`"2026-07-02T10:30:00Z"`, `"2026-07-02T10:30:00"`, `"2026-07-02T10:30"`, `"2026-07-02T13:30:00+03:00"`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, want.Equal(ts.Time), raw)
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
	assert.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestValidatorMessages(t *testing.T) {
	s := &HTTPServer{validate: newValidator()}

	err := s.validate.Struct(&bookingRequest{ItemID: 1})
	require.Error(t, err)

	body := bookingRequest{ItemID: 1, Start: Timestamp{time.Now()}, End: Timestamp{time.Now()}}
	assert.NoError(t, s.validate.Struct(&body))

	err = s.validate.Struct(&userRequest{Name: "x", Email: "nope"})
	require.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.Validationf("bad"), http.StatusBadRequest},
		{domain.NotFoundf("missing"), http.StatusNotFound},
		{domain.IllegalOperationf("nope"), http.StatusBadRequest},
		{domain.Conflictf("dup"), http.StatusConflict},
		{&models.ErrUnknownState{Value: "X"}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.NotFoundf("missing")), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
