package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-playground/validator/v10"
)

type userRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

type userPatchRequest struct {
	Name  *string `json:"name" validate:"omitempty,notblank"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type itemRequest struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

type itemPatchRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	Description *string `json:"description" validate:"omitempty,notblank"`
	Available   *bool   `json:"available"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

type itemRequestRequest struct {
	Description string `json:"description" validate:"required,notblank"`
}

type bookingRequest struct {
	ItemID int64     `json:"itemId" validate:"required,gt=0"`
	Start  Timestamp `json:"start" validate:"required"`
	End    Timestamp `json:"end" validate:"required"`
}

// Timestamp accepts RFC 3339 as well as zone-less local date-times,
// which are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string")
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if ts, ok := field.Interface().(Timestamp); ok && !ts.IsZero() {
			return ts.Time
		}
		return nil
	}, Timestamp{})
	return v
}

// decodeJSON reads the request body into dst and validates it.
func (s *HTTPServer) decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return domain.Validationf("invalid request body: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return translateValidationErrors(verrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(verrs validator.ValidationErrors) error {
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "notblank":
			messages = append(messages, fmt.Sprintf("%s must not be blank", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", field))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return domain.Validationf("%s", strings.Join(messages, "; "))
}

func (in userPatchRequest) patch() models.UserPatch {
	return models.UserPatch{Name: in.Name, Email: in.Email}
}

func (in itemPatchRequest) patch() models.ItemPatch {
	return models.ItemPatch{Name: in.Name, Description: in.Description, Available: in.Available}
}
