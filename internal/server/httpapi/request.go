package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// errBadRequest marks body and parameter validation failures.
var errBadRequest = errors.New("bad request")

var validate = validator.New()

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	APIKey   string `json:"api_key" validate:"required"`
}

type updateProfileRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type noteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type noteUpdateRequest struct {
	Title   string `json:"title" validate:"omitempty,max=200"`
	Content string `json:"content"`
}

type bulkNotesRequest struct {
	Notes []noteRequest `json:"notes" validate:"required,min=1,max=100,dive"`
}

// decode unmarshals the request body into dst and runs the validator tags.
// Any failure reads as a bad request with the cause attached.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json: %v", errBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
