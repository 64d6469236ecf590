package author

import (
	"errors"
	"net/http"

	"blog-backend/internal/shared"
)

var (
	// Business Rule Errors
	ErrDuplicateName  = errors.New("author name must not already exist")
	ErrAuthorNotFound = errors.New("author not found")
)

// Validation messages
const (
	MsgNameRequired       = "author name must be provided"
	MsgInvalidPhoneNumber = "phone number must be exactly 10 digits"
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateName):
		return "DUPLICATE_NAME"
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, shared.ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, ErrAuthorNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
