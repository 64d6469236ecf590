package post

import (
	"errors"
	"net/http"

	"blog-backend/internal/shared"
)

var ErrPostNotFound = errors.New("post not found")

const (
	MinContentLength = 250
	MaxSummaryLength = 250
)

// TitleMarkers are the case-sensitive substrings a title must contain one of.
var TitleMarkers = []string{"Won't Believe", "Secret", "Top", "Guess"}

// Validation messages
const (
	MsgInvalidTitle    = "title must contain one of: 'Won't Believe', 'Secret', 'Top', 'Guess'"
	MsgContentTooShort = "post content must be at least 250 characters long"
	MsgInvalidCategory = "post must be categorized as Fiction or Non-Fiction"
	MsgSummaryTooLong  = "post summary cannot exceed 250 characters"
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return "POST_NOT_FOUND"
	case errors.Is(err, shared.ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
