package author

import (
	"time"
)

// CreateAuthorRequest - POST /api/v1/authors
type CreateAuthorRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// UpdateAuthorRequest - PATCH /api/v1/authors/:id
// Only non-nil fields are validated and applied.
type UpdateAuthorRequest struct {
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// IsEmpty reports whether the request changes nothing.
func (req *UpdateAuthorRequest) IsEmpty() bool {
	return req.Name == nil && req.PhoneNumber == nil
}

type AuthorResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthorFilter - GET /api/v1/authors?search=&order=&limit=&offset=
type AuthorFilter struct {
	Search string `form:"search"` // case-insensitive substring of name
	Order  string `form:"order"`  // asc, desc (by id)
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (a Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func ToResponses(authors []Author) []AuthorResponse {
	out := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		out[i] = *a.ToResponse()
	}
	return out
}
