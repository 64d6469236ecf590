package author

import (
	"context"
)

// Service defines business logic operations for Author domain
type Service interface {
	// Create validates the request (name, then phone number) and stores the author.
	// Errors: *shared.FieldError (ErrDuplicateName for a taken name)
	Create(ctx context.Context, req *CreateAuthorRequest) (*Author, error)

	GetByID(ctx context.Context, id int64) (*Author, error)

	// List clamps pagination to [1, 100] and defaults to newest first.
	List(ctx context.Context, filter AuthorFilter) ([]Author, int64, error)

	// Update validates only the supplied fields.
	Update(ctx context.Context, id int64, req *UpdateAuthorRequest) (*Author, error)

	Delete(ctx context.Context, id int64) error
}
