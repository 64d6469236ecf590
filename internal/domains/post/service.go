package post

import (
	"context"
)

// Service defines business logic operations for Post domain
type Service interface {
	// Create validates title, content, category and summary in that order.
	// Errors: *shared.FieldError
	Create(ctx context.Context, req *CreatePostRequest) (*Post, error)

	GetByID(ctx context.Context, id int64) (*Post, error)

	List(ctx context.Context, filter PostFilter) ([]Post, int64, error)

	// Update validates only the supplied fields.
	Update(ctx context.Context, id int64, req *UpdatePostRequest) (*Post, error)

	Delete(ctx context.Context, id int64) error
}
