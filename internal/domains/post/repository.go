package post

import (
	"context"
)

// UpdateFunc derives the new state of a post from the copy read inside the write transaction.
type UpdateFunc func(current Post) (*Post, error)

// Repository is implemented by the PostgreSQL and Badger stores.
type Repository interface {
	// Create inserts a validated post and returns it with id and timestamps.
	Create(ctx context.Context, p *Post) (*Post, error)

	// Errors: ErrPostNotFound
	GetByID(ctx context.Context, id int64) (*Post, error)

	List(ctx context.Context, filter PostFilter) ([]Post, int64, error)

	// Update reads the post, applies fn and writes the result in one
	// transaction. Errors returned by fn are passed through unchanged.
	// Errors: ErrPostNotFound
	Update(ctx context.Context, id int64, fn UpdateFunc) (*Post, error)

	// Errors: ErrPostNotFound
	Delete(ctx context.Context, id int64) error
}
