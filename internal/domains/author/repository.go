package author

import (
	"context"
)

// UpdateFunc derives the new state of an author from the copy read inside the write transaction.
type UpdateFunc func(current Author) (*Author, error)

// Repository is implemented by the PostgreSQL and Badger stores.
type Repository interface {
	// Create inserts a validated author and returns it with id and timestamps.
	// The store re-checks name uniqueness atomically with the insert.
	// Errors: ErrDuplicateName
	Create(ctx context.Context, a *Author) (*Author, error)

	// Errors: ErrAuthorNotFound
	GetByID(ctx context.Context, id int64) (*Author, error)

	// List returns one page plus the total number of matches.
	List(ctx context.Context, filter AuthorFilter) ([]Author, int64, error)

	// Update reads the author, applies fn and persists the resulting name and
	// phone number in one transaction, refreshing updated_at. Errors returned
	// by fn are passed through unchanged.
	// Errors: ErrAuthorNotFound, ErrDuplicateName
	Update(ctx context.Context, id int64, fn UpdateFunc) (*Author, error)

	// Errors: ErrAuthorNotFound
	Delete(ctx context.Context, id int64) error

	// ExistsByName backs the NameLookup used during validation.
	ExistsByName(ctx context.Context, name string) (bool, error)
}
