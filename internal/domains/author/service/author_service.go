package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/author"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/utils"
)

// authorService implements author.Service
type authorService struct {
	repo author.Repository
}

// NewAuthorService creates a new author service instance
func NewAuthorService(repo author.Repository) author.Service {
	return &authorService{
		repo: repo,
	}
}

func (s *authorService) Create(ctx context.Context, req *author.CreateAuthorRequest) (*author.Author, error) {
	// ═══════════════════════════════════════════════════════════
	// STEP 1: VALIDATE (name first, then phone number)
	// ═══════════════════════════════════════════════════════════

	candidate, err := author.NewAuthor(ctx, req.Name, req.PhoneNumber, s.repo.ExistsByName)
	if err != nil {
		return nil, err
	}

	// ═══════════════════════════════════════════════════════════
	// STEP 2: PERSIST
	// ═══════════════════════════════════════════════════════════

	// The store re-checks the name, so a concurrent insert of the
	// same name still surfaces as a validation failure.
	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return nil, asNameError(err)
	}

	log.Info().Int64("author_id", created.ID).Str("name", created.Name).Msg("author created")
	return created, nil
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	if id <= 0 {
		return nil, author.ErrAuthorNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) List(ctx context.Context, filter author.AuthorFilter) ([]author.Author, int64, error) {
	filter.Limit, filter.Offset = utils.NormalizePagination(filter.Limit, filter.Offset)
	filter.Order = string(shared.ParseSortOrder(filter.Order))

	return s.repo.List(ctx, filter)
}

// Update implements PATCH semantics: absent fields keep their stored value.
// The request is applied to the copy the store reads inside its write transaction.
func (s *authorService) Update(ctx context.Context, id int64, req *author.UpdateAuthorRequest) (*author.Author, error) {
	if req.IsEmpty() {
		return s.GetByID(ctx, id)
	}
	if id <= 0 {
		return nil, author.ErrAuthorNotFound
	}

	updated, err := s.repo.Update(ctx, id, func(current author.Author) (*author.Author, error) {
		return req.Apply(ctx, current, s.repo.ExistsByName)
	})
	if err != nil {
		return nil, asNameError(err)
	}

	log.Info().Int64("author_id", updated.ID).Msg("author updated")
	return updated, nil
}

func (s *authorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return author.ErrAuthorNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("author_id", id).Msg("author deleted")
	return nil
}

func asNameError(err error) error {
	if errors.Is(err, author.ErrDuplicateName) {
		return shared.NewFieldError("name", author.ErrDuplicateName)
	}
	return err
}
