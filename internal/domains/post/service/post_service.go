package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/utils"
)

type postService struct {
	repo post.Repository
}

func NewPostService(repo post.Repository) post.Service {
	return &postService{
		repo: repo,
	}
}

func (s *postService) Create(ctx context.Context, req *post.CreatePostRequest) (*post.Post, error) {
	candidate, err := post.NewPost(req.Title, req.Content, req.Category, req.Summary)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("post_id", created.ID).Str("category", created.Category).Msg("post created")
	return created, nil
}

func (s *postService) GetByID(ctx context.Context, id int64) (*post.Post, error) {
	if id <= 0 {
		return nil, post.ErrPostNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *postService) List(ctx context.Context, filter post.PostFilter) ([]post.Post, int64, error) {
	filter.Limit, filter.Offset = utils.NormalizePagination(filter.Limit, filter.Offset)
	filter.Order = string(shared.ParseSortOrder(filter.Order))

	return s.repo.List(ctx, filter)
}

// Update applies the request to the copy the store reads inside its write
// transaction, so fields changed by a concurrent PATCH are kept.
func (s *postService) Update(ctx context.Context, id int64, req *post.UpdatePostRequest) (*post.Post, error) {
	if req.IsEmpty() {
		return s.GetByID(ctx, id)
	}
	if id <= 0 {
		return nil, post.ErrPostNotFound
	}

	updated, err := s.repo.Update(ctx, id, req.Apply)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("post_id", updated.ID).Msg("post updated")
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return post.ErrPostNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("post_id", id).Msg("post deleted")
	return nil
}
