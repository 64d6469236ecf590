package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/database"
)

const (
	postCacheKeyPrefix = "post:"

	postColumns = "id, title, content, category, summary, created_at, updated_at"
)

type postgresRepository struct {
	pool     *pgxpool.Pool
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache, cacheTTL time.Duration) post.Repository {
	return &postgresRepository{
		pool:     pool,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func scanPost(row pgx.Row) (*post.Post, error) {
	var p post.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.Summary, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func cacheKey(id int64) string {
	return postCacheKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *postgresRepository) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	created, err := scanPost(r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, content, category, summary)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns,
		p.Title, p.Content, p.Category, p.Summary,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*post.Post, error) {
	key := cacheKey(id)

	var cached post.Post
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	if err := r.cache.Set(ctx, key, p, r.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache post")
	}

	return p, nil
}

func (r *postgresRepository) List(ctx context.Context, filter post.PostFilter) ([]post.Post, int64, error) {
	var clauses []string
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, "category = "+utils.Placeholder(len(args)))
	}
	where := utils.WhereClause(clauses)

	order := "DESC"
	if shared.ParseSortOrder(filter.Order) == shared.OrderAsc {
		order = "ASC"
	}

	query := `SELECT ` + postColumns + ` FROM posts` + where +
		` ORDER BY id ` + order +
		` LIMIT ` + utils.Placeholder(len(args)+1) + ` OFFSET ` + utils.Placeholder(len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []post.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return posts, total, nil
}

// Update reads the row FOR UPDATE and writes it back in the same transaction,
// bypassing the cache, so concurrent PATCHes cannot drop each other's fields.
func (r *postgresRepository) Update(ctx context.Context, id int64, fn post.UpdateFunc) (*post.Post, error) {
	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*post.Post, error) {
		current, err := scanPost(tx.QueryRow(ctx,
			`SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return nil, err
		}

		next, err := fn(*current)
		if err != nil {
			return nil, err
		}

		return scanPost(tx.QueryRow(ctx, `
			UPDATE posts
			SET title = $1, content = $2, category = $3, summary = $4, updated_at = NOW()
			WHERE id = $5
			RETURNING `+postColumns,
			next.Title, next.Content, next.Category, next.Summary, id,
		))
	})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, post.ErrPostNotFound
		case errors.Is(err, shared.ErrValidation):
			return nil, err
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	r.invalidate(ctx, id)
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Int64("post_id", id).Msg("failed to invalidate post cache")
	}
}
