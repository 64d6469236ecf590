package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/author"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/database"
)

const (
	authorCacheKeyPrefix = "author:"

	uniqueViolation    = "23505"
	nameConstraintName = "authors_name_key"

	authorColumns = "id, name, phone_number, created_at, updated_at"
)

// postgresRepository implements author.Repository with a redis read-through cache on GetByID.
type postgresRepository struct {
	pool     *pgxpool.Pool
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache, cacheTTL time.Duration) author.Repository {
	return &postgresRepository{
		pool:     pool,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// lockName serializes writers of the same name until the transaction ends.
func lockName(ctx context.Context, tx pgx.Tx, name string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, name); err != nil {
		return fmt.Errorf("failed to lock author name: %w", err)
	}
	return nil
}

func nameTaken(ctx context.Context, q pgx.Tx, name string, excludeID int64) (bool, error) {
	var taken bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM authors WHERE name = $1 AND id <> $2)`,
		name, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check author name: %w", err)
	}
	return taken, nil
}

func scanAuthor(row pgx.Row) (*author.Author, error) {
	var a author.Author
	if err := row.Scan(&a.ID, &a.Name, &a.PhoneNumber, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == nameConstraintName {
		return author.ErrDuplicateName
	}
	return err
}

// Create checks and inserts under one advisory lock so concurrent requests
// for the same name cannot both pass.
func (r *postgresRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	created, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*author.Author, error) {
		if err := lockName(ctx, tx, a.Name); err != nil {
			return nil, err
		}

		taken, err := nameTaken(ctx, tx, a.Name, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, author.ErrDuplicateName
		}

		return scanAuthor(tx.QueryRow(ctx, `
			INSERT INTO authors (name, phone_number)
			VALUES ($1, $2)
			RETURNING `+authorColumns,
			a.Name, a.PhoneNumber,
		))
	})
	if err != nil {
		if err = mapWriteError(err); errors.Is(err, author.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	cacheKey := authorCacheKeyPrefix + strconv.FormatInt(id, 10)

	var cached author.Author
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	a, err := scanAuthor(r.pool.QueryRow(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, a, r.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache author")
	}

	return a, nil
}

func (r *postgresRepository) List(ctx context.Context, filter author.AuthorFilter) ([]author.Author, int64, error) {
	var clauses []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+utils.EscapeLike(filter.Search)+"%")
		clauses = append(clauses, "name ILIKE "+utils.Placeholder(len(args)))
	}
	where := utils.WhereClause(clauses)

	order := "DESC"
	if shared.ParseSortOrder(filter.Order) == shared.OrderAsc {
		order = "ASC"
	}

	query := `SELECT ` + authorColumns + ` FROM authors` + where +
		` ORDER BY id ` + order +
		` LIMIT ` + utils.Placeholder(len(args)+1) + ` OFFSET ` + utils.Placeholder(len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	authors := []author.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating authors: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	return authors, total, nil
}

// Update locks the row, so concurrent PATCHes of one author apply in turn
// instead of overwriting each other's fields.
func (r *postgresRepository) Update(ctx context.Context, id int64, fn author.UpdateFunc) (*author.Author, error) {
	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*author.Author, error) {
		current, err := scanAuthor(tx.QueryRow(ctx,
			`SELECT `+authorColumns+` FROM authors WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return nil, err
		}

		next, err := fn(*current)
		if err != nil {
			return nil, err
		}

		if next.Name != current.Name {
			if err := lockName(ctx, tx, next.Name); err != nil {
				return nil, err
			}

			taken, err := nameTaken(ctx, tx, next.Name, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, author.ErrDuplicateName
			}
		}

		return scanAuthor(tx.QueryRow(ctx, `
			UPDATE authors
			SET name = $1, phone_number = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING `+authorColumns,
			next.Name, next.PhoneNumber, id,
		))
	})
	if err != nil {
		switch err = mapWriteError(err); {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, author.ErrAuthorNotFound
		case errors.Is(err, author.ErrDuplicateName), errors.Is(err, shared.ErrValidation):
			return nil, err
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.invalidate(ctx, id)
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return author.ErrAuthorNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author name: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, authorCacheKeyPrefix+strconv.FormatInt(id, 10)); err != nil {
		log.Warn().Err(err).Int64("author_id", id).Msg("failed to invalidate author cache")
	}
}
