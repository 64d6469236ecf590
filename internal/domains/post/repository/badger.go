package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/infrastructure/kvstore"
	"blog-backend/internal/shared"
)

const (
	postIDPrefix = "post:id:"
	postSeqKey   = "seq:post"
)

// BadgerRepository stores each post as JSON under post:id:<id>.
type BadgerRepository struct {
	db  *badger.DB
	seq *kvstore.Sequence
}

// NewBadgerRepository returns a repository that must be closed before db.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db, seq: kvstore.NewSequence(db, postSeqKey)}
}

func getPost(txn *badger.Txn, id int64) (*post.Post, error) {
	var p post.Post
	err := kvstore.GetJSON(txn, kvstore.IDKey(postIDPrefix, id), &p)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, post.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BadgerRepository) Create(_ context.Context, p *post.Post) (*post.Post, error) {
	id, err := r.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	var created post.Post
	err = kvstore.Update(r.db, func(txn *badger.Txn) error {
		now := time.Now().UTC()
		created = *p
		created.ID = id
		created.CreatedAt = now
		created.UpdatedAt = now

		return kvstore.SetJSON(txn, kvstore.IDKey(postIDPrefix, id), created)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &created, nil
}

func (r *BadgerRepository) GetByID(_ context.Context, id int64) (*post.Post, error) {
	var p *post.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		p, err = getPost(txn, id)
		return err
	})
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return p, nil
}

func (r *BadgerRepository) List(_ context.Context, filter post.PostFilter) ([]post.Post, int64, error) {
	posts := []post.Post{}
	var total int64

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(postIDPrefix)
		seek := prefix
		if shared.ParseSortOrder(filter.Order) == shared.OrderDesc {
			opts.Reverse = true
			seek = append([]byte(postIDPrefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		}

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var p post.Post
			if err := it.Item().Value(func(val []byte) error {
				return kvstore.DecodeJSON(val, &p)
			}); err != nil {
				return err
			}

			if filter.Category != "" && p.Category != filter.Category {
				continue
			}

			if total >= int64(filter.Offset) && len(posts) < filter.Limit {
				posts = append(posts, p)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}

func (r *BadgerRepository) Update(_ context.Context, id int64, fn post.UpdateFunc) (*post.Post, error) {
	var updated post.Post

	err := kvstore.Update(r.db, func(txn *badger.Txn) error {
		current, err := getPost(txn, id)
		if err != nil {
			return err
		}

		next, err := fn(*current)
		if err != nil {
			return err
		}

		updated = *next
		updated.ID = current.ID
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = time.Now().UTC()

		return kvstore.SetJSON(txn, kvstore.IDKey(postIDPrefix, id), updated)
	})
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) || errors.Is(err, shared.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return &updated, nil
}

func (r *BadgerRepository) Delete(_ context.Context, id int64) error {
	err := kvstore.Update(r.db, func(txn *badger.Txn) error {
		if _, err := getPost(txn, id); err != nil {
			return err
		}
		return txn.Delete(kvstore.IDKey(postIDPrefix, id))
	})
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// Close releases the id lease.
func (r *BadgerRepository) Close() error {
	return r.seq.Release()
}
