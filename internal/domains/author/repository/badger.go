package repository

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"blog-backend/internal/domains/author"
	"blog-backend/internal/infrastructure/kvstore"
	"blog-backend/internal/shared"
)

const (
	authorIDPrefix   = "author:id:"
	authorNamePrefix = "author:name:"
	authorSeqKey     = "seq:author"
)

// BadgerRepository implements author.Repository on an embedded badger store.
// author:id:<id> holds the JSON record, author:name:<name> the owning id.
type BadgerRepository struct {
	db  *badger.DB
	seq *kvstore.Sequence
}

// NewBadgerRepository returns a repository that must be closed before db.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db, seq: kvstore.NewSequence(db, authorSeqKey)}
}

func nameKey(name string) []byte {
	return []byte(authorNamePrefix + name)
}

func encodeID(id int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

func getAuthor(txn *badger.Txn, id int64) (*author.Author, error) {
	var a author.Author
	err := kvstore.GetJSON(txn, kvstore.IDKey(authorIDPrefix, id), &a)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, author.ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *BadgerRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	// Ids come from a leased sequence so only writers of the same name contend.
	taken, err := r.ExistsByName(ctx, a.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, author.ErrDuplicateName
	}

	id, err := r.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	var created author.Author
	err = kvstore.Update(r.db, func(txn *badger.Txn) error {
		taken, err := kvstore.Exists(txn, nameKey(a.Name))
		if err != nil {
			return err
		}
		if taken {
			return author.ErrDuplicateName
		}

		now := time.Now().UTC()
		created = author.Author{
			ID:          id,
			Name:        a.Name,
			PhoneNumber: a.PhoneNumber,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := kvstore.SetJSON(txn, kvstore.IDKey(authorIDPrefix, id), created); err != nil {
			return err
		}
		return txn.Set(nameKey(created.Name), encodeID(id))
	})
	if err != nil {
		if errors.Is(err, author.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return &created, nil
}

func (r *BadgerRepository) GetByID(_ context.Context, id int64) (*author.Author, error) {
	var a *author.Author
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		a, err = getAuthor(txn, id)
		return err
	})
	if err != nil {
		if errors.Is(err, author.ErrAuthorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return a, nil
}

func (r *BadgerRepository) List(_ context.Context, filter author.AuthorFilter) ([]author.Author, int64, error) {
	authors := []author.Author{}
	var total int64
	search := strings.ToLower(filter.Search)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(authorIDPrefix)
		seek := prefix
		if shared.ParseSortOrder(filter.Order) == shared.OrderDesc {
			opts.Reverse = true
			seek = append([]byte(authorIDPrefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		}

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var a author.Author
			if err := it.Item().Value(func(val []byte) error {
				return kvstore.DecodeJSON(val, &a)
			}); err != nil {
				return err
			}

			if search != "" && !strings.Contains(strings.ToLower(a.Name), search) {
				continue
			}

			if total >= int64(filter.Offset) && len(authors) < filter.Limit {
				authors = append(authors, a)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}

	return authors, total, nil
}

func (r *BadgerRepository) Update(_ context.Context, id int64, fn author.UpdateFunc) (*author.Author, error) {
	var updated author.Author

	err := kvstore.Update(r.db, func(txn *badger.Txn) error {
		current, err := getAuthor(txn, id)
		if err != nil {
			return err
		}

		next, err := fn(*current)
		if err != nil {
			return err
		}

		if next.Name != current.Name {
			taken, err := kvstore.Exists(txn, nameKey(next.Name))
			if err != nil {
				return err
			}
			if taken {
				return author.ErrDuplicateName
			}
			if err := txn.Delete(nameKey(current.Name)); err != nil {
				return err
			}
			if err := txn.Set(nameKey(next.Name), encodeID(id)); err != nil {
				return err
			}
		}

		updated = *current
		updated.Name = next.Name
		updated.PhoneNumber = next.PhoneNumber
		updated.UpdatedAt = time.Now().UTC()

		return kvstore.SetJSON(txn, kvstore.IDKey(authorIDPrefix, id), updated)
	})
	if err != nil {
		if errors.Is(err, author.ErrAuthorNotFound) || errors.Is(err, author.ErrDuplicateName) ||
			errors.Is(err, shared.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	return &updated, nil
}

func (r *BadgerRepository) Delete(_ context.Context, id int64) error {
	err := kvstore.Update(r.db, func(txn *badger.Txn) error {
		current, err := getAuthor(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(nameKey(current.Name)); err != nil {
			return err
		}
		return txn.Delete(kvstore.IDKey(authorIDPrefix, id))
	})
	if err != nil {
		if errors.Is(err, author.ErrAuthorNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete author: %w", err)
	}
	return nil
}

func (r *BadgerRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		exists, err = kvstore.Exists(txn, nameKey(name))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check author name: %w", err)
	}
	return exists, nil
}

// Close releases the id lease.
func (r *BadgerRepository) Close() error {
	return r.seq.Release()
}
