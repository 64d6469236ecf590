package kvstore

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSequenceStartsAtOne(t *testing.T) {
	db := openTestDB(t)
	seq := NewSequence(db, "seq:test")

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := seq.Next()
		require.NoError(t, err)
		ids = append(ids, id)
	}

	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.NoError(t, seq.Release())
	assert.NoError(t, seq.Release())
}

func TestSequenceContinuesAfterRelease(t *testing.T) {
	db := openTestDB(t)
	seq := NewSequence(db, "seq:test")

	first, err := seq.Next()
	require.NoError(t, err)
	require.NoError(t, seq.Release())

	second, err := NewSequence(db, "seq:test").Next()
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestSequenceConcurrentNext(t *testing.T) {
	db := openTestDB(t)
	seq := NewSequence(db, "seq:test")
	t.Cleanup(func() { _ = seq.Release() })

	const workers = 200
	ids := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := seq.Next()
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestUpdateRetriesConflicts(t *testing.T) {
	db := openTestDB(t)
	key := []byte("counter")

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, Update(db, func(txn *badger.Txn) error {
				var n int
				if err := GetJSON(txn, key, &n); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
				return SetJSON(txn, key, n+1)
			}))
		}()
	}
	wg.Wait()

	var got int
	require.NoError(t, db.View(func(txn *badger.Txn) error {
		return GetJSON(txn, key, &got)
	}))
	assert.Equal(t, workers, got)
}

func TestIDKeyOrdering(t *testing.T) {
	a := IDKey("post:", 9)
	b := IDKey("post:", 10)
	c := IDKey("post:", 256)

	assert.True(t, bytes.HasPrefix(a, []byte("post:")))
	assert.Equal(t, -1, bytes.Compare(a, b))
	assert.Equal(t, -1, bytes.Compare(b, c))
}

func TestJSONRoundTripAndExists(t *testing.T) {
	db := openTestDB(t)
	key := []byte("thing:1")

	type thing struct {
		Name string `json:"name"`
	}

	require.NoError(t, Update(db, func(txn *badger.Txn) error {
		return SetJSON(txn, key, thing{Name: "lamp"})
	}))

	err := db.View(func(txn *badger.Txn) error {
		ok, err := Exists(txn, key)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = Exists(txn, []byte("thing:2"))
		require.NoError(t, err)
		assert.False(t, ok)

		var got thing
		require.NoError(t, GetJSON(txn, key, &got))
		assert.Equal(t, "lamp", got.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestGetJSONMissingKey(t *testing.T) {
	db := openTestDB(t)

	err := db.View(func(txn *badger.Txn) error {
		var v map[string]string
		return GetJSON(txn, []byte("nope"), &v)
	})

	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}
