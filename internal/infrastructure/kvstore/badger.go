package kvstore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// MaxConflictRetries bounds how often Update re-runs a transaction that lost an optimistic conflict.
	MaxConflictRetries = 10

	conflictBackoff   = 2 * time.Millisecond
	sequenceBandwidth = 100
)

// Config selects between an on-disk and an in-memory badger instance.
type Config struct {
	Dir      string
	InMemory bool
}

// Open opens badger with its internal logging routed through zerolog.
func Open(cfg Config) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithLogger(badgerLogger{log.Logger.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	log.Info().Str("dir", cfg.Dir).Bool("in_memory", cfg.InMemory).Msg("[BADGER] Store opened")
	return db, nil
}

// Update runs fn in a read-write transaction, retrying on badger.ErrConflict.
func Update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < MaxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		log.Debug().Int("attempt", attempt+1).Msg("[BADGER] Transaction conflict, retrying")
		time.Sleep(time.Duration(attempt+1)*conflictBackoff + time.Duration(rand.Int63n(int64(conflictBackoff))))
	}
	return err
}

// Sequence allocates ids from a badger lease, outside any caller transaction,
// so concurrent inserts of distinct records never conflict on a counter key.
// Ids start at 1. The lease is acquired on first use.
type Sequence struct {
	db  *badger.DB
	key []byte

	mu  sync.Mutex
	seq *badger.Sequence
}

func NewSequence(db *badger.DB, key string) *Sequence {
	return &Sequence{db: db, key: []byte(key)}
}

func (s *Sequence) Next() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq == nil {
		seq, err := s.db.GetSequence(s.key, sequenceBandwidth)
		if err != nil {
			return 0, fmt.Errorf("lease sequence %q: %w", s.key, err)
		}
		s.seq = seq
	}

	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next %q: %w", s.key, err)
	}
	return int64(n) + 1, nil
}

// Release hands the unused part of the lease back. It must run before the db is closed.
func (s *Sequence) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq == nil {
		return nil
	}
	err := s.seq.Release()
	s.seq = nil
	return err
}

// IDKey builds a key whose byte order matches numeric id order.
func IDKey(prefix string, id int64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(id))
	return key
}

func GetJSON(txn *badger.Txn, key []byte, dest interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return DecodeJSON(val, dest)
	})
}

// DecodeJSON unmarshals a stored value; val is only valid inside the transaction.
func DecodeJSON(val []byte, dest interface{}) error {
	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

func SetJSON(txn *badger.Txn, key []byte, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}
	return txn.Set(key, data)
}

// Exists reports whether key is present.
func Exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type badgerLogger struct {
	zl zerolog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.zl.Error().Msgf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.zl.Warn().Msgf(f, v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.zl.Debug().Msgf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.zl.Trace().Msgf(f, v...) }
