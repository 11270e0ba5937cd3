package kvstore

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	apperrors "github.com/glowdesk/artist-portal/internal/errors"
)

// Store is a small durable key/value store backed by BadgerDB. The portal
// uses it for the long-lived convenience keys that survive restarts (the
// last seen user id); session tokens never land here.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store in the given directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "[kvstore.Open] badger.Open")
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that lives only for the process lifetime.
// Used in tests and when no data folder is configured.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "[kvstore.OpenInMemory] badger.Open")
	}
	return &Store{db: db}, nil
}

// Get returns the value for key, or apperrors.ErrNotFound if absent.
func (s *Store) Get(key string) (string, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "[kvstore.Get] db.View")
	}
	return string(value), nil
}

func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	return errors.Wrap(err, "[kvstore.Set] db.Update")
}

func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.Wrap(err, "[kvstore.Delete] db.Update")
}

func (s *Store) Close() error {
	return s.db.Close()
}
