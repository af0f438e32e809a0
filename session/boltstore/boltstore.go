// Package boltstore keeps the session in a bbolt file under a single well-known key,
// so it survives process restarts until logout.
package boltstore

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-game-portal/session"
	"go.etcd.io/bbolt"
)

const (
	bucketName = "portal"
	// DefaultKey is the record holding the current session.
	DefaultKey = "currentUser"
)

var _ session.Store = (*Store)(nil)

// Store implements session.Store backed by a BBolt database.
type Store struct {
	db  *bbolt.DB
	key []byte
}

// New returns a Store using the given database and record key. An empty key means DefaultKey.
func New(db *bbolt.DB, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{db: db, key: []byte(key)}
}

// Open opens (or creates) the database at path.
func Open(path, key string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("[boltstore Open] opening %s: %w", path, err)
	}
	return New(db, key), nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load() (session.Session, bool) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		if v := b.Get(s.key); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false
	}
	return session.Decode(raw)
}

func (s *Store) Save(sess session.Session) error {
	raw, err := session.Encode(sess)
	if err != nil {
		return fmt.Errorf("[boltstore Save] encode: %w", err)
	}
	return s.put(raw)
}

func (s *Store) Merge(partial session.Session) (session.Session, error) {
	var merged session.Session
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		base, _ := session.Decode(b.Get(s.key))
		merged = session.MergeInto(base, partial)

		raw, err := session.Encode(merged)
		if err != nil {
			return err
		}
		return b.Put(s.key, raw)
	})
	if err != nil {
		return nil, fmt.Errorf("[boltstore Merge] %w", err)
	}
	return merged, nil
}

func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		return b.Delete(s.key)
	})
	if err != nil {
		return fmt.Errorf("[boltstore Clear] %w", err)
	}
	return nil
}

// PutRaw stores bytes verbatim under the session key.
func (s *Store) PutRaw(raw []byte) error {
	return s.put(raw)
}

func (s *Store) put(raw []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return b.Put(s.key, raw)
	})
	if err != nil {
		return fmt.Errorf("[boltstore put] %w", err)
	}
	return nil
}
