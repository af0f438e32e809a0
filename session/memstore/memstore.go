package memstore

import (
	"fmt"
	"sync"

	"github.com/jrsteele09/go-game-portal/session"
)

var _ session.Store = (*Store)(nil)

// Store is an in-memory session.Store. The session is kept in its encoded form so
// that Load behaves exactly like a persistent store, corrupt content included.
type Store struct {
	mu  sync.RWMutex
	raw []byte
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{}
}

// NewWith creates a store already holding s
func NewWith(s session.Session) *Store {
	st := New()
	_ = st.Save(s)
	return st
}

func (st *Store) Load() (session.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return session.Decode(st.raw)
}

func (st *Store) Save(s session.Session) error {
	raw, err := session.Encode(s)
	if err != nil {
		return fmt.Errorf("[memstore Save] encode: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.raw = raw
	return nil
}

func (st *Store) Merge(partial session.Session) (session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	base, _ := session.Decode(st.raw)
	merged := session.MergeInto(base, partial)

	raw, err := session.Encode(merged)
	if err != nil {
		return nil, fmt.Errorf("[memstore Merge] encode: %w", err)
	}
	st.raw = raw
	return merged, nil
}

func (st *Store) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.raw = nil
	return nil
}

// SetRaw replaces the stored bytes verbatim
func (st *Store) SetRaw(raw []byte) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.raw = append([]byte(nil), raw...)
}
