package boltstore_test

import (
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-game-portal/session"
	"github.com/jrsteele09/go-game-portal/session/boltstore"
	"github.com/jrsteele09/go-game-portal/session/storetest"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func openStore(t *testing.T, path string) *boltstore.Store {
	t.Helper()
	st, err := boltstore.Open(path, "")
	require.NoError(t, err)
	return st
}

func TestStore(t *testing.T) {
	storetest.Run(t,
		func(t *testing.T) session.Store {
			st := openStore(t, filepath.Join(t.TempDir(), "session.db"))
			t.Cleanup(func() { _ = st.Close() })
			return st
		},
		func(t *testing.T, s session.Store, raw []byte) {
			require.NoError(t, s.(*boltstore.Store).PutRaw(raw))
		},
	)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	st := openStore(t, path)
	_, err := st.Merge(session.Session{"access_token": "A", "refresh_token": "R", "auth_id": 42.0})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st = openStore(t, path)
	defer st.Close()

	s, ok := st.Load()
	require.True(t, ok)
	require.Equal(t, "A", s.AccessToken())
	require.Equal(t, "R", s.RefreshToken())
	id, ok := s.AuthID()
	require.True(t, ok)
	require.Equal(t, int64(42), id)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "session.db"), 0o600, nil)
	require.NoError(t, err)
	defer db.Close()

	alice := boltstore.New(db, "alice")
	bob := boltstore.New(db, "bob")

	require.NoError(t, alice.Save(session.Session{"username": "alice"}))
	_, ok := bob.Load()
	require.False(t, ok)

	require.NoError(t, bob.Save(session.Session{"username": "bob"}))
	require.NoError(t, alice.Clear())

	s, ok := bob.Load()
	require.True(t, ok)
	require.Equal(t, "bob", s.Username())
}
