// Package storetest holds the behaviour every session.Store implementation must share.
package storetest

import (
	"sync"
	"testing"

	"github.com/jrsteele09/go-game-portal/session"
	"github.com/stretchr/testify/require"
)

// Run exercises store. newStore must return an empty store; corrupt writes raw bytes
// under the session key of the store it is given.
func Run(t *testing.T, newStore func(t *testing.T) session.Store, corrupt func(t *testing.T, s session.Store, raw []byte)) {
	t.Run("empty store loads as absent", func(t *testing.T) {
		st := newStore(t)
		s, ok := st.Load()
		require.False(t, ok)
		require.Nil(t, s)
	})

	t.Run("save replaces previous value", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Save(session.Session{"sessionId": "s1", "username": "alice"}))
		require.NoError(t, st.Save(session.Session{"sessionId": "s2"}))

		s, ok := st.Load()
		require.True(t, ok)
		require.Equal(t, session.Session{"sessionId": "s2"}, s)
	})

	t.Run("merge keeps fields not overwritten", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Save(session.Session{"sessionId": "s1", "auth_id": 7.0, "access_token": "old"}))

		merged, err := st.Merge(session.Session{"access_token": "A", "refresh_token": "R"})
		require.NoError(t, err)

		want := session.Session{"sessionId": "s1", "auth_id": 7.0, "access_token": "A", "refresh_token": "R"}
		require.Equal(t, want, merged)
		loaded, ok := st.Load()
		require.True(t, ok)
		require.Equal(t, want, loaded)
	})

	t.Run("merge onto absent session starts empty", func(t *testing.T) {
		st := newStore(t)
		merged, err := st.Merge(session.Session{"access_token": "A"})
		require.NoError(t, err)
		require.Equal(t, session.Session{"access_token": "A"}, merged)
	})

	t.Run("corrupt content is absent and an empty merge base", func(t *testing.T) {
		st := newStore(t)
		corrupt(t, st, []byte("{not json"))
		_, ok := st.Load()
		require.False(t, ok)

		merged, err := st.Merge(session.Session{"access_token": "A"})
		require.NoError(t, err)
		require.Equal(t, session.Session{"access_token": "A"}, merged)
	})

	t.Run("non-object content is absent", func(t *testing.T) {
		st := newStore(t)
		corrupt(t, st, []byte(`["a"]`))
		_, ok := st.Load()
		require.False(t, ok)
	})

	t.Run("clear removes the session", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Save(session.Session{"access_token": "A"}))
		require.NoError(t, st.Clear())
		_, ok := st.Load()
		require.False(t, ok)
		require.NoError(t, st.Clear())
	})

	t.Run("concurrent merges do not lose updates", func(t *testing.T) {
		st := newStore(t)
		keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

		errs := make(chan error, len(keys))
		var wg sync.WaitGroup
		for _, k := range keys {
			wg.Add(1)
			go func(k string) {
				defer wg.Done()
				_, err := st.Merge(session.Session{k: k})
				errs <- err
			}(k)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		s, ok := st.Load()
		require.True(t, ok)
		require.Len(t, s, len(keys))
	})
}
