package authfetch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-game-portal/authfetch"
	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/jrsteele09/go-game-portal/session"
	"github.com/jrsteele09/go-game-portal/session/memstore"
	"github.com/stretchr/testify/require"
)

// fakeAPI counts calls per path. protected decides the /profile response from the bearer header.
type fakeAPI struct {
	protectedCalls atomic.Int32
	refreshCalls   atomic.Int32
	refreshBodies  chan string

	protected func(w http.ResponseWriter, auth string)
	refresh   func(w http.ResponseWriter, refreshToken string)
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{refreshBodies: make(chan string, 16)}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profile/7", func(w http.ResponseWriter, r *http.Request) {
		f.protectedCalls.Add(1)
		f.protected(w, r.Header.Get("Authorization"))
	})
	mux.HandleFunc("POST /api/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.refreshBodies <- body.RefreshToken
		f.refresh(w, body.RefreshToken)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func always401(w http.ResponseWriter, _ string) {
	w.WriteHeader(http.StatusUnauthorized)
}

func TestDo_NoSession(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = always401

	for name, store := range map[string]session.Store{
		"absent":          memstore.New(),
		"no access token": memstore.NewWith(session.Session{"refresh_token": "R"}),
	} {
		t.Run(name, func(t *testing.T) {
			c := authfetch.New(store, authfetch.WithBaseURL(srv.URL+"/api"))
			_, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
			require.ErrorIs(t, err, errors.ErrUnauthenticated)
			require.Zero(t, f.protectedCalls.Load())
		})
	}
}

func TestDo_Success(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = func(w http.ResponseWriter, auth string) {
		require.Equal(t, "Bearer A", auth)
		_, _ = w.Write([]byte(`{"user":{"username":"alice"}}`))
	}

	c := authfetch.New(memstore.NewWith(session.Session{"access_token": "A", "refresh_token": "R"}), authfetch.WithBaseURL(srv.URL+"/api"))
	resp, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
	require.NoError(t, err)
	require.True(t, resp.OK())

	var out struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, resp.JSON(&out))
	require.Equal(t, "alice", out.User.Username)
	require.Zero(t, f.refreshCalls.Load())
}

func TestDo_SingleRetryBound(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = always401
	f.refresh = func(w http.ResponseWriter, _ string) {
		_, _ = w.Write([]byte(`{"access_token":"A2","refresh_token":"R2"}`))
	}

	store := memstore.NewWith(session.Session{"access_token": "A", "refresh_token": "R"})
	c := authfetch.New(store, authfetch.WithBaseURL(srv.URL+"/api"))
	_, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.Equal(t, int32(2), f.protectedCalls.Load())
	require.Equal(t, int32(1), f.refreshCalls.Load())
}

func TestDo_NoRefreshToken(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = always401

	c := authfetch.New(memstore.NewWith(session.Session{"access_token": "A"}), authfetch.WithBaseURL(srv.URL+"/api"))
	_, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.Equal(t, int32(1), f.protectedCalls.Load())
	require.Zero(t, f.refreshCalls.Load())
}

func TestDo_ExpiredTokenRefreshed(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = func(w http.ResponseWriter, auth string) {
		if auth != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"user":{"username":"alice"}}`))
	}
	f.refresh = func(w http.ResponseWriter, rt string) {
		if rt != "R" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"new","refresh_token":"R2"}`))
	}

	store := memstore.NewWith(session.Session{"access_token": "old", "refresh_token": "R", "username": "alice", "auth_id": 7.0})
	c := authfetch.New(store, authfetch.WithBaseURL(srv.URL+"/api"))

	resp, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"user":{"username":"alice"}}`, string(resp.Body))
	require.Equal(t, "R", <-f.refreshBodies)

	s, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, session.Session{"access_token": "new", "refresh_token": "R2", "username": "alice", "auth_id": 7.0}, s)
	require.Equal(t, int32(2), f.protectedCalls.Load())
}

func TestDo_RefreshFails(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = always401
	f.refresh = func(w http.ResponseWriter, _ string) {
		w.WriteHeader(http.StatusBadRequest)
	}

	before := session.Session{"access_token": "old", "refresh_token": "bad"}
	store := memstore.NewWith(before)
	c := authfetch.New(store, authfetch.WithBaseURL(srv.URL+"/api"))

	_, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.False(t, errors.IsTransport(err))
	require.Equal(t, int32(1), f.protectedCalls.Load())
	require.Equal(t, int32(1), f.refreshCalls.Load())

	s, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, before, s)
}

func TestDo_BackendError(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = func(w http.ResponseWriter, _ string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":["not yours","go away"]}`))
	}

	c := authfetch.New(memstore.NewWith(session.Session{"access_token": "A"}), authfetch.WithBaseURL(srv.URL+"/api"))
	resp, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
	be, ok := errors.AsBackend(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, be.StatusCode)
	require.Equal(t, "not yours, go away", be.Message)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDo_Transport(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := authfetch.New(memstore.NewWith(session.Session{"access_token": "A"}), authfetch.WithBaseURL(url))
		_, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
		require.True(t, errors.IsTransport(err))
		require.NotErrorIs(t, err, errors.ErrUnauthenticated)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c := authfetch.New(memstore.NewWith(session.Session{"access_token": "A"}),
			authfetch.WithBaseURL(srv.URL), authfetch.WithTimeout(50*time.Millisecond))
		_, err := c.Do(context.Background(), http.MethodGet, "/slow", nil)
		require.True(t, errors.IsTransport(err))
		require.NotErrorIs(t, err, errors.ErrUnauthenticated)
	})
}

func TestDo_ConcurrentRefreshCoalesced(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.protected = func(w http.ResponseWriter, auth string) {
		if auth != "Bearer A2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}
	var used sync.Map
	f.refresh = func(w http.ResponseWriter, rt string) {
		// Rotating backend: a refresh token is good for one use.
		if _, loaded := used.LoadOrStore(rt, true); loaded {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{"access_token":"A2","refresh_token":"R2"}`))
	}

	store := memstore.NewWith(session.Session{"access_token": "A", "refresh_token": "R"})
	c := authfetch.New(store, authfetch.WithBaseURL(srv.URL+"/api"))

	const n = 4
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), f.refreshCalls.Load())
}

func TestDo_LateUnauthorizedReusesRotatedTokens(t *testing.T) {
	f, srv := newFakeAPI(t)
	var staleCalls atomic.Int32
	f.protected = func(w http.ResponseWriter, auth string) {
		if auth == "Bearer A2" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		// The second request on the old token answers long after the first one refreshed.
		if staleCalls.Add(1) == 2 {
			time.Sleep(150 * time.Millisecond)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}
	var used sync.Map
	f.refresh = func(w http.ResponseWriter, rt string) {
		if _, loaded := used.LoadOrStore(rt, true); loaded || rt != "R" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"A2","refresh_token":"R2"}`))
	}

	store := memstore.NewWith(session.Session{"access_token": "A", "refresh_token": "R"})
	c := authfetch.New(store, authfetch.WithBaseURL(srv.URL+"/api"))

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Do(context.Background(), http.MethodGet, "/profile/7", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), f.refreshCalls.Load())
	s, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, "A2", s.AccessToken())
	require.Equal(t, "R2", s.RefreshToken())
}

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer srv.Close()

	c := authfetch.New(memstore.NewWith(session.Session{"access_token": "A"}), authfetch.WithBaseURL(srv.URL))
	resp, err := c.Send(context.Background(), http.MethodPost, "/login", map[string]string{"username": "alice"})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid credentials", resp.Message())
}
