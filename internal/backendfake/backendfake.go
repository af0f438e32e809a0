// Package backendfake is an in-process stand-in for the game backend. It speaks the same
// JSON routes (/auth/*, /user/*, /pay/*, /partner/*, /ai/*) so the proxy, the client and
// the CLI can be exercised end to end in tests.
package backendfake

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// DefaultOTP is accepted for login challenges and password resets unless WithOTP is used.
const DefaultOTP = "000000"

var errUserExists = errors.New("username already exists")

type Backend struct {
	users  *userRepo
	tokens *tokenIssuer
	otp    string
	// wrapLongs encodes profile counters as {low, high, unsigned} objects.
	wrapLongs bool

	mu         sync.Mutex
	challenges map[string]int64  // login sessionId -> auth id
	resets     map[string]string // username -> OTP
	calls      map[string]int

	router chi.Router
	server *httptest.Server
}

type Option func(*Backend)

func WithOTP(otp string) Option {
	return func(b *Backend) { b.otp = otp }
}

func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) { b.tokens.accessTTL = ttl }
}

// WithPlainNumbers encodes profile counters as plain JSON numbers.
func WithPlainNumbers() Option {
	return func(b *Backend) { b.wrapLongs = false }
}

// WithUser seeds an account. It panics if the password cannot be hashed.
func WithUser(username, password, email string) Option {
	return func(b *Backend) {
		if _, err := b.users.add(username, username, email, password); err != nil {
			panic(err)
		}
	}
}

// New returns an unstarted backend. Use Start or ServeHTTP.
func New(opts ...Option) *Backend {
	b := &Backend{
		users:      newUserRepo(),
		tokens:     newTokenIssuer([]byte("backendfake-signing-key"), 15*time.Minute),
		otp:        DefaultOTP,
		wrapLongs:  true,
		challenges: map[string]int64{},
		resets:     map[string]string{},
		calls:      map[string]int{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.router = b.routes()
	return b
}

// Start serves the backend on a loopback httptest server.
func (b *Backend) Start() *Backend {
	b.server = httptest.NewServer(b)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) Close() {
	if b.server != nil {
		b.server.Close()
	}
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls[r.Method+" "+r.URL.Path]++
	b.mu.Unlock()
	b.router.ServeHTTP(w, r)
}

// Calls reports how many requests hit "METHOD /path".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// TotalCalls reports every request served.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// ExpireAccessTokens makes every access token issued so far answer 401, as if it had expired.
func (b *Backend) ExpireAccessTokens() {
	b.tokens.expireAll()
}

// User returns a seeded or registered account.
func (b *Backend) User(username string) (*User, bool) {
	return b.users.get(username)
}

func (b *Backend) routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", b.login())
		r.Post("/verify-otp", b.verifyOTP())
		r.Post("/refresh", b.refresh())
		r.Post("/register", b.register())
		r.Post("/request-reset-password", b.requestReset())
		r.Post("/reset-password", b.resetPassword())
		r.With(b.requireBearer).Patch("/change-password", b.changePassword())
	})

	r.Get("/user/top10-vang", b.top10Gold())

	r.Group(func(r chi.Router) {
		r.Use(b.requireBearer)
		r.Get("/user/profile/{authId}", b.profile())
		r.Get("/pay/pay", b.pay())
		r.Get("/pay/qr", b.qr())
		r.Get("/partner/all-account-sell", b.accountsForSale())
		r.Get("/partner/account-sell/{id}", b.accountForSale())
		r.Post("/ai/ask", b.ask())
	})

	return r
}
