package backendfake

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const refreshTokenLength = 32

// tokenIssuer signs HS256 access tokens and keeps one rotating refresh token per user.
type tokenIssuer struct {
	key       []byte
	accessTTL time.Duration

	mu         sync.Mutex
	generation int64
	refresh    map[string]int64 // refresh token -> auth id
	byUser     map[int64]string
}

func newTokenIssuer(key []byte, accessTTL time.Duration) *tokenIssuer {
	return &tokenIssuer{
		key:       key,
		accessTTL: accessTTL,
		refresh:   map[string]int64{},
		byUser:    map[int64]string{},
	}
}

func (ti *tokenIssuer) issue(u *User) (access, refresh string, err error) {
	ti.mu.Lock()
	gen := ti.generation
	ti.mu.Unlock()

	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":      strconv.FormatInt(u.AuthID, 10),
		"username": u.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(ti.accessTTL).Unix(),
		"jti":      uuid.New().String(),
		"gen":      gen,
	}
	access, err = jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(ti.key)
	if err != nil {
		return "", "", fmt.Errorf("[tokenIssuer issue] sign: %w", err)
	}

	refresh, err = ti.newRefreshToken(u.AuthID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// newRefreshToken replaces any refresh token the user already holds.
func (ti *tokenIssuer) newRefreshToken(authID int64) (string, error) {
	b := make([]byte, refreshTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("[tokenIssuer newRefreshToken] %w", err)
	}
	tok := hex.EncodeToString(b)

	ti.mu.Lock()
	defer ti.mu.Unlock()
	if old, ok := ti.byUser[authID]; ok {
		delete(ti.refresh, old)
	}
	ti.refresh[tok] = authID
	ti.byUser[authID] = tok
	return tok, nil
}

// redeem consumes a refresh token. Each token works once.
func (ti *tokenIssuer) redeem(tok string) (int64, bool) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	id, ok := ti.refresh[tok]
	if !ok {
		return 0, false
	}
	delete(ti.refresh, tok)
	delete(ti.byUser, id)
	return id, true
}

func (ti *tokenIssuer) revokeUser(authID int64) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	if tok, ok := ti.byUser[authID]; ok {
		delete(ti.refresh, tok)
		delete(ti.byUser, authID)
	}
}

// expireAll invalidates every access token issued so far. Refresh tokens stay valid.
func (ti *tokenIssuer) expireAll() {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.generation++
}

// verify returns the auth id of a valid access token.
func (ti *tokenIssuer) verify(access string) (int64, bool) {
	parsed, err := jwtlib.Parse(access, func(t *jwtlib.Token) (any, error) {
		return ti.key, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil || !parsed.Valid {
		return 0, false
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return 0, false
	}

	gen, _ := claims["gen"].(float64)
	ti.mu.Lock()
	current := ti.generation
	ti.mu.Unlock()
	if int64(gen) < current {
		return 0, false
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	return id, err == nil
}
