package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Expiry reads the exp claim of a JWT access token without verifying its signature.
// The client never holds the signing key; the value is only a hint for display and
// for oauth2.Token.Expiry. Opaque tokens report false.
func Expiry(accessToken string) (time.Time, bool) {
	if accessToken == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwtlib.NewParser().ParseUnverified(accessToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether a JWT access token is past its exp claim. Tokens without a
// readable exp are never considered expired; the backend decides with a 401.
func Expired(accessToken string) bool {
	exp, ok := Expiry(accessToken)
	return ok && !NowTimeFunc().Before(exp)
}
