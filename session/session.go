package session

import (
	"encoding/json"
	"maps"
)

// Well-known session fields. Everything else the backend returns is kept verbatim.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyAuthID       = "auth_id"
	KeyUsername     = "username"
	KeySessionID    = "sessionId"
)

// Session is the persisted credential record of the current user.
// It is created from the login response, amended by OTP verification and token
// refresh, and destroyed on logout.
type Session map[string]any

// Store is the sole accessor of the persisted Session.
type Store interface {
	// Load returns the current session. A missing or unparseable value is reported as absent.
	Load() (Session, bool)

	// Save replaces the persisted session.
	Save(s Session) error

	// Merge overlays partial onto the current session (or an empty one) and persists the result.
	// The read-modify-write is atomic with respect to other calls on the same Store.
	Merge(partial Session) (Session, error)

	// Clear removes the persisted session.
	Clear() error
}

func (s Session) str(key string) string {
	v, _ := s[key].(string)
	return v
}

func (s Session) AccessToken() string {
	return s.str(KeyAccessToken)
}

func (s Session) RefreshToken() string {
	return s.str(KeyRefreshToken)
}

// SessionID is the login handle consumed by OTP verification.
func (s Session) SessionID() string {
	return s.str(KeySessionID)
}

func (s Session) Username() string {
	return s.str(KeyUsername)
}

// AuthID returns the numeric account identifier, whichever wire shape it arrived in.
func (s Session) AuthID() (int64, bool) {
	return Int64(s[KeyAuthID])
}

// Authenticated reports whether the session can call protected endpoints.
func (s Session) Authenticated() bool {
	return s.AccessToken() != ""
}

func (s Session) Clone() Session {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// MergeInto overlays partial onto base without mutating either; partial wins on conflict.
func MergeInto(base, partial Session) Session {
	merged := make(Session, len(base)+len(partial))
	maps.Copy(merged, base)
	maps.Copy(merged, partial)
	return merged
}

// Decode parses a stored session. Corrupt content, JSON null and non-object values are absent.
func Decode(raw []byte) (Session, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return nil, false
	}
	return s, true
}

// Encode serialises a session for storage.
func Encode(s Session) ([]byte, error) {
	if s == nil {
		s = Session{}
	}
	return json.Marshal(s)
}
