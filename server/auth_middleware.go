package server

import (
	"net/http"
	"strings"
)

// RequireBearer rejects requests without an Authorization header before any backend call.
// The header is not validated here; the backend owns token verification.
func (s *Server) RequireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
			return
		}
		next(w, r)
	}
}
