package authfetch

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-game-portal/token"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every request, including the refresh call.
const DefaultTimeout = 15 * time.Second

type Option func(*Client)

// WithBaseURL sets the API root that request paths are appended to, e.g. http://localhost:8080/api.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRefresher replaces the default coalescing HTTP refresher.
func WithRefresher(r token.Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}
