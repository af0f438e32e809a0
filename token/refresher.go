package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// RefreshPath is appended to the API base URL.
const RefreshPath = "/refresh"

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*oauth2.Token, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return f(ctx, refreshToken)
}

// HTTPRefresher posts {"refresh_token": ...} to BaseURL + RefreshPath without an Authorization header.
type HTTPRefresher struct {
	BaseURL string
	Client  *http.Client
	Logger  *zerolog.Logger
}

// NewHTTPRefresher returns a refresher against baseURL. A nil client means http.DefaultClient.
func NewHTTPRefresher(baseURL string, client *http.Client) *HTTPRefresher {
	return &HTTPRefresher{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

// Refresh never returns a partial token: every failure wraps errors.ErrRefreshFailed.
func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	logger := r.logger()
	if refreshToken == "" {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] %w: %w", errors.ErrRefreshFailed, errors.ErrInvalidRefreshToken)
	}

	body, err := json.Marshal(apimodel.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] encode: %w", errors.ErrRefreshFailed)
	}

	url := r.BaseURL + RefreshPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] %w: %v", errors.ErrRefreshFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client().Do(req)
	if err != nil {
		logger.Err(err).Str("url", url).Msg("refresh request failed")
		return nil, fmt.Errorf("[HTTPRefresher Refresh] %w: %w", errors.ErrRefreshFailed, &errors.TransportError{Op: "refresh", URL: url, Err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] %w: %w", errors.ErrRefreshFailed, &errors.TransportError{Op: "read", URL: url, Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debug().Int("status", resp.StatusCode).Msg("refresh rejected")
		return nil, fmt.Errorf("[HTTPRefresher Refresh] status %d: %w", resp.StatusCode, errors.ErrRefreshFailed)
	}

	var pair apimodel.TokenResponse
	if err := json.Unmarshal(raw, &pair); err != nil || pair.AccessToken == "" {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] no access_token in response: %w", errors.ErrRefreshFailed)
	}

	expiry, _ := Expiry(pair.AccessToken)
	logger.Debug().Time("expiry", expiry).Bool("rotated", pair.RefreshToken != "").Msg("access token refreshed")
	return pair.OAuth2(expiry), nil
}

func (r *HTTPRefresher) client() *http.Client {
	if r.Client == nil {
		return http.DefaultClient
	}
	return r.Client
}

func (r *HTTPRefresher) logger() *zerolog.Logger {
	if r.Logger == nil {
		return &log.Logger
	}
	return r.Logger
}
