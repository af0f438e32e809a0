package authfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/jrsteele09/go-game-portal/session"
	"github.com/jrsteele09/go-game-portal/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Client issues requests against the portal API on behalf of the session held in a Store.
type Client struct {
	store     session.Store
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	refresher token.Refresher
	logger    zerolog.Logger
}

// New returns a Client. Without WithRefresher, refreshes go to <base>/refresh and concurrent
// refreshes of the same token are coalesced.
func New(store session.Store, opts ...Option) *Client {
	c := &Client{
		store:   store,
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.refresher == nil {
		hr := token.NewHTTPRefresher(c.baseURL, c.http)
		hr.Logger = &c.logger
		c.refresher = token.NewCoalescing(timeoutRefresher{next: hr, timeout: c.timeout})
	}
	return c
}

// Store is the credential store this client reads and updates.
func (c *Client) Store() session.Store {
	return c.store
}

// Do performs an authenticated request. A 401 is recovered at most once by refreshing the
// token pair; only access_token and refresh_token are written back to the store.
//
// Errors: errors.ErrUnauthenticated when there is no usable session or the 401 could not be
// recovered, *errors.BackendError for any other non-2xx (the Response is returned with it),
// *errors.TransportError when no response was obtained.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	s, ok := c.store.Load()
	if !ok || s.AccessToken() == "" {
		return nil, fmt.Errorf("[authfetch Do] %s %s: %w", method, path, errors.ErrUnauthenticated)
	}

	payload, err := encode(body)
	if err != nil {
		return nil, fmt.Errorf("[authfetch Do] %w", err)
	}

	resp, err := c.send(ctx, method, path, payload, s.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return finish(resp)
	}

	accessToken, err := c.renew(ctx, s, path)
	if err != nil {
		return nil, fmt.Errorf("[authfetch Do] %s %s: %w", method, path, err)
	}

	retry, err := c.send(ctx, method, path, payload, accessToken)
	if err != nil {
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("[authfetch Do] %s %s: 401 after refresh: %w", method, path, errors.ErrUnauthenticated)
	}
	return finish(retry)
}

// renew returns the access token for the single retry after a 401 sent with sent's access
// token. When another caller rotated the tokens in the meantime the stored access token is
// reused; the spent refresh token is never presented again.
func (c *Client) renew(ctx context.Context, sent session.Session, path string) (string, error) {
	current, ok := c.store.Load()
	if !ok {
		return "", errors.ErrUnauthenticated
	}
	if at := current.AccessToken(); at != "" && at != sent.AccessToken() {
		c.logger.Debug().Str("path", path).Msg("tokens already refreshed, retrying with stored access token")
		return at, nil
	}

	refreshToken := current.RefreshToken()
	if refreshToken == "" {
		return "", fmt.Errorf("401 without refresh token: %w", errors.ErrUnauthenticated)
	}
	tok, err := c.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("token refresh failed")
		return "", fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	if err := c.storeTokens(tok); err != nil {
		return "", fmt.Errorf("persist refreshed tokens: %w", err)
	}
	return tok.AccessToken, nil
}

// Send performs an unauthenticated request and returns the response whatever its status.
// Only transport failures are errors.
func (c *Client) Send(ctx context.Context, method, path string, body any) (*Response, error) {
	payload, err := encode(body)
	if err != nil {
		return nil, fmt.Errorf("[authfetch Send] %w", err)
	}
	return c.send(ctx, method, path, payload, "")
}

func (c *Client) storeTokens(tok *oauth2.Token) error {
	partial := session.Session{session.KeyAccessToken: tok.AccessToken}
	if tok.RefreshToken != "" {
		partial[session.KeyRefreshToken] = tok.RefreshToken
	}
	_, err := c.store.Merge(partial)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.url(path)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &errors.TransportError{Op: method, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Msg("request failed")
		return nil, &errors.TransportError{Op: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Msg("read response failed")
		return nil, &errors.TransportError{Op: "read", URL: url, Err: err}
	}

	c.logger.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Msg("request")
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func finish(resp *Response) (*Response, error) {
	if resp.OK() {
		return resp, nil
	}
	return resp, &errors.BackendError{StatusCode: resp.StatusCode, Message: resp.Message(), Body: resp.Body}
}

func encode(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		return payload, nil
	}
}

type timeoutRefresher struct {
	next    token.Refresher
	timeout time.Duration
}

func (t timeoutRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.next.Refresh(ctx, refreshToken)
}
