// Package portal holds the typed calls behind the portal pages. Every call except
// Leaderboard needs a logged-in session and surfaces errors.ErrUnauthenticated when the
// caller should send the user back to login.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/jrsteele09/go-game-portal/authfetch"
	"github.com/jrsteele09/go-game-portal/internal/errors"
)

const (
	ProfilePath         = "/profile/"
	PayPath             = "/pay"
	QRPath              = "/qr"
	AccountsForSalePath = "/all-account-sell"
	AccountForSalePath  = "/account-sell/"
	AskPath             = "/ask"
	LeaderboardPath     = "/top10-vang"
)

type Portal struct {
	api *authfetch.Client
}

func New(api *authfetch.Client) *Portal {
	return &Portal{api: api}
}

func (p *Portal) authID() (int64, error) {
	s, ok := p.api.Store().Load()
	if !ok || s.AccessToken() == "" {
		return 0, errors.ErrUnauthenticated
	}
	id, ok := s.AuthID()
	if !ok {
		return 0, fmt.Errorf("no auth_id in session: %w", errors.ErrUnauthenticated)
	}
	return id, nil
}

// Profile fetches the character of the logged-in user.
func (p *Portal) Profile(ctx context.Context) (*apimodel.Profile, error) {
	id, err := p.authID()
	if err != nil {
		return nil, fmt.Errorf("[Portal Profile] %w", err)
	}

	var out apimodel.ProfileResponse
	if err := p.get(ctx, ProfilePath+strconv.FormatInt(id, 10), &out); err != nil {
		return nil, fmt.Errorf("[Portal Profile] %w", err)
	}
	return &out.User, nil
}

// PayInfo returns the user's latest top-up record.
func (p *Portal) PayInfo(ctx context.Context) (*apimodel.PayResponse, error) {
	id, err := p.authID()
	if err != nil {
		return nil, fmt.Errorf("[Portal PayInfo] %w", err)
	}

	var out apimodel.PayResponse
	q := url.Values{"userId": {strconv.FormatInt(id, 10)}}
	if err := p.get(ctx, PayPath+"?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("[Portal PayInfo] %w", err)
	}
	return &out, nil
}

// TopUpQR requests a payment QR code for amount.
func (p *Portal) TopUpQR(ctx context.Context, amount int64) (*apimodel.QRResponse, error) {
	if amount <= 0 {
		return nil, errors.NewValidationError("amount", "must be positive")
	}

	var out apimodel.QRResponse
	q := url.Values{"amount": {strconv.FormatInt(amount, 10)}}
	if err := p.get(ctx, QRPath+"?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("[Portal TopUpQR] %w", err)
	}
	return &out, nil
}

// AccountsForSale lists the marketplace. The backend answers with a bare array or wraps
// it in "accounts" or "data".
func (p *Portal) AccountsForSale(ctx context.Context) ([]apimodel.AccountForSale, error) {
	var raw json.RawMessage
	if err := p.get(ctx, AccountsForSalePath, &raw); err != nil {
		return nil, fmt.Errorf("[Portal AccountsForSale] %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []apimodel.AccountForSale
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("[Portal AccountsForSale] %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		Accounts []apimodel.AccountForSale `json:"accounts"`
		Data     []apimodel.AccountForSale `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("[Portal AccountsForSale] %w", err)
	}
	if wrapped.Accounts != nil {
		return wrapped.Accounts, nil
	}
	return wrapped.Data, nil
}

func (p *Portal) AccountForSale(ctx context.Context, id int64) (*apimodel.AccountForSale, error) {
	var out apimodel.AccountForSale
	if err := p.get(ctx, AccountForSalePath+strconv.FormatInt(id, 10), &out); err != nil {
		return nil, fmt.Errorf("[Portal AccountForSale] %w", err)
	}
	return &out, nil
}

// Ask sends a chatbot message. The reply is whatever JSON the bot returns; strings are
// unquoted and anything else is returned as compact JSON.
func (p *Portal) Ask(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.NewValidationError("message", "required")
	}

	resp, err := p.api.Do(ctx, http.MethodPost, AskPath, apimodel.AskRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("[Portal Ask] %w", err)
	}

	var reply string
	if json.Unmarshal(resp.Body, &reply) == nil {
		return reply, nil
	}
	var compact bytes.Buffer
	if json.Compact(&compact, resp.Body) == nil {
		return compact.String(), nil
	}
	return strings.TrimSpace(string(resp.Body)), nil
}

// Leaderboard is public; it does not need a session.
func (p *Portal) Leaderboard(ctx context.Context) ([]apimodel.LeaderboardEntry, error) {
	resp, err := p.api.Send(ctx, http.MethodGet, LeaderboardPath, nil)
	if err != nil {
		return nil, fmt.Errorf("[Portal Leaderboard] %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("[Portal Leaderboard] %w", &errors.BackendError{StatusCode: resp.StatusCode, Message: resp.Message(), Body: resp.Body})
	}

	var out []apimodel.LeaderboardEntry
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("[Portal Leaderboard] %w", err)
	}
	return out, nil
}

func (p *Portal) get(ctx context.Context, path string, v any) error {
	resp, err := p.api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return resp.JSON(v)
}
