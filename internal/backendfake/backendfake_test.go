package backendfake_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-game-portal/internal/backendfake"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, url string, body any, auth string) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestBackend_LoginOTPRefreshRotation(t *testing.T) {
	b := backendfake.New(backendfake.WithUser("alice", "secret1", "alice@example.com")).Start()
	defer b.Close()

	resp, body := post(t, b.URL()+"/auth/login", map[string]string{"username": "alice", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = post(t, b.URL()+"/auth/login", map[string]string{"username": "alice", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionID := body["sessionId"].(string)

	resp, body = post(t, b.URL()+"/auth/verify-otp", map[string]string{"otp": backendfake.DefaultOTP, "sessionId": sessionID}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refresh := body["refresh_token"].(string)
	require.NotEmpty(t, body["access_token"])

	resp, body = post(t, b.URL()+"/auth/refresh", map[string]string{"refresh_token": refresh}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEqual(t, refresh, body["refresh_token"])

	resp, _ = post(t, b.URL()+"/auth/refresh", map[string]string{"refresh_token": refresh}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "refresh tokens are single use")

	require.Equal(t, 2, b.Calls("POST /auth/refresh"))
}

func TestBackend_ExpireAccessTokens(t *testing.T) {
	b := backendfake.New(backendfake.WithUser("alice", "secret1", "alice@example.com")).Start()
	defer b.Close()

	_, body := post(t, b.URL()+"/auth/login", map[string]string{"username": "alice", "password": "secret1"}, "")
	_, body = post(t, b.URL()+"/auth/verify-otp", map[string]string{"otp": backendfake.DefaultOTP, "sessionId": body["sessionId"].(string)}, "")
	access := body["access_token"].(string)

	resp, _ := post(t, b.URL()+"/ai/ask", map[string]string{"tinNhan": "hi"}, access)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b.ExpireAccessTokens()
	resp, _ = post(t, b.URL()+"/ai/ask", map[string]string{"tinNhan": "hi"}, access)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
