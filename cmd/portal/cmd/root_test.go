package cmd_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-game-portal/cmd/portal/cmd"
	"github.com/jrsteele09/go-game-portal/internal/backendfake"
	"github.com/jrsteele09/go-game-portal/internal/config"
	"github.com/jrsteele09/go-game-portal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type cli struct {
	backend *backendfake.Backend
	api     string
	data    string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	b := backendfake.New(backendfake.WithUser("alice", "secret1", "alice@example.com")).Start()
	t.Cleanup(b.Close)

	t.Setenv("BACKEND_URL", b.URL())
	t.Setenv("ENV", "TEST")
	t.Setenv("LOG_LEVEL", "disabled")
	cfg, err := config.Load("")
	require.NoError(t, err)
	s, err := server.New(cfg, server.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	proxy := httptest.NewServer(s)
	t.Cleanup(proxy.Close)

	return &cli{backend: b, api: proxy.URL + "/api", data: t.TempDir()}
}

// run executes one invocation with stdin detached, so nothing is prompted for.
func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--api", c.api, "--data", c.data, "--lang", "en"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) login(t *testing.T) {
	t.Helper()
	out, err := c.run(t, "login", "-u", "alice", "-p", "secret1", "--otp", backendfake.DefaultOTP)
	require.NoError(t, err)
	require.Contains(t, out, "OTP verified.")
}

func TestCLI_LoginStatusLogout(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "anonymous")

	c.login(t)

	out, err = c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "authenticated")
	require.Contains(t, out, "alice")
	require.Contains(t, out, "valid")

	out, err = c.run(t, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")

	out, err = c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "anonymous")
}

func TestCLI_LoginInTwoSteps(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "login", "-u", "alice", "-p", "secret1")
	require.NoError(t, err)
	require.Contains(t, out, "portal otp")

	out, err = c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "credentialed")

	out, err = c.run(t, "otp", backendfake.DefaultOTP)
	require.NoError(t, err)
	require.Contains(t, out, "OTP verified.")
}

func TestCLI_LoginFailures(t *testing.T) {
	c := newCLI(t)

	t.Run("missing fields", func(t *testing.T) {
		out, err := c.run(t, "login", "-u", "alice")
		require.Error(t, err)
		require.Contains(t, out, "Please fill in all fields!")
		require.Equal(t, 0, c.backend.TotalCalls())
	})

	t.Run("wrong password", func(t *testing.T) {
		out, err := c.run(t, "login", "-u", "alice", "-p", "nope", "--otp", backendfake.DefaultOTP)
		require.Error(t, err)
		require.Contains(t, out, "Incorrect username or password!")
		require.Equal(t, 0, c.backend.Calls("POST /auth/verify-otp"))
	})

	t.Run("otp without login", func(t *testing.T) {
		out, err := c.run(t, "otp", "123456")
		require.Error(t, err)
		require.Contains(t, out, "Session not found. Please log in again!")
	})
}

func TestCLI_Pages(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "profile")
	require.Error(t, err)
	require.Contains(t, out, "Please log in!")
	require.Equal(t, 0, c.backend.TotalCalls())

	c.login(t)

	out, err = c.run(t, "profile")
	require.NoError(t, err)
	require.Contains(t, out, "1000")
	require.Contains(t, out, "Làng Aru")

	out, err = c.run(t, "pay")
	require.NoError(t, err)
	require.Contains(t, out, "ACTIVE")

	out, err = c.run(t, "qr", "--amount", "20000")
	require.NoError(t, err)
	require.Contains(t, out, "amount=20000")

	_, err = c.run(t, "qr")
	require.Error(t, err)

	out, err = c.run(t, "shop")
	require.NoError(t, err)
	require.Contains(t, out, "250000")

	out, err = c.run(t, "shop", "1")
	require.NoError(t, err)
	require.Contains(t, out, "50000")

	out, err = c.run(t, "ask", "hello", "there")
	require.NoError(t, err)
	require.Contains(t, out, "Bạn hỏi: hello there")
}

func TestCLI_PagesRefreshExpiredSession(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.backend.ExpireAccessTokens()

	out, err := c.run(t, "profile")
	require.NoError(t, err)
	require.Contains(t, out, "1000")
	require.Equal(t, 1, c.backend.Calls("POST /auth/refresh"))

	// the rotated tokens were persisted, so the next invocation needs no refresh
	_, err = c.run(t, "pay")
	require.NoError(t, err)
	require.Equal(t, 1, c.backend.Calls("POST /auth/refresh"))
}

func TestCLI_Leaderboard(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "leaderboard")
	require.NoError(t, err)
	require.Contains(t, out, "alice")
	require.Contains(t, out, "PLAYER")
}

func TestCLI_RegisterAndChangePassword(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "register", "-u", "bob", "--email", "bob@example.com", "-p", "secret2", "--confirm", "other")
	require.Error(t, err)
	require.Contains(t, out, "Passwords do not match!")

	out, err = c.run(t, "register", "-u", "bob", "--email", "bob@example.com", "-p", "secret2", "--confirm", "secret2")
	require.NoError(t, err)
	require.Contains(t, out, "Registration successful!")
	_, ok := c.backend.User("bob")
	require.True(t, ok)

	out, err = c.run(t, "change-password", "--old", "secret1", "--new", "secret9")
	require.Error(t, err)
	require.Contains(t, out, "Please log in!")

	c.login(t)
	out, err = c.run(t, "change-password", "--old", "secret1", "--new", "secret9")
	require.NoError(t, err)
	require.Contains(t, out, "Password changed. Please log in again.")

	out, err = c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "anonymous")

	_, err = c.run(t, "login", "-u", "alice", "-p", "secret9", "--otp", backendfake.DefaultOTP)
	require.NoError(t, err)
}

func TestCLI_ResetPassword(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "reset-password", "-u", "alice", "--otp", backendfake.DefaultOTP, "--new", "fresh1", "--confirm", "fresh1")
	require.NoError(t, err)
	require.Contains(t, out, "OTP sent.")
	require.Contains(t, out, "Password reset.")

	_, err = c.run(t, "login", "-u", "alice", "-p", "fresh1", "--otp", backendfake.DefaultOTP)
	require.NoError(t, err)

	out, err = c.run(t, "reset-password", "-u", "alice", "--otp", "999999", "--new", "fresh2", "--confirm", "fresh2")
	require.Error(t, err)
	require.Contains(t, out, "Invalid OTP")
}

func TestCLI_ServeStopsWithContext(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("LOG_LEVEL", "disabled")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := cmd.NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"serve", "--port", "0"})
	require.NoError(t, root.ExecuteContext(ctx))
}
