package authflow

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/jrsteele09/go-game-portal/authfetch"
	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/jrsteele09/go-game-portal/internal/i18n"
	"github.com/jrsteele09/go-game-portal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Backend paths, relative to the API base URL.
const (
	LoginPath          = "/login"
	VerifyOTPPath      = "/verify-otp"
	RegisterPath       = "/register"
	ChangePasswordPath = "/change-password"
	RequestResetPath   = "/request-reset-password"
	ResetPasswordPath  = "/reset-password"
)

type State int

const (
	Anonymous State = iota
	// Credentialed: the first factor passed and an OTP is pending.
	Credentialed
	Authenticated
)

func (s State) String() string {
	switch s {
	case Credentialed:
		return "credentialed"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Controller drives login, OTP verification, password change, logout and registration.
// All state lives in the credential store; the controller itself holds none.
type Controller struct {
	api    *authfetch.Client
	store  session.Store
	loc    *i18n.Localizer
	logger zerolog.Logger
	check  validator
}

type ControllerOption func(*Controller)

func WithLogger(l zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

func New(api *authfetch.Client, loc *i18n.Localizer, opts ...ControllerOption) *Controller {
	c := &Controller{
		api:    api,
		store:  api.Store(),
		loc:    loc,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State derives the flow state from the stored session.
func (c *Controller) State() State {
	s, ok := c.store.Load()
	switch {
	case !ok:
		return Anonymous
	case s.AccessToken() != "":
		return Authenticated
	case s.SessionID() != "":
		return Credentialed
	default:
		return Anonymous
	}
}

// Login submits the first factor. On success the whole response body becomes the session;
// a 2xx body without a sessionId (or tokens) is a failure and leaves the store untouched.
func (c *Controller) Login(ctx context.Context, username, password string) (Notice, error) {
	if key, err := c.check.required(field{"username", username}, field{"password", password}); err != nil {
		return c.failure(key), err
	}

	resp, err := c.api.Send(ctx, http.MethodPost, LoginPath, apimodel.LoginRequest{Username: username, Password: password})
	if err != nil {
		return c.transportFailure(err, "login")
	}

	switch {
	case resp.OK():
		var body apimodel.LoginResponse
		s, ok := session.Decode(resp.Body)
		if !ok || resp.JSON(&body) != nil || (body.SessionID == "" && s.AccessToken() == "") {
			return c.failure(i18n.LoginFailed),
				errors.Wrapf(errors.ErrUnexpectedResponse, "[Controller Login] status %d without sessionId", resp.StatusCode)
		}
		if err := c.store.Save(s); err != nil {
			return c.failure(i18n.LoginFailed), fmt.Errorf("[Controller Login] save session: %w", err)
		}
		return c.success(i18n.LoginSuccess), nil
	case resp.StatusCode == http.StatusUnauthorized:
		return c.failure(i18n.InvalidCredentials), fmt.Errorf("[Controller Login] %w", errors.ErrInvalidCredentials)
	default:
		return c.rejected(resp, i18n.LoginFailed, "Login")
	}
}

// VerifyOTP submits the second factor for the pending login. The response is merged over
// the stored session so fields from the login step survive.
func (c *Controller) VerifyOTP(ctx context.Context, code string) (Notice, error) {
	s, ok := c.store.Load()
	if !ok || s.SessionID() == "" {
		return c.failure(i18n.OTPSessionMissing), fmt.Errorf("[Controller VerifyOTP] %w", errors.ErrSessionNotFound)
	}
	if key, err := c.check.required(field{"otp", code}); err != nil {
		return c.failure(key), err
	}

	resp, err := c.api.Send(ctx, http.MethodPost, VerifyOTPPath, apimodel.VerifyOTPRequest{OTP: code, SessionID: s.SessionID()})
	if err != nil {
		return c.transportFailure(err, "verify otp")
	}
	if !resp.OK() {
		return c.rejected(resp, i18n.OTPFailed, "VerifyOTP")
	}

	var tokens apimodel.TokenResponse
	partial, ok := session.Decode(resp.Body)
	if !ok || resp.JSON(&tokens) != nil || tokens.AccessToken == "" {
		return c.failure(i18n.OTPFailed),
			errors.Wrapf(errors.ErrUnexpectedResponse, "[Controller VerifyOTP] status %d without access_token", resp.StatusCode)
	}
	if _, err := c.store.Merge(partial); err != nil {
		return c.failure(i18n.OTPFailed), fmt.Errorf("[Controller VerifyOTP] merge session: %w", err)
	}
	return c.success(i18n.OTPSuccess), nil
}

// ChangePassword validates locally, then calls the protected endpoint. Success ends the
// session so the user logs in again with the new password.
func (c *Controller) ChangePassword(ctx context.Context, oldPassword, newPassword string) (Notice, error) {
	key, err := first(
		func() (i18n.Key, error) {
			return c.check.required(field{"oldPassword", oldPassword}, field{"newPassword", newPassword})
		},
		func() (i18n.Key, error) { return c.check.passwordLength("newPassword", newPassword) },
		func() (i18n.Key, error) { return c.check.passwordsDiffer(oldPassword, newPassword) },
	)
	if err != nil {
		return c.failure(key), err
	}

	resp, err := c.api.Do(ctx, http.MethodPatch, ChangePasswordPath,
		apimodel.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword})
	switch {
	case errors.Is(err, errors.ErrUnauthenticated):
		return c.failure(i18n.PleaseLogIn), err
	case errors.IsTransport(err):
		return c.transportFailure(err, "change password")
	case err != nil && resp == nil:
		return c.failure(i18n.ChangePasswordFailed), err
	case err != nil:
		return c.backendFailure(resp.Message(), i18n.ChangePasswordFailed), err
	}

	var result apimodel.SuccessResponse
	if err := resp.JSON(&result); err != nil || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = result.Message.String()
		}
		return c.backendFailure(msg, i18n.ChangePasswordFailed),
			&errors.BackendError{StatusCode: resp.StatusCode, Message: msg, Body: resp.Body}
	}

	if err := c.store.Clear(); err != nil {
		return c.failure(i18n.ChangePasswordFailed), fmt.Errorf("[Controller ChangePassword] clear session: %w", err)
	}
	return c.success(i18n.ChangePasswordSuccess), nil
}

// Logout clears the session. No request is made.
func (c *Controller) Logout() (Notice, error) {
	if err := c.store.Clear(); err != nil {
		return c.failure(i18n.RequestFailed), fmt.Errorf("[Controller Logout] %w", err)
	}
	return Notice{Kind: NoticeInfo, Text: c.loc.T(i18n.LoggedOut)}, nil
}

// RegisterInput is the sign-up form. ConfirmPassword is checked only when set.
type RegisterInput struct {
	Username        string
	RealName        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (c *Controller) Register(ctx context.Context, in RegisterInput) (Notice, error) {
	key, err := first(
		func() (i18n.Key, error) {
			return c.check.required(field{"username", in.Username}, field{"password", in.Password}, field{"email", in.Email})
		},
		func() (i18n.Key, error) { return c.check.passwordLength("password", in.Password) },
		func() (i18n.Key, error) {
			if in.ConfirmPassword == "" {
				return "", nil
			}
			return c.check.passwordsMatch(in.Password, in.ConfirmPassword)
		},
	)
	if err != nil {
		return c.failure(key), err
	}

	resp, err := c.api.Send(ctx, http.MethodPost, RegisterPath, apimodel.RegisterRequest{
		Username: in.Username,
		RealName: in.RealName,
		Password: in.Password,
		Email:    in.Email,
	})
	if err != nil {
		return c.transportFailure(err, "register")
	}
	if !resp.OK() {
		return c.rejected(resp, i18n.RegisterFailed, "Register")
	}
	return c.success(i18n.RegisterSuccess), nil
}

// Recovery starts a password recovery flow. It is independent of the login session.
func (c *Controller) Recovery() *Recovery {
	return &Recovery{c: c, state: UsernameEntered}
}

func (c *Controller) rejected(resp *authfetch.Response, fallback i18n.Key, op string) (Notice, error) {
	be := &errors.BackendError{StatusCode: resp.StatusCode, Message: resp.Message(), Body: resp.Body}
	return c.backendFailure(be.Message, fallback), fmt.Errorf("[Controller %s] %w", op, be)
}

func (c *Controller) transportFailure(err error, what string) (Notice, error) {
	c.logger.Err(err).Str("op", what).Msg("request failed")
	return c.failure(i18n.NetworkFailure), err
}
