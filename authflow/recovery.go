package authflow

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/jrsteele09/go-game-portal/authfetch"
	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/jrsteele09/go-game-portal/internal/i18n"
)

type RecoveryState int

const (
	UsernameEntered RecoveryState = iota
	OTPRequested
	// PasswordReset is terminal; the user continues at login.
	PasswordReset
)

func (s RecoveryState) String() string {
	switch s {
	case OTPRequested:
		return "otp-requested"
	case PasswordReset:
		return "password-reset"
	default:
		return "username-entered"
	}
}

// Recovery is the forgotten-password flow: request an OTP for a username, then reset
// the password with it. It never touches the credential store.
type Recovery struct {
	c        *Controller
	state    RecoveryState
	username string
}

func (r *Recovery) State() RecoveryState {
	return r.state
}

func (r *Recovery) Username() string {
	return r.username
}

// RequestOTP asks the backend to send a reset OTP to username.
func (r *Recovery) RequestOTP(ctx context.Context, username string) (Notice, error) {
	c := r.c
	if key, err := c.check.required(field{"username", username}); err != nil {
		return c.failure(key), err
	}

	resp, err := c.api.Send(ctx, http.MethodPost, RequestResetPath, apimodel.RequestResetRequest{Username: username})
	if err != nil {
		return c.transportFailure(err, "request reset otp")
	}
	if ok, msg := succeeded(resp); !ok {
		return c.backendFailure(msg, i18n.RequestOTPFailed),
			fmt.Errorf("[Recovery RequestOTP] %w", &errors.BackendError{StatusCode: resp.StatusCode, Message: msg, Body: resp.Body})
	}

	r.username = username
	r.state = OTPRequested
	return c.success(i18n.RequestOTPSuccess), nil
}

// ResetPassword sets a new password with the OTP delivered by RequestOTP.
func (r *Recovery) ResetPassword(ctx context.Context, otp, newPassword, confirmPassword string) (Notice, error) {
	c := r.c
	if r.state != OTPRequested {
		return c.failure(i18n.RecoveryNotStarted), fmt.Errorf("[Recovery ResetPassword] %s: %w", r.state, errors.ErrInvalidState)
	}

	key, err := first(
		func() (i18n.Key, error) {
			return c.check.required(field{"otp", otp}, field{"newPassword", newPassword})
		},
		func() (i18n.Key, error) { return c.check.passwordLength("newPassword", newPassword) },
		func() (i18n.Key, error) { return c.check.passwordsMatch(newPassword, confirmPassword) },
	)
	if err != nil {
		return c.failure(key), err
	}

	resp, err := c.api.Send(ctx, http.MethodPost, ResetPasswordPath, apimodel.ResetPasswordRequest{
		Username:    r.username,
		OTP:         otp,
		NewPassword: newPassword,
	})
	if err != nil {
		return c.transportFailure(err, "reset password")
	}
	if ok, msg := succeeded(resp); !ok {
		return c.backendFailure(msg, i18n.ResetPasswordFailed),
			fmt.Errorf("[Recovery ResetPassword] %w", &errors.BackendError{StatusCode: resp.StatusCode, Message: msg, Body: resp.Body})
	}

	r.state = PasswordReset
	return c.success(i18n.ResetPasswordSuccess), nil
}

// succeeded requires a 2xx with {"success": true}. The returned message is the backend's
// error or message text, if any.
func succeeded(resp *authfetch.Response) (bool, string) {
	var body apimodel.SuccessResponse
	decodeErr := resp.JSON(&body)
	msg := body.Error
	if msg == "" {
		msg = body.Message.String()
	}
	if decodeErr != nil && !resp.OK() {
		msg = resp.Message()
	}
	return resp.OK() && decodeErr == nil && body.Success, msg
}
