package authflow

import (
	"strings"
	"unicode/utf8"

	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/jrsteele09/go-game-portal/internal/i18n"
)

// MinPasswordLength applies to new, registered and reset passwords.
const MinPasswordLength = 6

// validator checks form input before any request is made. Each check returns the
// notice key to show alongside the ValidationError.
type validator struct{}

type field struct {
	name  string
	value string
}

func (validator) required(fields ...field) (i18n.Key, error) {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return i18n.FieldsRequired, errors.NewValidationError(f.name, "required")
		}
	}
	return "", nil
}

// passwordLength counts characters, not bytes.
func (validator) passwordLength(field, password string) (i18n.Key, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return i18n.PasswordTooShort, errors.NewValidationError(field, "must be at least 6 characters")
	}
	return "", nil
}

func (validator) passwordsDiffer(oldPassword, newPassword string) (i18n.Key, error) {
	if oldPassword == newPassword {
		return i18n.PasswordMustDiffer, errors.NewValidationError("newPassword", "must differ from the old password")
	}
	return "", nil
}

func (validator) passwordsMatch(password, confirm string) (i18n.Key, error) {
	if password != confirm {
		return i18n.PasswordsDontMatch, errors.NewValidationError("confirmPassword", "does not match")
	}
	return "", nil
}

// first runs checks in order and stops at the first failure.
func first(checks ...func() (i18n.Key, error)) (i18n.Key, error) {
	for _, check := range checks {
		if key, err := check(); err != nil {
			return key, err
		}
	}
	return "", nil
}
