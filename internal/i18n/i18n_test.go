package i18n_test

import (
	"testing"

	"github.com/jrsteele09/go-game-portal/internal/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLocalizer(t *testing.T) {
	t.Run("vietnamese", func(t *testing.T) {
		l := i18n.New("vi")
		require.Equal(t, language.Vietnamese, l.Language())
		require.Equal(t, "Tài khoản hoặc mật khẩu không đúng!", l.T(i18n.InvalidCredentials))
	})

	t.Run("regional english", func(t *testing.T) {
		l := i18n.New("en-GB")
		require.Equal(t, language.English, l.Language())
		require.Equal(t, "Please log in!", l.T(i18n.PleaseLogIn))
	})

	t.Run("unknown language falls back to english", func(t *testing.T) {
		require.Equal(t, "Login failed!", i18n.New("xx-invalid-$").T(i18n.LoginFailed))
	})
}
