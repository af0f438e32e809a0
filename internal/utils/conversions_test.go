package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-game-portal/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestFlattenMessage(t *testing.T) {
	require.Equal(t, "otp expired", utils.FlattenMessage("otp expired"))
	require.Equal(t, "a, b", utils.FlattenMessage([]any{"a", "b"}))
	require.Equal(t, "a, b", utils.FlattenMessage([]string{"a", "b"}))
	require.Equal(t, "a", utils.FlattenMessage([]any{"a", 7}))
	require.Equal(t, "", utils.FlattenMessage(nil))
	require.Equal(t, "", utils.FlattenMessage(42.0))
}
