package apimodel_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var r apimodel.SuccessResponse
		require.NoError(t, json.Unmarshal([]byte(`{"success":false,"message":"Invalid OTP"}`), &r))
		require.Equal(t, "Invalid OTP", r.Message.String())
	})

	t.Run("array is joined", func(t *testing.T) {
		var r apimodel.SuccessResponse
		require.NoError(t, json.Unmarshal([]byte(`{"message":["a","b"]}`), &r))
		require.Equal(t, "a, b", r.Message.String())
	})

	t.Run("missing", func(t *testing.T) {
		var r apimodel.SuccessResponse
		require.NoError(t, json.Unmarshal([]byte(`{"success":true}`), &r))
		require.Empty(t, r.Message.String())
	})

	t.Run("object is rejected", func(t *testing.T) {
		var m apimodel.Message
		require.Error(t, json.Unmarshal([]byte(`{"x":1}`), &m))
	})
}

func TestLong(t *testing.T) {
	t.Run("plain and wrapped agree", func(t *testing.T) {
		var plain, wrapped apimodel.ProfileResponse
		require.NoError(t, json.Unmarshal([]byte(`{"user":{"id":42,"auth_id":7,"vang":1500}}`), &plain))
		require.NoError(t, json.Unmarshal([]byte(`{"user":{"id":42,"auth_id":7,"vang":{"low":1500,"high":0,"unsigned":false}}}`), &wrapped))
		require.Equal(t, plain, wrapped)
		require.Equal(t, int64(1500), wrapped.User.Gold.Int64())
	})

	t.Run("encodes as a number", func(t *testing.T) {
		out, err := json.Marshal(apimodel.LeaderboardEntry{Username: "a", Gold: 7})
		require.NoError(t, err)
		require.JSONEq(t, `{"auth_id":0,"username":"a","vang":7,"sucManh":0}`, string(out))
	})

	t.Run("fraction is rejected", func(t *testing.T) {
		var l apimodel.Long
		require.Error(t, json.Unmarshal([]byte(`1.5`), &l))
	})
}

func TestTokenResponse_OAuth2(t *testing.T) {
	tok := apimodel.TokenResponse{AccessToken: "A", RefreshToken: "R"}.OAuth2(time.Time{})
	require.Equal(t, "A", tok.AccessToken)
	require.Equal(t, "R", tok.RefreshToken)
	require.Equal(t, "Bearer", tok.Type())
}
