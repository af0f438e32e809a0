package backendfake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/jrsteele09/go-game-portal/session"
)

type ctxKey struct{}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (b *Backend) long(n int64) any {
	if !b.wrapLongs {
		return n
	}
	return map[string]any{"low": int32(uint32(n)), "high": int32(uint64(n) >> 32), "unsigned": false}
}

func (b *Backend) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		id, ok := b.tokens.verify(raw)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		u, ok := b.users.getByID(id)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unknown user"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

func currentUser(r *http.Request) *User {
	u, _ := r.Context().Value(ctxKey{}).(*User)
	return u
}

func (b *Backend) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.LoginRequest
		if !decode(r, &req) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid body"})
			return
		}
		u, ok := b.users.get(req.Username)
		if !ok || !u.checkPassword(req.Password) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
			return
		}

		sessionID := uuid.New().String()
		b.mu.Lock()
		b.challenges[sessionID] = u.AuthID
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"sessionId": sessionID, "username": u.Username, "auth_id": u.AuthID})
	}
}

func (b *Backend) verifyOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.VerifyOTPRequest
		if !decode(r, &req) || req.SessionID == "" || req.OTP == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"otp should not be empty", "sessionId should not be empty"}})
			return
		}

		b.mu.Lock()
		id, ok := b.challenges[req.SessionID]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Session expired"})
			return
		}
		if req.OTP != b.otp {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid OTP"})
			return
		}
		u, ok := b.users.getByID(id)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Unknown user"})
			return
		}

		access, refresh, err := b.tokens.issue(u)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
			return
		}
		b.mu.Lock()
		delete(b.challenges, req.SessionID)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			session.KeyAccessToken:  access,
			session.KeyRefreshToken: refresh,
			session.KeyAuthID:       u.AuthID,
			session.KeyUsername:     u.Username,
		})
	}
}

func (b *Backend) refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.RefreshRequest
		if !decode(r, &req) || req.RefreshToken == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "refresh_token is required"})
			return
		}
		id, ok := b.tokens.redeem(req.RefreshToken)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid refresh token"})
			return
		}
		u, ok := b.users.getByID(id)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unknown user"})
			return
		}
		access, refresh, err := b.tokens.issue(u)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, apimodel.TokenResponse{AccessToken: access, RefreshToken: refresh})
	}
}

func (b *Backend) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.RegisterRequest
		if !decode(r, &req) || req.Username == "" || req.Password == "" || req.Email == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "username, password and email are required"})
			return
		}
		u, err := b.users.add(req.Username, req.RealName, req.Email, req.Password)
		if errors.Is(err, errUserExists) {
			writeJSON(w, http.StatusConflict, map[string]any{"error": "Username already exists"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": u.AuthID, "username": u.Username})
	}
}

func (b *Backend) requestReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.RequestResetRequest
		if !decode(r, &req) {
			writeJSON(w, http.StatusBadRequest, apimodel.SuccessResponse{Error: "Invalid body"})
			return
		}
		if _, ok := b.users.get(req.Username); !ok {
			writeJSON(w, http.StatusNotFound, apimodel.SuccessResponse{Error: "User not found"})
			return
		}
		b.mu.Lock()
		b.resets[strings.ToLower(req.Username)] = b.otp
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, apimodel.SuccessResponse{Success: true})
	}
}

func (b *Backend) resetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.ResetPasswordRequest
		if !decode(r, &req) {
			writeJSON(w, http.StatusBadRequest, apimodel.SuccessResponse{Error: "Invalid body"})
			return
		}
		key := strings.ToLower(req.Username)
		b.mu.Lock()
		want, ok := b.resets[key]
		b.mu.Unlock()
		u, found := b.users.get(req.Username)
		if !ok || !found || req.OTP != want {
			writeJSON(w, http.StatusBadRequest, apimodel.SuccessResponse{Error: "Invalid OTP"})
			return
		}
		if err := b.users.setPassword(u, req.NewPassword); err != nil {
			writeJSON(w, http.StatusInternalServerError, apimodel.SuccessResponse{Error: err.Error()})
			return
		}
		b.mu.Lock()
		delete(b.resets, key)
		b.mu.Unlock()
		b.tokens.revokeUser(u.AuthID)
		writeJSON(w, http.StatusOK, apimodel.SuccessResponse{Success: true})
	}
}

func (b *Backend) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		var req apimodel.ChangePasswordRequest
		if !decode(r, &req) {
			writeJSON(w, http.StatusBadRequest, apimodel.SuccessResponse{Error: "Invalid body"})
			return
		}
		if !u.checkPassword(req.OldPassword) {
			writeJSON(w, http.StatusBadRequest, apimodel.SuccessResponse{Error: "Old password is incorrect"})
			return
		}
		if err := b.users.setPassword(u, req.NewPassword); err != nil {
			writeJSON(w, http.StatusInternalServerError, apimodel.SuccessResponse{Error: err.Error()})
			return
		}
		b.tokens.revokeUser(u.AuthID)
		writeJSON(w, http.StatusOK, apimodel.SuccessResponse{Success: true, Message: apimodel.Message{"Password changed"}})
	}
}

func (b *Backend) profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if chi.URLParam(r, "authId") != strconv.FormatInt(u.AuthID, 10) {
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "Forbidden"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{
			"id":                  u.AuthID,
			"auth_id":             u.AuthID,
			"vang":                b.long(u.Gold),
			"ngoc":                b.long(u.Gems),
			"sucManh":             b.long(u.Power),
			"vangNapTuWeb":        b.long(0),
			"ngocNapTuWeb":        b.long(0),
			"x":                   100,
			"y":                   200,
			"mapHienTai":          "Làng Aru",
			"daVaoTaiKhoanLanDau": true,
			"coDeTu":              false,
			"danhSachVatPhamWeb":  []any{},
		}})
	}
}

func (b *Backend) pay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"pay": map[string]any{
				"id":        1,
				"userId":    u.AuthID,
				"tien":      "0",
				"status":    "ACTIVE",
				"updatedAt": NowTimeFunc().UTC().Format("2006-01-02T15:04:05Z"),
			},
			"message": "OK",
		})
	}
}

func (b *Backend) qr() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
		if err != nil || amount <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "amount must be a positive integer"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"qr":       fmt.Sprintf("https://qr.example.invalid/pay?user=%d&amount=%d", u.AuthID, amount),
			"username": u.Username,
		})
	}
}

var listings = []apimodel.AccountForSale{
	{ID: 1, Description: "Acc sơ sinh có đệ tử", Price: 50000, Status: "AVAILABLE", PartnerID: 3},
	{ID: 2, Description: "Acc 20 tỷ sức mạnh", Price: 250000, Status: "AVAILABLE", PartnerID: 3},
}

func (b *Backend) accountsForSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, listings)
	}
}

func (b *Backend) accountForSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		for _, l := range listings {
			if int64(l.ID) == id {
				writeJSON(w, http.StatusOK, l)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Account not found"})
	}
}

func (b *Backend) ask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.AskRequest
		if !decode(r, &req) || strings.TrimSpace(req.Message) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "tinNhan is required"})
			return
		}
		writeJSON(w, http.StatusOK, "Bạn hỏi: "+req.Message)
	}
}

func (b *Backend) top10Gold() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := b.users.all()
		sort.Slice(users, func(i, j int) bool { return users[i].Gold > users[j].Gold })
		if len(users) > 10 {
			users = users[:10]
		}
		out := make([]map[string]any, 0, len(users))
		for i, u := range users {
			out = append(out, map[string]any{
				"auth_id":  u.AuthID,
				"username": u.Username,
				"vang":     b.long(u.Gold),
				"sucManh":  b.long(u.Power),
				"rank":     i + 1,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
