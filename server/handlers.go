package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/jrsteele09/go-game-portal/internal/utils"
)

const otpFailedMessage = "Xác thực OTP thất bại"

// Forward relays the request body to backendPath and passes the reply through. Query
// parameters named in required must be present and are the only ones forwarded.
func (s *Server) Forward(backendPath string, required ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query url.Values
		for _, name := range required {
			v := r.URL.Query().Get(name)
			if v == "" {
				writeJSON(w, http.StatusBadRequest, errorBody(name+" is required"))
				return
			}
			if query == nil {
				query = url.Values{}
			}
			query.Set(name, v)
		}

		body, err := readBody(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
			return
		}

		resp, err := s.call(r, r.Method, backendPath, query, body)
		if err != nil {
			s.badGateway(w, r, err)
			return
		}
		relay(w, resp)
	}
}

// VerifyOTPHandler reshapes failures to {success:false, message} with list messages joined.
func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
			return
		}

		resp, err := s.call(r, http.MethodPost, BackendVerifyOTP, nil, body)
		if err != nil {
			s.badGateway(w, r, err)
			return
		}
		if resp.ok() {
			relay(w, resp)
			return
		}

		var failure map[string]any
		_ = json.Unmarshal(resp.body, &failure)
		msg := utils.FlattenMessage(failure["message"])
		if msg == "" {
			msg = otpFailedMessage
		}
		writeJSON(w, resp.status, apimodel.SuccessResponse{Success: false, Message: apimodel.Message{msg}})
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("Refresh token is required"))
			return
		}

		body, _ := json.Marshal(req)
		resp, err := s.call(r, http.MethodPost, BackendRefresh, nil, body)
		if err != nil {
			s.badGateway(w, r, err)
			return
		}
		relay(w, resp)
	}
}

// ChangePasswordHandler forwards only the old and new password.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
			writeJSON(w, http.StatusBadRequest, apimodel.SuccessResponse{Success: false, Error: "oldPassword and newPassword are required"})
			return
		}

		body, _ := json.Marshal(req)
		resp, err := s.call(r, http.MethodPatch, BackendChangePassword, nil, body)
		if err != nil {
			s.badGateway(w, r, err)
			return
		}
		relay(w, resp)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	}
}
