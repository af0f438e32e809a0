package apimodel

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyOTPRequest is the body of POST /verify-otp.
// SessionID is the challenge identifier returned by a successful login.
type VerifyOTPRequest struct {
	OTP       string `json:"otp"`
	SessionID string `json:"sessionId"`
}

// RefreshRequest is the body of POST /refresh. It is sent without an Authorization header.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	RealName string `json:"realname,omitempty"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// RequestResetRequest starts password recovery for Username.
type RequestResetRequest struct {
	Username string `json:"username"`
}

// ResetPasswordRequest completes password recovery with the OTP sent to the user.
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest is the body of PATCH /change-password. Bearer auth required.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// AskRequest is the chatbot question body of POST /ask.
type AskRequest struct {
	Message string `json:"tinNhan"`
}
