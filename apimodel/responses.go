package apimodel

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenResponse is returned by /verify-otp and /refresh.
// Backends may add profile fields alongside the pair; callers that need them decode into a session.Session.
type TokenResponse struct {
	// AccessToken is the short-lived bearer token.
	AccessToken string `json:"access_token"`

	// RefreshToken is used once against /refresh. It may rotate on every use.
	RefreshToken string `json:"refresh_token,omitempty"`
}

// OAuth2 converts the pair to an oauth2.Token. expiry may be zero when unknown.
func (t TokenResponse) OAuth2(expiry time.Time) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       expiry,
	}
}

// LoginResponse is the first factor result. Any other fields are kept by the session store verbatim.
type LoginResponse struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username,omitempty"`
	AuthID    *Long  `json:"auth_id,omitempty"`
}

// SuccessResponse is the envelope used by change-password, password recovery and the OTP failure shape.
type SuccessResponse struct {
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
	Message Message `json:"message,omitempty"`
}

// ErrorResponse is the proxy's own error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Profile is the game character returned by GET /profile/{authId}. Counters arrive either
// as numbers or as 64-bit wrapper objects; Long accepts both.
type Profile struct {
	ID             Long   `json:"id"`
	AuthID         Long   `json:"auth_id"`
	Gold           Long   `json:"vang"`
	Gems           Long   `json:"ngoc"`
	Power          Long   `json:"sucManh"`
	GoldFromWeb    Long   `json:"vangNapTuWeb"`
	GemsFromWeb    Long   `json:"ngocNapTuWeb"`
	X              Long   `json:"x"`
	Y              Long   `json:"y"`
	CurrentMap     string `json:"mapHienTai,omitempty"`
	FirstLoginDone bool   `json:"daVaoTaiKhoanLanDau"`
	HasDisciple    bool   `json:"coDeTu"`
	WebItems       []any  `json:"danhSachVatPhamWeb,omitempty"`
}

type ProfileResponse struct {
	User Profile `json:"user"`
}

// PayRecord is the current user's top-up record.
type PayRecord struct {
	ID        Long   `json:"id"`
	UserID    Long   `json:"userId"`
	Amount    string `json:"tien"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// PayResponse is the GET /pay result.
type PayResponse struct {
	Pay     PayRecord `json:"pay"`
	Message string    `json:"message,omitempty"`
}

// QRResponse carries a payment QR code (image URL or data URI) for a top-up.
type QRResponse struct {
	QR       string `json:"qr"`
	Username string `json:"username,omitempty"`
}

// AccountForSale is one marketplace listing. Credentials are only present once bought.
type AccountForSale struct {
	ID          Long   `json:"id"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description"`
	Price       Long   `json:"price"`
	Status      string `json:"status"`
	PartnerID   Long   `json:"partner_id"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// LeaderboardEntry is one row of the public gold leaderboard.
type LeaderboardEntry struct {
	AuthID   Long   `json:"auth_id"`
	Username string `json:"username"`
	Gold     Long   `json:"vang"`
	Power    Long   `json:"sucManh"`
	Rank     int    `json:"rank,omitempty"`
}
