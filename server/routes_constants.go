package server

// Route path constants
// All proxy routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth = "/health"

	// Auth Routes - Login, OTP & Token refresh
	RouteLogin     = "/api/login"
	RouteVerifyOTP = "/api/verify-otp"
	RouteRefresh   = "/api/refresh"
	RouteRegister  = "/api/register"

	// Auth Routes - Password Management
	RouteChangePassword       = "/api/change-password"
	RouteRequestResetPassword = "/api/request-reset-password"
	RouteResetPassword        = "/api/reset-password"

	// Player Routes (bearer required)
	RouteProfile         = "/api/profile/{authId}"
	RoutePay             = "/api/pay"
	RouteQR              = "/api/qr"
	RouteAccountsForSale = "/api/all-account-sell"
	RouteAccountForSale  = "/api/account-sell/{id}"
	RouteAsk             = "/api/ask"

	// Public Routes
	RouteTop10Gold = "/api/top10-vang"
)

// Backend paths the proxy forwards to, relative to BACKEND_URL.
const (
	BackendLogin                = "/auth/login"
	BackendVerifyOTP            = "/auth/verify-otp"
	BackendRefresh              = "/auth/refresh"
	BackendRegister             = "/auth/register"
	BackendChangePassword       = "/auth/change-password"
	BackendRequestResetPassword = "/auth/request-reset-password"
	BackendResetPassword        = "/auth/reset-password"
	BackendProfile              = "/user/profile/{authId}"
	BackendPay                  = "/pay/pay"
	BackendQR                   = "/pay/qr"
	BackendAccountsForSale      = "/partner/all-account-sell"
	BackendAccountForSale       = "/partner/account-sell/{id}"
	BackendAsk                  = "/ai/ask"
	BackendTop10Gold            = "/user/top10-vang"
)
