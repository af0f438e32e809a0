package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// LOGIN
	s.RegisterRouteFunc("POST "+RouteLogin, s.Forward(BackendLogin))
	s.RegisterRouteFunc("POST "+RouteVerifyOTP, s.VerifyOTPHandler())
	s.RegisterRouteFunc("POST "+RouteRefresh, s.RefreshHandler())
	s.RegisterRouteFunc("POST "+RouteRegister, s.Forward(BackendRegister))

	// PASSWORDS
	s.RegisterRouteFunc("POST "+RouteRequestResetPassword, s.Forward(BackendRequestResetPassword))
	s.RegisterRouteFunc("POST "+RouteResetPassword, s.Forward(BackendResetPassword))
	s.RegisterRouteFunc("PATCH "+RouteChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.RequireBearer))

	// PLAYER
	s.RegisterRouteFunc("GET "+RouteProfile, ChainMiddleware(s.Forward(BackendProfile), s.RequireBearer))
	s.RegisterRouteFunc("GET "+RoutePay, ChainMiddleware(s.Forward(BackendPay, "userId"), s.RequireBearer, s.NoStoreMiddleware))
	s.RegisterRouteFunc("GET "+RouteQR, ChainMiddleware(s.Forward(BackendQR, "amount"), s.RequireBearer, s.NoStoreMiddleware))
	s.RegisterRouteFunc("GET "+RouteAccountsForSale, ChainMiddleware(s.Forward(BackendAccountsForSale), s.RequireBearer, s.NoStoreMiddleware))
	s.RegisterRouteFunc("GET "+RouteAccountForSale, ChainMiddleware(s.Forward(BackendAccountForSale), s.RequireBearer))
	s.RegisterRouteFunc("POST "+RouteAsk, ChainMiddleware(s.Forward(BackendAsk), s.RequireBearer))

	// PUBLIC
	s.RegisterRouteFunc("GET "+RouteTop10Gold, ChainMiddleware(s.Forward(BackendTop10Gold), s.NoStoreMiddleware))
}
