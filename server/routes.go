package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHome, ChainMiddleware(s.HomeHandler(), s.HTMLMiddleWare(s.RequireSessionAuth())...))
	s.RegisterRouteFunc("GET "+RouteUnauthorized, ChainMiddleware(s.UnauthorizedHandler(), s.HTMLMiddleWare()...))

	// OAuth callback and cookie session lifecycle
	s.RegisterRouteFunc("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshSessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Session-protected API
	s.RegisterRouteFunc("GET "+RouteAPISession, ChainMiddleware(s.SessionInfoHandler(), s.APIMiddleware(s.RequireAPISession())...))
	s.RegisterRouteFunc("GET "+RouteAPICompany, ChainMiddleware(s.CompanyHandler(), s.APIMiddleware(s.RequireAPISession())...))
	s.RegisterRouteFunc("POST "+RouteAPICompanyToken, ChainMiddleware(s.RotateCompanyTokensHandler(), s.APIMiddleware(s.RequireAPISession())...))
	// CORS preflight; CorsMiddleware answers before notFound runs
	s.RegisterRouteFunc("OPTIONS /api/", ChainMiddleware(notFound, s.APIMiddleware()...))
	s.RegisterRouteFunc("OPTIONS /auth/", ChainMiddleware(notFound, s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}
