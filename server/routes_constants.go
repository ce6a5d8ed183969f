package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome = "/{$}"

	// Auth Routes
	RouteCallback    = "/auth/callback"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"

	// API Routes
	RouteAPISession      = "/api/session"
	RouteAPICompany      = "/api/company"
	RouteAPICompanyToken = "/api/company/token/refresh"

	// Pages
	RouteUnauthorized = "/unauthorized"
	RouteHealth       = "/healthz"
)
