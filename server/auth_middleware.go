package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-company-auth/sessions"
	"github.com/rs/zerolog"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyTenantID stores the company ID of the session
	ContextKeyTenantID ContextKey = "tenant_id"
	// ContextKeyClaims stores the verified session claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireSessionAuth is middleware for HTML routes; requests without a valid
// session cookie are sent to the unauthorized page.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := s.sessions.FromRequest(r)
			if claims == nil {
				http.Redirect(w, r, RouteUnauthorized, http.StatusSeeOther)
				return
			}
			next(w, r.WithContext(withClaims(r.Context(), claims)))
		}
	}
}

// RequireAPISession is middleware for JSON routes; requests without a valid
// session cookie get a 401.
func (s *Server) RequireAPISession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := s.sessions.FromRequest(r)
			if claims == nil {
				writeJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r.WithContext(withClaims(r.Context(), claims)))
		}
	}
}

func withClaims(ctx context.Context, claims *sessions.Claims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClaims, claims)
	ctx = context.WithValue(ctx, ContextKeyTenantID, claims.TenantID)
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("company_id", claims.TenantID)
	})
	return ctx
}

// ClaimsFromContext returns the session claims set by the session middleware.
func ClaimsFromContext(ctx context.Context) *sessions.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*sessions.Claims)
	return claims
}
