package server

import (
	"net/http"

	"github.com/jrsteele09/go-company-auth/sessions"
	"github.com/rs/zerolog"
)

// CompanyHandler returns the logged-in company's profile. Provider tokens are
// never serialised.
func (s *Server) CompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		company, err := s.companies.FindByID(r.Context(), claims.TenantID)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("company lookup failed")
			writeJSONError(w, "internal error", http.StatusInternalServerError)
			return
		}
		if company == nil {
			writeJSONError(w, "company not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, company)
	}
}

// RotateCompanyTokensHandler refreshes the provider tokens stored for the
// logged-in company.
func (s *Server) RotateCompanyTokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		company, err := s.installer.RotateTokens(r.Context(), claims.TenantID)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("provider token rotation failed")
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, company)
	}
}

func toSessionResponse(claims *sessions.Claims) sessionResponse {
	resp := sessionResponse{TenantID: claims.TenantID, Kind: claims.Kind}
	if claims.IssuedAt != nil {
		resp.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return resp
}
