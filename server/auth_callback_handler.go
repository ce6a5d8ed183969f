package server

import (
	"net/http"

	"github.com/jrsteele09/go-company-auth/install"
	"github.com/rs/zerolog"
)

// OAuthCallbackHandler completes the provider redirect: it installs or
// re-authenticates the company, sets the session cookies and redirects into
// the app. Failures are answered with a JSON error and no cookies.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The signature covers the query exactly as sent, so use RawQuery.
		req := install.ParseCallbackRequest(r.URL.RawQuery)

		result, err := s.installer.HandleCallback(r.Context(), req)
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Str("company_id", req.CompanyID).Msg("callback failed")
			writeError(w, err)
			return
		}

		s.sessions.SetCookies(w, result.Tokens)
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
	}
}
