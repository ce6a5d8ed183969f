package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type sessionResponse struct {
	TenantID  string    `json:"tenant_id"`
	Kind      string    `json:"kind"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshSessionHandler mints a new session cookie from the refresh cookie.
func (s *Server) RefreshSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.sessions.RefreshSession(w, r)
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("session refresh rejected")
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(claims))
	}
}

// LogoutHandler clears both cookies. Browsers (GET) are sent to the app, API
// callers (POST) get a 204.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.DestroySession(w)
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, s.config.GetBaseAppURL(), http.StatusFound)
	}
}

// SessionInfoHandler returns the claims of the current session.
func (s *Server) SessionInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(claims))
	}
}
