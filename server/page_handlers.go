package server

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

var unauthorizedTemplate = template.Must(template.New("unauthorized").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.AppName}} - Unauthorized</title>
</head>
<body>
  <h1>You are not signed in</h1>
  <p>Your session is missing or has expired.</p>
  <p><a href="{{.LoginURL}}">Sign in again</a></p>
</body>
</html>
`))

// HomeHandler sends a signed-in browser to the app console.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.config.GetBaseAppURL()+"/console", http.StatusFound)
	}
}

// UnauthorizedHandler renders the page protected HTML routes fall back to.
func (s *Server) UnauthorizedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"AppName":  s.config.GetAppName(),
			"LoginURL": s.config.GetBaseAppURL(),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(http.StatusUnauthorized)
		if err := unauthorizedTemplate.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("render unauthorized page")
		}
	}
}

// HealthHandler reports liveness, including the database when one is configured.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
