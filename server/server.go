package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-company-auth/companies"
	"github.com/jrsteele09/go-company-auth/install"
	"github.com/jrsteele09/go-company-auth/internal/config"
	"github.com/jrsteele09/go-company-auth/sessions"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Companies companies.Repo
	Installer *install.Orchestrator
	Sessions  *sessions.Issuer
	DB        Pinger // optional
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	companies companies.Repo
	installer *install.Orchestrator
	sessions  *sessions.Issuer
	db        Pinger
}

func New(config config.Config, deps Deps) (*Server, error) {
	if deps.Companies == nil || deps.Installer == nil || deps.Sessions == nil {
		return nil, errors.New("[Server New] companies, installer and sessions are required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		companies: deps.Companies,
		installer: deps.Installer,
		sessions:  deps.Sessions,
		db:        deps.DB,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Info().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}
