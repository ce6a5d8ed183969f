package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-company-auth/install"
	"github.com/jrsteele09/go-company-auth/provider"
	"github.com/jrsteele09/go-company-auth/server"
	"github.com/jrsteele09/go-company-auth/sessions"
	"github.com/jrsteele09/go-company-auth/signature"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the server that handles the provider's OAuth callback and the session API.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()
	if err := requireConfig(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	displayAppname(cfg.GetAppName())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Err(err).Msg("close company directory")
		}
	}()

	handler, err := newHandler(st)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// newHandler wires the provider client, verifier, session issuer and
// orchestrator behind the HTTP server.
func newHandler(st *store) (*server.Server, error) {
	issuer, err := sessions.NewIssuer(cfg)
	if err != nil {
		return nil, err
	}
	orchestrator := install.New(
		st.repo,
		provider.New(provider.ConfigFrom(cfg)),
		signature.New(cfg.GetCallbackSecret()),
		issuer,
		install.WithBaseAppURL(cfg.GetBaseAppURL()),
		install.WithAllowedRedirectOrigins(cfg.GetAllowedRedirectOrigins()),
	)
	return server.New(cfg, server.Deps{
		Companies: st.repo,
		Installer: orchestrator,
		Sessions:  issuer,
		DB:        st.pinger,
	})
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
