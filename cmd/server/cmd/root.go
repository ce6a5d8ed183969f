package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/go-company-auth/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// cfg is loaded once before any sub-command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "company-auth",
	Short: "Company OAuth installation and session service",
	Long:  `Installs companies through the provider's OAuth callback and keeps them signed in with cookie sessions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.New()
		if err != nil {
			return err
		}
		cfg = c
		setupLogger(cfg)
		return nil
	},
	// Running without a sub-command starts the server.
	RunE:         runServe,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(callbackURLCmd)
}

func setupLogger(c config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil || c.GetLogLevel() == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if c.GetEnv() == config.EnvDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if err != nil {
		log.Warn().Str("log_level", c.GetLogLevel()).Msg("unknown log level, using info")
	}
}

func requireConfig() error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return nil
}
