package cmd

import (
	"context"

	"github.com/jrsteele09/go-company-auth/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the company directory schema",
	Long:  `Open the configured database and apply any pending migrations, then exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		if cfg.GetDatabaseDriver() == config.DriverMemory {
			log.Info().Msg("memory driver has no schema to migrate")
			return nil
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		// Opening a SQL store applies pending migrations.
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		log.Info().Str("driver", cfg.GetDatabaseDriver()).Msg("migrations applied")
		return nil
	},
}
