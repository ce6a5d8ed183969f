package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-company-auth/companies"
	"github.com/jrsteele09/go-company-auth/companies/postgres"
	companyrepofakes "github.com/jrsteele09/go-company-auth/companies/repofakes"
	"github.com/jrsteele09/go-company-auth/companies/sqlite"
	"github.com/jrsteele09/go-company-auth/internal/config"
	"github.com/jrsteele09/go-company-auth/server"
	"github.com/rs/zerolog/log"
)

// store bundles the directory with the handles the server and shutdown need.
type store struct {
	repo   companies.Repo
	pinger server.Pinger // nil for the memory driver
	closer io.Closer
}

func (s *store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// openStore opens the configured company directory and applies migrations.
func openStore(ctx context.Context, c config.StorageConfig) (*store, error) {
	switch c.GetDatabaseDriver() {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory company directory; data is lost on restart")
		return &store{repo: companyrepofakes.NewFakeCompanyRepo()}, nil

	case config.DriverSQLite:
		path := c.GetDatabaseURL()
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("[openStore] create %s: %w", dir, err)
			}
		}
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("sqlite company directory ready")
		return &store{repo: s, pinger: s.DB(), closer: s}, nil

	case config.DriverPostgres:
		s, err := postgres.Open(ctx, c.GetDatabaseURL())
		if err != nil {
			return nil, err
		}
		log.Info().Msg("postgres company directory ready")
		return &store{repo: s, pinger: s.DB(), closer: s}, nil

	default:
		return nil, fmt.Errorf("[openStore] unknown DATABASE_DRIVER %q", c.GetDatabaseDriver())
	}
}
