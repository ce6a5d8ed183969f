package main

import (
	"os"

	"github.com/jrsteele09/go-company-auth/cmd/server/cmd"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
