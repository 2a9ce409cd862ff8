package commands

import (
	"context"
	"os"
	"path/filepath"

	"tempwave/internal/mcp"
	"tempwave/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve episode detection as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	st, err := openStore()
	if err != nil {
		// The analysis tools still work; only saving runs is unavailable.
		log.Warn().Err(err).Msg("Run storage unavailable")
		st = nil
	}
	defer st.Close()

	log.Info().Msg("MCP Server starting Stdio loop")
	server := mcp.NewServer(cfg, st, Version)
	return server.Start(ctx)
}

func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, err
	}
	return store.Open(cfg.DBPath)
}
