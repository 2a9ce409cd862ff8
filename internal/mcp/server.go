package mcp

import (
	"context"

	"tempwave/internal/config"
	"tempwave/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg   *config.AppConfig
	store *store.Store // nil disables run persistence

	srv *sdk.Server
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(cfg *config.AppConfig, st *store.Store, version string) *Server {
	s := &Server{
		cfg:   cfg,
		store: st,
		srv: sdk.NewServer(&sdk.Implementation{
			Name:    "tempwave",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Start serves MCP over stdio until the client disconnects or ctx ends.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Msg("MCP server listening on stdio")
	return s.srv.Run(ctx, &sdk.StdioTransport{})
}
