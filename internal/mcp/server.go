// ABOUTME: MCP server setup for the lift workout store.
// ABOUTME: Wraps the MCP server with repository, workout service, and analytics access.
package mcp

import (
	"context"
	"log"

	"github.com/harperreed/lift/internal/analytics"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/service"
	"github.com/harperreed/lift/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	tracker   *service.Tracker
	stats     *analytics.Aggregator
	log       *log.Logger
}

// NewServer creates a new MCP server over db. A nil logger discards output.
func NewServer(db *storage.DB, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lift",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      db,
		tracker:   service.NewTracker(db, logger),
		stats:     analytics.New(db.SQL()),
		log:       logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Printf("[INFO] serving MCP over stdio\n")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
