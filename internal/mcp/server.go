// ABOUTME: MCP server setup for the lift training log.
// ABOUTME: Wraps the MCP server with storage and coaching service access.
package mcp

import (
	"context"
	"time"

	"github.com/harperreed/lift/internal/coach"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	coach     *coach.Service
	logger    zerolog.Logger
}

// NewServer creates a new MCP server over repo, advising through svc.
func NewServer(repo storage.Repository, svc *coach.Service, logger zerolog.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lift",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		coach:     svc,
		logger:    logger,
	}

	mcpServer.AddReceivingMiddleware(s.withRequestLogger)
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info().Str("version", Version).Msg("mcp server starting")
	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	s.logger.Info().Err(err).Msg("mcp server stopped")
	return err
}

// withRequestLogger attaches a per-method logger to each request context.
func (s *Server) withRequestLogger(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		logger := logging.WithOperation(s.logger, method)
		start := time.Now()
		res, err := next(logging.WithLogger(ctx, logger), method, req)
		if err != nil {
			logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		} else {
			logger.Debug().Dur("elapsed", time.Since(start)).Msg("request handled")
		}
		return res, err
	}
}
