package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-well-inspection/internal/config"
	"github.com/a3tai/mcp-well-inspection/internal/report"
	"github.com/a3tai/mcp-well-inspection/internal/session"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP transport
const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	session   *session.Session
	photos    *session.PhotoLoader
	exporter  *report.Exporter
	logger    logrus.FieldLogger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(
	cfg *config.Config,
	sess *session.Session,
	photos *session.PhotoLoader,
	exporter *report.Exporter,
	logger logrus.FieldLogger,
) (*Server, error) {
	if sess == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if photos == nil {
		return nil, fmt.Errorf("photo loader cannot be nil")
	}
	if exporter == nil {
		return nil, fmt.Errorf("exporter cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // The tool list is fixed
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		session:   sess,
		photos:    photos,
		exporter:  exporter,
		logger:    logger,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode: %q", s.config.Mode)
	}
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.WithField("output", s.config.OutputDirectory).Debug("starting inspection MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves the streamable HTTP transport until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.config.Address()).Info("starting inspection MCP server in HTTP mode")
		errCh <- httpServer.Start(s.config.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		s.logger.Info("http server stopped")
		return nil
	}
}
