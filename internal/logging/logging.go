// Package logging builds the process logger from the configuration.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-well-inspection/internal/config"
)

// New returns a logger configured for cfg. In stdio mode stdout carries the
// MCP protocol, so logs go to stderr and only when debugging.
func New(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.IsStdioMode() {
		logger.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			logger.SetOutput(io.Discard)
		}
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
		return logger
	}

	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	return logger
}
