package logging

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/mark3labs/mcp-go/util"
)

// SlogAdapter routes the printf-style logging of the MCP transports into a
// structured logger.
type SlogAdapter struct {
	logger *slog.Logger
}

var _ util.Logger = (*SlogAdapter)(nil)

// NewSlogAdapter wraps logger. If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: WithOperation(logger, "transport")}
}

// Infof logs a formatted message at info level.
func (a *SlogAdapter) Infof(format string, v ...any) {
	a.logger.Info(fmt.Sprintf(format, v...))
}

// Errorf logs a formatted message at error level.
func (a *SlogAdapter) Errorf(format string, v ...any) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

// Logger returns the underlying slog.Logger.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// StdErrorLogger returns a *log.Logger that writes each line as an error
// record, for APIs that only accept the standard logger.
func (a *SlogAdapter) StdErrorLogger() *log.Logger {
	return slog.NewLogLogger(a.logger.Handler(), slog.LevelError)
}
