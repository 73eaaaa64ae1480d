// Package observability provides structured logging and tracing for the
// console's outbound API traffic.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	// The TUI owns stdout; structured logs go to stderr where they can
	// be redirected without disturbing the rendered views.
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// SetOutput replaces the global logger's destination. Used by main to
// point logs at a file, and by tests to capture output.
func SetOutput(w io.Writer) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying the per-action correlation ID.
const CorrelationID LogContextKey = "correlation_id"

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableCorrelationID bool
	EnableAPILogging    bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableCorrelationID: true,
	EnableAPILogging:    true,
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id := ctx.Value(CorrelationID); id != nil {
		return id.(string)
	}
	return ""
}

// APILogger provides structured logging for outbound REST calls.
type APILogger struct {
	service string
	logger  *Logger
}

// NewAPILogger creates an APILogger labeled with the upstream service name.
func NewAPILogger(service string) *APILogger {
	return &APILogger{
		service: service,
		logger:  GlobalLogger,
	}
}

// LogCall logs one completed outbound request.
func (l *APILogger) LogCall(ctx context.Context, method, path string, status int, elapsed time.Duration) {
	if !Config.EnableAPILogging {
		return
	}
	l.logger.InfoContext(ctx, "api call",
		slog.String("service", l.service),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("elapsed", elapsed),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogError logs a failed outbound request.
func (l *APILogger) LogError(ctx context.Context, method, path string, err error) {
	if !Config.EnableAPILogging {
		return
	}
	l.logger.ErrorContext(ctx, "api call failed",
		slog.String("service", l.service),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}
