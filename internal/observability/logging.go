// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
	"sort"

	"github.com/rs/xid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// SetLogger replaces the handler used by repository and service loggers.
func SetLogger(l *slog.Logger) {
	if l != nil {
		GlobalLogger = &Logger{Logger: l}
	}
}

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

// RepoLogging toggles the create/update/delete events written by RepoLogger.
var RepoLogging = true

// fieldAttrs converts fields to slog attributes in key order.
func fieldAttrs(ctx context.Context, base []any, fields map[string]interface{}) []any {
	attrs := append(base, slog.String("correlation_id", ExtractCorrelationID(ctx)))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return xid.New().String()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{tableName: tableName}
}

func (l *RepoLogger) log(ctx context.Context, operation string, fields map[string]interface{}) {
	if !RepoLogging {
		return
	}
	attrs := fieldAttrs(ctx, []any{
		slog.String("table", l.tableName),
		slog.String("operation", operation),
	}, fields)
	GlobalLogger.InfoContext(ctx, "repository "+operation, attrs...)
}

// LogCreate logs a repository create operation.
func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]interface{}) {
	l.log(ctx, "create", fields)
}

// LogUpdate logs a repository update operation.
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]interface{}) {
	l.log(ctx, "update", fields)
}

// LogDelete logs a repository delete operation.
func (l *RepoLogger) LogDelete(ctx context.Context, fields map[string]interface{}) {
	l.log(ctx, "delete", fields)
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	if err == nil {
		return
	}
	GlobalLogger.ErrorContext(ctx, "repository error", fieldAttrs(ctx, []any{
		slog.String("table", l.tableName),
		slog.String("operation", operation),
	}, map[string]interface{}{"error": err.Error()})...)
}

// StructuredLogger provides a general-purpose structured logger.
type StructuredLogger struct{}

// NewStructuredLogger creates a new StructuredLogger instance.
func NewStructuredLogger() *StructuredLogger {
	return &StructuredLogger{}
}

// LogServiceCall logs a completed service operation.
func (l *StructuredLogger) LogServiceCall(ctx context.Context, service, method string, fields map[string]interface{}) {
	GlobalLogger.InfoContext(ctx, "service call", fieldAttrs(ctx, []any{
		slog.String("service", service),
		slog.String("method", method),
	}, fields)...)
}

// LogServiceWarning logs a recoverable anomaly noticed by a service.
func (l *StructuredLogger) LogServiceWarning(ctx context.Context, service, msg string, fields map[string]interface{}) {
	GlobalLogger.WarnContext(ctx, msg, fieldAttrs(ctx, []any{
		slog.String("service", service),
	}, fields)...)
}
