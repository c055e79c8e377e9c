package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldRoute is the field name for the matched route.
	LogFieldRoute = "route"
	// LogFieldDocumentID is the field name for document ID.
	LogFieldDocumentID = "document_id"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldMentions is the field name for the number of mentions.
	LogFieldMentions = "mentions"
	// LogFieldStatus is the field name for the HTTP status.
	LogFieldStatus = "status"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
)

// RequestContext represents the context for a single request with structured logging.
type RequestContext struct {
	RequestID string
	Route     string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a new request context with a generated request ID.
func NewRequestContext(logger *slog.Logger, route string) *RequestContext {
	return NewRequestContextWithID(logger, generateRequestID(), route)
}

// NewRequestContextWithID creates a new request context with a specific request ID.
func NewRequestContextWithID(logger *slog.Logger, requestID, route string) *RequestContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestContext{
		RequestID: requestID,
		Route:     route,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// WithFields returns a new logger with the request fields and attrs.
func (r *RequestContext) WithFields(attrs ...slog.Attr) *slog.Logger {
	combined := r.baseAttrsAppended(attrs...)
	args := make([]any, len(combined))
	for i, attr := range combined {
		args[i] = attr
	}
	return r.Logger.With(args...)
}

// Info logs an info message.
func (r *RequestContext) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(ctx, slog.LevelInfo, msg, r.baseAttrsAppended(attrs...)...)
}

// Debug logs a debug message.
func (r *RequestContext) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(ctx, slog.LevelDebug, msg, r.baseAttrsAppended(attrs...)...)
}

// Warn logs a warning message.
func (r *RequestContext) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(ctx, slog.LevelWarn, msg, r.baseAttrsAppended(attrs...)...)
}

// Error logs an error message with the error.
func (r *RequestContext) Error(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("error", err.Error()))
	r.Logger.LogAttrs(ctx, slog.LevelError, msg, r.baseAttrsAppended(attrs...)...)
}

// Duration returns the elapsed time since the request started.
func (r *RequestContext) Duration() time.Duration {
	return time.Since(r.StartTime)
}

// DurationMs returns the elapsed time in milliseconds.
func (r *RequestContext) DurationMs() int64 {
	return r.Duration().Milliseconds()
}

func (r *RequestContext) baseAttrsAppended(attrs ...slog.Attr) []slog.Attr {
	base := []slog.Attr{
		slog.String(LogFieldRequestID, r.RequestID),
		slog.String(LogFieldRoute, r.Route),
	}
	return append(base, attrs...)
}

func generateRequestID() string {
	return shortuuid.New()
}

type ctxKey struct{}

// WithRequestContext adds the request context to the context.
func WithRequestContext(ctx context.Context, reqCtx *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, reqCtx)
}

// FromContext extracts the request context from the context.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	reqCtx, ok := ctx.Value(ctxKey{}).(*RequestContext)
	return reqCtx, ok
}
