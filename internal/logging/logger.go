// Package logging defines the structured-logging interface used across the
// client. Implementations wrap log/slog and zap.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request done", "method", method, "status", status)
type Logger interface {
	// Debug logs verbose diagnostics such as per-request traces.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

type fieldsKey struct{}

// ContextWith returns a copy of ctx carrying key–value pairs that every
// Logger adds to entries logged with that context.
func ContextWith(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, fieldsKey{}, withContext(ctx, args))
}

// withContext prepends the pairs stored in ctx to args.
func withContext(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	fields, _ := ctx.Value(fieldsKey{}).([]any)
	if len(fields) == 0 {
		return args
	}
	out := make([]any, 0, len(fields)+len(args))
	return append(append(out, fields...), args...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }
