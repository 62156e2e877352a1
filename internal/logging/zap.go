package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a *zap.SugaredLogger to Logger.
type ZapLogger struct {
	l *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

func (z *ZapLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.l.Debugw(msg, withContext(ctx, args)...)
}

func (z *ZapLogger) Info(ctx context.Context, msg string, args ...any) {
	z.l.Infow(msg, withContext(ctx, args)...)
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.l.Warnw(msg, withContext(ctx, args)...)
}

func (z *ZapLogger) Error(ctx context.Context, msg string, args ...any) {
	z.l.Errorw(msg, withContext(ctx, args)...)
}

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{l: z.l.With(args...)}
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}

// New builds the Logger selected by format: "json" uses zap with a JSON
// encoder, anything else uses a slog text handler. Unknown levels fall back
// to info.
func New(w io.Writer, format, level string) Logger {
	if strings.EqualFold(format, "json") {
		lvl := zapcore.InfoLevel
		if err := lvl.Set(strings.ToLower(level)); err != nil {
			lvl = zapcore.InfoLevel
		}
		encCfg := zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			TimeKey:     "ts",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
			EncodeTime:  zapcore.ISO8601TimeEncoder,
		}
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
		return NewZapLogger(zap.New(core))
	}

	var sl slog.Level
	if err := sl.UnmarshalText([]byte(level)); err != nil {
		sl = slog.LevelInfo
	}
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: sl})))
}
