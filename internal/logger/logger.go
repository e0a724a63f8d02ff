package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       string
	// Format is "json" (default) or "console".
	Format string
	Output io.Writer
}

// Logger wraps zerolog with request-scoped fields carried on a context.
type Logger struct {
	base *zerolog.Logger
}

type ctxKey struct{}

// New builds a Logger writing one JSON object per line unless Format is "console".
func New(opts Options) *Logger {
	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	l := zerolog.New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(ParseLevel(opts.Level))

	return &Logger{base: &l}
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{base: &l}
}

// ParseLevel maps a textual level to zerolog, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

func (l *Logger) fromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

// WithField returns a context whose log lines carry key=value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	entry := l.fromContext(ctx).With().Interface(key, value).Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

// WithRequestID tags every line logged with ctx with the request id.
func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

// Debug, Info, Warn and Error return zerolog events so callers can attach fields before Msg.
func (l *Logger) Debug(ctx context.Context) *zerolog.Event {
	return l.fromContext(ctx).Debug()
}

func (l *Logger) Info(ctx context.Context) *zerolog.Event {
	return l.fromContext(ctx).Info()
}

func (l *Logger) Warn(ctx context.Context) *zerolog.Event {
	return l.fromContext(ctx).Warn()
}

func (l *Logger) Error(ctx context.Context, err error) *zerolog.Event {
	return l.fromContext(ctx).Error().Err(err)
}
