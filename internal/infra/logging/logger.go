package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Logger wraps slog.Logger so the rest of the code depends on one type.
type Logger struct {
	*slog.Logger
}

type Options struct {
	Level       string
	SentryDSN   string
	Environment string
	Output      io.Writer
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func New(level string) *Logger {
	return NewWithOptions(Options{Level: level})
}

func Default() *Logger {
	return New("info")
}

// NewWithOptions builds a JSON logger. With a Sentry DSN, warnings and errors
// are also shipped to Sentry and errors open an issue there. A Sentry init
// failure falls back to stdout only.
func NewWithOptions(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	stdout := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(opts.Level)})
	if opts.SentryDSN == "" {
		return &Logger{Logger: slog.New(stdout)}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.SentryDSN,
		Environment: opts.Environment,
		EnableLogs:  true,
	}); err != nil {
		l := slog.New(stdout)
		l.Error("failed to initialize sentry", "error", err)
		return &Logger{Logger: l}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return &Logger{Logger: slog.New(newMultiHandler(stdout, sentryHandler))}
}
