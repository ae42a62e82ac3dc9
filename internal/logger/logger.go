package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

type Options struct {
	Development bool
	SentryDSN   string
	Environment string
	Release     string
}

// Init builds the process logger from opts and makes it the slog default.
func Init(opts Options) *slog.Logger {
	log := New(os.Stdout, opts)
	slog.SetDefault(log)
	return log
}

// New writes text at debug level in development and JSON at info level
// otherwise. Errors are also sent to Sentry when a DSN is configured.
func New(w io.Writer, opts Options) *slog.Logger {
	handlers := []slog.Handler{stdoutHandler(w, opts.Development)}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Environment,
			Release:          opts.Release,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		} else {
			slog.New(handlers[0]).Warn("sentry disabled", "error", err)
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

func stdoutHandler(w io.Writer, dev bool) slog.Handler {
	if dev {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}
