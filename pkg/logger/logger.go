package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration settings.
type SentryConfig struct {
	DSN         string
	Environment string
	// MinLevel slog.LevelError sends only errors; anything lower sends
	// warnings too.
	MinLevel slog.Level
}

type options struct {
	out        io.Writer
	level      slog.Leveler
	text       bool
	extractors []ContextExtractor
	sentry     *SentryConfig
}

// Option configures a logger built by New.
type Option func(*options)

// WithLevel sets the minimum level. Default: info.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) { o.level = level }
}

// WithOutput sets the destination. Default: stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithFormat selects "json" (default) or "text" output.
func WithFormat(format string) Option {
	return func(o *options) { o.text = strings.EqualFold(format, "text") }
}

// WithExtractors appends context extractors.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

// WithSentry enables Sentry fan-out when cfg.DSN is set.
func WithSentry(cfg SentryConfig) Option {
	return func(o *options) { o.sentry = &cfg }
}

// New creates a logger.
func New(opts ...Option) *slog.Logger {
	o := &options{out: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}
	var primary slog.Handler
	if o.text {
		primary = slog.NewTextHandler(o.out, hopts)
	} else {
		primary = slog.NewJSONHandler(o.out, hopts)
	}

	handler := primary
	if o.sentry != nil && o.sentry.DSN != "" {
		if sh, err := sentryHandler(*o.sentry); err != nil {
			slog.New(primary).Error("failed to initialize sentry", slog.String("error", err.Error()))
		} else {
			handler = newMultiHandler(primary, sh)
		}
	}

	return slog.New(NewLogHandlerDecorator(handler, o.extractors...))
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sentryHandler(cfg SentryConfig) (slog.Handler, error) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		return nil, err
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background()), nil
}

// ParseLevel maps "debug", "info", "warn" and "error" to a level.
// Unknown values yield info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
