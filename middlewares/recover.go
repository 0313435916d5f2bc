package middlewares

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger
	ErrorHandler      internal.ErrorHandler
	StackSize         int
	DisablePrintStack bool
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverLogger sets the logger for recovered panics.
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithRecoverErrorHandler sets the handler that renders the *PanicError.
// Defaults to the app's non-debug error rendering.
func WithRecoverErrorHandler(h internal.ErrorHandler) RecoverOption {
	return func(cfg *RecoverConfig) {
		if h != nil {
			cfg.ErrorHandler = h
		}
	}
}

// Recover returns middleware that recovers from panics, logs them and
// renders a 500 wrapping a *PanicError. http.ErrAbortHandler is re-raised.
func Recover(opts ...RecoverOption) func(http.Handler) http.Handler {
	cfg := &RecoverConfig{
		Logger:       logger.NewNope(),
		ErrorHandler: internal.DefaultErrorHandler(false),
		StackSize:    DefaultStackSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				var stack []byte
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
					cfg.Logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec), slog.String("stack", string(stack)))
				} else {
					cfg.Logger.ErrorContext(r.Context(), "panic recovered", slog.Any("panic", rec))
				}

				pe := &PanicError{Value: rec, Stack: stack}
				cfg.ErrorHandler(w, r, internal.ErrInternal(http.StatusText(http.StatusInternalServerError),
					internal.WithError(pe),
					internal.WithRequestID(GetRequestID(r.Context())),
				))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
