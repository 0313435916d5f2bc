package internal

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/anvil/pkg/logger"
)

// DispatchExtractor adds the resolved module, controller and action of the
// pipeline request in ctx to log records.
func DispatchExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		req, ok := RequestFromContext(ctx)
		if !ok || (req.Module() == "" && req.Controller() == "" && req.Action() == "") {
			return slog.Attr{}, false
		}
		attrs := make([]any, 0, 3)
		if req.Module() != "" {
			attrs = append(attrs, slog.String("module", req.Module()))
		}
		if req.Controller() != "" {
			attrs = append(attrs, slog.String("controller", req.Controller()))
		}
		if req.Action() != "" {
			attrs = append(attrs, slog.String("action", req.Action()))
		}
		return slog.Group("dispatch", attrs...), true
	}
}

// LangsetExtractor adds the language set of the pipeline request in ctx.
func LangsetExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		req, ok := RequestFromContext(ctx)
		if !ok || req.Langset() == "" {
			return slog.Attr{}, false
		}
		return slog.String("lang", req.Langset()), true
	}
}
