// Package logger builds slog loggers for the framework: JSON or text output,
// context extractors that enrich each record with request-scoped values,
// and optional Sentry fan-out.
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithExtractors(middlewares.RequestIDExtractor()),
//	)
//	log.InfoContext(ctx, "dispatched", slog.String("module", "admin"))
//
// Extractors run on every log call, so values stored in the context after
// the logger was created are still picked up.
//
// With WithSentry and a non-empty DSN, warnings and errors are also sent to
// Sentry; errors become issues. An empty DSN or a failed Sentry init keeps
// logging on the primary handler only.
package logger
