// Package middlewares provides net/http middleware for Anvil applications.
//
// # Request ID
//
// RequestID assigns an ID to each request for tracing. It keeps an upstream
// ID from the request headers or generates a UUID.
//
//	app := anvil.New(
//	    anvil.WithLogger(logger.New(logger.WithExtractors(middlewares.RequestIDExtractor()))),
//	    anvil.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover catches panics in the pipeline, logs them and renders a 500. The
// rendered error wraps a *PanicError:
//
//	anvil.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Recover(
//	        middlewares.WithRecoverLogger(log),
//	        middlewares.WithRecoverErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
//	            pe, _ := middlewares.AsPanicError(err)
//	            http.Error(w, fmt.Sprint(pe.Value), http.StatusInternalServerError)
//	        }),
//	    ),
//	)
//
// Register RequestID before Recover so panic logs carry the request ID.
package middlewares
