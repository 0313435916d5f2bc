// Package health provides liveness and readiness handlers.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "app":   app.Ready,
//	    "redis": cache.Ping(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Checks run concurrently under a shared timeout. Responses are plain text
// ("OK" or "Service Unavailable") unless the client asks for JSON with
// Accept: application/json or ?format=json:
//
//	{"status": "unhealthy", "checks": {"redis": {"status": "unhealthy", "error": "..."}}}
package health
