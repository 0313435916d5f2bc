// Package metrics exposes Prometheus metrics for the request pipeline.
//
// A Collector counts dispatches by descriptor kind, responses by status and
// module initializations, and measures HTTP request duration:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg, "anvil")
//	m.Attach(bus)                      // app_begin, module_init, app_end
//	r.Use(m.Middleware)
//	r.Handle("/metrics", metrics.Handler(reg))
package metrics
