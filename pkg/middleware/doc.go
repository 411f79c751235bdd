// Package middleware provides observability middleware for render calls.
//
// This package includes:
//   - Prometheus metrics middleware
//   - OpenTelemetry tracing middleware
//
// Both wrap enhance.Middleware and are installed with enhance.WithMiddleware.
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - enhance_renders_total: Renders by name and status
//   - enhance_render_duration_seconds: Render duration histogram by name
//   - enhance_elements_expanded_total: Custom elements expanded
//   - enhance_render_errors_total: Render errors by name and error code
//
//	e, err := enhance.New(
//	    enhance.WithMiddleware(
//	        middleware.Prometheus(middleware.WithNamespace("site")),
//	    ),
//	)
//
// Expose the metrics with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// The OpenTelemetry middleware starts an "enhance.render" span for every
// render, recording the render name, element count and errors. The span is
// carried by the context passed to the render, so render functions that use
// the context inherit it.
//
//	enhance.WithMiddleware(
//	    middleware.OpenTelemetry(middleware.WithTracerName("site")),
//	)
//
// Names come from enhance.WithName on the render context; the page server
// sets the request path.
package middleware
