// Package middleware provides the HTTP middleware of the mdnav API server.
//
// The server installs them outermost first:
//
//	r.Use(middleware.Recovery(logger))
//	r.Use(middleware.RequestID)
//	r.Use(tracer.HTTPMiddleware)
//	r.Use(middleware.Logging(logger))
//	r.Use(middleware.Metrics(collector))
package middleware
