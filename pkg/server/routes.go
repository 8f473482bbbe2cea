package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mdnav-hq/mdnav/pkg/server/middleware"
	"mdnav-hq/mdnav/pkg/server/types"
	"mdnav-hq/mdnav/pkg/telemetry/health"
)

// Handler returns the routed HTTP handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.RequestID)
	if s.tracer != nil {
		r.Use(s.tracer.HTTPMiddleware)
	}
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.Metrics(s.metrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		types.WriteError(w, types.NewErrorResponse(types.KindNotFound, "no route for "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		types.WriteError(w, types.NewErrorResponse(types.KindMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path))
	})

	r.Post("/v1/query", s.handleQuery)

	r.Get("/health", s.checker.LivenessHandler())
	r.Get("/ready", s.checker.ReadinessHandler())
	r.Get("/version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))

	if s.metrics != nil && s.metricsConfig != nil && s.metricsConfig.Enabled {
		r.Handle(s.metricsConfig.Path, s.metrics.Handler())
	}

	return r
}
