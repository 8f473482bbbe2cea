package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mdnav-hq/mdnav/pkg/telemetry/metrics"
)

// Metrics records request count, latency and in-flight requests on c. The
// route label is the chi route pattern (e.g. "/v1/query"), never the raw
// path, so unknown paths cannot grow label cardinality. It must be
// installed with chi's Router.Use so the pattern is resolved by the time
// the handler returns.
func Metrics(c *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := c.TrackInFlight()
			defer done()

			start := time.Now()
			ww := wrap(w, r)
			next.ServeHTTP(ww, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			c.RecordHTTPRequest(r.Method, route, statusOf(ww), time.Since(start))
		})
	}
}
