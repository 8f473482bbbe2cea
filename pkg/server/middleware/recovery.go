package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mdnav-hq/mdnav/pkg/server/types"
	"mdnav-hq/mdnav/pkg/telemetry/logging"
)

// Recovery turns a handler panic into a 500 with a JSON error body. The
// panic and stack are logged; neither is sent to the client.
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
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

				logger.ErrorContext(r.Context(), "panic in handler",
					"error", rec,
					"request_id", logging.GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				types.WriteError(w, types.NewServerError("an internal error occurred"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
