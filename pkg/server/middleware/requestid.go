package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"mdnav-hq/mdnav/pkg/telemetry/logging"
)

// RequestIDHeader is the HTTP header for request ID.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client-supplied IDs.
const maxRequestIDLength = 128

// RequestID assigns each request an ID and echoes it in the X-Request-ID
// response header. A client-supplied X-Request-ID is kept when it is short
// enough; otherwise a UUID is generated.
//
// The ID is stored with logging.WithRequestID, so handlers and loggers read
// it with logging.GetRequestID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
