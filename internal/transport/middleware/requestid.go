package middleware

import (
	"net/http"

	"github.com/raccordement/raccordement-service/pkg/logger"

	"github.com/google/uuid"
)

// TraceHeader carries the correlation id between the front end, the API
// and the structured logs. CORS must allow it so the browser can send one.
const TraceHeader = "X-Trace-ID"

// TraceID tags every request with a trace id, minting one when the caller
// did not send a header, and echoes it on the response so the front end can
// surface it in support tickets.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace := r.Header.Get(TraceHeader)
		if trace == "" {
			trace = uuid.NewString()
		}

		w.Header().Set(TraceHeader, trace)

		ctx := logger.With(r.Context(), "traceID", trace)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
