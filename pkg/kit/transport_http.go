package kit

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in and out of HTTP exchanges.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new UUID, echoes
// it in the response and stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := WithTransport(WithRequestID(r.Context(), id), TransportHTTP)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
