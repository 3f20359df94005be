package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses a caller-supplied X-Request-ID or mints a new one, echoes
// it on the response and tags the request logger with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logger.With(r.Context(), "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
