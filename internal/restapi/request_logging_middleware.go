package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"wayfinder.opentransit.org/internal/logging"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLoggingMiddleware logs every request with its status and timing,
// and places the application logger on the request context for downstream
// handlers.
func (api *RestAPI) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := logging.WithLogger(r.Context(), api.Logger)
		r = r.WithContext(ctx)

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		logging.LogHTTPRequest(api.Logger,
			r.Method,
			r.URL.Path,
			wrapped.statusCode,
			float64(duration.Nanoseconds())/1e6,
			slog.String("user_agent", r.Header.Get("User-Agent")),
			slog.String("component", "http_server"))
	})
}
