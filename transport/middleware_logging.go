package transport

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	utilsContext "github.com/muhammadheryan/landing-api/utils/context"
	"github.com/muhammadheryan/landing-api/utils/logger"
	"github.com/muhammadheryan/landing-api/utils/ratelimit"
	"go.uber.org/zap"
)

// LoggingMiddleware resolves the client identifier for the request and logs
// every request with its outcome.
func LoggingMiddleware(trustProxy bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			clientID := ratelimit.ClientID(r, trustProxy)
			r = r.WithContext(utilsContext.WithClientID(r.Context(), clientID))

			// Wrap response writer to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			logger.Info(
				"HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("client", clientID),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", duration),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
