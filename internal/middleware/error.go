package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	logpkg "github.com/polyglotta/polyglotta-api/internal/logger"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// Recovery creates panic recovery middleware. Panic details stay in the
// logs; the client only ever sees a generic message.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", logpkg.SanitizePath(r.URL.Path)),
						zap.String("method", r.Method),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					response := ErrorResponse{
						Success:   false,
						Error:     "Internal Server Error",
						Message:   "An unexpected error occurred",
						Timestamp: time.Now().UTC().Format(time.RFC3339),
						Path:      r.URL.Path,
					}
					if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
						logger.Error("failed_to_encode_error_response", zap.Error(encodeErr))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
