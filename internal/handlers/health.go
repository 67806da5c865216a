package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/polyglotta/polyglotta-api/internal/database"
	"github.com/redis/go-redis/v9"
)

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthChecker checks the health of backing services
type HealthChecker struct {
	db    *database.DB
	redis *redis.Client
}

// NewHealthChecker creates a health checker
func NewHealthChecker(db *database.DB, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{db: db, redis: redisClient}
}

// HealthCheck reports service health. With ?mode=extended it pings each
// backing service individually.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		response.Checks = map[string]string{
			"database": "healthy",
			"redis":    "healthy",
		}

		if h.db != nil {
			if err := h.db.PingContext(ctx); err != nil {
				response.Checks["database"] = "unhealthy"
				response.Status = "unhealthy"
				status = http.StatusServiceUnavailable
			}
		}
		if h.redis != nil {
			if err := h.redis.Ping(ctx).Err(); err != nil {
				response.Checks["redis"] = "unhealthy"
				response.Status = "unhealthy"
				status = http.StatusServiceUnavailable
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
