package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/teammatch/backend/pkg/response"
)

// Pinger is a dependency the readiness check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	version string
	deps    map[string]Pinger
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler. deps are checked by Ready.
func NewHealthHandler(version string, deps map[string]Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		version: version,
		deps:    deps,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health returns the health status
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	})
}

// Ready reports whether every dependency answers a ping
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.deps)),
	}
	status := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	response.JSON(w, status, resp)
}

// Live returns the liveness status
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	response.OK(w, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
