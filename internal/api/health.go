// internal/api/health.go
package api

import (
	"context"
	"net/http"
	"time"
)

var startTime = time.Now()

// Pinger is satisfied by database.RedisClient.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandlers struct {
	version string
	redis   Pinger
}

// NewHealthHandlers builds the probes. redis may be nil when the link cache
// is disabled.
func NewHealthHandlers(version string, redis Pinger) *HealthHandlers {
	return &HealthHandlers{version: version, redis: redis}
}

func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"uptime":    time.Since(startTime).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	status := http.StatusOK

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
