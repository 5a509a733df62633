// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Chat          *ChatHandler
	Coupang       *CoupangHandler
	Health        *HealthHandlers
	Logger        logger.Logger
	ErrorHandler  *apperrors.ErrorHandler
	Observability *observability.Observability
	// Metrics serves /metrics; nil uses the default Prometheus registry.
	Metrics http.Handler
}

// NewRouter wires the routes behind the shared middleware stack.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	log := logger.ForComponent(deps.Logger, "http")
	r.Use(
		requestID,
		middleware.RealIP,
		requestLogger(log, deps.Observability),
		recoverer(log, deps.ErrorHandler),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, "route_not_found", fmt.Sprintf("no route for %s", req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusMethodNotAllowed, "method_not_allowed",
			fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path))
	})

	health := deps.Health
	if health == nil {
		health = NewHealthHandlers("", nil)
	}
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api", func(api chi.Router) {
		api.Method(http.MethodPost, "/chat", deps.Chat)
		api.Method(http.MethodPost, "/coupang", deps.Coupang)
	})

	return r
}
