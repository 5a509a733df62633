// internal/api/middleware.go
package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/observability"
	"moonlight-diary/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 80
)

// requestID reuses a sane inbound X-Request-ID or mints a UUID, and stores it
// where middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs completion of every request and feeds the OTel request
// instruments.
func requestLogger(log logger.Logger, obs *observability.Observability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := obs.StartSpan(r.Context(), "http.request",
				attribute.String("http.method", r.Method))
			defer span.End()

			recorder := newResponseRecorder(w)
			start := time.Now()

			next.ServeHTTP(recorder, r.WithContext(ctx))

			route := routePattern(r)
			status := recorder.Status()
			latency := time.Since(start)

			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			obs.RecordRequest(ctx, route, status, latency)

			fields := map[string]interface{}{
				"requestId": middleware.GetReqID(ctx),
				"method":    r.Method,
				"route":     route,
				"status":    status,
				"latencyMs": latency.Milliseconds(),
				"bytes":     recorder.BytesWritten(),
			}
			if status >= http.StatusBadRequest {
				log.Warn("request completed", fields)
			} else {
				log.Info("request completed", fields)
			}
		})
	}
}

// recoverer turns a panic into the in-character apology with HTTP 200.
func recoverer(log logger.Logger, errHandler *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered", map[string]interface{}{
					"requestId": middleware.GetReqID(r.Context()),
					"panic":     rec,
					"stack":     string(debug.Stack()),
				})
				if errHandler != nil {
					errHandler.Absorb(r.Context(), "api", apperrors.NewInternalError(panicError{rec}))
				}
				writeJSON(w, http.StatusOK, models.ApologyPayload())
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type panicError struct {
	value interface{}
}

func (p panicError) Error() string {
	return "panic: " + stringify(p.value)
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case error:
		return t.Error()
	case string:
		return t
	default:
		return "non-error panic value"
	}
}

func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if r.URL != nil && r.URL.Path != "" {
		return r.URL.Path
	}
	return "/"
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

func (r *responseRecorder) Status() int {
	return r.status
}

func (r *responseRecorder) BytesWritten() int64 {
	return r.bytes
}
