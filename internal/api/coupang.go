// internal/api/coupang.go
package api

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/models"

	"github.com/go-chi/chi/v5/middleware"
)

type LinkResolver interface {
	Resolve(ctx context.Context, keyword string) string
	FallbackURL(keyword string) string
}

type CoupangHandler struct {
	links        LinkResolver
	errHandler   *apperrors.ErrorHandler
	logger       logger.Logger
	maxBodyBytes int64
}

func NewCoupangHandler(links LinkResolver, errHandler *apperrors.ErrorHandler, log logger.Logger, maxBodyBytes int64) *CoupangHandler {
	return &CoupangHandler{
		links:        links,
		errHandler:   errHandler,
		logger:       logger.ForComponent(log, "coupang"),
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *CoupangHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.LinkRequest

	// a failure past decoding still answers with the search link
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.errHandler.Absorb(r.Context(), "coupang", apperrors.NewInternalError(panicError{rec}))
			writeJSON(w, http.StatusOK, models.LinkPayload{Link: h.links.FallbackURL(req.Keyword)})
		}
	}()

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.errHandler.Absorb(r.Context(), "coupang",
			apperrors.NewInvalidRequestBodyError(err).WithMetadata("requestId", middleware.GetReqID(r.Context())))
		req.Keyword = ""
	}

	link := h.links.Resolve(r.Context(), req.Keyword)
	writeJSON(w, http.StatusOK, models.LinkPayload{Link: link})
}
