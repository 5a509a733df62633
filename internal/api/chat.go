// internal/api/chat.go
package api

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/metrics"
	"moonlight-diary/internal/models"
	assembleresponse "moonlight-diary/internal/workers/reading/assemble-response"
	completereading "moonlight-diary/internal/workers/reading/complete-reading"

	"github.com/go-chi/chi/v5/middleware"
)

type ReadingCompleter interface {
	Execute(ctx context.Context, input *completereading.Input) *completereading.Output
}

type ResponseAssembler interface {
	Execute(ctx context.Context, input *assembleresponse.Input) *models.ResponsePayload
}

type ChatHandler struct {
	reading      ReadingCompleter
	assembler    ResponseAssembler
	errHandler   *apperrors.ErrorHandler
	logger       logger.Logger
	maxBodyBytes int64
}

func NewChatHandler(reading ReadingCompleter, assembler ResponseAssembler, errHandler *apperrors.ErrorHandler, log logger.Logger, maxBodyBytes int64) *ChatHandler {
	return &ChatHandler{
		reading:      reading,
		assembler:    assembler,
		errHandler:   errHandler,
		logger:       logger.ForComponent(log, "chat"),
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	messages := h.decode(w, r)

	out := h.reading.Execute(ctx, &completereading.Input{Messages: messages})
	payload := h.assembler.Execute(ctx, &assembleresponse.Input{Reading: out.Reading})

	metrics.ChatRequests.WithLabelValues(string(out.Outcome)).Inc()
	h.logger.Debug("chat answered", map[string]interface{}{
		"requestId": middleware.GetReqID(ctx),
		"source":    string(out.Source),
		"showCard":  payload.ShowCard,
	})

	writeJSON(w, http.StatusOK, payload)
}

// decode reads the history. An unreadable body becomes the default
// conversation.
func (h *ChatHandler) decode(w http.ResponseWriter, r *http.Request) []models.ConversationMessage {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req models.ChatRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.errHandler.Absorb(r.Context(), "chat",
			apperrors.NewInvalidRequestBodyError(err).WithMetadata("requestId", middleware.GetReqID(r.Context())))
		return models.DefaultConversation()
	}
	return req.Messages
}
