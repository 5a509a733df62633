// internal/workers/reading/assemble-response/handler.go
package assembleresponse

import (
	"context"
	"strings"

	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/metrics"
	"moonlight-diary/internal/models"
)

const TaskType = "assemble-response"

type CardCanonicalizer interface {
	Canonicalize(name string) models.CardID
}

type LinkResolver interface {
	Resolve(ctx context.Context, keyword string) string
}

type Handler struct {
	config *Config
	cards  CardCanonicalizer
	links  LinkResolver
	logger logger.Logger
}

func NewHandler(config *Config, cards CardCanonicalizer, links LinkResolver, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		cards:  cards,
		links:  links,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) *models.ResponsePayload {
	r := input.Reading

	if !r.ShowCard {
		return &models.ResponsePayload{Reply: r.Reply}
	}

	id := h.cards.Canonicalize(r.CardName)
	image := id.ImagePath()
	metrics.CardsShown.WithLabelValues(string(id)).Inc()

	payload := &models.ResponsePayload{
		Reply:           r.Reply,
		ShowCard:        true,
		Image:           &image,
		CardName:        string(id),
		CardKeywords:    r.CardKeywords,
		CardDescription: r.CardDescription,
		CardAnalysis:    r.CardAnalysis,
		CardAdvice:      r.CardAdvice,
		Teaser:          r.Teaser,
		LuckyItem:       r.LuckyItem,
	}

	if h.config.ResolveInline && h.links != nil && strings.TrimSpace(r.LuckyItem) != "" {
		link := h.links.Resolve(ctx, r.LuckyItem)
		payload.CoupangLink = &link
	}

	h.logger.Debug("response assembled", map[string]interface{}{
		"card":    string(id),
		"hasLink": payload.CoupangLink != nil,
	})
	return payload
}
