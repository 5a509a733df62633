// internal/workers/affiliate/resolve-link/handler.go
package resolvelink

import (
	"context"
	"errors"
	"strings"

	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/metrics"
	affiliatelookup "moonlight-diary/internal/workers/affiliate/affiliate-lookup"
)

const TaskType = "resolve-link"

type Handler struct {
	config     *Config
	lookup     affiliatelookup.Lookuper
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler wraps lookup. A nil lookup always produces the search fallback.
func NewHandler(config *Config, lookup affiliatelookup.Lookuper, errHandler *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		lookup:     lookup,
		errHandler: errHandler,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Resolve always returns a usable URL.
func (h *Handler) Resolve(ctx context.Context, keyword string) string {
	return h.Execute(ctx, &Input{Keyword: keyword}).Link
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	keyword := strings.TrimSpace(input.Keyword)

	if keyword != "" && h.lookup != nil {
		link, err := h.lookup.Lookup(ctx, keyword)
		if err == nil && link != "" {
			metrics.LinkResolutions.WithLabelValues(string(SourceLookup)).Inc()
			return &Output{Link: link, Source: SourceLookup}
		}
		if err != nil {
			h.absorb(ctx, keyword, err)
		}
	}

	metrics.LinkResolutions.WithLabelValues(string(SourceFallback)).Inc()
	return &Output{Link: h.FallbackURL(keyword), Source: SourceFallback}
}

// FallbackURL builds the plain search-results URL for keyword. It cannot fail.
func (h *Handler) FallbackURL(keyword string) string {
	return h.config.SearchURL + "?component=&q=" + affiliatelookup.EscapeKeyword(keyword) + "&channel=user"
}

func (h *Handler) absorb(ctx context.Context, keyword string, err error) {
	var stdErr *apperrors.StandardError
	switch {
	case errors.Is(err, affiliatelookup.ErrCredentialsMissing):
		stdErr = apperrors.NewAffiliateCredentialsMissingError()
	case errors.Is(err, affiliatelookup.ErrNoProduct):
		stdErr = apperrors.NewAffiliateNoProductError(keyword)
	default:
		stdErr = apperrors.NewAffiliateRequestFailedError(err)
	}

	if h.errHandler == nil {
		h.logger.Warn("affiliate lookup failed, using search fallback", map[string]interface{}{
			"keyword": keyword,
			"error":   err.Error(),
		})
		return
	}
	h.errHandler.Absorb(ctx, TaskType, stdErr.WithMetadata("keyword", keyword))
}
