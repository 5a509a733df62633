// internal/workers/reading/complete-reading/handler.go
package completereading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moonlight-diary/internal/common/config"
	apperrors "moonlight-diary/internal/common/errors"
	httpclient "moonlight-diary/internal/common/http"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/metrics"
	"moonlight-diary/internal/common/race"
	"moonlight-diary/internal/common/validation"
	"moonlight-diary/internal/models"
	"moonlight-diary/pkg/registry"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "complete-reading"

var (
	ErrCompletionTimeout = errors.New("COMPLETION_TIMEOUT")
	ErrCompletionFailed  = errors.New("COMPLETION_FAILED")
)

// ChatCompleter is the slice of *openai.Client the orchestrator uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds the completion client. The client carries no
// timeout of its own; the race budget bounds every call.
func NewOpenAIClient(cfg *Config) *openai.Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = httpclient.NewClient(0).Standard()
	return openai.NewClientWithConfig(oc)
}

type Handler struct {
	config     *Config
	client     ChatCompleter
	persona    *registry.Persona
	schema     *validation.Schema
	sanitizer  *sanitizer
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, client ChatCompleter, persona *registry.Persona, errHandler *apperrors.ErrorHandler, log logger.Logger) (*Handler, error) {
	schema, err := persona.Schema()
	if err != nil {
		return nil, fmt.Errorf("persona %s: %w", persona.ID, err)
	}
	if schema == nil {
		schema = defaultSchema
	}

	return &Handler{
		config:     config,
		client:     client,
		persona:    persona,
		schema:     schema,
		sanitizer:  newSanitizer(),
		errHandler: errHandler,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"persona":  persona.ID,
		}),
	}, nil
}

// Execute never fails: every upstream problem turns into the fallback
// reading.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	history := models.CleanConversation(input.Messages)
	if len(history) == 0 {
		history = models.DefaultConversation()
	}

	forced := h.config.ShouldForce(history)
	if forced {
		metrics.TurnsForced.Inc()
	}

	start := time.Now()
	reading, err := h.complete(ctx, buildMessages(h.persona.SystemPrompt, h.persona.DrawDirective, history, forced))
	outcome := outcomeOf(err)
	metrics.CompletionOutcomes.WithLabelValues(string(outcome)).Inc()
	metrics.CompletionDuration.WithLabelValues(string(outcome)).Observe(time.Since(start).Seconds())

	out := &Output{Reading: reading, Source: models.SourceModel, Outcome: outcome, Forced: forced}
	if err != nil {
		h.absorb(ctx, err)
		out.Reading = FallbackReading()
		out.Source = models.SourceFallback
	}

	h.repair(&out.Reading)

	h.logger.Info("reading completed", map[string]interface{}{
		"outcome":    string(outcome),
		"source":     string(out.Source),
		"forced":     forced,
		"showCard":   out.Reading.ShowCard,
		"turns":      len(history),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return out
}

func (h *Handler) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (models.StructuredReading, error) {
	ctx, span := otel.Tracer(TaskType).Start(ctx, "reading.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", h.config.Model),
		attribute.Int("messages", len(messages)),
	)

	req := openai.ChatCompletionRequest{
		Model:       h.config.Model,
		Messages:    messages,
		MaxTokens:   h.config.MaxTokens,
		Temperature: h.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	raw, err := race.WithTimeout(ctx, h.config.Timeout, func(ctx context.Context) (string, error) {
		resp, err := h.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		if errors.Is(err, race.ErrTimeout) {
			err = fmt.Errorf("%w: no reply within %s", ErrCompletionTimeout, h.config.Timeout)
		} else {
			err = fmt.Errorf("%w: %v", ErrCompletionFailed, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.StructuredReading{}, err
	}

	reading, err := parseReading(raw, h.schema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.StructuredReading{}, err
	}

	h.sanitizer.reading(&reading)
	if strings.TrimSpace(reading.Reply) == "" {
		return models.StructuredReading{}, fmt.Errorf("%w: reply is empty after sanitizing", ErrReadingInvalid)
	}
	return reading, nil
}

// repair patches fields the model is known to drop.
func (h *Handler) repair(r *models.StructuredReading) {
	if h.config.Flow == config.FlowAlwaysDraw {
		r.ShowCard = true
	}
	if r.ShowCard && strings.TrimSpace(r.LuckyItem) == "" {
		r.LuckyItem = h.config.DefaultLuckyItem
	}
}

func (h *Handler) absorb(ctx context.Context, err error) {
	var stdErr *apperrors.StandardError
	switch {
	case errors.Is(err, ErrCompletionTimeout):
		stdErr = apperrors.NewCompletionTimeoutError(h.config.Timeout)
	case errors.Is(err, ErrReadingParse):
		stdErr = apperrors.NewReadingParseFailedError(err)
	case errors.Is(err, ErrReadingInvalid):
		stdErr = apperrors.NewReadingInvalidError(err.Error())
	default:
		stdErr = apperrors.NewCompletionFailedError(err)
	}

	if h.errHandler == nil {
		h.logger.Warn("completion failed, serving fallback reading", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	h.errHandler.Absorb(ctx, TaskType, stdErr)
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrCompletionTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrReadingParse):
		return OutcomeParseFailed
	case errors.Is(err, ErrReadingInvalid):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}
