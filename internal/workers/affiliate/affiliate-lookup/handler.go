// internal/workers/affiliate/affiliate-lookup/handler.go
package affiliatelookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	httpclient "moonlight-diary/internal/common/http"
	"moonlight-diary/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	TaskType  = "affiliate-lookup"
	UserAgent = "moonlight-diary/1.0"

	maxResponseBytes = 1 << 20
)

var (
	ErrCredentialsMissing = errors.New("AFFILIATE_CREDENTIALS_MISSING")
	ErrRequestFailed      = errors.New("AFFILIATE_REQUEST_FAILED")
	ErrNoProduct          = errors.New("AFFILIATE_NO_PRODUCT")
)

// Lookuper turns a keyword into a monetized product link.
type Lookuper interface {
	Lookup(ctx context.Context, keyword string) (string, error)
}

type Handler struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: httpclient.NewClient(config.Timeout).WithUserAgent(UserAgent),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
		now: time.Now,
	}
}

// Lookup implements Lookuper.
func (h *Handler) Lookup(ctx context.Context, keyword string) (string, error) {
	out, err := h.Execute(ctx, &Input{Keyword: keyword})
	if err != nil {
		return "", err
	}
	return out.ProductURL, nil
}

// Execute performs one signed product search and returns the best match.
// There are no retries.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.hasCredentials() {
		return nil, ErrCredentialsMissing
	}

	ctx, span := otel.Tracer(TaskType).Start(ctx, "affiliate.search")
	defer span.End()
	span.SetAttributes(attribute.Int("keyword.runes", len([]rune(input.Keyword))))

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	out, err := h.execute(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	rawQuery := searchQuery(input.Keyword, h.config.ResultLimit)
	endpoint := strings.TrimRight(h.config.BaseURL, "/") + SearchPath + "?" + rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", Authorization(
		h.config.AccessKey, h.config.SecretKey, http.MethodGet, SearchPath, rawQuery, h.now()))
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: search API returned %d", ErrRequestFailed, resp.StatusCode)
	}

	var apiResponse searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrRequestFailed, err)
	}

	if len(apiResponse.Data.ProductData) == 0 || apiResponse.Data.ProductData[0].ProductURL == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoProduct, input.Keyword)
	}

	best := apiResponse.Data.ProductData[0]
	h.logger.Info("affiliate product found", map[string]interface{}{
		"keyword":    input.Keyword,
		"productId":  best.ProductID,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Output{
		ProductURL:  best.ProductURL,
		ProductName: best.ProductName,
		ProductID:   best.ProductID,
	}, nil
}
