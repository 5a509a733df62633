// internal/app/app.go
package app

import (
	"fmt"
	"net/http"

	"moonlight-diary/internal/api"
	"moonlight-diary/internal/common/config"
	"moonlight-diary/internal/common/database"
	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/metrics"
	"moonlight-diary/internal/common/observability"
	affiliatelookup "moonlight-diary/internal/workers/affiliate/affiliate-lookup"
	resolvelink "moonlight-diary/internal/workers/affiliate/resolve-link"
	assembleresponse "moonlight-diary/internal/workers/reading/assemble-response"
	canonicalizecard "moonlight-diary/internal/workers/reading/canonicalize-card"
	completereading "moonlight-diary/internal/workers/reading/complete-reading"
	"moonlight-diary/pkg/registry"
)

type Options struct {
	Config *config.Config
	Logger logger.Logger
	// Redis enables the link cache and the readiness check. Optional.
	Redis         *database.RedisClient
	Observability *observability.Observability
	// Completer replaces the OpenAI client. Optional.
	Completer completereading.ChatCompleter
}

// NewHandler wires the reading pipeline behind the HTTP router.
func NewHandler(opts Options) (http.Handler, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	errHandler := apperrors.NewErrorHandler(logger.ForComponent(log, "errors"), metrics.RecordAbsorbedError)

	reg, err := registry.LoadOrDefault(cfg.Reading.PersonaRegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load persona registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("persona registry: %w", err)
	}
	persona, err := reg.Find(cfg.Reading.PersonaID)
	if err != nil {
		return nil, err
	}

	// --- Affiliate link pipeline ---
	lookupCfg := affiliatelookup.FromAppConfig(cfg.Affiliate)
	var lookup affiliatelookup.Lookuper = affiliatelookup.NewHandler(lookupCfg, log)
	if opts.Redis != nil {
		lookup = affiliatelookup.NewCachedLookup(lookup, opts.Redis, lookupCfg.CacheTTL, errHandler, log)
	}
	if !cfg.Affiliate.HasCredentials() {
		log.Warn("affiliate credentials missing, links fall back to search pages", nil)
	}
	links := resolvelink.NewHandler(resolvelink.FromAppConfig(cfg.Affiliate), lookup, errHandler, log)

	// --- Reading pipeline ---
	readingCfg := completereading.FromAppConfig(cfg.OpenAI, cfg.Reading)
	completer := opts.Completer
	if completer == nil {
		completer = completereading.NewOpenAIClient(readingCfg)
	}
	reading, err := completereading.NewHandler(readingCfg, completer, persona, errHandler, log)
	if err != nil {
		return nil, err
	}

	cards := canonicalizecard.NewHandler(canonicalizecard.LoadConfig(), log)
	assembler := assembleresponse.NewHandler(
		&assembleresponse.Config{ResolveInline: cfg.Affiliate.ResolveInline}, cards, links, log)

	// --- HTTP ---
	var pinger api.Pinger
	if opts.Redis != nil {
		pinger = opts.Redis
	}

	maxBody := cfg.Server.MaxBodyBytes
	return api.NewRouter(api.Dependencies{
		Chat:          api.NewChatHandler(reading, assembler, errHandler, log, maxBody),
		Coupang:       api.NewCoupangHandler(links, errHandler, log, maxBody),
		Health:        api.NewHealthHandlers(cfg.App.Version, pinger),
		Logger:        log,
		ErrorHandler:  errHandler,
		Observability: opts.Observability,
	}), nil
}
