// internal/workers/reading/canonicalize-card/handler.go
package canonicalizecard

import (
	"strings"

	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/models"

	"golang.org/x/text/unicode/norm"
)

const TaskType = "canonicalize-card"

// spellings the model commonly uses for catalog names
var aliases = map[string]string{
	"judgment":     "judgement",
	"the_judgment": "judgement",
}

type Handler struct {
	config      *Config
	defaultCard models.CardID
	logger      logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	defaultCard := config.DefaultCard
	if !models.InCatalog(defaultCard) {
		defaultCard = models.DefaultCardID
	}
	return &Handler{
		config:      config,
		defaultCard: defaultCard,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Canonicalize maps any token onto the 78-card catalog.
func (h *Handler) Canonicalize(name string) models.CardID {
	return h.Execute(&Input{CardName: name}).CardID
}

func (h *Handler) Execute(input *Input) *Output {
	id := Normalize(input.CardName)
	if models.InCatalog(id) {
		return &Output{CardID: id, ImagePath: id.ImagePath()}
	}

	h.logger.Info("card name outside catalog, using default", map[string]interface{}{
		"cardName": input.CardName,
		"default":  string(h.defaultCard),
	})
	return &Output{
		CardID:      h.defaultCard,
		ImagePath:   h.defaultCard.ImagePath(),
		Substituted: true,
	}
}

// Normalize applies the naming rules without checking the catalog.
func Normalize(name string) models.CardID {
	s := strings.ToLower(norm.NFKC.String(name))
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, models.MajorPrefix)
	s = strings.TrimPrefix(s, "the ")
	s = strings.TrimSpace(s)
	s = joinWords(s)
	if alias, ok := aliases[s]; ok {
		s = alias
	}

	if models.IsMajor(s) {
		return models.CardID(models.MajorPrefix + s)
	}
	return models.CardID(s)
}

// joinWords collapses runs of spaces, hyphens and underscores into a single
// underscore.
func joinWords(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	})
	return strings.Join(fields, "_")
}
