// internal/workers/reading/complete-reading/parse.go
package completereading

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"moonlight-diary/internal/common/validation"
	"moonlight-diary/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrReadingParse   = errors.New("READING_PARSE_FAILED")
	ErrReadingInvalid = errors.New("READING_INVALID")
)

// readingSchema applies when the persona ships no output schema.
const readingSchema = `{
  "type": "object",
  "required": ["reply", "showCard"],
  "properties": {
    "reply": {"type": "string", "minLength": 1},
    "showCard": {"type": "boolean"},
    "cardName": {"type": ["string", "null"]},
    "cardKeywords": {"type": ["array", "null"], "items": {"type": "string"}},
    "cardDescription": {"type": ["string", "null"]},
    "cardAnalysis": {"type": ["string", "null"]},
    "cardAdvice": {"type": ["string", "null"]},
    "teaser": {"type": ["string", "null"]},
    "luckyItem": {"type": ["string", "null"]}
  }
}`

var defaultSchema = validation.MustCompileSchema(readingSchema)

// StripFences removes a surrounding ``` or ```json fence and whitespace.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	// prose around the object
	if !strings.HasPrefix(s, "{") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}

// parseReading turns raw model text into a validated reading.
func parseReading(raw string, schema *validation.Schema) (models.StructuredReading, error) {
	var reading models.StructuredReading

	doc := []byte(StripFences(raw))
	if !json.Valid(doc) {
		return reading, fmt.Errorf("%w: not a JSON document", ErrReadingParse)
	}

	result, err := schema.ValidateBytes(doc)
	if err != nil {
		return reading, fmt.Errorf("%w: %v", ErrReadingParse, err)
	}
	if !result.Valid {
		return reading, fmt.Errorf("%w: %s", ErrReadingInvalid, strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal(doc, &reading); err != nil {
		return reading, fmt.Errorf("%w: %v", ErrReadingParse, err)
	}
	return reading, nil
}

const maxUnescapePasses = 8

var angleBrackets = strings.NewReplacer("<", "", ">", "")

type sanitizer struct {
	policy *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	return &sanitizer{policy: bluemonday.StrictPolicy()}
}

// text strips markup and returns plain text. Nested entity escapes are
// decoded before the policy runs, so sanitizing is always the last markup
// step; angle brackets that survive as text are dropped.
func (s *sanitizer) text(in string) string {
	out := in
	for i := 0; i < maxUnescapePasses; i++ {
		next := html.UnescapeString(out)
		if next == out {
			break
		}
		out = next
	}

	out = html.UnescapeString(s.policy.Sanitize(out))
	return strings.TrimSpace(angleBrackets.Replace(out))
}

func (s *sanitizer) reading(r *models.StructuredReading) {
	r.Reply = s.text(r.Reply)
	r.CardName = s.text(r.CardName)
	r.CardDescription = s.text(r.CardDescription)
	r.CardAnalysis = s.text(r.CardAnalysis)
	r.CardAdvice = s.text(r.CardAdvice)
	r.Teaser = s.text(r.Teaser)
	r.LuckyItem = s.text(r.LuckyItem)

	var keywords []string
	for _, k := range r.CardKeywords {
		if k = s.text(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	r.CardKeywords = keywords
}
