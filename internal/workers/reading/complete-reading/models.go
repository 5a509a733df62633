// internal/workers/reading/complete-reading/models.go
package completereading

import "moonlight-diary/internal/models"

type Input struct {
	Messages []models.ConversationMessage `json:"messages"`
}

// Outcome labels how a completion attempt ended.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeFailed      Outcome = "failed"
	OutcomeParseFailed Outcome = "parse_failed"
	OutcomeInvalid     Outcome = "invalid"
)

type Output struct {
	Reading models.StructuredReading `json:"reading"`
	Source  models.ReadingSource     `json:"source"`
	Outcome Outcome                  `json:"outcome"`
	// Forced is true when the draw directive was appended.
	Forced bool `json:"forced"`
}
