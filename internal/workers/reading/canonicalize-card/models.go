// internal/workers/reading/canonicalize-card/models.go
package canonicalizecard

import "moonlight-diary/internal/models"

type Input struct {
	CardName string `json:"cardName"`
}

type Output struct {
	CardID    models.CardID `json:"cardId"`
	ImagePath string        `json:"imagePath"`
	// Substituted is true when the input missed the catalog.
	Substituted bool `json:"substituted"`
}
