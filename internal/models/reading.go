// internal/models/reading.go
package models

// StructuredReading is the completion output after parsing and validation.
type StructuredReading struct {
	Reply           string   `json:"reply"`
	ShowCard        bool     `json:"showCard"`
	CardName        string   `json:"cardName,omitempty"`
	CardKeywords    []string `json:"cardKeywords,omitempty"`
	CardDescription string   `json:"cardDescription,omitempty"`
	CardAnalysis    string   `json:"cardAnalysis,omitempty"`
	CardAdvice      string   `json:"cardAdvice,omitempty"`
	Teaser          string   `json:"teaser,omitempty"`
	LuckyItem       string   `json:"luckyItem,omitempty"`
}

// ReadingSource tells where a reading came from.
type ReadingSource string

const (
	SourceModel    ReadingSource = "model"
	SourceFallback ReadingSource = "fallback"
)
