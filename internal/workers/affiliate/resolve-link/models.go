// internal/workers/affiliate/resolve-link/models.go
package resolvelink

type Input struct {
	Keyword string `json:"keyword"`
}

type LinkSource string

const (
	SourceLookup   LinkSource = "lookup"
	SourceFallback LinkSource = "fallback"
)

type Output struct {
	Link   string     `json:"link"`
	Source LinkSource `json:"source"`
}
