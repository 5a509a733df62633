// pkg/registry/schema.go
package registry

// PersonaRegistry is the versioned set of system personas the completion
// orchestrator can run with.
type PersonaRegistry struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Personas    []Persona `json:"personas"`
}

type Persona struct {
	ID            string                 `json:"id"`
	DisplayName   string                 `json:"displayName"`
	Description   string                 `json:"description"`
	Version       string                 `json:"version"`
	Flow          string                 `json:"flow"`
	SystemPrompt  string                 `json:"systemPrompt"`
	DrawDirective string                 `json:"drawDirective"`
	OutputSchema  map[string]interface{} `json:"outputSchema"`
	Tags          []string               `json:"tags"`
}
