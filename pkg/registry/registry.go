// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"moonlight-diary/internal/common/validation"
)

//go:embed personas.json
var defaultRegistry []byte

func LoadRegistry(path string) (*PersonaRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// Default returns the registry compiled into the binary.
func Default() *PersonaRegistry {
	reg, err := parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("embedded persona registry: %v", err))
	}
	return reg
}

// LoadOrDefault reads path when set and falls back to the embedded registry
// otherwise.
func LoadOrDefault(path string) (*PersonaRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadRegistry(path)
}

func parse(data []byte) (*PersonaRegistry, error) {
	var reg PersonaRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return &reg, nil
}

// Find returns the persona with the given id.
func (r *PersonaRegistry) Find(id string) (*Persona, error) {
	for i := range r.Personas {
		if r.Personas[i].ID == id {
			return &r.Personas[i], nil
		}
	}
	return nil, fmt.Errorf("persona %q not found", id)
}

// Validate checks ids are unique, prompts are present and every output
// schema compiles.
func (r *PersonaRegistry) Validate() error {
	if len(r.Personas) == 0 {
		return fmt.Errorf("registry contains no personas")
	}

	ids := make(map[string]bool)
	for _, p := range r.Personas {
		if p.ID == "" {
			return fmt.Errorf("persona missing required field: ID")
		}
		if ids[p.ID] {
			return fmt.Errorf("duplicate persona ID: %s", p.ID)
		}
		ids[p.ID] = true

		if p.SystemPrompt == "" {
			return fmt.Errorf("persona %s missing required field: SystemPrompt", p.ID)
		}
		if p.DrawDirective == "" {
			return fmt.Errorf("persona %s missing required field: DrawDirective", p.ID)
		}
		if p.OutputSchema != nil {
			if _, err := p.Schema(); err != nil {
				return fmt.Errorf("persona %s: %w", p.ID, err)
			}
		}
	}
	return nil
}

// Schema compiles the persona's output schema. A persona without one gets
// nil and the caller's default applies.
func (p *Persona) Schema() (*validation.Schema, error) {
	if p.OutputSchema == nil {
		return nil, nil
	}
	return validation.CompileSchemaMap(p.OutputSchema)
}
