// Package models picks free OpenRouter models for personas configured with the
// "auto" model.
package models

import (
	"context"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

// Auto is the model name that asks for a free model to be picked at startup.
const Auto = "auto"

// Registry holds a filtered list of free models.
type Registry struct {
	free []backend.Model
}

// NewRegistry creates a registry, keeping only free models (Prompt == "0" and Completion == "0").
// Models with nil Pricing are excluded.
func NewRegistry(models []backend.Model) *Registry {
	var free []backend.Model
	for _, m := range models {
		if m.Pricing == nil {
			continue
		}
		if m.Pricing.Prompt == "0" && m.Pricing.Completion == "0" {
			free = append(free, m)
		}
	}
	return &Registry{free: free}
}

// FreeModels returns all free models in the registry.
func (r *Registry) FreeModels() []backend.Model {
	return r.free
}

// SelectModels returns n models from the free list, cycling if n > available.
func (r *Registry) SelectModels(n int) []backend.Model {
	if len(r.free) == 0 {
		return nil
	}
	selected := make([]backend.Model, n)
	for i := range n {
		selected[i] = r.free[i%len(r.free)]
	}
	return selected
}

// DefaultFreeModels returns a hardcoded fallback list of known free models.
func DefaultFreeModels() []backend.Model {
	free := &backend.Pricing{Prompt: "0", Completion: "0"}
	return []backend.Model{
		{ID: "meta-llama/llama-3.3-70b-instruct:free", Name: "Llama 3.3 70B Instruct", Pricing: free},
		{ID: "mistralai/mistral-small-3.2-24b-instruct:free", Name: "Mistral Small 3.2 24B", Pricing: free},
		{ID: "qwen/qwen3-235b-a22b:free", Name: "Qwen3 235B A22B", Pricing: free},
		{ID: "google/gemma-3-27b-it:free", Name: "Gemma 3 27B", Pricing: free},
		{ID: "openai/gpt-oss-120b:free", Name: "GPT OSS 120B", Pricing: free},
	}
}

// Lister fetches the live model catalogue.
type Lister interface {
	ListModels(ctx context.Context) ([]backend.Model, error)
}

// ResolveAuto replaces the "auto" model of every OpenRouter persona with a
// distinct free model, cycling when there are fewer free models than
// personas. The live catalogue comes from lister; when it cannot be fetched or
// lists nothing free, the built-in list is used and the fetch error is
// returned alongside the resolved personas so the caller can warn.
func ResolveAuto(ctx context.Context, lister Lister, personas []persona.Persona) ([]persona.Persona, error) {
	var auto []int
	for i, p := range personas {
		if p.Backend.Kind == backend.KindOpenRouter && p.Backend.Model == Auto {
			auto = append(auto, i)
		}
	}
	out := append([]persona.Persona(nil), personas...)
	if len(auto) == 0 {
		return out, nil
	}

	all, err := lister.ListModels(ctx)
	if err != nil {
		all = DefaultFreeModels()
	}
	registry := NewRegistry(all)
	if len(registry.FreeModels()) == 0 {
		registry = NewRegistry(DefaultFreeModels())
	}

	selected := registry.SelectModels(len(auto))
	for n, i := range auto {
		out[i].Backend.Model = selected[n].ID
	}
	return out, err
}
