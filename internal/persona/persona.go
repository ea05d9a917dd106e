// Package persona holds the static participant definitions of a discussion
// and the registry that orders them.
package persona

import (
	"errors"
	"fmt"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
)

// Stable persona identities.
const (
	Logical     = "logical"
	Creative    = "creative"
	Skeptical   = "skeptical"
	Practical   = "practical"
	Synthesizer = "synthesizer"
)

// ErrUnknownPersona is returned when an identity has no registry entry.
var ErrUnknownPersona = errors.New("unknown persona")

// Persona is one configured participant. Immutable once registered.
type Persona struct {
	ID          string
	Name        string
	Emoji       string
	Color       string // hex colour used by renderers
	Directive   string // system-style instruction for tone and approach
	Temperature float64
	Backend     backend.Spec
}

// Label is the display label used inside transcripts and prompts.
func (p Persona) Label() string { return p.Name }

// Order returns the fixed speaking order. The synthesizer is always last so it
// hears the whole round before speaking.
func Order() []string {
	return []string{Logical, Creative, Skeptical, Practical, Synthesizer}
}

// Registry maps persona identities to their definitions.
type Registry struct {
	byID map[string]Persona
}

// NewRegistry creates a registry. Later entries replace earlier ones with the
// same ID.
func NewRegistry(personas ...Persona) *Registry {
	byID := make(map[string]Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}
	return &Registry{byID: byID}
}

// Resolve returns the persona registered under id.
func (r *Registry) Resolve(id string) (Persona, error) {
	p, ok := r.byID[id]
	if !ok {
		return Persona{}, fmt.Errorf("persona: %w: %q", ErrUnknownPersona, id)
	}
	return p, nil
}

// Active returns the speaking personas in registry order, omitting the
// synthesizer when it is disabled.
func (r *Registry) Active(synthesizer bool) ([]Persona, error) {
	var active []Persona
	for _, id := range Order() {
		if id == Synthesizer && !synthesizer {
			continue
		}
		p, err := r.Resolve(id)
		if err != nil {
			return nil, err
		}
		active = append(active, p)
	}
	return active, nil
}

// Bind returns a copy of personas with each Backend filled in by specFor.
func Bind(personas []Persona, specFor func(id string) (backend.Spec, error)) ([]Persona, error) {
	bound := make([]Persona, len(personas))
	for i, p := range personas {
		spec, err := specFor(p.ID)
		if err != nil {
			return nil, fmt.Errorf("persona: %s: %w", p.ID, err)
		}
		p.Backend = spec
		bound[i] = p
	}
	return bound, nil
}
