package backend

import "fmt"

// New builds the Generator variant selected by spec.Kind.
func New(spec Spec) (Generator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case KindOllama:
		return NewOllama(spec), nil
	case KindGroq, KindOpenAI:
		return NewOpenAI(spec), nil
	case KindOpenRouter:
		return NewOpenRouter(spec), nil
	case KindAnthropic:
		return NewAnthropic(spec), nil
	case KindGoogle:
		return NewGemini(spec), nil
	case KindHuggingFace:
		return NewHuggingFace(spec), nil
	}
	return nil, fmt.Errorf("backend: unknown provider %q", spec.Kind)
}

// Pool builds generators on demand and hands out one instance per distinct
// Spec, so personas sharing a Spec share a connection. Not safe for
// concurrent use.
type Pool struct {
	generators map[string]Generator
}

// NewPool creates an empty Pool.
func NewPool() *Pool {
	return &Pool{generators: make(map[string]Generator)}
}

// Generator returns the shared Generator for spec, creating it on first use.
func (p *Pool) Generator(spec Spec) (Generator, error) {
	key := spec.key()
	if g, ok := p.generators[key]; ok {
		return g, nil
	}
	g, err := New(spec)
	if err != nil {
		return nil, err
	}
	p.generators[key] = g
	return g, nil
}

// Len returns the number of distinct generators built so far.
func (p *Pool) Len() int { return len(p.generators) }
