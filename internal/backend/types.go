package backend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Kind selects the provider variant behind a Generator.
type Kind string

const (
	KindOllama      Kind = "ollama"
	KindGroq        Kind = "groq"
	KindOpenAI      Kind = "openai"
	KindOpenRouter  Kind = "openrouter"
	KindAnthropic   Kind = "anthropic"
	KindGoogle      Kind = "google"
	KindHuggingFace Kind = "huggingface"
)

// Kinds lists every supported provider.
func Kinds() []Kind {
	return []Kind{KindOllama, KindGroq, KindOpenAI, KindOpenRouter, KindAnthropic, KindGoogle, KindHuggingFace}
}

// Local reports whether the provider is a locally reachable daemon.
func (k Kind) Local() bool { return k == KindOllama }

func (k Kind) known() bool {
	for _, kk := range Kinds() {
		if k == kk {
			return true
		}
	}
	return false
}

// Spec describes one backend connection. Specs are immutable and may be shared
// by several personas.
type Spec struct {
	Kind     Kind          `json:"provider" yaml:"provider"`
	Model    string        `json:"model" yaml:"model"`
	Endpoint string        `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	APIKey   string        `json:"-" yaml:"-"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Validate checks that s names enough to build a Generator.
func (s Spec) Validate() error {
	if !s.Kind.known() {
		return fmt.Errorf("backend: unknown provider %q", s.Kind)
	}
	if strings.TrimSpace(s.Model) == "" {
		return fmt.Errorf("backend: %s: model is required", s.Kind)
	}
	if !s.Kind.Local() && s.APIKey == "" {
		return fmt.Errorf("backend: %s: api key is required", s.Kind)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("backend: %s: negative timeout %s", s.Kind, s.Timeout)
	}
	return nil
}

// String renders s without credentials.
func (s Spec) String() string {
	if s.Endpoint == "" {
		return fmt.Sprintf("%s/%s", s.Kind, s.Model)
	}
	return fmt.Sprintf("%s/%s@%s", s.Kind, s.Model, s.Endpoint)
}

func (s Spec) key() string {
	return strings.Join([]string{string(s.Kind), s.Model, s.Endpoint, s.APIKey, s.Timeout.String()}, "\x00")
}

// Message is one chat message of a rendered request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a fully rendered generation input.
type Request struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Generator produces text for a rendered request against one provider.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

func withSystem(req Request) []Message {
	msgs := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: req.System})
	}
	return append(msgs, req.Messages...)
}
