package backend

import (
	"context"
	"strings"
	"time"
)

const (
	defaultOllamaURL     = "http://localhost:11434"
	defaultOllamaTimeout = 180 * time.Second
)

// Ollama talks to a local Ollama daemon through /api/chat.
type Ollama struct {
	model   string
	baseURL string
	http    *httpTransport
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
}

// NewOllama creates an Ollama generator. A zero timeout leaves room for model
// loading on first use.
func NewOllama(spec Spec) *Ollama {
	baseURL := strings.TrimRight(spec.Endpoint, "/")
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = defaultOllamaTimeout
	}
	return &Ollama{
		model:   spec.Model,
		baseURL: baseURL,
		http:    newHTTPTransport(KindOllama, timeout),
	}
}

// Generate implements Generator.
func (o *Ollama) Generate(ctx context.Context, req Request) (string, error) {
	body := ollamaChatRequest{
		Model:    o.model,
		Messages: withSystem(req),
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	return retryOnce(ctx, o.http.backoff, func(ctx context.Context) (string, error) {
		var resp ollamaChatResponse
		if err := o.http.postJSON(ctx, o.baseURL+"/api/chat", nil, body, &resp); err != nil {
			return "", err
		}
		return resp.Message.Content, nil
	})
}
