package backend

import (
	"context"
	"strings"
	"time"
)

const (
	defaultOpenRouterURL = "https://openrouter.ai/api/v1"
	defaultHostedTimeout = 60 * time.Second
)

// OpenRouter is a client for the OpenRouter chat completions API.
type OpenRouter struct {
	apiKey  string
	model   string
	baseURL string
	http    *httpTransport
}

type openRouterChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type openRouterChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Model represents an OpenRouter model listing entry.
type Model struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Pricing *Pricing `json:"pricing"`
}

// Pricing represents model pricing information.
type Pricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type modelsResponse struct {
	Data []Model `json:"data"`
}

// NewOpenRouter creates an OpenRouter generator. spec.Endpoint overrides the
// default base URL.
func NewOpenRouter(spec Spec) *OpenRouter {
	baseURL := strings.TrimRight(spec.Endpoint, "/")
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = defaultHostedTimeout
	}
	return &OpenRouter{
		apiKey:  spec.APIKey,
		model:   spec.Model,
		baseURL: baseURL,
		http:    newHTTPTransport(KindOpenRouter, timeout),
	}
}

func (c *OpenRouter) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}

// Generate implements Generator.
func (c *OpenRouter) Generate(ctx context.Context, req Request) (string, error) {
	body := openRouterChatRequest{
		Model:       c.model,
		Messages:    withSystem(req),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	return retryOnce(ctx, c.http.backoff, func(ctx context.Context) (string, error) {
		var resp openRouterChatResponse
		if err := c.http.postJSON(ctx, c.baseURL+"/chat/completions", c.headers(), body, &resp); err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", malformedError(KindOpenRouter, errNoChoices)
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// ListModels retrieves available models from OpenRouter.
func (c *OpenRouter) ListModels(ctx context.Context) ([]Model, error) {
	var resp modelsResponse
	if err := c.http.get(ctx, c.baseURL+"/models", c.headers(), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
