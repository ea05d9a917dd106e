package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini talks to the Google Generative Language generateContent endpoint.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	http    *httpTransport
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// NewGemini creates a Google Gemini generator.
func NewGemini(spec Spec) *Gemini {
	baseURL := strings.TrimRight(spec.Endpoint, "/")
	if baseURL == "" {
		baseURL = defaultGeminiURL
	}
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = defaultHostedTimeout
	}
	return &Gemini{
		apiKey:  spec.APIKey,
		model:   spec.Model,
		baseURL: baseURL,
		http:    newHTTPTransport(KindGoogle, timeout),
	}
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	body := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	for _, msg := range req.Messages {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		body.Contents = append(body.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: msg.Content}}})
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	headers := map[string]string{"x-goog-api-key": g.apiKey}
	return retryOnce(ctx, g.http.backoff, func(ctx context.Context) (string, error) {
		var resp geminiResponse
		if err := g.http.postJSON(ctx, endpoint, headers, body, &resp); err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 {
			return "", malformedError(KindGoogle, errors.New("no candidates returned"))
		}
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		return sb.String(), nil
	})
}
