package backend

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

const defaultHuggingFaceURL = "https://api-inference.huggingface.co"

// HuggingFace talks to the Hugging Face text-generation inference API, which
// takes a single instruction-formatted prompt rather than chat messages.
type HuggingFace struct {
	apiKey  string
	model   string
	baseURL string
	http    *httpTransport
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// NewHuggingFace creates a Hugging Face inference generator.
func NewHuggingFace(spec Spec) *HuggingFace {
	baseURL := strings.TrimRight(spec.Endpoint, "/")
	if baseURL == "" {
		baseURL = defaultHuggingFaceURL
	}
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = defaultHostedTimeout
	}
	return &HuggingFace{
		apiKey:  spec.APIKey,
		model:   spec.Model,
		baseURL: baseURL,
		http:    newHTTPTransport(KindHuggingFace, timeout),
	}
}

// instructPrompt flattens a request into the [INST] template used by
// Mistral-style instruction models.
func instructPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("<s>[INST] ")
	if req.System != "" {
		sb.WriteString(req.System)
		sb.WriteString("\n\n")
	}
	for _, msg := range req.Messages {
		if msg.Role == "assistant" {
			sb.WriteString("[/INST] " + msg.Content + " </s><s>[INST] ")
			continue
		}
		sb.WriteString(msg.Content + "\n")
	}
	sb.WriteString("[/INST]")
	return sb.String()
}

// Generate implements Generator.
func (h *HuggingFace) Generate(ctx context.Context, req Request) (string, error) {
	body := hfRequest{
		Inputs: instructPrompt(req),
		Parameters: hfParameters{
			MaxNewTokens: req.MaxTokens,
			Temperature:  req.Temperature,
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + h.apiKey}
	return retryOnce(ctx, h.http.backoff, func(ctx context.Context) (string, error) {
		var raw json.RawMessage
		if err := h.http.postJSON(ctx, h.baseURL+"/models/"+h.model, headers, body, &raw); err != nil {
			return "", err
		}
		return parseGeneration(raw)
	})
}

// parseGeneration accepts both the list and the single-object response shapes.
func parseGeneration(raw json.RawMessage) (string, error) {
	var list []hfGeneration
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", malformedError(KindHuggingFace, errors.New("empty generation list"))
		}
		return list[0].GeneratedText, nil
	}
	var single hfGeneration
	if err := json.Unmarshal(raw, &single); err != nil {
		return "", malformedError(KindHuggingFace, err)
	}
	return single.GeneratedText, nil
}
