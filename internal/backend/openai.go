package backend

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const groqBaseURL = "https://api.groq.com/openai/v1/"

var errNoChoices = errors.New("no response choices returned")

// OpenAI serves every OpenAI-compatible chat completions API (OpenAI, Groq).
type OpenAI struct {
	provider Kind
	model    string
	client   openai.Client
	backoff  time.Duration
}

// NewOpenAI creates an OpenAI-compatible generator. Groq specs without an
// endpoint are pointed at Groq's OpenAI-compatible base URL.
func NewOpenAI(spec Spec) *OpenAI {
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = defaultHostedTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(spec.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	baseURL := spec.Endpoint
	if baseURL == "" && spec.Kind == KindGroq {
		baseURL = groqBaseURL
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		provider: spec.Kind,
		model:    spec.Model,
		client:   openai.NewClient(opts...),
		backoff:  DefaultBackoff,
	}
}

// Generate implements Generator.
func (p *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	return retryOnce(ctx, p.backoff, func(ctx context.Context) (string, error) {
		resp, err := p.client.Chat.Completions.New(ctx, params)
		if err != nil {
			var apiErr *openai.Error
			if errors.As(err, &apiErr) {
				e := statusError(p.provider, apiErr.StatusCode, nil)
				e.Err = err
				return "", e
			}
			return "", transportError(ctx, p.provider, err)
		}
		if len(resp.Choices) == 0 {
			return "", malformedError(p.provider, errNoChoices)
		}
		return resp.Choices[0].Message.Content, nil
	})
}
