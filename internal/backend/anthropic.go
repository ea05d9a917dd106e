package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 500

// Anthropic talks to the Anthropic Messages API.
type Anthropic struct {
	model   string
	client  anthropic.Client
	backoff time.Duration
}

// NewAnthropic creates an Anthropic generator.
func NewAnthropic(spec Spec) *Anthropic {
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = defaultHostedTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(spec.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if spec.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(spec.Endpoint))
	}
	return &Anthropic{
		model:   spec.Model,
		client:  anthropic.NewClient(opts...),
		backoff: DefaultBackoff,
	}
}

// Generate implements Generator.
func (p *Anthropic) Generate(ctx context.Context, req Request) (string, error) {
	messages := []anthropic.MessageParam{}
	for _, msg := range req.Messages {
		if msg.Role == "assistant" {
			messages = append(messages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)},
			})
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		Messages:    messages,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	return retryOnce(ctx, p.backoff, func(ctx context.Context) (string, error) {
		resp, err := p.client.Messages.New(ctx, params)
		if err != nil {
			var apiErr *anthropic.Error
			if errors.As(err, &apiErr) {
				e := statusError(KindAnthropic, apiErr.StatusCode, nil)
				e.Err = err
				return "", e
			}
			return "", transportError(ctx, KindAnthropic, err)
		}
		var sb strings.Builder
		for _, block := range resp.Content {
			if b, ok := block.AsAny().(anthropic.TextBlock); ok {
				sb.WriteString(b.Text)
			}
		}
		return sb.String(), nil
	})
}
