package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(500), body["max_tokens"])
		assert.NotNil(t, body["system"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
  "id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
  "content": [{"type": "text", "text": "Hmm, "}, {"type": "text", "text": "but why?"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 12, "output_tokens": 4}
}`)
	}))
	defer server.Close()

	p := NewAnthropic(Spec{Kind: KindAnthropic, Model: "claude-test", APIKey: "sk-ant-test", Endpoint: server.URL + "/"})
	got, err := p.Generate(context.Background(), Request{
		System:   "be skeptical",
		Messages: []Message{{Role: "user", Content: "[User] topic"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hmm, but why?", got)
}

func TestAnthropicRateLimitIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer server.Close()

	p := NewAnthropic(Spec{Kind: KindAnthropic, Model: "claude-test", APIKey: "sk-ant-test", Endpoint: server.URL + "/"})
	p.backoff = 0
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
}
