package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxErrorBody = 4 << 10

// httpTransport is the JSON-over-HTTP plumbing shared by the REST variants.
type httpTransport struct {
	provider Kind
	client   *http.Client
	backoff  time.Duration
}

func newHTTPTransport(provider Kind, timeout time.Duration) *httpTransport {
	return &httpTransport{
		provider: provider,
		client:   &http.Client{Timeout: timeout},
		backoff:  DefaultBackoff,
	}
}

// postJSON sends in as a JSON body and decodes a 2xx response into out.
func (t *httpTransport) postJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", t.provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", t.provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return transportError(ctx, t.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(t.provider, resp.StatusCode, respBody)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return malformedError(t.provider, err)
	}
	return nil
}

func (t *httpTransport) get(ctx context.Context, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", t.provider, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return transportError(ctx, t.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(t.provider, resp.StatusCode, respBody)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return malformedError(t.provider, err)
	}
	return nil
}
