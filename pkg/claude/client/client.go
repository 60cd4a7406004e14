// Package client is the HTTP facade for the Anthropic Messages API. It
// sends validated requests and hands streaming response bodies to the
// stream package's decoder.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bitop-dev/claude/pkg/claude"
	"github.com/bitop-dev/claude/pkg/claude/stream"
)

const defaultBaseURL = "https://api.anthropic.com/v1"
const apiVersion = "2023-06-01"

// ErrStreamFlag is returned by CreateMessage when the request asked for
// streaming: a streaming request must go through StreamMessage so the
// response is routed through the chunk decoder.
var ErrStreamFlag = errors.New("client: request has stream set; use StreamMessage")

// Client calls the Messages API. It holds no per-stream state: every
// stream it opens owns an independent decoder, so concurrent streams from
// one Client are isolated.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (proxies, compatible gateways).
func WithBaseURL(u string) Option { return func(c *Client) { c.BaseURL = u } }

// WithHTTPClient supplies a custom *http.Client, e.g. for per-chunk read
// timeouts via its Transport.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTPClient = h } }

// New creates a Client with the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Minute},
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromEnv creates a Client with the API key from ANTHROPIC_API_KEY.
func FromEnv(opts ...Option) (*Client, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, errors.New("client: ANTHROPIC_API_KEY is not set")
	}
	return New(key, opts...), nil
}

// CreateMessage sends req and parses the complete response in one pass.
// Rejects requests with the stream flag set (see ErrStreamFlag).
func (c *Client) CreateMessage(ctx context.Context, req *claude.MessageRequest) (*claude.MessageResponse, error) {
	if req.Stream {
		return nil, ErrStreamFlag
	}

	resp, err := c.post(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out claude.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("client: decode response: %w", err)
	}
	return &out, nil
}

// StreamMessage sends req with streaming enabled and returns the decoded
// chunk sequence. The returned Stream owns the connection; drain it or
// call Close. Cancelling ctx aborts the underlying read.
func (c *Client) StreamMessage(ctx context.Context, req *claude.MessageRequest) (*stream.Stream, error) {
	resp, err := c.post(ctx, req, true)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}

	return stream.New(resp.Body), nil
}

func (c *Client) post(ctx context.Context, req *claude.MessageRequest, streaming bool) (*http.Response, error) {
	// The caller's request is never mutated; the stream flag is set on a
	// copy.
	wire := *req
	wire.Stream = streaming

	body, err := json.Marshal(&wire)
	if err != nil {
		return nil, fmt.Errorf("client: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	if streaming {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	return resp, nil
}

// decodeAPIError reads a non-2xx body and decodes the Anthropic error
// envelope. Falls back to the raw body when the envelope does not parse.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Error claude.APIError `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Type != "" {
		apiErr := envelope.Error
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}
	return fmt.Errorf("client: HTTP %d: %s", resp.StatusCode, string(raw))
}
