package apiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

const (
	// DefaultBaseURL is the hosted generate endpoint.
	DefaultBaseURL = "https://gpt.code-x.my/api/generate"

	// DefaultModel is used when the caller does not pick one.
	DefaultModel = "qwen2.5:latest"

	// DefaultMaxRetries is the number of additional attempts after the
	// first one fails with a transient error.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the fixed wait between attempts.
	DefaultRetryDelay = 2 * time.Second

	// maxErrorBody caps how much of an error response body is read for
	// classification.
	maxErrorBody = 8 * 1024
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration

	// Warn is invoked with the raw text of any undecodable stream line.
	Warn func(line string)
}

// Client issues generate requests against an Ollama-compatible endpoint and
// retries transient failures with a fixed delay. It holds no per-request
// state, so a single Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	warn       func(line string)
}

// New creates a Client from opts, applying defaults for unset fields.
func New(opts Options) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		warn:       opts.Warn,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.maxRetries < 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.retryDelay <= 0 {
		c.retryDelay = DefaultRetryDelay
	}
	return c
}

// Generate opens a generate call and returns the response stream. Transient
// failures (connection reset, timeout, 5xx) are retried up to MaxRetries
// with a fixed delay; auth and bad-request failures surface immediately
// after a single attempt. The request is attempted at most MaxRetries+1
// times and only ever before the stream is handed to the caller; a stream
// that fails mid-read is never restarted.
func (c *Client) Generate(ctx context.Context, req *Request) (*Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	body, err := sonic.Marshal(generateRequest{
		Model:  model,
		Prompt: req.Prompt,
		Stream: req.Stream,
	})
	if err != nil {
		return nil, &Error{Kind: KindParse, Message: "failed to encode request", Cause: err}
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, classifyTransport(ctx.Err())
			case <-time.After(c.retryDelay):
			}
		}

		stream, apiErr := c.attempt(ctx, body, req.APIKey)
		if apiErr == nil {
			return stream, nil
		}
		if !apiErr.Retryable {
			return nil, apiErr
		}
		lastErr = apiErr
	}
	return nil, lastErr
}

// attempt performs one HTTP round trip and classifies the result.
func (c *Client) attempt(ctx context.Context, body []byte, apiKey string) (*Stream, *Error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindBadRequest, Message: "failed to build request", Cause: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return nil, classifyStatus(resp.StatusCode, raw)
	}

	return newStream(resp, c.warn), nil
}
