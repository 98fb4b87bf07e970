// Package ollama provides a client for the Ollama chat API.
package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
)

// maxErrorBody bounds how much of a failed response body is kept in errors.
const maxErrorBody = 500

// Client defines the Ollama operations used by the drafter.
type Client interface {
	// Chat sends a non-streaming chat request and returns the assistant
	// message content.
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are the sampling parameters sent with each request.
type Options struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	NumPredict    int     `json:"num_predict"`
	NumCtx        int     `json:"num_ctx"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

// DefaultOptions returns the deterministic, short-output settings used for
// task drafting.
func DefaultOptions() Options {
	return Options{
		Temperature:   0.0,
		TopP:          0.1,
		NumPredict:    220,
		NumCtx:        512,
		RepeatPenalty: 1.05,
	}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  Options   `json:"options"`
}

type chatResponse struct {
	Message *struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
}

// Option configures the Ollama client.
type Option func(*httpClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.SetTimeout(d)
	}
}

// WithRetries sets how many times transient failures (429, 5xx) are retried.
func WithRetries(n int) Option {
	return func(c *httpClient) {
		c.http.SetRetryCount(n)
	}
}

type httpClient struct {
	http *resty.Client
}

// NewClient creates a new Ollama client for baseURL (e.g.
// http://127.0.0.1:11434).
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(20*time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetRetryCount(2).
			SetRetryWaitTime(200 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second),
	}
	c.http.AddRetryCondition(retryCondition)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil || r == nil {
		return false
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *httpClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	req.Stream = false
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/chat")
	if err != nil {
		return "", eris.Wrap(err, "ollama: chat request")
	}
	if resp.IsError() {
		return "", eris.Errorf("ollama: status %d: %s", resp.StatusCode(), truncate(resp.String(), maxErrorBody))
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", eris.Wrap(err, "ollama: decode chat response")
	}
	if out.Message == nil || out.Message.Content == nil {
		return "", eris.New("ollama: response has no message content")
	}
	return *out.Message.Content, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
