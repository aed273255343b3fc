// internal/adapters/llm/client.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/koregy/sejong-eats-chatbot/internal/adapters/observability"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

const endpoint = "chat_completions"

// Client talks to an OpenAI-compatible chat-completion endpoint. It never retries;
// callers degrade on the first failure.
type Client struct {
	api   *openai.Client
	model string
	rl    *rate.Limiter
}

type Config struct {
	APIKey  string
	BaseURL string // empty keeps the OpenAI default
	Model   string
	RPS     int // <= 0 disables client-side limiting
	Timeout time.Duration
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	rl := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		rl = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS)
	}

	return &Client{
		api:   openai.NewClientWithConfig(oc),
		model: cfg.Model,
		rl:    rl,
	}, nil
}

// Generate implements domain.TextGenerator with a single user message.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		observability.ObserveExternal("llm", endpoint, statusOf(err), time.Since(start))
		return "", parseAPIError(err)
	}
	observability.ObserveExternal("llm", endpoint, http.StatusOK, time.Since(start))

	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// statusOf: HTTP status behind an SDK error, 0 for transport failures.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("llm API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("llm request error %d: %w", reqErr.HTTPStatusCode, reqErr.Err)
	}
	return fmt.Errorf("llm request failed: %w", err)
}
