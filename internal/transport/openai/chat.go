package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Provider messages that mean the requested model cannot be routed.
var routingMarkers = []string{"model not found", "no endpoints found", "not a valid model"}

// Client is a chat completion provider using the OpenAI-compatible API (e.g. OpenRouter).
type Client struct {
	client  *openai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the chat provider settings. APIKey is injected explicitly.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates an OpenAI-compatible chat provider.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Complete implements domain.ChatCompleter. Each call runs under the configured timeout.
func (c *Client) Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)

	duration := time.Since(start)
	metrics.LLMRequestDuration.WithLabelValues(req.Model).Observe(duration.Seconds())

	if err != nil {
		classified := classifyError(req.Model, err)
		status := "error"
		if domain.IsRoutingError(classified) {
			status = "routing_error"
		}
		metrics.LLMRequestsTotal.WithLabelValues(req.Model, status).Inc()
		return domain.ChatResult{}, classified
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.LLMRequestsTotal.WithLabelValues(req.Model, "empty").Inc()
		return domain.ChatResult{}, &domain.ProviderError{
			Model: req.Model,
			Err:   fmt.Errorf("%w: %w", domain.ErrEmptyCompletion, domain.ErrProviderError),
		}
	}

	metrics.LLMRequestsTotal.WithLabelValues(req.Model, "success").Inc()
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(req.Model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(req.Model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.LLMTokensTotal.WithLabelValues(req.Model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	c.logger.Debug("Chat completion finished",
		zap.String("model", req.Model),
		zap.String("served_by", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration),
	)

	return domain.ChatResult{
		Text:             resp.Choices[0].Message.Content,
		Model:            req.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// classifyError maps a provider failure to ErrModelNotFound (routing) or
// ErrProviderError, keeping the provider's message.
func classifyError(model string, err error) error {
	status, msg := 0, err.Error()

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, msg = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
		if detail := extractDetail(reqErr.Body); detail != "" {
			msg = detail
		} else if len(reqErr.Body) > 0 {
			msg = string(reqErr.Body)
		}
	}

	sentinel := domain.ErrProviderError
	if status == http.StatusNotFound || isRoutingMessage(msg) {
		sentinel = domain.ErrModelNotFound
	}

	return &domain.ProviderError{
		Model:      model,
		StatusCode: status,
		Err:        fmt.Errorf("%s: %w", msg, sentinel),
	}
}

func isRoutingMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, m := range routingMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// extractDetail pulls a message out of a JSON error body ({"error":{"message"}} or {"detail"}).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return parsed.Detail
}
