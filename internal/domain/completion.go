package domain

import "context"

// ChatRequest is a single system+user chat completion call.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// ChatResult carries the completion text and token usage through the decorator chain.
type ChatResult struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cached           bool
}

// ChatCompleter is the shared LLM completion contract between layers.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResult, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
