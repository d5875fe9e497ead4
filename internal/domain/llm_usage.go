package domain

import "context"

type completionUsageKey struct{}

// CompletionUsage collects LLM usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the analyzer;
// the analyzer writes after each completion; the handler reads it for response headers.
type CompletionUsage struct {
	Model       string
	TotalTokens int
	Calls       int
	Fallback    bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *CompletionUsage) {
	u := &CompletionUsage{}
	return context.WithValue(ctx, completionUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *CompletionUsage {
	u, _ := ctx.Value(completionUsageKey{}).(*CompletionUsage)
	return u
}

// Record stores the model that answered and the tokens it consumed.
func (u *CompletionUsage) Record(model string, tokens int) {
	if u != nil {
		u.Model = model
		u.TotalTokens += tokens
		u.Calls++
	}
}

// MarkFallback flags that the fallback model was used.
func (u *CompletionUsage) MarkFallback() {
	if u != nil {
		u.Fallback = true
	}
}
