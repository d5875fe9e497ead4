package match

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Completer sends one chat completion to the LLM provider.
type Completer interface {
	Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error)
}
