package jobmatch

import "github.com/kailas-cloud/jobmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrModelNotFound  = domain.ErrModelNotFound
	ErrProviderError  = domain.ErrProviderError
	ErrInvalidVerdict = domain.ErrInvalidVerdict
)
