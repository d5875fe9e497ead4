package chi

import "github.com/kailas-cloud/jobmatch/internal/domain/job"

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest   ErrorCode = "bad_request"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeSearchFailed ErrorCode = "search_failed"
	ErrorCodeTimeout      ErrorCode = "timeout"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// MatchRequest is the body of POST /match and POST /search.
// Students are free-form objects; only the first one is used.
type MatchRequest struct {
	InternName string           `json:"intern_name"`
	Students   []map[string]any `json:"students"`
	Interests  string           `json:"interests"`
}

// MatchResponse is the body of a successful POST /match.
type MatchResponse struct {
	Analysis string        `json:"analysis"`
	Jobs     []job.Posting `json:"mongodb_result"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Jobs []job.Posting `json:"mongodb_result"`
}

// MessageResponse is the body of GET /.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
