package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/student"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
)

// Result sizes per endpoint.
const (
	MatchResultLimit  = 15
	SearchResultLimit = 10
)

// Usage headers set on /match responses when the LLM was called.
const (
	HeaderLLMModel    = "X-LLM-Model"
	HeaderLLMTokens   = "X-LLM-Tokens"
	HeaderLLMFallback = "X-LLM-Fallback"
)

// maxBodyBytes bounds inbound request bodies.
const maxBodyBytes = 1 << 20

// LiveMessage is returned by GET /.
const LiveMessage = "jobmatch API is live"

// JobSearcher finds candidate postings for a profile.
type JobSearcher interface {
	Search(ctx context.Context, profile student.Profile, fallbackInterests string, limit int) ([]job.Document, error)
}

// MatchAnalyzer scores postings against a student. It never fails; failures come back as text.
type MatchAnalyzer interface {
	Analyze(ctx context.Context, jobs []job.Posting, students []student.Record) string
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the jobmatch HTTP API.
type Server struct {
	search        JobSearcher
	analyzer      MatchAnalyzer
	health        HealthChecker
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search JobSearcher, analyzer MatchAnalyzer, health HealthChecker) *Server {
	s := &Server{
		search:   search,
		analyzer: analyzer,
		health:   health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorCodeTimeout),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: LiveMessage})
}

// Match handles POST /match: search, then LLM analysis of the top postings.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	req, profile, err := decodeMatchRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	docs, err := s.search.Search(r.Context(), profile, req.Interests, MatchResultLimit)
	if err != nil {
		s.handleSearchError(w, r, err)
		return
	}
	postings := job.Shape(docs, MatchResultLimit)

	log := logpkg.FromContext(r.Context())
	log.Info("Match candidates found",
		zap.String("intern_name", req.InternName),
		zap.Int("postings", len(postings)),
	)

	ctx, usage := domain.NewContextWithUsage(r.Context())
	analysis := s.analyzer.Analyze(ctx, postings, req.Students)
	setLLMHeaders(w, usage)

	writeJSON(w, http.StatusOK, MatchResponse{Analysis: analysis, Jobs: postings})
}

// Search handles POST /search: ranked postings without LLM analysis.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, profile, err := decodeMatchRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	docs, err := s.search.Search(r.Context(), profile, req.Interests, SearchResultLimit)
	if err != nil {
		s.handleSearchError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Jobs: job.Shape(docs, SearchResultLimit)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeMatchRequest(w http.ResponseWriter, r *http.Request) (MatchRequest, student.Profile, error) {
	var req MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return MatchRequest{}, student.Profile{}, fmt.Errorf("invalid request body: %w", err)
	}
	if len(req.Students) == 0 {
		return MatchRequest{}, student.Profile{}, errors.New("students must contain at least one record")
	}

	profile, err := student.Decode(req.Students[0])
	if err != nil {
		return MatchRequest{}, student.Profile{}, fmt.Errorf("invalid student record: %w", err)
	}
	return req, profile, nil
}

func setLLMHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if usage == nil || usage.Calls == 0 {
		return
	}
	w.Header().Set(HeaderLLMModel, usage.Model)
	w.Header().Set(HeaderLLMTokens, strconv.Itoa(usage.TotalTokens))
	w.Header().Set(HeaderLLMFallback, strconv.FormatBool(usage.Fallback))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// handleSearchError maps known sentinels first; anything else is a 500
// carrying the underlying message.
func (s *Server) handleSearchError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("search rejected", zap.Error(err))
			return
		}
	}
	log.Error("search failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeSearchFailed, "search failed: "+err.Error())
}
