package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates the search index has not been created yet.
	CheckMissing CheckResult = "missing"
)

// Component names.
const (
	ComponentDatabase = "database"
	ComponentIndex    = "search_index"
	ComponentLLM      = "llm"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	index IndexChecker
	name  string
	llm   LLMChecker
}

// New creates a Service. index and llm can be nil.
func New(db DBPinger, index IndexChecker, indexName string, llm LLMChecker) *Service {
	return &Service{db: db, index: index, name: indexName, llm: llm}
}

// Check runs health checks against all components.
// Database failure is fatal; index or LLM failure only degrades.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks[ComponentDatabase] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks[ComponentDatabase] = CheckOK

	if s.index != nil {
		exists, err := s.index.IndexExists(ctx, s.name)
		switch {
		case err != nil:
			checks[ComponentIndex] = CheckError
		case !exists:
			checks[ComponentIndex] = CheckMissing
		default:
			checks[ComponentIndex] = CheckOK
		}
	}

	if s.llm != nil {
		if err := s.llm.HealthCheck(ctx); err != nil {
			checks[ComponentLLM] = CheckError
		} else {
			checks[ComponentLLM] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
