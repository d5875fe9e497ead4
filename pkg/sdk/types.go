package jobmatch

import (
	"time"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
)

// Student is a free-form student record as sent by callers.
type Student = map[string]any

// Job is a shaped job posting. Absent fields are nil.
type Job = job.Posting

// MatchResult holds the LLM verdict (or a failure message) and the postings it was based on.
type MatchResult struct {
	Analysis string
	Jobs     []Job
	Model    string
	Tokens   int
	Fallback bool
}

// IngestResult summarizes a corpus load.
type IngestResult struct {
	Processed    int64
	Failed       int64
	IndexCreated bool
	Duration     time.Duration
}

// HealthReport is the aggregated component status.
type HealthReport struct {
	Status string
	Checks map[string]string
}
