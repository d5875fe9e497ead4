package jobmatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	dbRedis "github.com/kailas-cloud/jobmatch/internal/db/redis"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/student"
	jobrepo "github.com/kailas-cloud/jobmatch/internal/repository/job"
	openaiChat "github.com/kailas-cloud/jobmatch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/jobmatch/internal/usecase/ingest"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
	searchuc "github.com/kailas-cloud/jobmatch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultLLMTimeout       = 60 * time.Second

	matchLimit  = 15
	searchLimit = 10
)

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Search(ctx context.Context, p student.Profile, fallbackInterests string, limit int) ([]job.Document, error)
}

type analyzeUseCase interface {
	Analyze(ctx context.Context, jobs []job.Posting, students []student.Record) string
}

type ingestUseCase interface {
	Ingest(ctx context.Context, r io.Reader) (ingestuc.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the jobmatch SDK entry point.
type Client struct {
	store     *dbRedis.Store
	searchSvc searchUseCase
	analyzer  analyzeUseCase
	ingestSvc ingestUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		validateOutput: true,
		llmTimeout:     defaultLLMTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("jobmatch: database address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("jobmatch: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("jobmatch: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	jobs := jobrepo.New(store, cfg.index)

	chat := openaiChat.NewClient(&openaiChat.Config{
		APIKey:  cfg.apiKey,
		BaseURL: cfg.baseURL,
		Timeout: cfg.llmTimeout,
	})
	fallback := cfg.fallbackModel
	if cfg.primaryModel == "" && fallback == "" {
		fallback = matchuc.DefaultFallbackModel
	}

	return &Client{
		store:     store,
		searchSvc: searchuc.New(jobs, cfg.candidateWindow),
		analyzer: matchuc.New(chat, matchuc.Config{
			APIKey:         cfg.apiKey,
			PrimaryModel:   cfg.primaryModel,
			FallbackModel:  fallback,
			ValidateOutput: cfg.validateOutput,
		}),
		ingestSvc: ingestuc.New(jobs, 0, 0),
		healthSvc: healthuc.New(store, store, jobs.Index(), nil),
		obs:       obs,
	}
}

// Close releases the database connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search returns up to 10 internship postings for the student, best first.
// interests is used when the record lists no interests of its own.
func (c *Client) Search(ctx context.Context, st Student, interests string) (_ []Job, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	docs, err := c.find(ctx, st, interests, searchLimit)
	if err != nil {
		return nil, err
	}
	return job.Shape(docs, searchLimit), nil
}

// Match searches with the first student's profile and asks the LLM to rank
// the top postings. LLM failures are reported in Analysis, not as an error.
func (c *Client) Match(ctx context.Context, students []Student, interests string) (_ MatchResult, err error) {
	defer func(start time.Time) { c.obs.observe("match", start, err) }(time.Now())

	if len(students) == 0 {
		return MatchResult{}, fmt.Errorf("jobmatch: students: %w", domain.ErrInvalidRequest)
	}

	docs, err := c.find(ctx, students[0], interests, matchLimit)
	if err != nil {
		return MatchResult{}, err
	}
	postings := job.Shape(docs, matchLimit)

	ctx, usage := domain.NewContextWithUsage(ctx)
	analysis := c.analyzer.Analyze(ctx, postings, students)

	return MatchResult{
		Analysis: analysis,
		Jobs:     postings,
		Model:    usage.Model,
		Tokens:   usage.TotalTokens,
		Fallback: usage.Fallback,
	}, nil
}

// Ingest loads a JSON array of job documents, creating the index if needed.
func (c *Client) Ingest(ctx context.Context, r io.Reader) (_ IngestResult, err error) {
	defer func(start time.Time) { c.obs.observe("ingest", start, err) }(time.Now())

	res, err := c.ingestSvc.Ingest(ctx, r)
	out := IngestResult{
		Processed:    res.Processed,
		Failed:       res.Failed,
		IndexCreated: res.IndexCreated,
		Duration:     res.Duration,
	}
	if err != nil {
		return out, fmt.Errorf("jobmatch: ingest: %w", err)
	}
	return out, nil
}

// Health checks the database and the search index.
func (c *Client) Health(ctx context.Context) HealthReport {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthReport{Status: string(report.Status), Checks: checks}
}

func (c *Client) find(ctx context.Context, st Student, interests string, limit int) ([]job.Document, error) {
	profile, err := student.Decode(st)
	if err != nil {
		return nil, fmt.Errorf("jobmatch: %w: %w", domain.ErrInvalidRequest, err)
	}
	docs, err := c.searchSvc.Search(ctx, profile, interests, limit)
	if err != nil {
		return nil, fmt.Errorf("jobmatch: %w", err)
	}
	return docs, nil
}
