package match

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/ident"
	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/student"
	"github.com/kailas-cloud/jobmatch/internal/domain/verdict"
	"github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

// Failure strings returned to callers instead of a verdict.
const (
	MsgMissingAPIKey = "❌ OPENROUTER_API_KEY is missing."
	MsgNoStudents    = "❌ No student data provided."
	MsgNoJobs        = "❌ No jobs to analyze."
	msgLLMFailed     = "❌ LLM processing failed: %v"
	msgBothFailed    = "❌ Both primary and fallback models failed. primary: %v; fallback: %v"
	msgMalformed     = "❌ LLM returned malformed output: %v"
)

// Defaults for Config zero values.
const (
	DefaultPrimaryModel  = "deepseek/deepseek-r1-distill-llama-70b:free"
	DefaultFallbackModel = "meta-llama/llama-3.3-70b-instruct:free"
	DefaultTemperature   = 0.1
	DefaultMaxTokens     = 2048
)

// Config holds the analyzer settings. APIKey is only checked for presence;
// the completer carries its own copy.
type Config struct {
	APIKey         string
	PrimaryModel   string
	FallbackModel  string
	Temperature    float32
	MaxTokens      int
	ValidateOutput bool
}

// Analyzer asks the LLM to score shaped job postings against a student profile.
type Analyzer struct {
	llm Completer
	cfg Config
}

// New creates an Analyzer. Empty model and sampling settings get defaults.
func New(llm Completer, cfg Config) *Analyzer {
	if cfg.PrimaryModel == "" {
		cfg.PrimaryModel = DefaultPrimaryModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Analyzer{llm: llm, cfg: cfg}
}

// Analyze returns the verdict text or one of the failure strings. It never
// returns an error. Only the first student record is evaluated. Jobs arrive
// ranked; the top job.MaxAnalyzed are taken and the malformed ones among them dropped.
func (a *Analyzer) Analyze(ctx context.Context, jobs []job.Posting, students []student.Record) (out string) {
	log := logger.FromContext(ctx).With(zap.String("component", "analyzer"))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Analyzer panicked", zap.Any("panic", r))
			out = fmt.Sprintf(msgLLMFailed, r)
		}
	}()

	apiKey := a.cfg.APIKey
	if strings.TrimSpace(apiKey) == "" {
		log.Warn("LLM credential missing")
		return MsgMissingAPIKey
	}
	log.Debug("LLM credential present")

	if len(students) == 0 {
		log.Info("No student records")
		return MsgNoStudents
	}

	candidates := wellFormed(job.Truncate(jobs, job.MaxAnalyzed))
	if len(candidates) == 0 {
		log.Info("No well-formed jobs", zap.Int("received", len(jobs)))
		return MsgNoJobs
	}

	studentRec := ident.NormalizeMap(students[0])
	system, user, err := buildPrompts(candidates, studentRec)
	if err != nil {
		log.Error("Failed to build prompts", zap.Error(err))
		return fmt.Sprintf(msgLLMFailed, err)
	}

	log.Info("Analyzing matches",
		zap.Int("students", len(students)),
		zap.Int("jobs", len(candidates)),
		zap.Int("system_prompt_bytes", len(system)),
		zap.Int("user_prompt_bytes", len(user)),
	)

	req := domain.ChatRequest{
		Model:       a.cfg.PrimaryModel,
		System:      system,
		User:        user,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	}

	res, err := a.complete(ctx, log, req)
	if err != nil {
		if !domain.IsRoutingError(err) || a.cfg.FallbackModel == "" {
			return fmt.Sprintf(msgLLMFailed, err)
		}

		metrics.LLMFallbacksTotal.Inc()
		domain.UsageFromContext(ctx).MarkFallback()
		log.Warn("Primary model unavailable, trying fallback",
			zap.String("primary", req.Model),
			zap.String("fallback", a.cfg.FallbackModel),
			zap.Error(err),
		)

		req.Model = a.cfg.FallbackModel
		var fbErr error
		res, fbErr = a.complete(ctx, log, req)
		if fbErr != nil {
			return fmt.Sprintf(msgBothFailed, err, fbErr)
		}
	}

	if !a.cfg.ValidateOutput {
		return res.Text
	}
	return a.validate(ctx, log, req.Model, res.Text)
}

// validate returns the cleaned verdict, or asks the same model once to
// repair it. The repair call never falls back to another model.
func (a *Analyzer) validate(ctx context.Context, log *zap.Logger, model, text string) string {
	cleaned := verdict.Clean(text)
	verr := verdict.Validate(cleaned)
	if verr == nil {
		return cleaned
	}

	log.Warn("Verdict failed validation, requesting repair", zap.String("model", model), zap.Error(verr))

	system, err := buildRepairPrompt(verr)
	if err != nil {
		metrics.LLMRepairsTotal.WithLabelValues("failed").Inc()
		return fmt.Sprintf(msgMalformed, verr)
	}

	res, err := a.complete(ctx, log, domain.ChatRequest{
		Model:       model,
		System:      system,
		User:        text,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		metrics.LLMRepairsTotal.WithLabelValues("failed").Inc()
		return fmt.Sprintf(msgMalformed, verr)
	}

	repaired := verdict.Clean(res.Text)
	if rerr := verdict.Validate(repaired); rerr != nil {
		metrics.LLMRepairsTotal.WithLabelValues("failed").Inc()
		log.Warn("Repaired verdict still invalid", zap.String("model", model), zap.Error(rerr))
		return fmt.Sprintf(msgMalformed, rerr)
	}

	metrics.LLMRepairsTotal.WithLabelValues("repaired").Inc()
	return repaired
}

func (a *Analyzer) complete(ctx context.Context, log *zap.Logger, req domain.ChatRequest) (domain.ChatResult, error) {
	log.Info("Sending to LLM", zap.String("model", req.Model))

	res, err := a.llm.Complete(ctx, req)
	if err != nil {
		log.Warn("LLM call failed", zap.String("model", req.Model), zap.Error(err))
		return domain.ChatResult{}, err
	}

	domain.UsageFromContext(ctx).Record(req.Model, res.TotalTokens)
	log.Info("LLM response received",
		zap.String("model", req.Model),
		zap.Int("total_tokens", res.TotalTokens),
		zap.Bool("cached", res.Cached),
	)
	return res, nil
}

func wellFormed(jobs []job.Posting) []job.Posting {
	out := make([]job.Posting, 0, len(jobs))
	for i := range jobs {
		if jobs[i].IsWellFormed() {
			out = append(out, jobs[i])
		}
	}
	return out
}
