package jobmatch

import (
	"context"
	"io"

	"github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/student"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/jobmatch/internal/usecase/ingest"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, p student.Profile, fallback string, limit int) ([]job.Document, error)
}

func (m *mockSearchUC) Search(ctx context.Context, p student.Profile, fallback string, limit int) ([]job.Document, error) {
	return m.searchFn(ctx, p, fallback, limit)
}

// --- analyzeUseCase mock ---

type mockAnalyzeUC struct {
	analyzeFn func(ctx context.Context, jobs []job.Posting, students []student.Record) string
}

func (m *mockAnalyzeUC) Analyze(ctx context.Context, jobs []job.Posting, students []student.Record) string {
	return m.analyzeFn(ctx, jobs, students)
}

// --- ingestUseCase mock ---

type mockIngestUC struct {
	ingestFn func(ctx context.Context, r io.Reader) (ingestuc.Result, error)
}

func (m *mockIngestUC) Ingest(ctx context.Context, r io.Reader) (ingestuc.Result, error) {
	return m.ingestFn(ctx, r)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
