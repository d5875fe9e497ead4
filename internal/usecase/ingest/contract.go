package ingest

import (
	"context"

	"github.com/google/uuid"

	domjob "github.com/kailas-cloud/jobmatch/internal/domain/job"
)

// Repository stores job documents and owns the search index.
type Repository interface {
	EnsureIndex(ctx context.Context) (bool, error)
	UpsertMany(ctx context.Context, docs []domjob.Document) ([]uuid.UUID, error)
}
