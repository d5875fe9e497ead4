package search

import (
	"context"

	domjob "github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/search/query"
)

// Repository defines the storage contract for candidate retrieval. Search
// returns one page of ranked candidates and the total number of ranked hits.
type Repository interface {
	Search(ctx context.Context, p query.Pipeline, offset, window int) ([]domjob.Document, int, error)
}
