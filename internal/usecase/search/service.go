package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain/ident"
	domjob "github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/search/query"
	"github.com/kailas-cloud/jobmatch/internal/domain/student"
	"github.com/kailas-cloud/jobmatch/internal/logger"
)

// DefaultCandidateWindow is how many ranked candidates are fetched per page.
const DefaultCandidateWindow = 100

// Service finds internship postings for a student profile.
type Service struct {
	repo   Repository
	window int
}

// New creates a search service. window <= 0 uses DefaultCandidateWindow.
func New(repo Repository, window int) *Service {
	if window <= 0 {
		window = DefaultCandidateWindow
	}
	return &Service{repo: repo, window: window}
}

// Search returns up to limit postings for the profile, best first. Each
// document has its identifier under job_id as a string. fallbackInterests
// is used when the profile lists no interests. limit <= 0 uses query.DefaultLimit.
func (s *Service) Search(
	ctx context.Context, profile student.Profile, fallbackInterests string, limit int,
) ([]domjob.Document, error) {
	interests := profile.JobPreferences.Interests
	if len(interests) == 0 && strings.TrimSpace(fallbackInterests) != "" {
		interests = []string{strings.TrimSpace(fallbackInterests)}
	}

	p := query.Build(interests, profile.Skills, profile.JobPreferences.PreferredLocations)
	if limit > 0 {
		p.Limit = limit
	}

	log := logger.FromContext(ctx)
	if p.Empty() {
		log.Debug("Search pipeline matches nothing",
			zap.Int("clauses", len(p.Clauses())),
			zap.Int("locations", len(p.AllowedLocations)),
		)
		return []domjob.Document{}, nil
	}

	matched, scanned, err := s.collect(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}

	docs := p.Apply(matched)
	for i, d := range docs {
		docs[i] = domjob.RenameID(ident.NormalizeMap(d))
	}

	log.Debug("Search completed",
		zap.Int("candidates", scanned),
		zap.Int("returned", len(docs)),
	)
	return docs, nil
}

// collect pages through the ranked hits in score order and keeps the ones
// passing the post-filter, until p.Limit of them are found or the hits run out.
func (s *Service) collect(ctx context.Context, p query.Pipeline) ([]domjob.Document, int, error) {
	var matched []domjob.Document
	scanned := 0
	for offset := 0; ; offset += s.window {
		page, total, err := s.repo.Search(ctx, p, offset, s.window)
		if err != nil {
			return nil, scanned, err
		}
		scanned += len(page)
		for _, d := range page {
			if p.Matches(d) {
				matched = append(matched, d)
			}
		}
		if len(matched) >= p.Limit || offset+s.window >= total {
			return matched, scanned, nil
		}
	}
}
