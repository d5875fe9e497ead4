// Package ingest loads a job corpus into the search store.
// Reader → channel(batch) → N workers → UpsertMany.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	domjob "github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/logger"
)

// Defaults for zero Service settings.
const (
	DefaultBatchSize = 100
	DefaultWorkers   = 4
)

// Result summarizes an ingest run.
type Result struct {
	Processed    int64
	Failed       int64
	IndexCreated bool
	Duration     time.Duration
}

// Service loads JSON job documents in batches.
type Service struct {
	repo      Repository
	batchSize int
	workers   int
}

// New creates an ingest service. Non-positive sizes use the defaults.
func New(repo Repository, batchSize, workers int) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Service{repo: repo, batchSize: batchSize, workers: workers}
}

// Ingest ensures the index exists, then streams a JSON array of job
// documents from r into the store. Failed batches are counted, not fatal;
// a malformed stream stops the run.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	created, err := s.repo.EnsureIndex(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("ensure index: %w", err)
	}
	if created {
		log.Info("Search index created")
	}

	batches := make(chan []domjob.Document, s.workers*2)
	var wg sync.WaitGroup
	var processed, failed atomic.Int64

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range batches {
				if _, err := s.repo.UpsertMany(ctx, batch); err != nil {
					failed.Add(int64(len(batch)))
					log.Warn("Batch upsert failed",
						zap.Int("worker", workerID),
						zap.Int("size", len(batch)),
						zap.Error(err),
					)
					continue
				}
				processed.Add(int64(len(batch)))
			}
		}(i)
	}

	readErr := s.produce(ctx, r, batches)
	close(batches)
	wg.Wait()

	res := Result{
		Processed:    processed.Load(),
		Failed:       failed.Load(),
		IndexCreated: created,
		Duration:     time.Since(start),
	}
	log.Info("Ingest finished",
		zap.Int64("processed", res.Processed),
		zap.Int64("failed", res.Failed),
		zap.Duration("duration", res.Duration),
	)
	return res, readErr
}

// produce decodes the array element by element and sends full batches.
func (s *Service) produce(ctx context.Context, r io.Reader, out chan<- []domjob.Document) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read array start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return errors.New("expected a JSON array of job documents")
	}

	batch := make([]domjob.Document, 0, s.batchSize)
	send := func() error {
		if len(batch) == 0 {
			return nil
		}
		select {
		case out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
		batch = make([]domjob.Document, 0, s.batchSize)
		return nil
	}

	for n := 0; dec.More(); n++ {
		var doc domjob.Document
		if err := dec.Decode(&doc); err != nil {
			return fmt.Errorf("decode document %d: %w", n, err)
		}
		if doc == nil {
			continue
		}
		batch = append(batch, doc)
		if len(batch) == s.batchSize {
			if err := send(); err != nil {
				return err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read array end: %w", err)
	}
	return send()
}
