package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	domjob "github.com/kailas-cloud/jobmatch/internal/domain/job"
	"github.com/kailas-cloud/jobmatch/internal/domain/search/query"
)

// DefaultScorer ranks candidates by BM25 relevance.
const DefaultScorer = "BM25"

// store is the consumer interface for job postings (ISP).
type store interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo stores job postings as JSON documents and runs ranked candidate searches.
type Repo struct {
	store  store
	index  string
	prefix string
}

// New creates a job repository over the given FT index.
func New(s store, index string) *Repo {
	if index == "" {
		index = domain.DefaultJobIndex
	}
	return &Repo{store: s, index: index, prefix: domain.JobKeyPrefix}
}

// Index returns the FT index name.
func (r *Repo) Index() string { return r.index }

// EnsureIndex creates the job index if it is missing. Returns true if created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.index, err)
	}
	if exists {
		return false, nil
	}

	def, err := buildIndex(r.index, r.prefix)
	if err != nil {
		return false, fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", r.index, err)
	}
	return true, nil
}

// DropIndex removes the job index, keeping the documents. A missing index is not an error.
func (r *Repo) DropIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.index, err)
	}
	return nil
}

// UpsertMany stores docs in one pipelined round-trip and returns their ids in input order.
// A document's id comes from _id or job_id; documents without one get a fresh uuid.
func (r *Repo) UpsertMany(ctx context.Context, docs []domjob.Document) ([]uuid.UUID, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(docs))
	items := make([]db.JSONSetItem, len(docs))
	for i, doc := range docs {
		id := documentID(doc)
		body := make(map[string]any, len(doc))
		for k, v := range doc {
			if k == domjob.FieldNativeID || k == domjob.FieldJobID || k == domjob.FieldScore {
				continue
			}
			body[k] = v
		}
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal job %s: %w", id, err)
		}
		ids[i] = id
		items[i] = db.JSONSetItem{Key: r.prefix + id.String(), Path: "$", Data: data}
	}

	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return nil, fmt.Errorf("store jobs: %w", err)
	}
	return ids, nil
}

// Search returns up to window ranked candidates for p starting at offset,
// plus the total number of ranked hits. Each document carries its uuid under
// _id and the engine's relevance under score. The post-filter is not applied here.
func (r *Repo) Search(ctx context.Context, p query.Pipeline, offset, window int) ([]domjob.Document, int, error) {
	clauses := p.Clauses()
	if len(clauses) == 0 {
		return nil, 0, nil
	}

	q := &db.TextQuery{
		IndexName:    r.index,
		Clauses:      make([]db.FuzzyClause, 0, len(clauses)),
		Scorer:       DefaultScorer,
		Offset:       offset,
		Limit:        window,
		ReturnFields: []string{db.DocumentField},
	}
	for _, c := range clauses {
		q.Clauses = append(q.Clauses, db.FuzzyClause{Fields: c.Fields, Terms: c.Terms(), MaxEdits: c.MaxEdits})
	}
	if expr, ok := p.LocationFilter(); ok {
		q.Filters = expr
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search %s: %w", r.index, err)
	}
	if sr == nil {
		return nil, 0, nil
	}
	docs, err := r.parseEntries(sr)
	if err != nil {
		return nil, 0, err
	}
	return docs, sr.Total, nil
}

func (r *Repo) parseEntries(sr *db.SearchResult) ([]domjob.Document, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	docs := make([]domjob.Document, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		raw, ok := entry.Fields[db.DocumentField]
		if !ok {
			continue
		}
		var doc domjob.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
		}
		if doc == nil {
			continue
		}

		idStr := strings.TrimPrefix(entry.Key, r.prefix)
		if id, err := uuid.Parse(idStr); err == nil {
			doc[domjob.FieldNativeID] = id
		} else {
			doc[domjob.FieldNativeID] = idStr
		}
		doc[domjob.FieldScore] = entry.Score
		docs = append(docs, doc)
	}
	return docs, nil
}

// documentID resolves the stable id of an inbound document. Non-uuid ids are
// mapped to a name-based uuid so re-ingesting the same file overwrites in place.
func documentID(doc domjob.Document) uuid.UUID {
	for _, k := range []string{domjob.FieldNativeID, domjob.FieldJobID} {
		switch v := doc[k].(type) {
		case uuid.UUID:
			return v
		case string:
			if v == "" {
				continue
			}
			if id, err := uuid.Parse(v); err == nil {
				return id
			}
			return uuid.NewSHA1(uuid.NameSpaceURL, []byte(v))
		case map[string]any:
			// extended JSON object id: {"$oid": "..."}
			if oid, ok := v["$oid"].(string); ok && oid != "" {
				return uuid.NewSHA1(uuid.NameSpaceURL, []byte(oid))
			}
		}
	}
	return uuid.New()
}
