package verdictcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "verdict_cache:"

// store is the consumer interface for the verdict cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// entry is the cached form of a completion.
type entry struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// CachedCompleter caches successful completions in a key-value store.
type CachedCompleter struct {
	inner      domain.ChatCompleter
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.ChatCompleter,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCompleter {
	return &CachedCompleter{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Complete returns a cached completion or calls the inner completer.
// Cache hit: zero tokens, Cached=true. Inner errors pass through unwrapped and are never cached.
func (c *CachedCompleter) Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error) {
	key := cacheKey(req)

	if e, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.ChatResult{Text: e.Text, Model: e.Model, Cached: true}, nil
	}

	c.incCache("miss")

	res, err := c.inner.Complete(ctx, req)
	if err != nil {
		return domain.ChatResult{}, err
	}

	c.putToCache(ctx, key, entry{Text: res.Text, Model: res.Model})
	return res, nil
}

func (c *CachedCompleter) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes model, prompts and sampling parameters.
func cacheKey(req domain.ChatRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%g|%d|", req.Model, req.Temperature, req.MaxTokens)
	h.Write([]byte(req.System))
	h.Write([]byte{'|'})
	h.Write([]byte(req.User))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedCompleter) getFromCache(ctx context.Context, key string) (entry, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached verdict", zap.String("key", key), zap.Error(err))
		}
		return entry{}, false
	}
	if len(data) == 0 {
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Text == "" {
		c.logger.Warn("Failed to parse cached verdict", zap.String("key", key), zap.Error(err))
		return entry{}, false
	}
	return e, true
}

func (c *CachedCompleter) putToCache(ctx context.Context, key string, e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache verdict", zap.String("key", key), zap.Error(err))
	}
}
