package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/validation"
	"github.com/wonny/tradelens/pkg/logger"
)

// ResultStore is the subset of pkg/redis.Cache the decorator needs
type ResultStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedAnalyzer memoizes Analyze by input content.
// The core Analyzer stays uncached; a hit returns the earlier report unchanged,
// including its timestamp and ID.
type CachedAnalyzer struct {
	analyzer *Analyzer
	store    ResultStore
	ttl      time.Duration
	logger   *logger.Logger
}

// NewCachedAnalyzer wraps analyzer with store. A zero ttl defers to the store default.
func NewCachedAnalyzer(analyzer *Analyzer, store ResultStore, ttl time.Duration, log *logger.Logger) *CachedAnalyzer {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedAnalyzer{
		analyzer: analyzer,
		store:    store,
		ttl:      ttl,
		logger:   log.WithComponent("analytics.cache"),
	}
}

// cacheInput canonical form hashed into the cache key
type cacheInput struct {
	Candidates []validation.CandidateTrade `json:"candidates"`
	Scope      contracts.Scope             `json:"scope"`
	Options    Options                     `json:"options"`
}

// Key returns the SHA-256 of the canonical JSON of input, scope and options
func Key(candidates []validation.CandidateTrade, scope contracts.Scope, opts Options) (string, error) {
	data, err := json.Marshal(cacheInput{Candidates: candidates, Scope: scope, Options: opts})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return "result:" + hex.EncodeToString(sum[:]), nil
}

// Analyze serves from the store when possible. Key or store failures fall back to computing.
func (c *CachedAnalyzer) Analyze(ctx context.Context, candidates []validation.CandidateTrade, scope contracts.Scope) (*Report, bool, error) {
	key, err := Key(candidates, scope, c.analyzer.Options())
	if err != nil {
		c.logger.WithError(err).Warn("Cache key unavailable, computing uncached")
		report, err := c.analyzer.Analyze(candidates, scope)
		return report, false, err
	}

	var cached Report
	found, err := c.store.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).Warn("Cache read failed, computing")
	} else if found {
		return &cached, true, nil
	}

	report, err := c.analyzer.Analyze(candidates, scope)
	if err != nil {
		return nil, false, err
	}

	if err := c.store.Set(ctx, key, report, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Cache write failed")
	}
	return report, false, nil
}
