package nli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/factlens/factlens/internal/cache"
)

// CachedScorer caches NLI scores per (claim, snippet) pair. The underlying
// model is deterministic for a given pair, so repeated verification of the
// same claim skips the inference round trip.
type CachedScorer struct {
	inner Scorer
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedScorer wraps inner with an in-memory cache.
func NewCachedScorer(inner Scorer, c cache.Cache, ttl time.Duration) *CachedScorer {
	return &CachedScorer{inner: inner, cache: c, ttl: ttl}
}

// Score returns the cached scores when present. Failures are never cached.
func (s *CachedScorer) Score(ctx context.Context, claim, snippet string) (Scores, error) {
	key := cache.Key("nli", claim, snippet)
	if data, ok := s.cache.Get(key); ok {
		var scores Scores
		if err := json.Unmarshal(data, &scores); err == nil {
			return scores, nil
		}
		_ = s.cache.Delete(key)
	}

	scores, err := s.inner.Score(ctx, claim, snippet)
	if err != nil {
		return Scores{}, err
	}
	if data, err := json.Marshal(scores); err == nil {
		_ = s.cache.Set(key, data, s.ttl)
	}
	return scores, nil
}
