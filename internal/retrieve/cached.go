package retrieve

import (
	"context"
	"encoding/json"
	"time"

	"github.com/factlens/factlens/internal/cache"
	"github.com/factlens/factlens/internal/model"
)

// CachedRetriever caches retrieval results per normalized claim.
// Cached items carry no NLI scores; scoring happens per request.
type CachedRetriever struct {
	inner Retriever
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedRetriever wraps inner with an in-memory cache.
func NewCachedRetriever(inner Retriever, c cache.Cache, ttl time.Duration) *CachedRetriever {
	return &CachedRetriever{inner: inner, cache: c, ttl: ttl}
}

// Retrieve returns cached evidence when available, falling through to the
// inner retriever otherwise. Failures are never cached.
func (r *CachedRetriever) Retrieve(ctx context.Context, claim string) ([]model.EvidenceItem, error) {
	key := cache.Key("retrieve", claim)
	if data, ok := r.cache.Get(key); ok {
		var items []model.EvidenceItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		_ = r.cache.Delete(key)
	}

	items, err := r.inner.Retrieve(ctx, claim)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		_ = r.cache.Set(key, data, r.ttl)
	}
	return items, nil
}
