package analyzer

import (
	"context"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"github.com/sourcegraph/conc/pool"
)

// CachedFeatures is the extraction outcome for one function text
type CachedFeatures struct {
	Text     string
	Features *FunctionFeatures
	Err      error
}

// FeatureCache memoizes feature extraction by text hash.
// After Seal() the cache is read-only and safe for concurrent access
// without locks.
type FeatureCache struct {
	entries map[uint64]*CachedFeatures
	sealed  bool
}

// NewFeatureCache creates a new empty FeatureCache
func NewFeatureCache() *FeatureCache {
	return &FeatureCache{
		entries: make(map[uint64]*CachedFeatures),
	}
}

// Put stores an extraction result. Must be called before Seal().
func (c *FeatureCache) Put(entry *CachedFeatures) {
	if c.sealed {
		return
	}
	c.entries[xxhash.Sum64String(entry.Text)] = entry
}

// Seal marks the cache as read-only
func (c *FeatureCache) Seal() {
	c.sealed = true
}

// Get retrieves a cached result. A hash hit on different text is a miss.
func (c *FeatureCache) Get(text string) (*CachedFeatures, bool) {
	e, ok := c.entries[xxhash.Sum64String(text)]
	if !ok || e.Text != text {
		return nil, false
	}
	return e, true
}

// Features returns cached features for text, extracting them on a miss.
// Misses are not stored.
func (c *FeatureCache) Features(text string) (*FunctionFeatures, error) {
	if c != nil {
		if e, ok := c.Get(text); ok {
			return e.Features, e.Err
		}
	}
	return ExtractFeatures(text)
}

// Len returns the number of entries in the cache
func (c *FeatureCache) Len() int {
	return len(c.entries)
}

// PopulateFeatureCache extracts features for all texts in parallel and
// returns a sealed cache. concurrency <= 0 means runtime.NumCPU().
func PopulateFeatureCache(ctx context.Context, texts []string, concurrency int) (*FeatureCache, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	seen := make(map[uint64]struct{}, len(texts))
	unique := make([]string, 0, len(texts))
	for _, t := range texts {
		h := xxhash.Sum64String(t)
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, t)
	}

	results := make([]*CachedFeatures, len(unique))
	p := pool.New().WithMaxGoroutines(concurrency).WithContext(ctx)
	for i, text := range unique {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := ExtractFeatures(text)
			results[i] = &CachedFeatures{Text: text, Features: f, Err: err}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	cache := NewFeatureCache()
	for _, r := range results {
		cache.Put(r)
	}
	cache.Seal()
	return cache, nil
}
