// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides a typed LRU cache with load deduplication.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/stakewatch/leadersched/metrics"
)

var metricLookups = metrics.LazyLoadCounterVec("cache_lookup_count", []string{"cache", "result"})

// Loader loads the value of a missed key.
type Loader[K comparable, V any] func(key K) (V, error)

// LRU is a size bounded cache, safe for concurrent use.
type LRU[K comparable, V any] struct {
	name      string
	cache     *lru.Cache
	loads     singleflight.Group
	hit, miss atomic.Int64
}

// NewLRU creates a LRU cache instance named name.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](name string, maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{name: name, cache: cache}, nil
}

// Get returns the cached value of key.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		l.record(&l.hit, "hit")
		return v.(V), true
	}
	l.record(&l.miss, "miss")
	var zero V
	return zero, false
}

// Add caches value under key, returns true if an entry was evicted.
func (l *LRU[K, V]) Add(key K, value V) bool {
	return l.cache.Add(key, value)
}

// Contains reports whether key is cached without updating its recency.
func (l *LRU[K, V]) Contains(key K) bool {
	return l.cache.Contains(key)
}

// Remove evicts key.
func (l *LRU[K, V]) Remove(key K) {
	l.cache.Remove(key)
}

// Purge evicts every entry.
func (l *LRU[K, V]) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// GetOrLoad first try to get from cache, do load if missed.
// Concurrent loads of the same key share one loader call. Errors are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, loader Loader[K, V]) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err, _ := l.loads.Do(fmt.Sprint(key), func() (any, error) {
		v, err := loader(key)
		if err != nil {
			return nil, err
		}
		l.cache.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Stats returns the number of hits and misses.
func (l *LRU[K, V]) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}

func (l *LRU[K, V]) record(counter *atomic.Int64, result string) {
	counter.Add(1)
	metricLookups().AddWithLabel(1, map[string]string{"cache": l.name, "result": result})
}
