package server

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// cacheKey identifies one lookup. Tables never change once built, so a
// cached result stays valid for the life of the process.
type cacheKey struct {
	table     string
	direction string
	query     string
}

type cacheEntry struct {
	result  string
	matched bool
}

// HotCache keeps the most recently used lookup results.
type HotCache struct {
	entries     map[cacheKey]cacheEntry
	accessTime  map[cacheKey]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewHotCache creates a cache holding up to maxEntries results. A cache with
// maxEntries <= 0 stores nothing.
func NewHotCache(maxEntries int) *HotCache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &HotCache{
		entries:    make(map[cacheKey]cacheEntry, maxEntries),
		accessTime: make(map[cacheKey]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached result of a lookup.
func (hc *HotCache) Get(table, direction, query string) (string, bool, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	key := cacheKey{table, direction, query}
	entry, ok := hc.entries[key]
	if !ok {
		hc.misses++
		return "", false, false
	}

	hc.hits++
	hc.markAccessed(key)
	return entry.result, entry.matched, true
}

// Put stores the result of a lookup, evicting the least recently used entry
// when full.
func (hc *HotCache) Put(table, direction, query, result string, matched bool) {
	if hc.maxEntries == 0 {
		return
	}

	hc.mu.Lock()
	defer hc.mu.Unlock()

	key := cacheKey{table, direction, query}
	if _, ok := hc.entries[key]; !ok && len(hc.entries) >= hc.maxEntries {
		hc.evictLRU()
	}

	hc.entries[key] = cacheEntry{result: result, matched: matched}
	hc.markAccessed(key)
}

// Len returns the number of cached results.
func (hc *HotCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.entries)
}

func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheEntries": len(hc.entries),
		"maxHotEntries":   hc.maxEntries,
		"hotCacheHits":    int(hc.hits),
		"hotCacheMisses":  int(hc.misses),
	}
}

func (hc *HotCache) markAccessed(key cacheKey) {
	hc.accessCount++
	hc.accessTime[key] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldestKey cacheKey
	var oldestTime int64 = math.MaxInt64

	for key, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestTime != math.MaxInt64 {
		delete(hc.entries, oldestKey)
		delete(hc.accessTime, oldestKey)
		log.Debugf("Evicted '%s' (%s) from hot cache", oldestKey.query, oldestKey.table)
	}
}
