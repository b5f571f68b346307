package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// GeocodeCache caches address lookups to reduce API calls. Addresses are
// keyed case-insensitively since the same site often arrives with varying
// capitalization across jobs.
type GeocodeCache struct {
	cache      map[string]*geocodeEntry
	mutex      sync.RWMutex
	maxEntries int
	ttl        time.Duration

	hits      int64
	misses    int64
	evictions int64
}

type geocodeEntry struct {
	Coord        models.LatLng
	CreatedAt    time.Time
	LastAccessed time.Time
}

// NewGeocodeCache creates a new geocode cache
func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{
		cache:      make(map[string]*geocodeEntry),
		maxEntries: 500,            // Plenty for a day sheet
		ttl:        24 * time.Hour, // Sites don't move
	}
}

func cacheKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Get retrieves a cached coordinate if present and not expired
func (c *GeocodeCache) Get(address string) (models.LatLng, bool) {
	key := cacheKey(address)

	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if !found {
		c.mutex.Lock()
		c.misses++
		c.mutex.Unlock()
		return models.LatLng{}, false
	}

	if time.Since(entry.CreatedAt) > c.ttl {
		c.mutex.Lock()
		delete(c.cache, key)
		c.misses++
		c.evictions++
		c.mutex.Unlock()
		return models.LatLng{}, false
	}

	c.mutex.Lock()
	entry.LastAccessed = time.Now()
	c.hits++
	c.mutex.Unlock()

	return entry.Coord, true
}

// Set stores a coordinate for an address
func (c *GeocodeCache) Set(address string, coord models.LatLng) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.cache) >= c.maxEntries {
		c.evictOldest()
	}

	c.cache[cacheKey(address)] = &geocodeEntry{
		Coord:        coord,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (c *GeocodeCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.cache {
		if oldestKey == "" || entry.LastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastAccessed
		}
	}

	if oldestKey != "" {
		delete(c.cache, oldestKey)
		c.evictions++
		log.Printf("🗑️  Evicted oldest geocode cache entry: %s", oldestKey)
	}
}

// Stats returns cache hit/miss/eviction counters and the current size
func (c *GeocodeCache) Stats() (hits, misses, evictions int64, size int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.hits, c.misses, c.evictions, len(c.cache)
}
