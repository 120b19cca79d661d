// Package cache holds recently analyzed commenter profiles so repeated comments
// by the same user skip the GitHub and classifier round trips.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

const (
	DefaultCapacity = 500
	DefaultTTL      = 72 * time.Hour
)

// Entry is the cached analysis for one commenter
type Entry struct {
	UserData             models.ProfileData
	ContributionAnalysis models.ContributionQuality
}

type item struct {
	entry     Entry
	expiresAt time.Time
}

// ProfileCache is a bounded LRU keyed by username where every entry expires a
// fixed TTL after it was stored. Reads update recency but never extend expiry.
// It is safe for concurrent use.
type ProfileCache struct {
	mu   sync.Mutex
	lru  *simplelru.LRU[string, item]
	size int
	ttl  time.Duration
	now  func() time.Time
}

// New creates a cache holding at most capacity entries for ttl each
func New(capacity int, ttl time.Duration) (*ProfileCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}

	lru, err := simplelru.NewLRU[string, item](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}

	return &ProfileCache{
		lru:  lru,
		size: capacity,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

// Get returns the live entry for username. An expired entry is removed and
// reported as absent.
func (c *ProfileCache) Get(username string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.lru.Peek(username)
	if !ok {
		return Entry{}, false
	}
	if !c.now().Before(it.expiresAt) {
		c.lru.Remove(username)
		return Entry{}, false
	}

	// Touch for recency only.
	c.lru.Get(username)
	return it.entry.clone(), true
}

// Put stores or replaces the entry for username with a fresh expiry. Expired
// entries are purged first so they never push out live ones.
func (c *ProfileCache) Put(username string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.lru.Contains(username) && c.lru.Len() >= c.size {
		c.purgeExpired(now)
	}

	c.lru.Add(username, item{entry: e.clone(), expiresAt: now.Add(c.ttl)})
}

// Purge drops every expired entry and returns how many were removed
func (c *ProfileCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.purgeExpired(c.now())
}

// Len reports the number of stored entries, including expired ones not yet purged
func (c *ProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// TTL returns the fixed lifetime of an entry
func (c *ProfileCache) TTL() time.Duration {
	return c.ttl
}

func (c *ProfileCache) purgeExpired(now time.Time) int {
	removed := 0
	for _, k := range c.lru.Keys() {
		it, ok := c.lru.Peek(k)
		if ok && !now.Before(it.expiresAt) {
			c.lru.Remove(k)
			removed++
		}
	}
	return removed
}

func (e Entry) clone() Entry {
	out := e
	out.UserData.RepoLanguages = append([]string(nil), e.UserData.RepoLanguages...)
	out.UserData.PRDiffs = append([]string(nil), e.UserData.PRDiffs...)
	return out
}
