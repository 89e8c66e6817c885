package cache

import (
	"crypto/sha256"
	"encoding/hex"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dkrebs/navilex/internal/model"
)

// SessionCache maps a content fingerprint of a full text to its resolved
// analysis, so repeated analysis of identical text costs one map lookup.
// Entries never expire; growth is unbounded for the process lifetime,
// an accepted limit given how small analyses are.
type SessionCache struct {
	cache *gocache.Cache
}

// NewSessionCache creates an empty session cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Fingerprint returns the deterministic cache key for preprocessed text.
func Fingerprint(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// Get returns the cached analysis for a fingerprint.
func (c *SessionCache) Get(fingerprint string) (model.TextAnalysis, bool) {
	if val, found := c.cache.Get(fingerprint); found {
		return val.(model.TextAnalysis), true
	}
	return nil, false
}

// Set stores an analysis under its fingerprint.
func (c *SessionCache) Set(fingerprint string, analysis model.TextAnalysis) {
	c.cache.Set(fingerprint, analysis, gocache.NoExpiration)
}
