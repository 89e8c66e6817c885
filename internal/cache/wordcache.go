// Package cache holds the two caches behind text analysis: the durable
// per-word lookup cache and the in-process session cache of full analyses.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/dkrebs/navilex/internal/model"
)

// WordCache is a durable mapping from lookup keys to previously fetched
// records. Two independent key variants exist per word: a single result
// number (for disambiguating one sense) and the full candidate list.
// Entries are append-only for the lifetime of the process; the first
// writer of a key wins and later writes are no-ops.
type WordCache struct {
	path string

	mu      sync.RWMutex
	singles map[string]model.LookupRecord
	all     map[string][]model.LookupRecord
}

// NewWordCache creates an empty cache persisted at path. An empty path
// keeps the cache in memory only; Load and Flush become no-ops.
func NewWordCache(path string) *WordCache {
	return &WordCache{
		path:    path,
		singles: make(map[string]model.LookupRecord),
		all:     make(map[string][]model.LookupRecord),
	}
}

// SingleKey is the cache key for one result number of a word form.
// Keys are case-insensitive on the word.
func SingleKey(word string, nr int) string {
	return strings.ToLower(word) + "_" + strconv.Itoa(nr)
}

// AllKey is the cache key for the full candidate list of a word form.
func AllKey(word string) string {
	return "all_" + strings.ToLower(word)
}

// snapshot is the on-disk representation, written wholesale on Flush and
// read wholesale on Load.
type snapshot struct {
	Singles map[string]model.LookupRecord   `json:"singles"`
	All     map[string][]model.LookupRecord `json:"all"`
}

// Load reads the cache file. A missing or corrupt file leaves the cache
// empty; startup never fails on cache state.
func (c *WordCache) Load() error {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.Singles != nil {
		c.singles = snap.Singles
	}
	if snap.All != nil {
		c.all = snap.All
	}
	return nil
}

// Flush persists the full in-memory mapping. Best effort: callers log
// failures and carry on with the in-memory cache.
func (c *WordCache) Flush() error {
	if c.path == "" {
		return nil
	}
	c.mu.RLock()
	snap := snapshot{
		Singles: make(map[string]model.LookupRecord, len(c.singles)),
		All:     make(map[string][]model.LookupRecord, len(c.all)),
	}
	for k, v := range c.singles {
		snap.Singles[k] = v
	}
	for k, v := range c.all {
		snap.All[k] = v
	}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// GetRecord returns the cached record for (word, nr), if any.
func (c *WordCache) GetRecord(word string, nr int) (model.LookupRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.singles[SingleKey(word, nr)]
	return rec, ok
}

// PutRecord stores a record under (word, nr). If the key already has a
// value the call is a no-op, so concurrent resolvers racing on the same
// word cannot overwrite each other.
func (c *WordCache) PutRecord(word string, nr int, rec model.LookupRecord) {
	key := SingleKey(word, nr)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.singles[key]; exists {
		return
	}
	c.singles[key] = rec
}

// GetAll returns the cached full candidate list for word, if any.
// A cached empty list is a hit: "the dictionary has no forms" is a result.
func (c *WordCache) GetAll(word string) ([]model.LookupRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recs, ok := c.all[AllKey(word)]
	return recs, ok
}

// PutAll stores the full candidate list for word, first writer wins.
func (c *WordCache) PutAll(word string, recs []model.LookupRecord) {
	if recs == nil {
		recs = []model.LookupRecord{}
	}
	key := AllKey(word)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.all[key]; exists {
		return
	}
	c.all[key] = recs
}

// Len reports how many entries the cache holds across both variants.
func (c *WordCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.singles) + len(c.all)
}
