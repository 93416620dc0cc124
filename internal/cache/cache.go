// Package cache implements the content-addressed detection cache of
// spec.md §4.10: a map from a file-content hash to the labelled chord list
// computed for it, so a repeated load of the same bytes skips aggregation
// and segmentation.
package cache

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/chordforge/chordforge/internal/chord"
)

// Cache maps a lowercase-hex FNV-1a hash of raw file bytes to a deep copy of
// the labelled chord list produced for it. Safe for concurrent use; the
// engine itself is single-threaded (spec.md §5), but a host batching many
// files may share one cache across independent document contexts.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]chord.Chord
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string][]chord.Chord)}
}

// HashKey formats the 64-bit FNV-1a hash of data as lowercase hex, per
// spec.md §4.10.
func HashKey(data []byte) string {
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Get returns a deep copy of the cached chord list for key, and whether it
// was present.
func (c *Cache) Get(key string) ([]chord.Chord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return cloneAll(entry), true
}

// Put stores a deep copy of chords under key, overwriting any prior entry.
func (c *Cache) Put(key string, chords []chord.Chord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cloneAll(chords)
}

// Invalidate removes key's entry, if present.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneAll(chords []chord.Chord) []chord.Chord {
	out := make([]chord.Chord, len(chords))
	for i, c := range chords {
		out[i] = c.Clone()
	}
	return out
}
