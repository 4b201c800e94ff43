// Package hashcache memoizes file digests within one process so re-hashing
// an unchanged file (e.g. one named more than once in a single
// "blake3sum --check" run) can skip reading it again. Like dedupe, this is
// bounded, in-memory, and dropped when the process exits, so a later run
// starts with an empty cache.
package hashcache

import (
	"fmt"
	"os"

	"github.com/dgraph-io/ristretto/v2"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// Cache wraps a ristretto cache keyed by (path, size, mtime).
type Cache struct {
	cache *ristretto.Cache[string, Digest]
}

// New returns a Cache sized for roughly maxEntries recent files.
func New(maxEntries int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, Digest]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("hashcache: %w", err)
	}
	return &Cache{cache: c}, nil
}

func key(path string, info os.FileInfo) string {
	return fmt.Sprintf("%s:%d:%d", path, info.Size(), info.ModTime().UnixNano())
}

// Get returns the cached digest for path, if info's size and modtime still
// match what was cached.
func (c *Cache) Get(path string, info os.FileInfo) (Digest, bool) {
	return c.cache.Get(key(path, info))
}

// Set records digest for path under info's current size and modtime.
func (c *Cache) Set(path string, info os.FileInfo, digest Digest) {
	c.cache.Set(key(path, info), digest, 1)
	c.cache.Wait()
}
