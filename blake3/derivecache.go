package blake3

import (
	"sync"

	"github.com/floatdrop/lru"
)

// derivedContextCacheSize bounds how many distinct derive-key contexts are
// memoized. Real services derive many keys from a small, fixed set of
// context strings (one per purpose), so a modest cache captures the common
// case without growing unbounded under adversarial input.
const derivedContextCacheSize = 256

// derivedContextCache wraps the LRU with its own lock. Every Hasher created
// via NewDeriveKey shares this cache, so concurrent derivations from
// independent goroutines (a valid usage pattern: separate Hasher instances
// share nothing mutable per spec) must not race on the underlying map.
type derivedContextCache struct {
	sync.Mutex
	lru *lru.LRU[string, [8]uint32]
}

var (
	contextCacheOnce sync.Once
	contextCache     *derivedContextCache
)

func getContextCache() *derivedContextCache {
	contextCacheOnce.Do(func() {
		contextCache = &derivedContextCache{lru: lru.New[string, [8]uint32](derivedContextCacheSize)}
	})
	return contextCache
}

// deriveContextKey returns the 8-word context key for context, computing it
// via hashContext on a cache miss. A cached hit and an uncached derivation
// of the same context string always agree: the cache only ever stores what
// hashContext would have produced.
func deriveContextKey(context string) [8]uint32 {
	cache := getContextCache()

	cache.Lock()
	p := cache.lru.Get(context)
	cache.Unlock()
	if p != nil {
		return *p
	}

	key := hashContext(context)

	cache.Lock()
	cache.lru.Set(context, key)
	cache.Unlock()
	return key
}
