// Package dedupe groups file paths by digest for one CLI invocation. It is
// deliberately in-memory only: spec.md's non-goals exclude persistence, and
// a duplicate-detection pass over a directory tree doesn't need to survive
// past the process that ran it.
package dedupe

import "github.com/dolthub/swiss"

// Hash is a 32-byte BLAKE3 digest, used here only as a map key.
type Hash [32]byte

// Set groups every path seen under Add by its digest.
type Set struct {
	byDigest *swiss.Map[Hash, []string]
}

// New returns an empty Set sized for roughly capacity distinct digests.
func New(capacity uint32) *Set {
	return &Set{byDigest: swiss.NewMap[Hash, []string](capacity)}
}

// Add records that path hashed to digest. It returns the current list of
// paths sharing that digest, including path itself.
func (s *Set) Add(digest Hash, path string) []string {
	paths, _ := s.byDigest.Get(digest)
	paths = append(paths, path)
	s.byDigest.Put(digest, paths)
	return paths
}

// Duplicates returns every digest that maps to more than one path, along
// with those paths.
func (s *Set) Duplicates() map[Hash][]string {
	out := make(map[Hash][]string)
	s.byDigest.Iter(func(digest Hash, paths []string) (stop bool) {
		if len(paths) > 1 {
			out[digest] = paths
		}
		return false
	})
	return out
}
