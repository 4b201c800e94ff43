package blake3

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeStackShapeMatchesPopcount(t *testing.T) {
	var s treeStack
	for n := uint64(1); n <= 200; n++ {
		cv := [8]uint32{uint32(n)}
		s.pushChunkCV(cv, n, iv, 0)
		assert.EqualValues(t, bits.OnesCount64(n), s.len, "stack shape wrong after %d chunks", n)
	}
}

func TestTreeStackFinalizeSingleChunkHasNoParentCompression(t *testing.T) {
	var s treeStack
	cs := newChunkState(iv, 0, 0)
	cs.update(patternBytes(500))
	root := s.finalize(cs.output(), iv, 0)

	assert.Zero(t, root.flags&parent, "single-chunk root must not be a PARENT compression")
	// 500 bytes span eight blocks, so the root's block is not the chunk's
	// first and carries CHUNK_END without CHUNK_START.
	assert.Zero(t, root.flags&chunkStart)
	assert.NotZero(t, root.flags&chunkEnd)
}

func TestTreeStackFinalizeMultiChunkIsAlwaysParent(t *testing.T) {
	var s treeStack
	first := chunkCVFull(patternBytes(ChunkLen), iv, 0, 0)
	s.pushChunkCV(first, 1, iv, 0)

	cs := newChunkState(iv, 1, 0)
	cs.update(patternBytes(100))
	root := s.finalize(cs.output(), iv, 0)

	assert.NotZero(t, root.flags&parent, "multi-chunk root must be a PARENT compression")
}
