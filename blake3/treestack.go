package blake3

// treeStackCapacity is generous: 2^54 KiB of input exceeds any storage that
// exists, so 54 slots suffice for any practical input regardless of how the
// stack fills.
const treeStackCapacity = 54

// treeStack is the height-ordered right spine of the implicit BLAKE3 Merkle
// tree. CVs flow upward only: push_chunk_cv is followed by exactly
// trailing_zeros(chunksDone) parent merges, which is what keeps the stack
// at popcount(chunksDone) entries after every chunk. No ROOT flag is ever
// set in this file: the root output that finalize returns gets ROOT only
// when Xof (xof.go) compresses it.
type treeStack struct {
	cvs [treeStackCapacity][8]uint32
	len uint8
}

func (s *treeStack) push(cv [8]uint32) {
	s.cvs[s.len] = cv
	s.len++
}

func (s *treeStack) pop() [8]uint32 {
	s.len--
	return s.cvs[s.len]
}

// mergeOutput combines a left and right child's chaining values into their
// parent's output: the two 8-word CVs concatenated as a single 16-word
// message block, hashed under the caller's key with PARENT set. This is the
// only place a parent node is ever built, whether the merge happens while
// still absorbing input (pushChunkCV) or while folding the stack into a
// root (finalize).
func mergeOutput(left, right [8]uint32, keyWords [8]uint32, flags uint32) output {
	var blockWords [16]uint32
	copy(blockWords[:8], left[:])
	copy(blockWords[8:], right[:])
	return output{
		inputChainingValue: keyWords,
		blockWords:         blockWords,
		blockLen:           BlockLen,
		flags:              parent | flags,
	}
}

func mergeCV(left, right [8]uint32, keyWords [8]uint32, flags uint32) [8]uint32 {
	return mergeOutput(left, right, keyWords, flags).chainingValue()
}

// pushChunkCV implements push_chunk_cv + the merge_rule together: push the
// newly completed chunk's CV, then merge with the top of the stack once for
// every trailing zero bit of totalChunks (the count of chunks completed
// including this one).
func (s *treeStack) pushChunkCV(cv [8]uint32, totalChunks uint64, keyWords [8]uint32, flags uint32) {
	for totalChunks&1 == 0 {
		cv = mergeCV(s.pop(), cv, keyWords, flags)
		totalChunks >>= 1
	}
	s.push(cv)
}

// finalize folds whatever remains on the stack together with the active
// chunk's own output, right to left. Every merge but the last is reduced to
// a chaining value without ROOT; the last merge's output is returned
// uncompressed, and Xof adds ROOT when it expands it. If the stack is empty the entire input fit in one chunk and
// chunkOutput (already carrying CHUNK_END, and CHUNK_START if it's also the
// first block) becomes the root directly — no PARENT compression at all,
// per the single-chunk root rule.
func (s *treeStack) finalize(chunkOutput output, keyWords [8]uint32, flags uint32) output {
	out := chunkOutput
	for i := int(s.len) - 1; i >= 0; i-- {
		out = mergeOutput(s.cvs[i], out.chainingValue(), keyWords, flags)
	}
	return out
}
