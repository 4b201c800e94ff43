package blake3

import "math/bits"

// lane4 holds the same state word across four independent chunks —
// vertical vectorization, one array slot per chunk. On hardware with
// 128-bit SIMD a lane4 is a single vector register; here it's a plain Go
// array so the four-lane engine is available and testably equivalent to
// the scalar path on every architecture, with haveWideCompress (dispatch.go)
// deciding purely on performance grounds whether it's worth taking.
type lane4 = [4]uint32

func gWide(state *[16]lane4, a, b, c, d int, mx, my lane4) {
	for lane := 0; lane < 4; lane++ {
		state[a][lane] += state[b][lane] + mx[lane]
		state[d][lane] = bits.RotateLeft32(state[d][lane]^state[a][lane], -16)
		state[c][lane] += state[d][lane]
		state[b][lane] = bits.RotateLeft32(state[b][lane]^state[c][lane], -12)
		state[a][lane] += state[b][lane] + my[lane]
		state[d][lane] = bits.RotateLeft32(state[d][lane]^state[a][lane], -8)
		state[c][lane] += state[d][lane]
		state[b][lane] = bits.RotateLeft32(state[b][lane]^state[c][lane], -7)
	}
}

func roundWide(state *[16]lane4, m *[16]lane4) {
	gWide(state, 0, 4, 8, 12, m[0], m[1])
	gWide(state, 1, 5, 9, 13, m[2], m[3])
	gWide(state, 2, 6, 10, 14, m[4], m[5])
	gWide(state, 3, 7, 11, 15, m[6], m[7])
	gWide(state, 0, 5, 10, 15, m[8], m[9])
	gWide(state, 1, 6, 11, 12, m[10], m[11])
	gWide(state, 2, 7, 8, 13, m[12], m[13])
	gWide(state, 3, 4, 9, 14, m[14], m[15])
}

func permuteWide(m *[16]lane4) {
	var permuted [16]lane4
	for i := 0; i < 16; i++ {
		permuted[i] = m[msgPermutation[i]]
	}
	*m = permuted
}

// compressWide runs the compression permutation on four lanes at once.
// Every lane shares blockLen and flags (the four chunks in a Compress4x
// group are always at the same block offset, so CHUNK_START/CHUNK_END agree
// across lanes); only the per-lane chaining value, message block and
// counter differ.
func compressWide(
	cvs *[4][8]uint32,
	blocks *[4][16]uint32,
	counters [4]uint64,
	blockLen uint32,
	flags uint32,
) [4][16]uint32 {
	var state [16]lane4
	for word := 0; word < 8; word++ {
		for lane := 0; lane < 4; lane++ {
			state[word][lane] = cvs[lane][word]
		}
	}
	for word := 0; word < 4; word++ {
		for lane := 0; lane < 4; lane++ {
			state[word+8][lane] = iv[word]
		}
	}
	for lane := 0; lane < 4; lane++ {
		state[12][lane] = uint32(counters[lane])
		state[13][lane] = uint32(counters[lane] >> 32)
		state[14][lane] = blockLen
		state[15][lane] = flags
	}

	var m [16]lane4
	for word := 0; word < 16; word++ {
		for lane := 0; lane < 4; lane++ {
			m[word][lane] = blocks[lane][word]
		}
	}

	roundWide(&state, &m) // 1
	permuteWide(&m)
	roundWide(&state, &m) // 2
	permuteWide(&m)
	roundWide(&state, &m) // 3
	permuteWide(&m)
	roundWide(&state, &m) // 4
	permuteWide(&m)
	roundWide(&state, &m) // 5
	permuteWide(&m)
	roundWide(&state, &m) // 6
	permuteWide(&m)
	roundWide(&state, &m) // 7

	for word := 0; word < 8; word++ {
		for lane := 0; lane < 4; lane++ {
			state[word][lane] ^= state[word+8][lane]
			state[word+8][lane] ^= cvs[lane][word]
		}
	}

	var out [4][16]uint32
	for lane := 0; lane < 4; lane++ {
		for word := 0; word < 16; word++ {
			out[lane][word] = state[word][lane]
		}
	}
	return out
}

// compress4xChunks runs Compress4x over four full (ChunkLen-byte) chunks
// starting at chunkCounter, chunkCounter+1, ..., chunkCounter+3, returning
// their four chaining values. It does not touch the tree stack: the caller
// pushes each CV and runs its mandated trailing-zero merges exactly as it
// would for a scalar chunk, so a Compress4x group never changes the tree
// invariant, only batches the leaves that feed it.
func compress4xChunks(chunks *[4][ChunkLen]byte, keyWords [8]uint32, chunkCounter uint64, flags uint32) [4][8]uint32 {
	cvs := [4][8]uint32{keyWords, keyWords, keyWords, keyWords}
	counters := [4]uint64{chunkCounter, chunkCounter + 1, chunkCounter + 2, chunkCounter + 3}

	const blocksPerChunk = ChunkLen / BlockLen
	for block := 0; block < blocksPerChunk; block++ {
		var blocks [4][16]uint32
		for lane := 0; lane < 4; lane++ {
			loadWords(&blocks[lane], chunks[lane][block*BlockLen:])
		}
		blockFlags := flags
		if block == 0 {
			blockFlags |= chunkStart
		}
		if block == blocksPerChunk-1 {
			blockFlags |= chunkEnd
		}
		out := compressWide(&cvs, &blocks, counters, BlockLen, blockFlags)
		for lane := 0; lane < 4; lane++ {
			cvs[lane] = first8Words(out[lane])
		}
	}
	return cvs
}
