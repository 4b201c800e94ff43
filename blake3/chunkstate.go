package blake3

// output captures everything needed to produce either a chaining value or
// (with ROOT set) root-node bytes: the input CV, the message block that
// produced it, the counter role that was active, blockLen and flags. It is
// the common currency chunkState.output and treeStack's parent merges (see
// treestack.go) both speak.
type output struct {
	inputChainingValue [8]uint32
	blockWords         [16]uint32
	counter            uint64
	blockLen           uint32
	flags              uint32
}

func (o output) chainingValue() [8]uint32 {
	return first8Words(compress(
		&o.inputChainingValue,
		&o.blockWords,
		o.counter,
		o.blockLen,
		o.flags,
	))
}

// chunkState accumulates up to ChunkLen bytes into one leaf, chaining
// compressions across its up to 16 blocks.
type chunkState struct {
	chainingValue    [8]uint32
	chunkCounter     uint64
	block            [BlockLen]byte
	blockLen         uint8
	blocksCompressed uint8
	flags            uint32
}

func newChunkState(keyWords [8]uint32, chunkCounter uint64, flags uint32) chunkState {
	return chunkState{
		chainingValue: keyWords,
		chunkCounter:  chunkCounter,
		flags:         flags,
	}
}

func (c *chunkState) len() int {
	return BlockLen*int(c.blocksCompressed) + int(c.blockLen)
}

func (c *chunkState) startFlag() uint32 {
	if c.blocksCompressed == 0 {
		return chunkStart
	}
	return 0
}

func (c *chunkState) update(input []byte) {
	for len(input) > 0 {
		if c.blockLen == BlockLen {
			var blockWords [16]uint32
			loadWords(&blockWords, c.block[:])
			c.chainingValue = first8Words(compress(
				&c.chainingValue,
				&blockWords,
				c.chunkCounter,
				BlockLen,
				c.flags|c.startFlag(),
			))
			c.blocksCompressed++
			clear(c.block[:])
			c.blockLen = 0
		}

		want := BlockLen - int(c.blockLen)
		if want > len(input) {
			want = len(input)
		}
		copy(c.block[int(c.blockLen):], input[:want])
		c.blockLen += uint8(want)
		input = input[want:]
	}
}

// output builds the finalize_chunk output: the last, possibly partial,
// block compressed with CHUNK_END set (and CHUNK_START too, if this is
// also the chunk's first block).
func (c *chunkState) output() output {
	var blockWords [16]uint32
	loadWords(&blockWords, c.block[:])
	return output{
		inputChainingValue: c.chainingValue,
		blockWords:         blockWords,
		counter:            c.chunkCounter,
		blockLen:           uint32(c.blockLen),
		flags:              c.flags | c.startFlag() | chunkEnd,
	}
}

// chunkCVFull computes the chaining value of one complete ChunkLen-byte
// chunk in the scalar path — the fallback when fewer than four full chunks
// remain for Compress4x to batch.
func chunkCVFull(input []byte, keyWords [8]uint32, chunkCounter uint64, flags uint32) [8]uint32 {
	cv := keyWords
	var blockWords [16]uint32
	const blocksPerChunk = ChunkLen / BlockLen
	for block := 0; block < blocksPerChunk; block++ {
		loadWords(&blockWords, input[block*BlockLen:])
		blockFlags := flags
		if block == 0 {
			blockFlags |= chunkStart
		}
		if block == blocksPerChunk-1 {
			blockFlags |= chunkEnd
		}
		cv = first8Words(compress(&cv, &blockWords, chunkCounter, BlockLen, blockFlags))
	}
	return cv
}
