package blake3

import "golang.org/x/sys/cpu"

// haveWideCompress reports whether the host can usefully run the four-lane
// Compress4x engine. golang.org/x/sys/cpu exposes cpu.X86 unconditionally
// (zero-valued off amd64/386), so this needs no build tags of its own: on
// architectures the detection package doesn't probe, every field reads
// false and callers fall back to the scalar path automatically.
func haveWideCompress() bool {
	return cpu.X86.HasSSE41 || cpu.X86.HasAVX2
}

// compress is the single-block entry point every higher layer calls
// through; it always runs compressPortable. The four-lane compressWide is
// reached only through compress4xChunks, which Write selects when
// haveWideCompress reports true. Both backends must be byte-for-byte
// identical (the SIMD-equivalence testable property); compressPortable is
// the ground truth compressWide is checked against in tests.
func compress(
	cv *[8]uint32,
	block *[16]uint32,
	counter uint64,
	blockLen uint32,
	flags uint32,
) [16]uint32 {
	return compressPortable(cv, block, counter, blockLen, flags)
}
