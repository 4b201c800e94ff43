package blake3

import (
	"bytes"
	"math/bits"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
)

// TestHasherProperties exercises the testable properties from the
// specification's conformance section as BDD-style specs: determinism,
// streaming equivalence, output-length prefix independence, XOF
// consistency, keyed-vs-plain distinctness and SIMD equivalence.
func TestHasherProperties(t *testing.T) {
	spec.Run(t, "Hasher", func(t *testing.T, when spec.G, it spec.S) {
		when("hashing the same input twice", func() {
			it("is deterministic", func() {
				data := patternBytes(4097)
				a := Sum256(data)
				b := Sum256(data)
				if a != b {
					t.Fatalf("hash is not deterministic: %x != %x", a, b)
				}
			})
		})

		when("input arrives in arbitrary chunks", func() {
			it("matches the one-shot hash regardless of write boundaries", func() {
				data := patternBytes(9001)
				want := Sum256(data)

				h := New()
				offset := 0
				step := 1
				for offset < len(data) {
					end := offset + step
					if end > len(data) {
						end = len(data)
					}
					_, _ = h.Write(data[offset:end])
					offset = end
					step = step*7%97 + 1
				}
				if got := h.Sum256(); got != want {
					t.Fatalf("chunked write mismatch: want=%x got=%x", want, got)
				}
			})
		})

		when("output length grows", func() {
			it("keeps the first 32 bytes stable for any longer XOF read", func() {
				data := patternBytes(777)
				short := Sum256(data)

				h := New()
				_, _ = h.Write(data)
				long := make([]byte, 128)
				h.Finalize(long)

				if !bytes.Equal(short[:], long[:OutLen]) {
					t.Fatalf("32-byte prefix mismatch: want=%x got=%x", short, long[:OutLen])
				}
			})
		})

		when("reading the XOF in different-sized pieces", func() {
			it("produces identical bytes regardless of read granularity", func() {
				data := patternBytes(2048)

				h1 := New()
				_, _ = h1.Write(data)
				oneShot := make([]byte, 300)
				h1.XOF().fill(oneShot)

				h2 := New()
				_, _ = h2.Write(data)
				xof := h2.XOF()
				pieced := make([]byte, 300)
				sizes := []int{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 69}
				pos := 0
				for _, n := range sizes {
					if pos+n > len(pieced) {
						n = len(pieced) - pos
					}
					_, _ = xof.Read(pieced[pos : pos+n])
					pos += n
				}

				if !bytes.Equal(oneShot, pieced) {
					t.Fatalf("XOF read-granularity mismatch")
				}
			})
		})

		when("a key is supplied", func() {
			it("differs from the unkeyed hash of the same input", func() {
				data := patternBytes(512)
				var key [KeyLen]byte
				for i := range key {
					key[i] = byte(i * 7)
				}
				plain := Sum256(data)
				var keyed [OutLen]byte
				SumKeyed(key, data, keyed[:])
				if plain == keyed {
					t.Fatalf("keyed hash unexpectedly equals plain hash")
				}
			})
		})

		when("the wide four-lane engine is available", func() {
			it("agrees byte-for-byte with the scalar path", func() {
				if !haveWideCompress() {
					t.Skip("no wide compress backend detected on this host")
				}
				data := patternBytes(5120) // 5 full chunks: actually drives compress4xChunks
				wide := Sum256(data)

				// Force the scalar path by hashing chunk-by-chunk through
				// chunkCVFull directly and folding by hand, mirroring what
				// Write does when wide dispatch is unavailable.
				scalar := sumScalarOnly(data)
				if wide != scalar {
					t.Fatalf("wide/scalar mismatch: wide=%x scalar=%x", wide, scalar)
				}
			})
		})

		when("one input bit is flipped", func() {
			it("changes roughly half of the output bits", func() {
				data := patternBytes(256)
				base := Sum256(data)

				flipped := make([]byte, len(data))
				copy(flipped, data)
				flipped[len(flipped)/2] ^= 0x01
				other := Sum256(flipped)

				dist := 0
				for i := range base {
					dist += bits.OnesCount8(base[i] ^ other[i])
				}
				if dist < 80 || dist > 176 {
					t.Fatalf("avalanche distance out of range: %d", dist)
				}
			})
		})
	}, spec.Report(report.Terminal{}))
}

// sumScalarOnly hashes data using only chunkCVFull and the tree stack's own
// merge logic, bypassing Compress4x entirely, so tests can compare it
// against the dispatching Write path above.
func sumScalarOnly(data []byte) [OutLen]byte {
	h := newHasher(iv, 0)
	var stack treeStack
	chunkCounter := uint64(0)
	for len(data) > ChunkLen {
		cv := chunkCVFull(data[:ChunkLen], h.keyWords, chunkCounter, h.flags)
		chunkCounter++
		stack.pushChunkCV(cv, chunkCounter, h.keyWords, h.flags)
		data = data[ChunkLen:]
	}
	cs := newChunkState(h.keyWords, chunkCounter, h.flags)
	cs.update(data)
	root := stack.finalize(cs.output(), h.keyWords, h.flags)
	x := newXof(root)
	var out [OutLen]byte
	x.fill(out[:])
	return out
}
