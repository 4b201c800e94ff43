package blake3

import (
	"crypto/sha256"
	"testing"
)

func BenchmarkSum256_1K(b *testing.B) {
	data := patternBytes(1024)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Sum256(data)
	}
}

func BenchmarkSum256_8K(b *testing.B) {
	data := patternBytes(8 * 1024)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Sum256(data)
	}
}

func BenchmarkSum256_1M(b *testing.B) {
	data := patternBytes(1 << 20)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Sum256(data)
	}
}

func BenchmarkHasherWrite_1M(b *testing.B) {
	data := patternBytes(1 << 20)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h := New()
		_, _ = h.Write(data)
		_ = h.Sum256()
	}
}

func BenchmarkSHA256_1M(b *testing.B) {
	data := patternBytes(1 << 20)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sha256.Sum256(data)
	}
}

func BenchmarkCompress4xChunks(b *testing.B) {
	var chunks [4][ChunkLen]byte
	for lane := range chunks {
		copy(chunks[lane][:], patternBytes(ChunkLen))
	}
	b.SetBytes(4 * ChunkLen)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = compress4xChunks(&chunks, iv, 0, 0)
	}
}

func BenchmarkChunkCVFullScalar(b *testing.B) {
	data := patternBytes(ChunkLen)
	b.SetBytes(4 * ChunkLen)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for lane := 0; lane < 4; lane++ {
			_ = chunkCVFull(data, iv, uint64(lane), 0)
		}
	}
}
