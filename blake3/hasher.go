package blake3

import (
	"hash"

	"lukechampine.com/uint128"
)

// wideMinChunks is how many full chunks must remain before it's worth
// paying for a Compress4x group; below that the per-group bookkeeping
// outweighs the lane parallelism.
const wideMinChunks = 4

// maxTotalBytes is the byte-count precondition boundary from spec §7: 2^64
// chunks' worth of input. A uint64 byte counter would silently wrap long
// before reaching it, so the running total is tracked in 128 bits instead —
// the only way to actually observe the precondition rather than assume it
// can't happen.
var maxTotalBytes = uint128.New(0, ChunkLen)

// Hasher is the public streaming BLAKE3 hasher with extendable output. It
// owns a chunkState, a treeStack, the base key and the base flags, and
// coordinates them exactly as spec'd: complete the active chunk, push its
// CV, run the mandated merges, repeat.
type Hasher struct {
	chunkState chunkState
	keyWords   [8]uint32
	stack      treeStack
	flags      uint32
	total      uint128.Uint128
	finalized  bool
}

var _ hash.Hash = (*Hasher)(nil)

func newHasher(keyWords [8]uint32, flags uint32) *Hasher {
	return &Hasher{
		chunkState: newChunkState(keyWords, 0, flags),
		keyWords:   keyWords,
		flags:      flags,
	}
}

// New constructs a hasher for the plain hash function: base key is the IV,
// base flags are empty.
func New() *Hasher {
	return newHasher(iv, 0)
}

// NewKeyed constructs a hasher for the keyed hash / MAC function.
func NewKeyed(key [KeyLen]byte) *Hasher {
	return newHasher(keyWordsFromBytes(&key), keyedHash)
}

// NewDeriveKey constructs a hasher for the key-derivation function: a
// context key is computed by hashing context under DERIVE_KEY_CONTEXT, then
// used as the base key for DERIVE_KEY_MATERIAL hashing. Repeated contexts
// are served from derivecache instead of re-hashing every time.
func NewDeriveKey(context string) *Hasher {
	return newHasher(deriveContextKey(context), deriveKeyMaterial)
}

func hashContext(context string) [8]uint32 {
	h := newHasher(iv, deriveKeyContext)
	_, _ = h.Write([]byte(context))
	var key [KeyLen]byte
	h.fill(key[:])
	return keyWordsFromBytes(&key)
}

func (h *Hasher) addChunkChainingValue(cv [8]uint32, totalChunks uint64) {
	h.stack.pushChunkCV(cv, totalChunks, h.keyWords, h.flags)
}

// Write adds input to the hash state. It is a usage error to call Write
// after Finalize or XOF; Sum, Sum256 and DigestInto leave the hasher open.
func (h *Hasher) Write(p []byte) (int, error) {
	if h.finalized {
		return 0, usageErrorf("Write", "write after finalize")
	}
	n := len(p)
	h.total = h.total.Add64(uint64(n))
	if h.total.Cmp(maxTotalBytes) >= 0 {
		return 0, preconditionErrorf("Write", "input exceeds 2^64 chunks")
	}

	wide := haveWideCompress()
	for len(p) > 0 {
		if h.chunkState.len() == 0 && len(p) >= ChunkLen {
			fullChunks := len(p) / ChunkLen
			if len(p)%ChunkLen == 0 {
				// Keep the last full chunk in chunkState so a subsequent
				// Write or Finalize can still observe blocksCompressed
				// correctly; this mirrors the teacher's original
				// off-by-one so a Finalize right after Write never
				// needs a phantom empty chunk.
				fullChunks--
			}
			if fullChunks > 0 {
				chunkCounter := h.chunkState.chunkCounter
				if wide && fullChunks >= wideMinChunks {
					for fullChunks >= wideMinChunks {
						var group [4][ChunkLen]byte
						for lane := 0; lane < 4; lane++ {
							copy(group[lane][:], p[lane*ChunkLen:(lane+1)*ChunkLen])
						}
						cvs := compress4xChunks(&group, h.keyWords, chunkCounter, h.flags)
						for lane := 0; lane < 4; lane++ {
							totalChunks := chunkCounter + 1
							h.addChunkChainingValue(cvs[lane], totalChunks)
							chunkCounter = totalChunks
						}
						p = p[4*ChunkLen:]
						fullChunks -= 4
					}
				}
				for i := 0; i < fullChunks; i++ {
					cv := chunkCVFull(p[:ChunkLen], h.keyWords, chunkCounter, h.flags)
					totalChunks := chunkCounter + 1
					h.addChunkChainingValue(cv, totalChunks)
					chunkCounter = totalChunks
					p = p[ChunkLen:]
				}
				h.chunkState = newChunkState(h.keyWords, chunkCounter, h.flags)
				continue
			}
		}

		if h.chunkState.len() == ChunkLen {
			chunkCV := h.chunkState.output().chainingValue()
			totalChunks := h.chunkState.chunkCounter + 1
			h.addChunkChainingValue(chunkCV, totalChunks)
			h.chunkState = newChunkState(h.keyWords, totalChunks, h.flags)
		}

		want := ChunkLen - h.chunkState.len()
		if want > len(p) {
			want = len(p)
		}
		h.chunkState.update(p[:want])
		p = p[want:]
	}
	return n, nil
}

// finalize folds the active chunk and stack into a root node and returns an
// Xof positioned at output byte 0.
func (h *Hasher) finalize() *Xof {
	root := h.stack.finalize(h.chunkState.output(), h.keyWords, h.flags)
	return newXof(root)
}

// Finalize writes exactly len(out) output bytes; it may be called more than
// once (each call starts a fresh Xof from the same root).
func (h *Hasher) Finalize(out []byte) {
	h.finalized = true
	h.finalize().fill(out)
}

func (h *Hasher) fill(dst []byte) {
	h.finalize().fill(dst)
}

// Sum appends the default-length (OutLen) hash to b, satisfying hash.Hash.
// It does not mark the hasher as finalized: hash.Hash implementations are
// conventionally safe to keep writing to after Sum.
func (h *Hasher) Sum(b []byte) []byte {
	var out [OutLen]byte
	h.fill(out[:])
	return append(b, out[:]...)
}

// Reset clears accumulated input, keeping the same key/flags configuration.
func (h *Hasher) Reset() {
	h.chunkState = newChunkState(h.keyWords, 0, h.flags)
	h.stack = treeStack{}
	h.total = uint128.Zero
	h.finalized = false
}

// Size returns the default output size of BLAKE3.
func (h *Hasher) Size() int { return OutLen }

// BlockSize returns the block size of the underlying compression function.
func (h *Hasher) BlockSize() int { return BlockLen }

// XOF returns an extensible-output reader seeded at the current root node.
// Like Finalize, it marks the hasher finalized: update() after finalize()
// is a usage error per spec, and XOF is the operation that actually
// performs finalize() -> Xof, so a Write after XOF must fail the same way
// a Write after Finalize does.
func (h *Hasher) XOF() *Xof {
	h.finalized = true
	return h.finalize()
}

// Sum256 returns the 32-byte BLAKE3 hash of the current state.
func (h *Hasher) Sum256() [OutLen]byte {
	var out [OutLen]byte
	h.fill(out[:])
	return out
}

// DigestInto writes the default-length (OutLen) digest into dst, matching
// spec's digestInto operation. It returns an OutputError instead of
// panicking when dst is too short to hold the digest, since dst's capacity
// (unlike Finalize's out, which defines the requested length itself) is
// caller-controlled state that can legitimately be smaller than what's
// being requested here.
func (h *Hasher) DigestInto(dst []byte) error {
	if len(dst) < OutLen {
		return outputErrorf("DigestInto", "destination has %d bytes, need at least %d", len(dst), OutLen)
	}
	h.fill(dst[:OutLen])
	return nil
}

// Sum256 returns the 32-byte BLAKE3 hash of data.
func Sum256(data []byte) [OutLen]byte {
	h := New()
	_, _ = h.Write(data)
	return h.Sum256()
}

// Sum writes an extended-length hash of data into out.
func Sum(data []byte, out []byte) {
	h := New()
	_, _ = h.Write(data)
	h.Finalize(out)
}

// SumKeyed writes the keyed BLAKE3 hash of data into out, mirroring Sum's
// caller-chosen output length.
func SumKeyed(key [KeyLen]byte, data []byte, out []byte) {
	h := NewKeyed(key)
	_, _ = h.Write(data)
	h.Finalize(out)
}

// DeriveKey writes a derived key of length len(out) into out, hashing
// material as the key-derivation function's input under the context string.
func DeriveKey(context string, material []byte, out []byte) {
	h := NewDeriveKey(context)
	_, _ = h.Write(material)
	h.Finalize(out)
}
