package blake3

import "encoding/binary"

// Xof is the extensible-output reader returned by Hasher.XOF. It holds
// the root-node parameters and reproduces Compress with an advancing
// output-block counter to serve arbitrarily many bytes. The output counter
// is a distinct role from the chunk counter baked into root — conflating
// them silently corrupts every byte past the first 64.
type Xof struct {
	root                output
	outputBlockCounter  uint64
	buf                [BlockLen]byte // 16 output words, little-endian
	bufFill            int
	bufPos             int
}

func newXof(root output) *Xof {
	return &Xof{root: root}
}

func (x *Xof) fillBuffer() {
	words := compress(
		&x.root.inputChainingValue,
		&x.root.blockWords,
		x.outputBlockCounter,
		x.root.blockLen,
		x.root.flags|root,
	)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(x.buf[i*4:], words[i])
	}
	x.outputBlockCounter++
	x.bufFill = len(x.buf)
	x.bufPos = 0
}

// Read implements io.Reader. It copies bytes into dst starting wherever the
// previous Read left off, so reading N bytes as one call or as any sequence
// of smaller calls summing to N produces identical output.
func (x *Xof) Read(dst []byte) (int, error) {
	n := 0
	for n < len(dst) {
		if x.bufPos == x.bufFill {
			x.fillBuffer()
		}
		copied := copy(dst[n:], x.buf[x.bufPos:x.bufFill])
		x.bufPos += copied
		n += copied
	}
	return n, nil
}

// fill writes exactly len(dst) bytes without going through the io.Reader
// contract; used internally by Hasher.Finalize/Sum where a partial read
// would be a bug, not caller-facing behavior.
func (x *Xof) fill(dst []byte) {
	if _, err := x.Read(dst); err != nil {
		panic(err) // Xof.Read never actually returns an error
	}
}
