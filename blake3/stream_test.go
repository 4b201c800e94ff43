package blake3

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyReader returns (0, nil) a fixed number of times before serving the
// wrapped reader's bytes, simulating a source with occasional stalls.
type flakyReader struct {
	stalls int
	r      io.Reader
}

func (f *flakyReader) Read(p []byte) (int, error) {
	if f.stalls > 0 {
		f.stalls--
		return 0, nil
	}
	return f.r.Read(p)
}

func TestWriteReaderToleratesTransientStalls(t *testing.T) {
	data := patternBytes(10000)
	fr := &flakyReader{stalls: 3, r: bytes.NewReader(data)}

	h := New()
	n, err := h.WriteReader(fr, make([]byte, 512), uint64(len(data)), nil)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), n)
	assert.Equal(t, Sum256(data), h.Sum256())
}

func TestWriteReaderGivesUpOnPersistentStall(t *testing.T) {
	fr := &flakyReader{stalls: 1 << 30, r: bytes.NewReader(nil)}
	h := New()
	_, err := h.WriteReader(fr, make([]byte, 64), 0, nil)
	require.ErrorIs(t, err, io.ErrNoProgress)
}

func TestHashFileMatchesInMemoryHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	data := patternBytes(50000)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	var progressed uint64
	got, err := HashFile(path, 0, func(p Progress) {
		progressed = p.Processed
	})
	require.NoError(t, err)
	assert.Equal(t, Sum256(data), got)
	assert.EqualValues(t, len(data), progressed)
}
