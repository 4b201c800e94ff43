package blake3

import (
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const DefaultBufferSize = 256 * 1024

// maxIdleElapsed bounds how long WriteReader keeps retrying a reader that
// returns (0, nil) with no progress before giving up. A fixed retry count
// either fires too eagerly on a slow-but-healthy source or wastes time on a
// genuinely stuck one; exponential backoff adapts to both, and this only
// gives up once the backoff policy itself does.
const maxIdleElapsed = 5 * time.Second

type Progress struct {
	Processed uint64
	Total     uint64
	Elapsed   time.Duration
}

type ProgressFunc func(Progress)

// streamProgress tracks one WriteReader call's running total and reports it
// through the caller's callback, if any.
type streamProgress struct {
	start     time.Time
	total     uint64
	processed uint64
	report    ProgressFunc
}

func (p *streamProgress) advance(n int) {
	p.processed += uint64(n)
	if p.report == nil {
		return
	}
	p.report(Progress{
		Processed: p.processed,
		Total:     p.total,
		Elapsed:   time.Since(p.start),
	})
}

// WriteReader streams data from r into the hasher using buf and reports progress.
// If total is unknown, pass 0. The callback can call h.Sum256() to snapshot the
// current digest when needed.
func (h *Hasher) WriteReader(r io.Reader, buf []byte, total uint64, onProgress ProgressFunc) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, DefaultBufferSize)
	}

	prog := streamProgress{start: time.Now(), total: total, report: onProgress}
	idle := backoff.NewExponentialBackOff()
	idle.MaxElapsedTime = maxIdleElapsed

	for {
		n, err := r.Read(buf)
		if n > 0 {
			idle.Reset()
			if _, werr := h.Write(buf[:n]); werr != nil {
				return int64(prog.processed), werr
			}
			prog.advance(n)
		}

		switch {
		case err == io.EOF:
			if n == 0 {
				prog.advance(0)
			}
			return int64(prog.processed), nil
		case err != nil:
			return int64(prog.processed), err
		case n == 0:
			wait := idle.NextBackOff()
			if wait == backoff.Stop {
				return int64(prog.processed), io.ErrNoProgress
			}
			time.Sleep(wait)
		}
	}
}

// HashReader streams a reader into a new hasher and returns the 32-byte digest.
func HashReader(r io.Reader, bufSize int, onProgress ProgressFunc) ([OutLen]byte, error) {
	h := New()
	buf := make([]byte, bufferSizeOrDefault(bufSize))
	_, err := h.WriteReader(r, buf, 0, onProgress)
	if err != nil {
		return [OutLen]byte{}, err
	}
	return h.Sum256(), nil
}

// HashFile streams a file into a new hasher and reports progress with total size.
func HashFile(path string, bufSize int, onProgress ProgressFunc) ([OutLen]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return [OutLen]byte{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return [OutLen]byte{}, err
	}
	total := uint64(info.Size())

	h := New()
	buf := make([]byte, bufferSizeOrDefault(bufSize))
	_, err = h.WriteReader(f, buf, total, onProgress)
	if err != nil {
		return [OutLen]byte{}, err
	}
	return h.Sum256(), nil
}

func bufferSizeOrDefault(n int) int {
	if n > 0 {
		return n
	}
	return DefaultBufferSize
}
