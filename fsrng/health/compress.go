package health

import (
	"bytes"
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var ErrCompressionFailed = errors.New("health: compression failed")

// compressorPool reuses LZ4 writers to reduce allocations.
var compressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewWriter(nil)
	},
}

// CompressionRatio returns compressed size / original size under LZ4 at its
// best level. Random data stays at or above 1; structured data falls well below.
func CompressionRatio(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	w := compressorPool.Get().(*lz4.Writer)
	defer compressorPool.Put(w)

	w.Reset(&buf)
	_ = w.Apply(lz4.CompressionLevelOption(lz4.Level9))

	if _, err := w.Write(data); err != nil {
		return 0, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return 0, ErrCompressionFailed
	}
	return float64(buf.Len()) / float64(len(data)), nil
}
