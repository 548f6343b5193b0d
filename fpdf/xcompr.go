package fpdf

import (
	"bytes"
	"compress/zlib"
	"sync"

	"github.com/tinywasm/tfpdf/errs"
)

var xmem = xmempool{
	Pool: sync.Pool{
		New: func() any {
			var m membuffer
			return &m
		},
	},
}

type xmempool struct{ sync.Pool }

// errNoCompressor is returned by compress when no zlib writer can be built
// for the level; the caller may then write the data uncompressed.
var errNoCompressor = errs.New("zlib writer unavailable")

func (pool *xmempool) compress(data []byte, level int) (*membuffer, error) {
	mem := pool.Get().(*membuffer)
	buf := &mem.buf
	buf.Grow(len(data))

	zw, err := zlib.NewWriterLevel(buf, level)
	if err != nil {
		mem.release()
		return nil, errNoCompressor
	}
	if _, err = zw.Write(data); err != nil {
		mem.release()
		return nil, errs.Compression("deflate", err)
	}
	if err = zw.Close(); err != nil {
		mem.release()
		return nil, errs.Compression("deflate", err)
	}
	return mem, nil
}

type membuffer struct {
	buf bytes.Buffer
}

func (mem *membuffer) bytes() []byte { return mem.buf.Bytes() }
func (mem *membuffer) release() {
	mem.buf.Reset()
	xmem.Put(mem)
}

func (mem *membuffer) copy() []byte {
	src := mem.bytes()
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// compressed returns data Flate encoded and true when compression is on.
// A level zlib rejects falls back to plain data, once logged per document.
func (f *Fpdf) compressed(data []byte) ([]byte, bool) {
	if !f.compress || f.err != nil {
		return data, false
	}
	mem, err := xmem.compress(data, f.compressLevel)
	if err == errNoCompressor {
		if !f.compressWarned {
			f.logf("compression level %d unavailable, writing uncompressed streams", f.compressLevel)
			f.compressWarned = true
		}
		return data, false
	}
	if err != nil {
		f.err = err
		return data, false
	}
	out := mem.copy()
	mem.release()
	return out, true
}
