package fontManager

import (
	"encoding/binary"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/errs"
)

// fontReader is a bounds checked big-endian cursor over a font file.
// The first failed read is kept and every later read returns zero, so
// callers check Err once after a batch of reads.
type fontReader struct {
	data []byte
	pos  int
	kind errs.Kind
	op   string
	err  error
}

func newFontReader(data []byte, kind errs.Kind) *fontReader {
	return &fontReader{data: data, kind: kind}
}

func (r *fontReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = &errs.Error{Kind: r.kind, Op: r.op, Msg: Sprintf(format, args...)}
	}
}

// Err returns the first read error, if any.
func (r *fontReader) Err() error { return r.err }

// SeekToPos moves the cursor to an absolute position.
func (r *fontReader) SeekToPos(pos int) {
	if pos < 0 || pos > len(r.data) {
		r.fail("seek position %d out of bounds", pos)
		return
	}
	r.pos = pos
}

// GetPos returns the current cursor position.
func (r *fontReader) GetPos() int { return r.pos }

func (r *fontReader) Skip(n int) {
	r.SeekToPos(r.pos + n)
}

func (r *fontReader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) || r.pos+n < r.pos {
		r.fail("cannot read %d bytes at position %d", n, r.pos)
		return false
	}
	return true
}

func (r *fontReader) ReadUShort() (val uint16) {
	if !r.need(2) {
		return
	}
	val = binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return
}

func (r *fontReader) ReadShort() int16 {
	return int16(r.ReadUShort())
}

func (r *fontReader) ReadULong() (val uint32) {
	if !r.need(4) {
		return
	}
	val = binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return
}

func (r *fontReader) ReadBytes(length int) (b []byte) {
	if length < 0 || !r.need(length) {
		return
	}
	b = r.data[r.pos : r.pos+length]
	r.pos += length
	return
}

func (r *fontReader) ReadStr(length int) string {
	return string(r.ReadBytes(length))
}

// u16 reads without moving the cursor. ok is false past the end.
func u16(b []byte, pos int) (uint16, bool) {
	if pos < 0 || pos+2 > len(b) {
		return 0, false
	}
	return binary.BigEndian.Uint16(b[pos:]), true
}
