package fpdf

import (
	"strings"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/errs"
)

// Document states.
const (
	stateNoPage = iota // nothing may be written yet
	stateReady         // between pages and while the document is assembled
	statePage          // a page is open, output goes to its content buffer
	stateClosed        // the document has been finalized
)

// writable records the state error of a write attempt.
func (f *Fpdf) writable() bool {
	if f.err != nil {
		return false
	}
	switch f.state {
	case stateNoPage:
		f.err = errs.ErrNoPage
		return false
	case stateClosed:
		f.err = errs.ErrDocumentClosed
		return false
	}
	return true
}

// newobj begins a new object and returns its number
func (f *Fpdf) newobj() int {
	f.newobjAt(f.n + 1)
	return f.n
}

// newobjAt begins the object n. It is used directly only for the reserved
// pages root (1) and resource dictionary (2).
func (f *Fpdf) newobjAt(n int) {
	if !f.writable() {
		return
	}
	if n > f.n {
		f.n = n
	}
	for j := len(f.offsets); j <= n; j++ {
		f.offsets = append(f.offsets, 0)
	}
	f.offsets[n] = f.buffer.Len()
	f.outf("%d 0 obj", n)
}

// expectObj checks that the allocator reached the object number planned
// for the group op just emitted.
func (f *Fpdf) expectObj(op string, planned int) {
	if f.err == nil && f.n != planned {
		f.err = errs.InternalConsistency(op, "object %d was planned, the allocator is at %d", planned, f.n)
	}
}

func (f *Fpdf) putstream(b []byte) {
	f.out("stream")
	f.out(string(b))
	f.out("endstream")
}

// putStreamObject writes the dictionary entries dict, the stream and
// endobj. The stream is Flate encoded when compression is on.
func (f *Fpdf) putStreamObject(dict string, data []byte) {
	data, filter := f.compressed(data)
	if filter {
		dict += "/Filter /FlateDecode"
	}
	f.outf("<<%s/Length %d>>", dict, len(data))
	f.putstream(data)
	f.out("endobj")
}

// out; Add a line to the document
func (f *Fpdf) out(s string) {
	f.put(s)
	f.put("\n")
}

func (f *Fpdf) put(s string) {
	if !f.writable() {
		return
	}
	if f.state == statePage {
		f.pages[f.page].WriteString(s)
	} else {
		f.buffer.WriteString(s)
	}
}

// outf adds a formatted line to the document
func (f *Fpdf) outf(fmtStr string, args ...any) {
	f.out(Sprintf(fmtStr, args...))
}

// currentOffset is the length of the document buffer, which is where the
// next object starts.
func (f *Fpdf) currentOffset() int {
	return f.buffer.Len()
}

func objRef(n int) string {
	return Convert(n).String() + " 0 R"
}

// xrefEntry formats one 20 byte in-use entry of the cross-reference table.
func xrefEntry(offset int) string {
	s := Convert(offset).String()
	if len(s) < 10 {
		s = strings.Repeat("0", 10-len(s)) + s
	}
	return s + " 00000 n "
}
