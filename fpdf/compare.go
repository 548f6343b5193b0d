package fpdf

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/tinywasm/tfpdf/errs"
)

// dumpLine formats up to 16 bytes at startPos as offset, hex and ASCII
// columns.
func dumpLine(leadStr string, startPos int, sl []byte) string {
	var out fmtBuffer
	pos := hex.EncodeToString([]byte{byte(startPos >> 16), byte(startPos >> 8), byte(startPos)})
	out.WriteString(leadStr + " " + pos)
	for j := 0; j < 16; j++ {
		if j%8 == 0 {
			out.WriteString(" ")
		}
		if j < len(sl) {
			out.WriteString(" " + hex.EncodeToString(sl[j:j+1]))
		} else {
			out.WriteString("   ")
		}
	}
	out.WriteString("  |")
	for _, b := range sl {
		if b < 32 || b >= 128 {
			b = '.'
		}
		out.WriteByte(b)
	}
	out.WriteString("|")
	return out.String()
}

// CompareBytes compares the bytes referred to by sl1 with those referred to by
// sl2. Nil is returned if the buffers are equal, otherwise an error naming
// the first differing offset. When logFn is not nil every differing
// 16 byte line is passed to it in both versions.
func CompareBytes(sl1, sl2 []byte, logFn LogFunc) error {
	length := len(sl1)
	if length > len(sl2) {
		length = len(sl2)
	}
	first := -1
	if len(sl1) != len(sl2) {
		first = length
	}
	for posStart := 0; posStart < length; posStart += 16 {
		posEnd := posStart + 16
		if posEnd > length {
			posEnd = length
		}
		a, b := sl1[posStart:posEnd], sl2[posStart:posEnd]
		if bytes.Equal(a, b) {
			continue
		}
		for j := range a {
			if a[j] != b[j] && (first < 0 || posStart+j < first) {
				first = posStart + j
				break
			}
		}
		if logFn != nil {
			logFn(dumpLine("<", posStart, a))
			logFn(dumpLine(">", posStart, b))
		}
	}
	if first >= 0 {
		return errs.Errorf("documents are different from offset %d (sizes %d and %d)", first, len(sl1), len(sl2))
	}
	return nil
}

// ComparePDFs reads and compares the full contents of the two specified
// readers byte-for-byte. Nil is returned if the buffers are equal, otherwise
// an error.
func ComparePDFs(rdr1, rdr2 io.Reader, logFn LogFunc) error {
	var b1, b2 bytes.Buffer
	if _, err := b1.ReadFrom(rdr1); err != nil {
		return err
	}
	if _, err := b2.ReadFrom(rdr2); err != nil {
		return err
	}
	return CompareBytes(b1.Bytes(), b2.Bytes(), logFn)
}
