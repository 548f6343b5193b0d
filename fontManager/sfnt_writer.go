package fontManager

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/tinywasm/tfpdf/errs"
)

const checksumMagic = 0xB1B0AFBA

// sfntWriter collects tables and lays them out as an sfnt file.
type sfntWriter struct {
	tables map[string][]byte
}

func newSfntWriter() *sfntWriter {
	return &sfntWriter{tables: make(map[string][]byte)}
}

func (w *sfntWriter) add(tag string, data []byte) {
	w.tables[tag] = data
}

// tableChecksum is the uint32 sum of data zero padded to four bytes.
func tableChecksum(data []byte) uint32 {
	var sum uint32
	n := len(data) &^ 3
	for i := 0; i < n; i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if rest := len(data) - n; rest > 0 {
		var last [4]byte
		copy(last[:], data[n:])
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// searchParams returns the binary search header fields for n entries of
// the given size: searchRange, entrySelector and rangeShift.
func searchParams(n, size int) (searchRange, entrySelector, rangeShift uint16) {
	pow := 1
	for pow*2 <= n {
		pow *= 2
		entrySelector++
	}
	searchRange = uint16(pow * size)
	rangeShift = uint16(n*size) - searchRange
	return
}

func pad4(n int) int { return (n + 3) &^ 3 }

// finalize writes the offset table, the directory sorted by tag and the
// padded table bodies, then stores the whole-file checksum adjustment in
// head. The returned bytes are not touched again.
func (w *sfntWriter) finalize() ([]byte, error) {
	head, ok := w.tables["head"]
	if !ok || len(head) < 12 {
		return nil, errs.InternalConsistency("finalize", "head table missing from subset")
	}
	// head is copied so the adjustment can be spliced in place
	head = append([]byte(nil), head...)
	binary.BigEndian.PutUint32(head[8:], 0)
	w.tables["head"] = head

	tags := make([]string, 0, len(w.tables))
	for tag := range w.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	numTables := len(tags)
	size := 12 + 16*numTables
	for _, tag := range tags {
		size += pad4(len(w.tables[tag]))
	}
	var buf bytes.Buffer
	buf.Grow(size)
	be := func(v any) { _ = binary.Write(&buf, binary.BigEndian, v) }

	searchRange, entrySelector, rangeShift := searchParams(numTables, 16)
	be(uint32(sfntVersionTrueType))
	be(uint16(numTables))
	be(searchRange)
	be(entrySelector)
	be(rangeShift)

	offset := 12 + 16*numTables
	headOffset := 0
	for _, tag := range tags {
		data := w.tables[tag]
		if tag == "head" {
			headOffset = offset
		}
		buf.WriteString(tag)
		be(tableChecksum(data))
		be(uint32(offset))
		be(uint32(len(data)))
		offset += pad4(len(data))
	}
	var zero [3]byte
	for _, tag := range tags {
		data := w.tables[tag]
		buf.Write(data)
		buf.Write(zero[:pad4(len(data))-len(data)])
	}

	font := buf.Bytes()
	adjustment := uint32(checksumMagic) - tableChecksum(font)
	binary.BigEndian.PutUint32(font[headOffset+8:], adjustment)
	return font, nil
}
