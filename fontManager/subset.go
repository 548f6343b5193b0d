package fontManager

import (
	"encoding/binary"
	"sort"

	"github.com/tinywasm/tfpdf/errs"
)

// tables copied unchanged into a subset when the font has them
var verbatimTables = []string{"name", "cvt ", "fpgm", "prep", "gasp", "OS/2"}

// Subset is a rebuilt font restricted to the glyphs a document uses.
type Subset struct {
	Font    []byte
	Closure *GlyphClosure
	// CIDToGID maps every retained codepoint to its dense glyph id.
	CIDToGID map[rune]uint16
	// Widths holds the advance width of every retained codepoint.
	Widths  map[int]int
	LastCID int
}

// NewSubset resolves the closure of runes in ttf and rebuilds the font.
// Runes the font does not cover are dropped.
func NewSubset(ttf *TtfType, runes []rune) (*Subset, error) {
	glyf, _ := ttf.Table("glyf")
	closure, err := ResolveGlyphs(&ttf.Glyphs, glyf, runes)
	if err != nil {
		return nil, err
	}
	s := &Subset{
		Closure:  closure,
		CIDToGID: make(map[rune]uint16),
		Widths:   make(map[int]int),
	}
	for _, r := range runes {
		g, ok := ttf.Glyphs.Lookup(r)
		if !ok {
			continue
		}
		s.CIDToGID[r] = closure.Dense[g]
		s.Widths[int(r)] = ttf.Cw[r]
		if int(r) > s.LastCID {
			s.LastCID = int(r)
		}
	}
	s.Font, err = BuildSubset(ttf, closure, s.CIDToGID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// locaFormat returns 1 (long offsets) when the last glyf offset cannot be
// stored halved in 16 bits, else 0.
func locaFormat(glyfLength int) int16 {
	if glyfLength/2 > 0xFFFF {
		return 1
	}
	return 0
}

// BuildSubset writes a TrueType font holding only the closure glyphs,
// renumbered densely, with a cmap that maps chars to dense glyph ids.
func BuildSubset(ttf *TtfType, closure *GlyphClosure, chars map[rune]uint16) ([]byte, error) {
	w := newSfntWriter()
	for _, tag := range verbatimTables {
		if data, ok := ttf.Table(tag); ok {
			w.add(tag, data)
		}
	}

	glyf, loca, err := subsetGlyf(ttf, closure)
	if err != nil {
		return nil, err
	}
	w.add("glyf", glyf)
	format := locaFormat(len(glyf))
	w.add("loca", encodeLoca(loca, format))

	n := uint16(closure.Len())
	head, _ := ttf.Table("head")
	head = append([]byte(nil), head...)
	binary.BigEndian.PutUint16(head[50:], uint16(format))
	w.add("head", head)

	hhea, _ := ttf.Table("hhea")
	hhea = append([]byte(nil), hhea...)
	binary.BigEndian.PutUint16(hhea[34:], n)
	w.add("hhea", hhea)

	maxp, _ := ttf.Table("maxp")
	maxp = append([]byte(nil), maxp...)
	binary.BigEndian.PutUint16(maxp[4:], n)
	w.add("maxp", maxp)

	hmtx, err := subsetHmtx(ttf, closure)
	if err != nil {
		return nil, err
	}
	w.add("hmtx", hmtx)
	w.add("cmap", buildCmap(chars))

	post, _ := ttf.Table("post")
	w.add("post", buildPost(post))

	return w.finalize()
}

// glyfAlign keeps every glyph offset even, as short loca stores offset/2.
const glyfAlign = 2

// subsetGlyf concatenates the closure glyphs in dense order, rewriting
// composite references, and returns the table with its offsets.
func subsetGlyf(ttf *TtfType, closure *GlyphClosure) ([]byte, []uint32, error) {
	src, _ := ttf.Table("glyf")
	var out []byte
	offsets := make([]uint32, 0, closure.Len()+1)
	for _, id := range closure.Glyphs {
		offsets = append(offsets, uint32(len(out)))
		data, err := glyphData(&ttf.Glyphs, src, id)
		if err != nil {
			return nil, nil, errs.Wrap(errs.KindStreamIO, "glyf", err)
		}
		start := len(out)
		out = append(out, data...)
		if isComposite(data) {
			glyph := out[start:]
			err = walkComponents(data, func(pos int, component uint16) error {
				dense, ok := closure.Dense[component]
				if !ok {
					return errs.InternalConsistency("glyf", "component %d of glyph %d not in closure", component, id)
				}
				binary.BigEndian.PutUint16(glyph[pos:], dense)
				return nil
			})
			if err != nil {
				return nil, nil, err
			}
		}
		for len(out)%glyfAlign != 0 {
			out = append(out, 0)
		}
	}
	offsets = append(offsets, uint32(len(out)))
	return out, offsets, nil
}

func encodeLoca(offsets []uint32, format int16) []byte {
	if format == 1 {
		b := make([]byte, 4*len(offsets))
		for i, o := range offsets {
			binary.BigEndian.PutUint32(b[4*i:], o)
		}
		return b
	}
	b := make([]byte, 2*len(offsets))
	for i, o := range offsets {
		binary.BigEndian.PutUint16(b[2*i:], uint16(o/2))
	}
	return b
}

// subsetHmtx copies the metrics of every closure glyph from its original
// id. Ids past numberOfHMetrics take the last advance and their own lsb.
func subsetHmtx(ttf *TtfType, closure *GlyphClosure) ([]byte, error) {
	src, _ := ttf.Table("hmtx")
	nhm := ttf.numberOfHMetrics
	out := make([]byte, 0, 4*closure.Len())
	for _, id := range closure.Glyphs {
		g := int(id)
		advPos, lsbPos := 4*g, 4*g+2
		if g >= nhm {
			advPos = 4 * (nhm - 1)
			lsbPos = 4*nhm + 2*(g-nhm)
		}
		adv, ok1 := u16(src, advPos)
		lsb, ok2 := u16(src, lsbPos)
		if !ok1 || !ok2 {
			return nil, errs.StreamIO("hmtx", "metrics of glyph %d past end of table", g)
		}
		out = binary.BigEndian.AppendUint16(out, adv)
		out = binary.BigEndian.AppendUint16(out, lsb)
	}
	return out, nil
}

type cmapSegment struct {
	start, end, delta uint16
}

// buildCmap writes a cmap with a single (3,1) format 4 subtable.
func buildCmap(chars map[rune]uint16) []byte {
	codes := make([]rune, 0, len(chars))
	for c := range chars {
		if c < 0xFFFF {
			codes = append(codes, c)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var segs []cmapSegment
	for i, c := range codes {
		g := chars[c]
		if i > 0 {
			last := &segs[len(segs)-1]
			prev := codes[i-1]
			if c-prev == 1 && int(g)-int(chars[prev]) == 1 {
				last.end = uint16(c)
				continue
			}
		}
		segs = append(segs, cmapSegment{start: uint16(c), end: uint16(c), delta: g - uint16(c)})
	}
	segs = append(segs, cmapSegment{start: 0xFFFF, end: 0xFFFF, delta: 1})

	segCount := len(segs)
	length := 16 + 8*segCount
	b := make([]byte, 0, 12+length)
	be16 := func(v uint16) { b = binary.BigEndian.AppendUint16(b, v) }
	be16(0) // version
	be16(1) // numTables
	be16(3) // platformID
	be16(1) // encodingID
	b = binary.BigEndian.AppendUint32(b, 12)

	searchRange, entrySelector, rangeShift := searchParams(segCount, 2)
	be16(4)
	be16(uint16(length))
	be16(0) // language
	be16(uint16(2 * segCount))
	be16(searchRange)
	be16(entrySelector)
	be16(rangeShift)
	for _, s := range segs {
		be16(s.end)
	}
	be16(0) // reservedPad
	for _, s := range segs {
		be16(s.start)
	}
	for _, s := range segs {
		be16(s.delta)
	}
	for range segs {
		be16(0) // idRangeOffset
	}
	return b
}

// buildPost writes a format 3 post table keeping italicAngle, the
// underline metrics and isFixedPitch of the original.
func buildPost(orig []byte) []byte {
	b := make([]byte, 32)
	binary.BigEndian.PutUint32(b, 0x00030000)
	if len(orig) >= 16 {
		copy(b[4:16], orig[4:16])
	}
	return b
}
