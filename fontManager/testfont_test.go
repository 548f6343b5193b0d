package fontManager

import (
	"encoding/binary"
	"unicode/utf16"
)

type testName struct {
	platformID uint16 // 3 Windows, 1 Macintosh
	nameID     uint16
	value      string
}

// testGlyph is either a simple outline or a list of components.
type testGlyph struct {
	rune       rune
	advance    uint16
	components []testComponent
	tail       int // filler bytes kept inside the glyph's loca range
}

type testComponent struct {
	glyph uint16
	flags uint16
}

// testFont builds small TrueType files in memory. The zero value is not
// useful; start from newTestFont.
type testFont struct {
	version     uint32
	unitsPerEm  uint16
	locaFormat  int16
	numHMetrics int
	glyphs      []testGlyph
	names       []testName
	fsType      uint16
	weight      uint16
	noOS2       bool
	noPost      bool
	drop        string // table left out of the file
	cmap        []byte // replaces the generated cmap
	italic      int32  // 16.16
	fixedPitch  bool
}

// newTestFont returns a font with upem 2000 and these glyphs:
//
//	0 .notdef
//	1 'X'
//	2 'A'
//	3 'B' composite of A
//	4 'C' composite of A and glyph 5
//	5 unmapped accent
func newTestFont() *testFont {
	return &testFont{
		version:     sfntVersionTrueType,
		unitsPerEm:  2000,
		numHMetrics: 4,
		weight:      700,
		fsType:      0x0008,
		glyphs: []testGlyph{
			{advance: 1000},
			{rune: 'X', advance: 1100},
			{rune: 'A', advance: 1200},
			{rune: 'B', advance: 1300, components: []testComponent{{glyph: 2}}},
			{rune: 'C', advance: 1300, components: []testComponent{
				{glyph: 2, flags: argsAreWords | weHaveAScale},
				{glyph: 5, flags: twoByTwo},
			}},
			{advance: 1300},
		},
		names: []testName{{3, 4, "Test Sans Bold"}},
	}
}

func simpleGlyph(seed byte) []byte {
	b := make([]byte, 0, 20)
	b = binary.BigEndian.AppendUint16(b, 1)     // numberOfContours
	b = append(b, 0, 0, 0, 0, 0, seed, 0, seed) // bbox
	b = binary.BigEndian.AppendUint16(b, 0)     // endPtsOfContours[0]
	b = binary.BigEndian.AppendUint16(b, 0)     // instructionLength
	// one on-curve point with short positive coordinates
	return append(b, 0x37, seed, seed)
}

func compositeGlyph(components []testComponent) []byte {
	b := make([]byte, 0, 32)
	b = binary.BigEndian.AppendUint16(b, 0xFFFF) // numberOfContours -1
	b = append(b, make([]byte, 8)...)
	for i, c := range components {
		flags := c.flags
		if i < len(components)-1 {
			flags |= moreComponents
		}
		b = binary.BigEndian.AppendUint16(b, flags)
		b = binary.BigEndian.AppendUint16(b, c.glyph)
		if flags&argsAreWords != 0 {
			b = append(b, 0, 10, 0, 20)
		} else {
			b = append(b, 10, 20)
		}
		switch {
		case flags&weHaveAScale != 0:
			b = append(b, 0x40, 0)
		case flags&xAndYScale != 0:
			b = append(b, 0x40, 0, 0x40, 0)
		case flags&twoByTwo != 0:
			b = append(b, 0x40, 0, 0, 0, 0, 0, 0x40, 0)
		}
	}
	return b
}

func (f *testFont) glyfLoca() (glyf []byte, loca []byte) {
	offsets := []uint32{0}
	for i, g := range f.glyphs {
		if g.components != nil {
			glyf = append(glyf, compositeGlyph(g.components)...)
		} else {
			glyf = append(glyf, simpleGlyph(byte(i+1))...)
		}
		glyf = append(glyf, make([]byte, g.tail)...)
		for len(glyf)%glyfAlign != 0 {
			glyf = append(glyf, 0)
		}
		offsets = append(offsets, uint32(len(glyf)))
	}
	return glyf, encodeLoca(offsets, f.locaFormat)
}

func (f *testFont) chars() map[rune]uint16 {
	chars := make(map[rune]uint16)
	for i, g := range f.glyphs {
		if g.rune != 0 {
			chars[g.rune] = uint16(i)
		}
	}
	return chars
}

func (f *testFont) tables() map[string][]byte {
	n := len(f.glyphs)
	be16 := binary.BigEndian.PutUint16
	be32 := binary.BigEndian.PutUint32
	s16 := func(v int16) uint16 { return uint16(v) }

	head := make([]byte, 54)
	be32(head[0:], 0x00010000)
	be32(head[12:], 0x5F0F3CF5)
	be16(head[18:], f.unitsPerEm)
	be16(head[36:], s16(-100))
	be16(head[38:], s16(-400))
	be16(head[40:], 2000)
	be16(head[42:], 1600)
	be16(head[50:], uint16(f.locaFormat))

	hhea := make([]byte, 36)
	be32(hhea[0:], 0x00010000)
	be16(hhea[4:], 1700)
	be16(hhea[6:], s16(-500))
	be16(hhea[34:], uint16(f.numHMetrics))

	maxp := make([]byte, 32)
	be32(maxp[0:], 0x00010000)
	be16(maxp[4:], uint16(n))

	hmtx := make([]byte, 0, 4*n)
	for i, g := range f.glyphs {
		if i < f.numHMetrics {
			hmtx = binary.BigEndian.AppendUint16(hmtx, g.advance)
		}
		hmtx = binary.BigEndian.AppendUint16(hmtx, uint16(10*i))
	}

	glyf, loca := f.glyfLoca()
	cmap := f.cmap
	if cmap == nil {
		cmap = buildCmap(f.chars())
	}

	t := map[string][]byte{
		"head": head, "hhea": hhea, "maxp": maxp, "hmtx": hmtx,
		"glyf": glyf, "loca": loca, "cmap": cmap, "name": f.nameTable(),
	}
	if !f.noOS2 {
		os2 := make([]byte, 96)
		be16(os2[0:], 4)
		be16(os2[4:], f.weight)
		be16(os2[8:], f.fsType)
		be16(os2[68:], 1600)
		be16(os2[70:], s16(-400))
		be16(os2[88:], 1400)
		t["OS/2"] = os2
	}
	if !f.noPost {
		post := make([]byte, 32)
		be32(post[0:], 0x00030000)
		be32(post[4:], uint32(f.italic))
		be16(post[8:], s16(-150))
		be16(post[10:], 100)
		if f.fixedPitch {
			be32(post[12:], 1)
		}
		t["post"] = post
	}
	delete(t, f.drop)
	return t
}

func (f *testFont) nameTable() []byte {
	var strs []byte
	records := make([]byte, 0, 12*len(f.names))
	for _, nm := range f.names {
		var raw []byte
		encodingID, languageID := uint16(0), uint16(0)
		if nm.platformID == 3 {
			encodingID, languageID = 1, 0x409
			for _, u := range utf16.Encode([]rune(nm.value)) {
				raw = binary.BigEndian.AppendUint16(raw, u)
			}
		} else {
			raw = []byte(nm.value)
		}
		for _, v := range []uint16{nm.platformID, encodingID, languageID, nm.nameID, uint16(len(raw)), uint16(len(strs))} {
			records = binary.BigEndian.AppendUint16(records, v)
		}
		strs = append(strs, raw...)
	}
	b := make([]byte, 6, 6+len(records)+len(strs))
	binary.BigEndian.PutUint16(b[2:], uint16(len(f.names)))
	binary.BigEndian.PutUint16(b[4:], uint16(6+len(records)))
	b = append(b, records...)
	return append(b, strs...)
}

// build lays the tables out with the subset writer and then restores the
// requested version tag.
func (f *testFont) build() []byte {
	w := newSfntWriter()
	for tag, data := range f.tables() {
		w.add(tag, data)
	}
	if _, ok := w.tables["head"]; !ok {
		// finalize needs head; write the directory by hand
		return rawSfnt(f.version, w.tables)
	}
	font, err := w.finalize()
	if err != nil {
		panic(err)
	}
	binary.BigEndian.PutUint32(font, f.version)
	return font
}

func rawSfnt(version uint32, tables map[string][]byte) []byte {
	w := &sfntWriter{tables: map[string][]byte{"head": make([]byte, 54)}}
	for tag, data := range tables {
		w.tables[tag] = data
	}
	font, _ := w.finalize()
	// rename the head entry so the font looks like it has none
	for i := 12; i < 12+16*len(w.tables); i += 16 {
		if string(font[i:i+4]) == "head" {
			copy(font[i:], "zzzz")
		}
	}
	binary.BigEndian.PutUint32(font, version)
	return font
}

func (f *testFont) parse() *TtfType {
	ttf, err := TtfParse(f.build())
	if err != nil {
		panic(err)
	}
	return ttf
}
