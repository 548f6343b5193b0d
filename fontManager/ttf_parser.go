package fontManager

import (
	"math"
	"sort"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tinywasm/tfpdf/errs"
)

const (
	sfntVersionTrueType = 0x00010000
	sfntVersionApple    = 0x74727565 // "true"
	sfntVersionCFF      = 0x4F54544F // "OTTO"
	sfntVersionTTC      = 0x74746366 // "ttcf"
)

// tables a font must carry to be embedded as CIDFontType2.
var requiredTables = []string{"name", "head", "hhea", "maxp", "cmap", "hmtx", "loca", "glyf"}

type tableRecord struct {
	checksum, offset, length uint32
}

// TtfType is a parsed TrueType font: its metrics, its glyph addressing
// and access to the raw tables needed to rebuild a subset.
type TtfType struct {
	Metrics
	Glyphs       GlyphTable
	FsType       uint16
	WeightClass  int
	IsFixedPitch bool
	// ItalicAngle is the exact post table value; Desc.ItalicAngle is rounded.
	ItalicAngle float64

	data             []byte
	tables           map[string]tableRecord
	numberOfHMetrics int
	indexToLocFormat int16
}

// Table returns the raw bytes of the table with the given tag.
func (t *TtfType) Table(tag string) ([]byte, bool) {
	rec, ok := t.tables[tag]
	if !ok {
		return nil, false
	}
	return t.data[rec.offset : rec.offset+rec.length], true
}

// Tags returns the tags in the table directory, sorted.
func (t *TtfType) Tags() []string {
	tags := make([]string, 0, len(t.tables))
	for tag := range t.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

type ttfParser struct {
	*fontReader
	rec       *TtfType
	numGlyphs int
	advances  []uint16
	bbox      [4]int16

	hheaAscender, hheaDescender int16

	hasOS2                      bool
	typoAscender, typoDescender int16
	capHeight                   int16
	hasCapHeight                bool

	hasPost                               bool
	underlinePosition, underlineThickness int16
}

// TtfParse extracts the metrics and glyph addressing of a TrueType font.
func TtfParse(data []byte) (*TtfType, error) {
	t := ttfParser{
		fontReader: newFontReader(data, errs.KindFileFormat),
		rec:        &TtfType{data: data},
	}
	t.op = "sfnt"

	version := t.ReadULong()
	if err := t.Err(); err != nil {
		return nil, err
	}
	switch version {
	case sfntVersionTrueType, sfntVersionApple:
	case sfntVersionCFF:
		return nil, errs.FileFormat("sfnt", "fonts based on PostScript outlines are not supported")
	case sfntVersionTTC:
		return nil, errs.FileFormat("sfnt", "TrueType collections are not supported")
	default:
		return nil, errs.FileFormat("sfnt", "unrecognized file format %d", version)
	}
	numTables := int(t.ReadUShort())
	t.Skip(3 * 2) // searchRange, entrySelector, rangeShift
	t.rec.tables = make(map[string]tableRecord, numTables)
	for j := 0; j < numTables; j++ {
		tag := t.ReadStr(4)
		rec := tableRecord{
			checksum: t.ReadULong(),
			offset:   t.ReadULong(),
			length:   t.ReadULong(),
		}
		if t.Err() != nil {
			return nil, errs.FileFormat("sfnt", "truncated table directory")
		}
		if uint64(rec.offset)+uint64(rec.length) > uint64(len(data)) {
			return nil, errs.FileFormat("sfnt", "table %s extends past end of file", tag)
		}
		t.rec.tables[tag] = rec
	}
	for _, tag := range requiredTables {
		if _, ok := t.rec.tables[tag]; !ok {
			return nil, errs.FileFormat("sfnt", "missing required table %s", tag)
		}
	}
	if err := t.ParseComponents(); err != nil {
		return nil, err
	}
	return t.rec, nil
}

func (t *ttfParser) ParseComponents() (err error) {
	steps := []func() error{
		t.ParseHead,
		t.ParseHhea,
		t.ParseMaxp,
		t.ParseHmtx,
		t.ParseLoca,
		t.ParseCmap,
		t.ParseName,
		t.ParseOS2,
		t.ParsePost,
	}
	for _, step := range steps {
		if err = step(); err != nil {
			return
		}
	}
	t.deriveMetrics()
	return
}

// Seek positions the cursor at the start of the table and checks that it
// holds at least minLength bytes.
func (t *ttfParser) Seek(tag string, minLength int) error {
	t.op = tag
	rec, ok := t.rec.tables[tag]
	if !ok {
		return errs.FileFormat(tag, "table not found")
	}
	if int(rec.length) < minLength {
		return errs.FileFormat(tag, "table too short: %d bytes", rec.length)
	}
	t.SeekToPos(int(rec.offset))
	return t.Err()
}

func (t *ttfParser) ParseHead() error {
	if err := t.Seek("head", 54); err != nil {
		return err
	}
	t.Skip(3 * 4) // version, fontRevision, checkSumAdjustment
	if t.ReadULong() != 0x5F0F3CF5 {
		return errs.FileFormat("head", "incorrect magic number")
	}
	t.Skip(2) // flags
	upem := t.ReadUShort()
	if upem == 0 {
		return errs.FileFormat("head", "unitsPerEm is zero")
	}
	t.rec.UnitsPerEm = int(upem)
	t.Skip(2 * 8) // created, modified
	for i := range t.bbox {
		t.bbox[i] = t.ReadShort()
	}
	t.Skip(3 * 2) // macStyle, lowestRecPPEM, fontDirectionHint
	t.rec.indexToLocFormat = t.ReadShort()
	glyphDataFormat := t.ReadShort()
	if err := t.Err(); err != nil {
		return err
	}
	if glyphDataFormat != 0 {
		return errs.FileFormat("head", "unknown glyph data format %d", glyphDataFormat)
	}
	if t.rec.indexToLocFormat != 0 && t.rec.indexToLocFormat != 1 {
		return errs.FileFormat("head", "unknown loca format %d", t.rec.indexToLocFormat)
	}
	return nil
}

func (t *ttfParser) ParseHhea() error {
	if err := t.Seek("hhea", 36); err != nil {
		return err
	}
	t.Skip(4) // version
	t.hheaAscender = t.ReadShort()
	t.hheaDescender = t.ReadShort()
	t.Skip(13 * 2)
	t.rec.numberOfHMetrics = int(t.ReadUShort())
	if err := t.Err(); err != nil {
		return err
	}
	if t.rec.numberOfHMetrics == 0 {
		return errs.FileFormat("hhea", "numberOfHMetrics is zero")
	}
	return nil
}

func (t *ttfParser) ParseMaxp() error {
	if err := t.Seek("maxp", 6); err != nil {
		return err
	}
	t.Skip(4) // version
	t.numGlyphs = int(t.ReadUShort())
	if err := t.Err(); err != nil {
		return err
	}
	if t.numGlyphs == 0 {
		return errs.FileFormat("maxp", "font has no glyphs")
	}
	t.rec.NumGlyphs = t.numGlyphs
	return nil
}

func (t *ttfParser) ParseHmtx() error {
	nhm := t.rec.numberOfHMetrics
	if err := t.Seek("hmtx", 4*nhm); err != nil {
		return err
	}
	t.advances = make([]uint16, nhm)
	for j := range t.advances {
		t.advances[j] = t.ReadUShort()
		t.Skip(2) // lsb
	}
	return t.Err()
}

func (t *ttfParser) ParseLoca() error {
	entry := 2
	if t.rec.indexToLocFormat == 1 {
		entry = 4
	}
	if err := t.Seek("loca", entry*(t.numGlyphs+1)); err != nil {
		return err
	}
	glyfLength := t.rec.tables["glyf"].length
	loca := make([]uint32, t.numGlyphs+1)
	for j := range loca {
		if entry == 2 {
			loca[j] = uint32(t.ReadUShort()) * 2
		} else {
			loca[j] = t.ReadULong()
		}
		if j > 0 && loca[j] < loca[j-1] {
			return errs.FileFormat("loca", "offsets decrease at glyph %d", j)
		}
	}
	if err := t.Err(); err != nil {
		return err
	}
	if loca[len(loca)-1] > glyfLength {
		return errs.FileFormat("loca", "offset %d past end of glyf table", loca[len(loca)-1])
	}
	t.rec.Glyphs.Loca = loca
	return nil
}

func (t *ttfParser) ParseCmap() error {
	if err := t.Seek("cmap", 4); err != nil {
		return err
	}
	rec := t.rec.tables["cmap"]
	base := int(rec.offset)
	end := base + int(rec.length)
	t.Skip(2) // version
	numTables := int(t.ReadUShort())
	sub := -1
	for j := 0; j < numTables; j++ {
		platformID := t.ReadUShort()
		encodingID := t.ReadUShort()
		offset := int(t.ReadULong())
		if t.Err() != nil {
			return t.Err()
		}
		if sub >= 0 || !(platformID == 3 && encodingID == 1 || platformID == 0) {
			continue
		}
		if format, ok := u16(t.data[:end], base+offset); ok && format == 4 {
			sub = base + offset
		}
	}
	if sub < 0 {
		return errs.FileFormat("cmap", "no Unicode format 4 subtable found")
	}

	t.SeekToPos(sub)
	t.Skip(3 * 2) // format, length, language
	segCount := int(t.ReadUShort() / 2)
	t.Skip(3 * 2) // searchRange, entrySelector, rangeShift
	endCode := make([]uint16, segCount)
	for j := range endCode {
		endCode[j] = t.ReadUShort()
	}
	t.Skip(2) // reservedPad
	startCode := make([]uint16, segCount)
	for j := range startCode {
		startCode[j] = t.ReadUShort()
	}
	idDelta := make([]uint16, segCount)
	for j := range idDelta {
		idDelta[j] = t.ReadUShort()
	}
	roBase := t.GetPos()
	idRangeOffset := make([]uint16, segCount)
	for j := range idRangeOffset {
		idRangeOffset[j] = t.ReadUShort()
	}
	if err := t.Err(); err != nil {
		return err
	}

	// reads past the end of the cmap table resolve to .notdef
	table := t.data[:end]
	chars := make(map[rune]uint16)
	for j := 0; j < segCount; j++ {
		start, stop := int(startCode[j]), int(endCode[j])
		delta, ro := int(idDelta[j]), int(idRangeOffset[j])
		for c := start; c <= stop; c++ {
			if c == 0xFFFF {
				break
			}
			var glyph int
			if ro == 0 {
				glyph = (c + delta) & 0xFFFF
			} else {
				v, ok := u16(table, roBase+2*j+ro+2*(c-start))
				if ok && v != 0 {
					glyph = (int(v) + delta) & 0xFFFF
				}
			}
			if glyph > 0 && glyph < t.numGlyphs {
				chars[rune(c)] = uint16(glyph)
			}
		}
	}

	codes := make([]rune, 0, len(chars))
	for c := range chars {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	runes := make(map[uint16][]rune, len(chars))
	for _, c := range codes {
		g := chars[c]
		runes[g] = append(runes[g], c)
	}
	t.rec.Glyphs.Chars = chars
	t.rec.Glyphs.Runes = runes
	if len(codes) > 0 {
		t.rec.LastRune = codes[len(codes)-1]
	}
	return nil
}

// nameDecoder returns a decoder for the Windows Unicode BMP and
// Macintosh Roman English records, nil for anything else.
func nameDecoder(platformID, encodingID, languageID uint16) *encoding.Decoder {
	switch {
	case platformID == 3 && encodingID == 1 && languageID == 0x409:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case platformID == 1 && encodingID == 0 && languageID == 0:
		return charmap.Macintosh.NewDecoder()
	}
	return nil
}

func (t *ttfParser) ParseName() error {
	if err := t.Seek("name", 6); err != nil {
		return err
	}
	rec := t.rec.tables["name"]
	table := t.data[rec.offset : rec.offset+rec.length]
	t.Skip(2) // format
	count := int(t.ReadUShort())
	stringOffset := int(t.ReadUShort())
	names := make(map[uint16]string)
	fromWindows := make(map[uint16]bool)
	for j := 0; j < count; j++ {
		platformID := t.ReadUShort()
		encodingID := t.ReadUShort()
		languageID := t.ReadUShort()
		nameID := t.ReadUShort()
		length := int(t.ReadUShort())
		offset := int(t.ReadUShort())
		if err := t.Err(); err != nil {
			return err
		}
		switch nameID {
		case 1, 2, 3, 4, 6:
		default:
			continue
		}
		dec := nameDecoder(platformID, encodingID, languageID)
		if dec == nil || fromWindows[nameID] {
			continue
		}
		pos := stringOffset + offset
		if pos+length > len(table) {
			continue
		}
		s, _, err := transform.String(dec, string(table[pos:pos+length]))
		if err != nil || s == "" {
			continue
		}
		names[nameID] = s
		fromWindows[nameID] = platformID == 3
	}

	var psName string
	if s, ok := names[6]; ok {
		psName = s
	} else if s, ok := names[4]; ok {
		psName = hyphenate(s)
	} else if s, ok := names[1]; ok {
		psName = hyphenate(s)
	}
	t.rec.PostScriptName = cleanPostScriptName(psName)
	if t.rec.PostScriptName == "" {
		return errs.FileFormat("name", "the PostScript name was not found")
	}
	return nil
}

func (t *ttfParser) ParseOS2() error {
	t.rec.WeightClass = 500
	if _, ok := t.rec.tables["OS/2"]; !ok {
		return nil
	}
	if err := t.Seek("OS/2", 72); err != nil {
		return err
	}
	t.hasOS2 = true
	version := t.ReadUShort()
	t.Skip(2) // xAvgCharWidth
	t.rec.WeightClass = int(t.ReadUShort())
	t.Skip(2) // usWidthClass
	fsType := t.ReadUShort()
	t.rec.FsType = fsType
	if fsType&0x0002 != 0 || fsType&0x0300 != 0 {
		return errs.PolicyViolation("OS/2", "font license does not allow embedding (fsType %d)", fsType)
	}
	// ySubscript.. sFamilyClass, panose, ulUnicodeRange, achVendID,
	// fsSelection, usFirstCharIndex, usLastCharIndex
	t.Skip(11*2 + 10 + 4*4 + 4 + 3*2)
	t.typoAscender = t.ReadShort()
	t.typoDescender = t.ReadShort()
	if version >= 2 && int(t.rec.tables["OS/2"].length) >= 90 {
		// sTypoLineGap, usWinAscent, usWinDescent, ulCodePageRange, sxHeight
		t.Skip(3*2 + 2*4 + 2)
		t.capHeight = t.ReadShort()
		t.hasCapHeight = true
	}
	return t.Err()
}

func (t *ttfParser) ParsePost() error {
	if _, ok := t.rec.tables["post"]; !ok {
		return nil
	}
	if err := t.Seek("post", 16); err != nil {
		return err
	}
	t.hasPost = true
	t.Skip(4) // version
	t.rec.ItalicAngle = float64(int32(t.ReadULong())) / 65536
	t.underlinePosition = t.ReadShort()
	t.underlineThickness = t.ReadShort()
	t.rec.IsFixedPitch = t.ReadULong() != 0
	return t.Err()
}

// advance returns the raw advance of glyph g using the hmtx overflow rule.
func (t *ttfParser) advance(g int) int {
	if g >= len(t.advances) {
		g = len(t.advances) - 1
	}
	adv := t.advances[g]
	if adv == 65535 {
		return 0
	}
	return int(adv)
}

func (t *ttfParser) deriveMetrics() {
	r := t.rec
	scale := 1000.0 / float64(r.UnitsPerEm)
	scaled := func(v int) int { return round(float64(v) * scale) }

	desc := &r.Desc
	desc.FontBBox = FontBox{
		Xmin: scaled(int(t.bbox[0])),
		Ymin: scaled(int(t.bbox[1])),
		Xmax: scaled(int(t.bbox[2])),
		Ymax: scaled(int(t.bbox[3])),
	}
	switch {
	case t.hasOS2 && (t.typoAscender != 0 || t.typoDescender != 0):
		desc.Ascent = scaled(int(t.typoAscender))
		desc.Descent = scaled(int(t.typoDescender))
	case t.hheaAscender != 0 || t.hheaDescender != 0:
		desc.Ascent = scaled(int(t.hheaAscender))
		desc.Descent = scaled(int(t.hheaDescender))
	default:
		desc.Ascent = desc.FontBBox.Ymax
		desc.Descent = desc.FontBBox.Ymin
	}
	if t.hasCapHeight {
		desc.CapHeight = scaled(int(t.capHeight))
	} else {
		desc.CapHeight = desc.Ascent
	}
	desc.ItalicAngle = round(r.ItalicAngle)
	desc.StemV = 50 + int(math.Pow(float64(r.WeightClass)/65, 2))
	desc.Flags = FontFlagSymbolic
	if r.ItalicAngle != 0 {
		desc.Flags |= FontFlagItalic
	}
	if r.IsFixedPitch {
		desc.Flags |= FontFlagFixedPitch
	}
	if r.WeightClass >= 600 {
		desc.Flags |= ForceBold
	}
	desc.MissingWidth = scaled(t.advance(0))

	if t.hasPost {
		r.UnderlinePosition = scaled(int(t.underlinePosition))
		r.UnderlineThickness = scaled(int(t.underlineThickness))
	} else {
		r.UnderlinePosition = -100
		r.UnderlineThickness = 50
	}

	r.Cw = make(map[rune]int, len(r.Glyphs.Chars))
	for c, g := range r.Glyphs.Chars {
		r.Cw[c] = scaled(t.advance(int(g)))
	}
}

func hyphenate(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == ' ' {
			b[i] = '-'
		}
	}
	return string(b)
}

// cleanPostScriptName removes invalid characters from PostScript font names
// Characters to remove: () {} <> space / % [ ]
func cleanPostScriptName(s string) string {
	var result []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', '{', '}', '<', '>', ' ', '/', '%', '[', ']', 0:
		default:
			result = append(result, c)
		}
	}
	return string(result)
}

func round(f float64) int {
	if f < 0 {
		return -int(math.Floor(-f + 0.5))
	}
	return int(math.Floor(f + 0.5))
}
