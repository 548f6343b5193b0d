package fontManager

// FontBox is a font bounding box in 1000 units per em.
type FontBox struct {
	Xmin, Ymin, Xmax, Ymax int
}

// FontDesc (font descriptor) specifies metrics and other
// attributes of a font, as distinct from the metrics of individual
// glyphs (as defined in the pdf specification). All values are
// expressed in 1000 units per em.
type FontDesc struct {
	// The maximum height above the baseline reached by glyphs in this
	// font.
	Ascent int
	// The maximum depth below the baseline reached by glyphs in this
	// font. The value shall be a negative number.
	Descent int
	// The vertical coordinate of the top of flat capital letters,
	// measured from the baseline (for example "H").
	CapHeight int
	// A collection of flags defining various characteristics of the
	// font. (See the FontFlag* constants.)
	Flags int
	// The smallest rectangle enclosing all glyphs placed at a common
	// origin.
	FontBBox FontBox
	// The angle, expressed in degrees counterclockwise from the
	// vertical, of the dominant vertical strokes of the font.
	ItalicAngle int
	// The thickness, measured horizontally, of the dominant vertical
	// stems of glyphs in the font.
	StemV int
	// The width used for character codes whose widths are not
	// specified in the /W array.
	MissingWidth int
}

// Metrics is everything the PDF generator needs to lay out text with a
// font. It is derived once per font file and is the value stored by
// MetricsCache.
type Metrics struct {
	PostScriptName     string
	UnitsPerEm         int
	NumGlyphs          int
	Desc               FontDesc
	UnderlinePosition  int
	UnderlineThickness int
	// Cw holds the advance width of every mapped codepoint.
	Cw       map[rune]int
	LastRune rune
}

// Width returns the advance width of r, falling back to MissingWidth.
func (m *Metrics) Width(r rune) int {
	if w, ok := m.Cw[r]; ok {
		return w
	}
	return m.Desc.MissingWidth
}

// GlyphTable is the glyph addressing of a font file: glyf offsets,
// the cmap and its reverse.
type GlyphTable struct {
	Loca  []uint32
	Chars map[rune]uint16
	// Runes lists, for every mapped glyph, its codepoints in ascending order.
	Runes map[uint16][]rune
}

// NumGlyphs returns the number of glyphs addressed by loca.
func (gt *GlyphTable) NumGlyphs() int {
	if len(gt.Loca) == 0 {
		return 0
	}
	return len(gt.Loca) - 1
}

// Lookup returns the glyph mapped to r. ok is false for uncovered codepoints.
func (gt *GlyphTable) Lookup(r rune) (glyph uint16, ok bool) {
	glyph, ok = gt.Chars[r]
	return
}

// FontDef is a font file discovered by LoadFonts.
type FontDef struct {
	Family  string
	Style   fontStyle
	Path    string
	Metrics *Metrics
}

// FontFamily groups the different styles (Regular, Bold, etc.) for a single font.
type FontFamily struct {
	Name   string
	Styles map[fontStyle]*FontDef
	// Regular is a fallback for any missing styles
	Regular *FontDef
}

// Font flags for FontDesc.Flags as defined in the pdf specification.
const (
	// FontFlagFixedPitch is set if all glyphs have the same width.
	FontFlagFixedPitch = 1 << 0
	// FontFlagSerif is set if glyphs have serifs.
	FontFlagSerif = 1 << 1
	// FontFlagSymbolic is set if font contains glyphs outside the
	// Adobe standard Latin character set.
	FontFlagSymbolic = 1 << 2
	// FontFlagScript is set if glyphs resemble cursive handwriting.
	FontFlagScript = 1 << 3
	// FontFlagNonsymbolic is set if font uses the Adobe standard
	// Latin character set or a subset of it.
	FontFlagNonsymbolic = 1 << 5
	// FontFlagItalic is set if glyphs have dominant vertical strokes
	// that are slanted.
	FontFlagItalic = 1 << 6
	// FontFlagAllCap is set if font contains no lowercase letters.
	FontFlagAllCap = 1 << 16
	// ForceBold determines whether bold glyphs shall be painted with
	// extra pixels even at very small text sizes.
	ForceBold = 1 << 18
)
