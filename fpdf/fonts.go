package fpdf

import (
	"crypto/sha1"
	"encoding/binary"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/errs"
	"github.com/tinywasm/tfpdf/fontManager"
)

// identity ToUnicode CMap: every two byte code is its own UTF-16 value
const toUnicode = "/CIDInit /ProcSet findresource begin\n" +
	"12 dict begin\n" +
	"begincmap\n" +
	"/CIDSystemInfo\n" +
	"<</Registry (Adobe)\n" +
	"/Ordering (UCS)\n" +
	"/Supplement 0\n" +
	">> def\n" +
	"/CMapName /Adobe-Identity-UCS def\n" +
	"/CMapType 2 def\n" +
	"1 begincodespacerange\n" +
	"<0000> <FFFF>\n" +
	"endcodespacerange\n" +
	"1 beginbfrange\n" +
	"<0000> <FFFF> <0000>\n" +
	"endbfrange\n" +
	"endcmap\n" +
	"CMapName currentdict /CMap defineresource pop\n" +
	"end\n" +
	"end"

// objects written per font, Type0 included
const fontObjectCount = 7

// getFontKey is used by AddUTF8Font and SetFont
func getFontKey(familyStr, styleStr string) string {
	familyStr = Convert(familyStr).Replace(" ", "").ToLower().String()
	styleStr = Convert(styleStr).ToUpper().String()
	if styleStr == "IB" {
		styleStr = "BI"
	}
	return familyStr + styleStr
}

// AddUTF8Font imports a TrueType font and makes it available. Text in the
// font is written as Unicode code points, and only the glyphs used end up
// embedded.
//
// familyStr is the family name used with SetFont(). styleStr is "" for
// regular, "B", "I" or "BI". fileStr is the font file path, read through the
// document's ReadFileFunc.
func (f *Fpdf) AddUTF8Font(familyStr, styleStr, fileStr string) {
	if f.err != nil {
		return
	}
	fontKey := getFontKey(familyStr, styleStr)
	if _, ok := f.fonts[fontKey]; ok {
		return
	}
	m, err := f.fontManager.Load(fileStr)
	if err != nil {
		f.err = err
		return
	}
	f.fontOrder = append(f.fontOrder, fontKey)
	f.fonts[fontKey] = &fontDefType{
		i:         Convert(len(f.fonts) + 1).String(),
		path:      fileStr,
		metrics:   m,
		usedRunes: make(map[rune]struct{}),
	}
}

// AddLoadedFonts registers every font the FontManager found with LoadFonts,
// under its family name and style.
func (f *Fpdf) AddLoadedFonts() {
	for _, def := range f.fontManager.GetAllFontDefs() {
		f.AddUTF8Font(def.Family, def.Style.Code(), def.Path)
	}
}

// FontManager returns the manager the document loads fonts with.
func (f *Fpdf) FontManager() *fontManager.FontManager {
	return f.fontManager
}

// SetFont sets the font used to print character strings. It is mandatory to
// call this method at least once before printing text.
//
// The font is selected by its family and a style "", "B", "I" or "BI". size
// is in points; zero keeps the current size. The font must have been added
// with AddUTF8Font().
func (f *Fpdf) SetFont(familyStr, styleStr string, size float64) {
	if f.err != nil {
		return
	}
	if familyStr == "" {
		familyStr = f.fontFamily
	}
	fontKey := getFontKey(familyStr, styleStr)
	font, ok := f.fonts[fontKey]
	if !ok {
		f.err = errs.Errorf("font not found: %s %s", familyStr, styleStr)
		return
	}
	if size == 0 {
		size = f.fontSizePt
	}
	if f.currentFont == font && f.fontSizePt == size {
		return
	}
	f.fontFamily = familyStr
	f.fontStyle = styleStr
	f.currentFont = font
	f.fontSizePt = size
	f.fontSize = size / f.k
	if f.page > 0 {
		f.selectFont()
	}
}

// SetFontSize defines the size of the current font in points.
func (f *Fpdf) SetFontSize(size float64) {
	if f.currentFont == nil {
		f.fontSizePt = size
		f.fontSize = size / f.k
		return
	}
	f.SetFont(f.fontFamily, f.fontStyle, size)
}

// GetFontSize returns the size of the current font in both points (pt) and
// the unit of measure specified in New() (u).
func (f *Fpdf) GetFontSize() (pt, u float64) {
	return f.fontSizePt, f.fontSize
}

func (f *Fpdf) selectFont() {
	f.outf("BT /F%s %.2f Tf ET", f.currentFont.i, f.fontSizePt)
}

// subsetTag is the six letter prefix of a subset font name, derived from
// the runes it carries.
func subsetTag(runes []rune) string {
	h := sha1.New()
	var b [4]byte
	for _, r := range runes {
		binary.BigEndian.PutUint32(b[:], uint32(r))
		h.Write(b[:])
	}
	sum := h.Sum(nil)
	tag := make([]byte, 6)
	for i := range tag {
		tag[i] = 'A' + sum[i]%26
	}
	return string(tag)
}

// cidToGIDMap lays out the two byte glyph id of every BMP code.
func cidToGIDMap(cidToGID map[rune]uint16) []byte {
	m := make([]byte, 256*256*2)
	for cid, gid := range cidToGID {
		if cid < 0 || cid > 0xFFFF {
			continue
		}
		binary.BigEndian.PutUint16(m[2*cid:], gid)
	}
	return m
}

// putfonts writes, for every font, Type0, CIDFontType2, ToUnicode,
// CIDSystemInfo, FontDescriptor, CIDToGIDMap and FontFile2 in that order.
// References inside the group are planned from the Type0 number.
func (f *Fpdf) putfonts() {
	for _, key := range f.fontOrder {
		if f.err != nil {
			return
		}
		font := f.fonts[key]
		runes := sortedRunes(font.usedRunes)
		sub, err := f.fontManager.Subset(font.path, runes)
		if err != nil {
			f.err = err
			return
		}
		desc := font.metrics.Desc
		fontName := subsetTag(runes) + "+" + font.metrics.PostScriptName
		font.N = f.n + 1
		var (
			cidFont    = font.N + 1
			toUni      = font.N + 2
			sysInfo    = font.N + 3
			descriptor = font.N + 4
			cidMap     = font.N + 5
			fontFile   = font.N + 6
		)

		f.newobj()
		f.out(Sprintf("<</Type /Font\n/Subtype /Type0\n/BaseFont /%s\n/Encoding /Identity-H\n/DescendantFonts [%s]\n/ToUnicode %s>>\nendobj",
			fontName, objRef(cidFont), objRef(toUni)))

		f.newobj()
		f.out("<</Type /Font\n/Subtype /CIDFontType2\n/BaseFont /" + fontName + "\n" +
			"/CIDSystemInfo " + objRef(sysInfo) + "\n/FontDescriptor " + objRef(descriptor))
		if desc.MissingWidth != 0 {
			f.out("/DW " + Convert(desc.MissingWidth).String())
		}
		f.out(encodeWidths(sub.Widths, sub.LastCID))
		f.out("/CIDToGIDMap " + objRef(cidMap) + ">>")
		f.out("endobj")

		f.newobj()
		f.out("<</Length " + Convert(len(toUnicode)).String() + ">>")
		f.putstream([]byte(toUnicode))
		f.out("endobj")

		// CIDInfo
		f.newobj()
		f.out("<</Registry (Adobe)\n/Ordering (UCS)\n/Supplement 0>>")
		f.out("endobj")

		// Font descriptor
		f.newobj()
		var s fmtBuffer
		s.printf("<</Type /FontDescriptor /FontName /%s\n /Ascent %d", fontName, desc.Ascent)
		s.printf(" /Descent %d", desc.Descent)
		s.printf(" /CapHeight %d", desc.CapHeight)
		v := desc.Flags
		v = v | fontManager.FontFlagSymbolic
		v = v &^ fontManager.FontFlagNonsymbolic
		s.printf(" /Flags %d", v)
		s.printf("/FontBBox [%d %d %d %d] ", desc.FontBBox.Xmin, desc.FontBBox.Ymin,
			desc.FontBBox.Xmax, desc.FontBBox.Ymax)
		s.printf(" /ItalicAngle %d", desc.ItalicAngle)
		s.printf(" /StemV %d", desc.StemV)
		s.printf(" /MissingWidth %d", desc.MissingWidth)
		s.printf("/FontFile2 %s", objRef(fontFile))
		s.printf(">>")
		f.out(s.String())
		f.out("endobj")

		// CIDToGIDMap
		f.newobj()
		f.putStreamObject("", cidToGIDMap(sub.CIDToGID))

		// Font file
		f.newobj()
		f.putStreamObject(Sprintf("/Length1 %d", len(sub.Font)), sub.Font)

		f.expectObj("putfonts", font.N+fontObjectCount-1)
	}
}
