package fpdf

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"time"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/fontManager"
)

// Version of FPDF from which this package is derived
const (
	cnFpdfVersion = "1.7"
)

// WriteFileFunc is a function type for writing files, can be customized for WebAssembly
type WriteFileFunc func(filePath string, content []byte) error

// ReadFileFunc is a function type for reading files, can be customized for WebAssembly
type ReadFileFunc func(filePath string) ([]byte, error)

// FileStatFunc returns the size and modification time of a file. Font
// metrics are only cached when one is configured.
type FileStatFunc func(filePath string) (size int64, modTime time.Time, err error)

// LogFunc receives progress messages such as font loading and subsetting.
type LogFunc func(message ...any)

// CompressionLevel is the zlib level of Flate encoded streams.
// NoCompression writes every stream as is.
type CompressionLevel int

const (
	NoCompression      CompressionLevel = 0
	BestSpeed          CompressionLevel = 1
	BestCompression    CompressionLevel = 9
	DefaultCompression CompressionLevel = -1
)

type orientationType string

const (
	// Portrait represents the portrait orientation.
	Portrait orientationType = "p"

	// Landscape represents the landscape orientation.
	Landscape orientationType = "l"
)

// Orientation returns the orientation named by s: "p"/"portrait" or
// "l"/"landscape". ok is false for anything else.
func Orientation(s string) (o orientationType, ok bool) {
	switch Convert(s).ToLower().String() {
	case "p", "portrait":
		return Portrait, true
	case "l", "landscape":
		return Landscape, true
	}
	return "", false
}

type unit string

const (
	// POINT represents the size unit point
	POINT unit = "pt"
	// MM represents the size unit millimeter
	MM unit = "mm"
	// CM represents the size unit centimeter
	CM unit = "cm"
	// IN represents the size unit inch
	IN unit = "inch"
)

// Unit returns the unit of measure named by s. ok is false for unknown names.
func Unit(s string) (u unit, ok bool) {
	switch unit(s) {
	case POINT, MM, CM, IN:
		return unit(s), true
	}
	return "", false
}

// Standard page sizes in points (1/72 inch)
var (
	// A3 represents DIN/ISO A3 page size
	A3 = PageSize{Wd: 841.89, Ht: 1190.55}
	// A4 represents DIN/ISO A4 page size
	A4 = PageSize{Wd: 595.28, Ht: 841.89}
	// A5 represents DIN/ISO A5 page size
	A5 = PageSize{Wd: 420.94, Ht: 595.28}
	// A6 represents DIN/ISO A6 page size
	A6 = PageSize{Wd: 297.64, Ht: 420.94}
	// Letter represents US Letter page size
	Letter = PageSize{Wd: 612, Ht: 792}
	// Legal represents US Legal page size
	Legal = PageSize{Wd: 612, Ht: 1008}
)

var stdPageSizes = map[string]PageSize{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"a6":     A6,
	"letter": Letter,
	"legal":  Legal,
}

// StdPageSize returns the standard page size named by s ("a4", "letter",
// ...), in points.
func StdPageSize(s string) (PageSize, bool) {
	size, ok := stdPageSizes[Convert(s).ToLower().String()]
	return size, ok
}

// PageSize specifies the dimensions of a page. Passed to New, Wd and Ht are
// points; passed to AddPageFormat they are in the unit of the document.
type PageSize struct {
	Wd, Ht float64
}

// ImageInfoType contains size, color and other information about an image.
// An ImageParser fills the exported fields; the document never inspects the
// pixel data.
type ImageInfoType struct {
	W, H        float64 // Size in pixels
	ColorSpace  string  // DeviceRGB, DeviceGray, DeviceCMYK or Indexed
	BPC         int     // Bits Per Component
	Filter      string  // Filter the data is encoded with, empty for raw samples
	DecodeParms string  // DecodeParms dictionary body
	Palette     []byte  // RGB palette of an Indexed image
	Trns        []int   // Color key mask
	Data        []byte  // Image data
	SoftMask    []byte  // 8 bit per pixel transparency mask, raw samples
	DPI         float64 // Dots-per-inch, 72 when zero

	n     int     // Image object number
	scale float64 // Document scale factor
	i     string  // SHA-1 checksum of the above values.
}

type idEncoder struct {
	w   io.Writer
	buf []byte
	err error
}

func newIDEncoder(w io.Writer) *idEncoder {
	return &idEncoder{
		w:   w,
		buf: make([]byte, 8),
	}
}

func (enc *idEncoder) i64(v int64) {
	if enc.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(enc.buf, uint64(v))
	_, enc.err = enc.w.Write(enc.buf)
}

func (enc *idEncoder) f64(v float64) {
	if enc.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(enc.buf, math.Float64bits(v))
	_, enc.err = enc.w.Write(enc.buf)
}

// str and bytes are length prefixed so adjacent fields cannot collide
func (enc *idEncoder) str(v string) {
	enc.bytes([]byte(v))
}

func (enc *idEncoder) bytes(v []byte) {
	enc.i64(int64(len(v)))
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write(v)
}

func generateImageID(info *ImageInfoType) (string, error) {
	sha := sha1.New()
	enc := newIDEncoder(sha)
	enc.bytes(info.Data)
	enc.bytes(info.SoftMask)
	enc.f64(info.W)
	enc.f64(info.H)
	enc.str(info.ColorSpace)
	enc.bytes(info.Palette)
	enc.i64(int64(info.BPC))
	enc.str(info.Filter)
	enc.str(info.DecodeParms)
	enc.i64(int64(len(info.Trns)))
	for _, v := range info.Trns {
		enc.i64(int64(v))
	}
	enc.f64(info.DPI)
	if enc.err != nil {
		return "", enc.err
	}
	return hex.EncodeToString(sha.Sum(nil)), nil
}

func (info *ImageInfoType) dpi() float64 {
	if info.DPI <= 0 {
		return 72
	}
	return info.DPI
}

// Extent returns the width and height of the image in the units of the Fpdf
// object.
func (info *ImageInfoType) Extent() (wd, ht float64) {
	return info.Width(), info.Height()
}

// Width returns the width of the image in the units of the Fpdf object.
func (info *ImageInfoType) Width() float64 {
	return info.W / (info.scale * info.dpi() / 72)
}

// Height returns the height of the image in the units of the Fpdf object.
func (info *ImageInfoType) Height() float64 {
	return info.H / (info.scale * info.dpi() / 72)
}

// SetDpi sets the dots per inch for an image. It defaults to 72 dpi.
func (info *ImageInfoType) SetDpi(dpi float64) {
	info.DPI = dpi
}

type linkType struct {
	x, y, wd, ht float64
	link         int    // Auto-generated internal link ID or...
	linkStr      string // ...application-provided external link string
}

type intLinkType struct {
	page int
	y    float64
}

// fontDefType is a TrueType font registered with AddUTF8Font.
type fontDefType struct {
	i         string // 1-based position in font list, used as /F<i>
	N         int    // Type0 object number, set by putfonts
	path      string
	metrics   *fontManager.Metrics
	usedRunes map[rune]struct{}
}

// Fpdf is the principal structure for creating a single PDF document
type Fpdf struct {
	page           int                       // current page number
	n              int                       // current object number
	offsets        []int                     // array of object offsets
	buffer         fmtBuffer                 // buffer holding in-memory PDF
	pages          []*bytes.Buffer           // slice[page] of page content; 1-based
	pageObjs       []int                     // slice[page] of page object numbers, set by putpages
	state          int                       // current document state
	compress       bool                      // compression flag
	compressLevel  int                       // zlib level
	compressWarned bool                      // fallback to plain streams was logged
	k              float64                   // scale factor (number of points in user unit)
	defOrientation orientationType           // default orientation
	curOrientation orientationType           // current orientation
	defPageSize    PageSize                  // default page size, points
	curPageSize    PageSize                  // current page size, points
	pageSizes      map[int]PageSize          // used for pages with non default sizes or orientations
	unitType       unit                      // unit of measure for all rendered objects except fonts
	wPt, hPt       float64                   // dimensions of current page in points
	w, h           float64                   // dimensions of current page in user unit
	writeFile      WriteFileFunc             // function to write files, can be customized for WebAssembly
	readFile       ReadFileFunc              // function to read files, can be customized for WebAssembly
	stat           FileStatFunc              // enables the font metrics cache
	log            LogFunc                   // nil disables logging
	fontManager    *fontManager.FontManager  // parses and subsets font files
	fonts          map[string]*fontDefType   // array of used fonts
	fontOrder      []string                  // font keys in registration order
	fontFamily     string                    // current font family
	fontStyle      string                    // current font style
	currentFont    *fontDefType              // current font info
	fontSizePt     float64                   // current font size in points
	fontSize       float64                   // current font size in user unit
	lineWidth      float64                   // line width in user unit
	drawColor      rgbColor                  // current draw color
	fillColor      rgbColor                  // current fill color
	textColor      rgbColor                  // current text color
	colorFlag      bool                      // indicates whether fill and text colors are different
	images         map[string]*ImageInfoType // array of used images
	imageParsers   map[string]ImageParser    // parsers by image type
	pageLinks      [][]linkType              // pageLinks[page][link], both 1-based
	links          []intLinkType             // array of internal links
	zoomMode       string                    // zoom display mode
	layoutMode     string                    // layout display mode
	producer       string                    // producer
	title          string                    // title
	subject        string                    // subject
	author         string                    // author
	keywords       string                    // keywords
	creator        string                    // creator
	lang           string                    // lang
	javascript     *string                   // JavaScript run when the document opens
	nJs            int                       // JavaScript name tree object number
	creationDate   time.Time                 // override for document CreationDate value
	modDate        time.Time                 // override for document ModDate value
	pdfVersion     pdfVersion                // PDF version number
	err            error                     // Set if error occurs during life cycle of instance
}

type fmtBuffer struct {
	bytes.Buffer
}

func (b *fmtBuffer) printf(fmtStr string, args ...any) {
	b.Buffer.WriteString(Sprintf(fmtStr, args...))
}

const (
	pdfVers1_3 = pdfVersion(uint16(1)<<8 | uint16(3))
	pdfVers1_4 = pdfVersion(uint16(1)<<8 | uint16(4))
	pdfVers1_5 = pdfVersion(uint16(1)<<8 | uint16(5))
)

type pdfVersion uint16

func (v pdfVersion) String() string {
	maj := int64(byte(v >> 8))
	min := int64(byte(v))
	return Sprintf("%d.%d", maj, min)
}
