package fpdf

import (
	"bytes"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/errs"
	"github.com/tinywasm/tfpdf/fontManager"
)

// New returns a document configured by options, any of: a unit (MM,
// POINT, ...), an orientation (Portrait, Landscape), a default PageSize in
// points, a ReadFileFunc, WriteFileFunc, FileStatFunc or LogFunc, a
// CompressionLevel, a *fontManager.FontManager or a *fontManager.MetricsCache.
//
// Without a FontManager one is built from the read and stat functions and
// the cache.
func New(options ...any) (f *Fpdf) {
	f = new(Fpdf)

	var size PageSize
	var cache *fontManager.MetricsCache
	level := BestSpeed

	// Set default values
	f.defOrientation = Portrait
	f.unitType = MM
	// Initialize writeFile with a function that returns an error by default
	f.writeFile = func(filePath string, content []byte) error {
		return errs.New("writeFile function not configured for this environment")
	}
	// Initialize readFile with a function that returns an error by default
	f.readFile = func(filePath string) ([]byte, error) {
		return nil, errs.New("readFile function not configured for this environment")
	}

	for _, opt := range options {
		switch v := opt.(type) {
		case unit:
			if v != "" {
				f.unitType = v
			}
		case orientationType:
			f.defOrientation = v
		case PageSize:
			size = v
		case WriteFileFunc:
			f.writeFile = v
		case ReadFileFunc:
			f.readFile = v
		case FileStatFunc:
			f.stat = v
		case LogFunc:
			f.log = v
		case func(...any):
			f.log = v
		case CompressionLevel:
			level = v
		case *fontManager.FontManager:
			f.fontManager = v
		case *fontManager.MetricsCache:
			cache = v
		}
	}
	if f.fontManager == nil {
		fmOptions := []any{fontManager.ReadFileFunc(f.readFile)}
		if f.stat != nil {
			fmOptions = append(fmOptions, fontManager.StatFunc(f.stat))
		}
		if cache != nil {
			fmOptions = append(fmOptions, cache)
		}
		f.fontManager = fontManager.NewFontManager(nil, f.log, fmOptions...)
	}

	f.page = 0
	f.n = 2
	f.pages = make([]*bytes.Buffer, 0, 8)
	f.pages = append(f.pages, bytes.NewBufferString("")) // pages[0] is unused (1-based)
	f.pageSizes = make(map[int]PageSize)
	f.state = stateNoPage
	f.fonts = make(map[string]*fontDefType)
	f.images = make(map[string]*ImageInfoType)
	f.imageParsers = map[string]ImageParser{
		"jpg":  jpegParser{},
		"jpeg": jpegParser{},
		"png":  decodedParser{},
		"gif":  decodedParser{},
	}
	f.pageLinks = make([][]linkType, 0, 8)
	f.pageLinks = append(f.pageLinks, make([]linkType, 0)) // pageLinks[0] is unused (1-based)
	f.links = make([]intLinkType, 0, 8)
	f.links = append(f.links, intLinkType{}) // links[0] is unused (1-based)
	f.fontFamily = ""
	f.fontStyle = ""
	f.fontSize = 12

	// Scale factor
	switch f.unitType {
	case POINT:
		f.k = 1.0
	case MM:
		f.k = 72.0 / 25.4
	case CM:
		f.k = 72.0 / 2.54
	case IN:
		f.k = 72.0
	default:
		f.err = errs.Errorf("incorrect unit %s", string(f.unitType))
		return
	}
	f.fontSizePt = f.fontSize
	f.fontSize = f.fontSizePt / f.k
	// Line width (0.2 mm) and black colors
	f.lineWidth = 0.567 / f.k
	f.drawColor = rgbColor{str: "0 G"}
	f.fillColor = rgbColor{str: "0 g"}
	f.textColor = rgbColor{str: "0 g"}

	// Default page size in points
	if size.Wd > 0 && size.Ht > 0 {
		f.defPageSize = size
	} else {
		f.defPageSize = A4
	}
	f.curPageSize = f.defPageSize
	switch f.defOrientation {
	case Portrait:
		f.w = f.defPageSize.Wd / f.k
		f.h = f.defPageSize.Ht / f.k
	case Landscape:
		f.w = f.defPageSize.Ht / f.k
		f.h = f.defPageSize.Wd / f.k
	default:
		f.err = errs.Errorf("incorrect orientation: %s", string(f.defOrientation))
		return
	}
	f.curOrientation = f.defOrientation
	f.wPt = f.w * f.k
	f.hPt = f.h * f.k
	// Default display mode
	f.SetDisplayMode("default", "default")
	if f.err != nil {
		return
	}
	f.SetCompressionLevel(level)
	// Set default PDF version number
	f.pdfVersion = pdfVers1_3
	f.SetProducer("FPDF " + cnFpdfVersion)
	return
}

func (f *Fpdf) logf(format string, args ...any) {
	if f.log != nil {
		f.log(Sprintf(format, args...))
	}
}

// Ok returns true if no processing errors have occurred.
func (f *Fpdf) Ok() bool {
	return f.err == nil
}

// Err returns true if a processing error has occurred.
func (f *Fpdf) Err() bool {
	return f.err != nil
}

// SetErrorf sets the internal Fpdf error with formatted text to halt PDF
// generation; this may facilitate error handling by application. If an error
// condition is already set, this call is ignored.
func (f *Fpdf) SetErrorf(fmtStr string, args ...any) {
	if f.err == nil {
		f.err = errs.Errorf(fmtStr, args...)
	}
}

// String satisfies the fmt.Stringer interface and summarizes the Fpdf
// instance.
func (f *Fpdf) String() string {
	return "Fpdf " + cnFpdfVersion
}

// SetError sets an error to halt PDF generation. This may facilitate error
// handling by application. See also Ok(), Err() and Error().
func (f *Fpdf) SetError(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

// Error returns the internal Fpdf error; this will be nil if no error has occurred.
func (f *Fpdf) Error() error {
	return f.err
}

// GetCompression returns whether page, font and image streams are Flate
// encoded.
func (f *Fpdf) GetCompression() bool {
	return f.compress
}

// SetCompression activates or deactivates page compression with BestSpeed.
// Compression is on by default.
func (f *Fpdf) SetCompression(compress bool) {
	if compress {
		f.SetCompressionLevel(BestSpeed)
	} else {
		f.SetCompressionLevel(NoCompression)
	}
}

// SetCompressionLevel sets the zlib level of compressed streams.
// NoCompression turns compression off.
func (f *Fpdf) SetCompressionLevel(level CompressionLevel) {
	f.compress = level != NoCompression
	f.compressLevel = int(level)
}

// GetProducer returns the producer of the document.
func (f *Fpdf) GetProducer() string {
	return f.producer
}

// SetProducer defines the producer of the document.
func (f *Fpdf) SetProducer(producerStr string) {
	f.producer = producerStr
}

// GetTitle returns the title of the document.
func (f *Fpdf) GetTitle() string {
	return f.title
}

// SetTitle defines the title of the document.
func (f *Fpdf) SetTitle(titleStr string) {
	f.title = titleStr
}

// GetSubject returns the subject of the document.
func (f *Fpdf) GetSubject() string {
	return f.subject
}

// SetSubject defines the subject of the document.
func (f *Fpdf) SetSubject(subjectStr string) {
	f.subject = subjectStr
}

// GetAuthor returns the author of the document.
func (f *Fpdf) GetAuthor() string {
	return f.author
}

// SetAuthor defines the author of the document.
func (f *Fpdf) SetAuthor(authorStr string) {
	f.author = authorStr
}

// GetKeywords returns the keywords of the document.
func (f *Fpdf) GetKeywords() string {
	return f.keywords
}

// SetKeywords defines the keywords of the document. keywordStr is a
// space-delimited string, for example "invoice August".
func (f *Fpdf) SetKeywords(keywordsStr string) {
	f.keywords = keywordsStr
}

// GetCreator returns the creator of the document.
func (f *Fpdf) GetCreator() string {
	return f.creator
}

// SetCreator defines the creator of the document.
func (f *Fpdf) SetCreator(creatorStr string) {
	f.creator = creatorStr
}

// GetLang returns the natural language of the document (e.g. "de-CH").
func (f *Fpdf) GetLang() string {
	return f.lang
}

// SetLang sets the natural language of the document (e.g. "de-CH").
func (f *Fpdf) SetLang(lang string) {
	f.lang = lang
}

// GetConversionRatio returns the conversion ratio based on the unit given when
// creating the PDF.
func (f *Fpdf) GetConversionRatio() float64 {
	return f.k
}

// AddLink creates a new internal link and returns its identifier. An internal
// link is a clickable area which directs to another place within the document.
// The identifier can then be passed to Link(). The destination is defined
// with SetLink().
func (f *Fpdf) AddLink() int {
	f.links = append(f.links, intLinkType{})
	return len(f.links) - 1
}

// SetLink defines the page and position a link points to. See AddLink().
// A page of -1 is the current page.
func (f *Fpdf) SetLink(link int, y float64, page int) {
	if f.err != nil {
		return
	}
	if link < 1 || link >= len(f.links) {
		f.SetErrorf("unknown link %d", link)
		return
	}
	if page == -1 {
		page = f.page
	}
	f.links[link] = intLinkType{page, y}
}

// newLink adds a new clickable link on current page
func (f *Fpdf) newLink(x, y, w, h float64, link int, linkStr string) {
	if !f.writable() {
		return
	}
	if f.page == 0 {
		return
	}
	f.pageLinks[f.page] = append(f.pageLinks[f.page],
		linkType{x * f.k, f.hPt - y*f.k, w * f.k, h * f.k, link, linkStr})
}

// Link puts a link on a rectangular area of the page. link is the value
// returned by AddLink().
func (f *Fpdf) Link(x, y, w, h float64, link int) {
	if f.err == nil && (link < 1 || link >= len(f.links)) {
		f.SetErrorf("unknown link %d", link)
		return
	}
	f.newLink(x, y, w, h, link, "")
}

// LinkString puts a link on a rectangular area of the page. linkStr is the
// target URL.
func (f *Fpdf) LinkString(x, y, w, h float64, linkStr string) {
	f.newLink(x, y, w, h, 0, linkStr)
}

// Text prints a character string. The origin (x, y) is on the left of the
// first character, on the baseline. A font must have been selected with
// SetFont.
func (f *Fpdf) Text(x, y float64, txtStr string) {
	if f.err != nil {
		return
	}
	if f.currentFont == nil {
		f.SetErrorf("font has not been set; unable to render text")
		return
	}
	if !f.writable() {
		return
	}
	for _, r := range txtStr {
		f.currentFont.usedRunes[r] = struct{}{}
	}
	s := Sprintf("BT %.2f %.2f Td <%s> Tj ET", x*f.k, (f.h-y)*f.k, cidString(txtStr))
	if f.colorFlag {
		s = "q " + f.textColor.str + " " + s + " Q"
	}
	f.out(s)
}

// GetStringWidth returns the length of a string in user units. A font must
// be currently selected.
func (f *Fpdf) GetStringWidth(s string) float64 {
	if f.err != nil || f.currentFont == nil {
		return 0
	}
	w := 0
	for _, r := range s {
		w += f.currentFont.metrics.Width(r)
	}
	return float64(w) * f.fontSize / 1000
}

// Escape special characters in strings
func (f *Fpdf) escape(s string) string {
	s = Convert(s).Replace("\\", "\\\\").Replace("(", "\\(").Replace(")", "\\)").Replace("\r", "\\r").String()
	return s
}

// textstring formats a text string
func (f *Fpdf) textstring(s string) string {
	return "(" + f.escape(textEncode(s)) + ")"
}
