package fpdf

import (
	"bytes"
	"io"

	"github.com/tinywasm/tfpdf/errs"
)

// PageSize returns the width and height of the specified page in the units
// established in New(). These return values are followed by the unit of
// measure itself. If pageNum is zero or otherwise out of bounds, it returns
// the default page size, that is, the size of the page that would be added by
// AddPage().
func (f *Fpdf) PageSize(pageNum int) (wd, ht float64, unitStr string) {
	sz, ok := f.pageSizes[pageNum]
	if !ok {
		sz = f.orientedSize(f.defOrientation, f.defPageSize)
	}
	return sz.Wd / f.k, sz.Ht / f.k, string(f.unitType)
}

// PageNo returns the current page number.
func (f *Fpdf) PageNo() int {
	return f.page
}

// PageCount returns the number of pages added so far.
func (f *Fpdf) PageCount() int {
	return len(f.pages) - 1
}

// AddPageFormat adds a new page with non-default orientation or size. See
// AddPage() for more details.
//
// size specifies the size of the new page in the units established in New().
// A zero size is the default page size.
func (f *Fpdf) AddPageFormat(orientationStr orientationType, size PageSize) {
	if f.err != nil {
		return
	}
	if f.state == stateClosed {
		f.err = errs.ErrDocumentClosed
		return
	}
	if size.Wd > 0 && size.Ht > 0 {
		size = PageSize{Wd: size.Wd * f.k, Ht: size.Ht * f.k}
	} else {
		size = f.defPageSize
	}
	f.addPage(orientationStr, size)
}

// AddPage adds a new page to the document with the default orientation and
// size. The font which was set before calling is automatically restored.
//
// The origin of the coordinate system is at the top-left corner and increasing
// ordinates go downwards.
func (f *Fpdf) AddPage() {
	if f.err != nil {
		return
	}
	if f.state == stateClosed {
		f.err = errs.ErrDocumentClosed
		return
	}
	f.addPage(f.defOrientation, f.defPageSize)
}

func (f *Fpdf) addPage(orientationStr orientationType, size PageSize) {
	if orientationStr == "" {
		orientationStr = f.defOrientation
	}
	if orientationStr != Portrait && orientationStr != Landscape {
		f.err = errs.Errorf("incorrect orientation: %s", string(orientationStr))
		return
	}
	if f.page > 0 {
		f.endpage()
	}
	f.beginpage(orientationStr, size)
	f.restoreGraphics()
	if f.currentFont != nil {
		f.selectFont()
	}
}

// orientedSize turns a size in points for the given orientation.
func (f *Fpdf) orientedSize(orientation orientationType, size PageSize) PageSize {
	if orientation == Landscape {
		return PageSize{Wd: size.Ht, Ht: size.Wd}
	}
	return size
}

func (f *Fpdf) beginpage(orientation orientationType, size PageSize) {
	f.page++
	f.pages = append(f.pages, bytes.NewBufferString(""))
	f.pageLinks = append(f.pageLinks, make([]linkType, 0))
	f.state = statePage
	if orientation != f.curOrientation || size != f.curPageSize {
		oriented := f.orientedSize(orientation, size)
		f.w = oriented.Wd / f.k
		f.h = oriented.Ht / f.k
		f.wPt = oriented.Wd
		f.hPt = oriented.Ht
		f.curOrientation = orientation
		f.curPageSize = size
	}
	if orientation != f.defOrientation || size != f.defPageSize {
		f.pageSizes[f.page] = f.orientedSize(orientation, size)
	}
}

func (f *Fpdf) endpage() {
	f.state = stateReady
}

// Close terminates the PDF document. It is not necessary to call this method
// explicitly because Output() and OutputFileAndClose() do it automatically.
// A document without pages cannot be closed.
func (f *Fpdf) Close() {
	if f.err != nil {
		return
	}
	if f.state == stateClosed {
		return
	}
	if f.page == 0 {
		f.err = errs.ErrNoPage
		return
	}
	// Close page
	f.endpage()
	// Close document
	f.enddoc()
}

// OutputFileAndClose writes the PDF document through the document's
// WriteFileFunc to fileStr.
func (f *Fpdf) OutputFileAndClose(fileStr string) error {
	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return err
	}
	if err := f.writeFile(fileStr, buf.Bytes()); err != nil {
		f.err = errs.Wrap(errs.KindStreamIO, "write "+fileStr, err)
	}
	return f.err
}

// Output sends the PDF document to the writer specified by w. No output will
// take place if an error has occurred in the document generation process. w
// remains open after this function returns. After returning, f is in a closed
// state and its methods should not be called.
func (f *Fpdf) Output(w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	if f.state < stateClosed {
		f.Close()
	}
	if f.err != nil {
		return f.err
	}
	_, err := f.buffer.WriteTo(w)
	if err != nil {
		f.err = errs.Wrap(errs.KindStreamIO, "output", err)
	}
	return f.err
}

// planPages numbers the page objects: each page takes its /Page object,
// its content stream and one object per link annotation.
func (f *Fpdf) planPages() {
	f.pageObjs = make([]int, f.page+1)
	n := f.n
	for p := 1; p <= f.page; p++ {
		f.pageObjs[p] = n + 1
		n += 2 + len(f.pageLinks[p])
	}
}

func (f *Fpdf) putpages() {
	f.planPages()
	for n := 1; n <= f.page; n++ {
		f.newobj()
		f.out("<</Type /Page")
		f.out("/Parent 1 0 R")
		if ps, ok := f.pageSizes[n]; ok {
			f.outf("/MediaBox [0 0 %.2f %.2f]", ps.Wd, ps.Ht)
		}
		f.out("/Resources 2 0 R")
		links := f.pageLinks[n]
		if len(links) > 0 {
			var annots fmtBuffer
			annots.WriteString("/Annots [")
			for i := range links {
				annots.printf("%s ", objRef(f.pageObjs[n]+2+i))
			}
			annots.WriteString("]")
			f.out(annots.String())
		}
		if f.pdfVersion > pdfVers1_3 {
			f.out("/Group <</Type /Group /S /Transparency /CS /DeviceRGB>>")
		}
		f.outf("/Contents %s>>", objRef(f.n+1))
		f.out("endobj")
		// Page content
		f.newobj()
		f.putStreamObject("", f.pages[n].Bytes())
		// Link annotations
		for _, pl := range links {
			f.newobj()
			f.putlink(pl)
			f.out("endobj")
		}
		f.expectObj("putpages", f.pageObjs[n]+1+len(links))
	}
	// Pages root
	f.newobjAt(1)
	f.out("<</Type /Pages")
	var kids fmtBuffer
	kids.WriteString("/Kids [")
	for n := 1; n <= f.page; n++ {
		kids.printf("%s ", objRef(f.pageObjs[n]))
	}
	kids.WriteString("]")
	f.out(kids.String())
	f.outf("/Count %d", f.page)
	def := f.orientedSize(f.defOrientation, f.defPageSize)
	f.outf("/MediaBox [0 0 %.2f %.2f]", def.Wd, def.Ht)
	f.out(">>")
	f.out("endobj")
}

func (f *Fpdf) putlink(pl linkType) {
	var s fmtBuffer
	s.printf("<</Type /Annot /Subtype /Link /Rect [%.2f %.2f %.2f %.2f] /Border [0 0 0] ",
		pl.x, pl.y, pl.x+pl.wd, pl.y-pl.ht)
	if pl.link == 0 {
		s.printf("/A <</S /URI /URI %s>>>>", f.textstring(pl.linkStr))
		f.out(s.String())
		return
	}
	l := f.links[pl.link]
	if l.page < 1 || l.page > f.page {
		f.SetErrorf("link %d has no destination page", pl.link)
		return
	}
	h := f.orientedSize(f.defOrientation, f.defPageSize).Ht
	if ps, ok := f.pageSizes[l.page]; ok {
		h = ps.Ht
	}
	s.printf("/Dest [%s /XYZ 0 %.2f null]>>", objRef(f.pageObjs[l.page]), h-l.y*f.k)
	f.out(s.String())
}

func (f *Fpdf) putresourcedict() {
	f.out("/ProcSet [/PDF /Text /ImageB /ImageC /ImageI]")
	f.out("/Font <<")
	for _, key := range f.fontOrder {
		font := f.fonts[key]
		f.outf("/F%s %s", font.i, objRef(font.N))
	}
	f.out(">>")
	f.out("/XObject <<")
	for _, info := range f.uniqueImages() {
		f.outf("/I%s %s", info.i, objRef(info.n))
	}
	f.out(">>")
}

func (f *Fpdf) putresources() {
	f.putfonts()
	f.putimages()
	f.putjavascript()
	if f.err != nil {
		return
	}
	// Resource dictionary
	f.newobjAt(2)
	f.out("<<")
	f.putresourcedict()
	f.out(">>")
	f.out("endobj")
}

func (f *Fpdf) putinfo() {
	if len(f.producer) > 0 {
		f.outf("/Producer %s", f.textstring(f.producer))
	}
	if len(f.title) > 0 {
		f.outf("/Title %s", f.textstring(f.title))
	}
	if len(f.subject) > 0 {
		f.outf("/Subject %s", f.textstring(f.subject))
	}
	if len(f.author) > 0 {
		f.outf("/Author %s", f.textstring(f.author))
	}
	if len(f.keywords) > 0 {
		f.outf("/Keywords %s", f.textstring(f.keywords))
	}
	if len(f.creator) > 0 {
		f.outf("/Creator %s", f.textstring(f.creator))
	}
	f.outf("/CreationDate %s", f.textstring(pdfDate(f.creationDate)))
	f.outf("/ModDate %s", f.textstring(pdfDate(f.modDate)))
}

func (f *Fpdf) putcatalog() {
	f.out("/Type /Catalog")
	f.out("/Pages 1 0 R")
	if f.lang != "" {
		f.outf("/Lang (%s)", f.lang)
	}
	if f.javascript != nil {
		f.outf("/Names <</JavaScript %s>>", objRef(f.nJs))
	}
	first := objRef(f.pageObjs[1])
	switch f.zoomMode {
	case "fullpage":
		f.outf("/OpenAction [%s /Fit]", first)
	case "fullwidth":
		f.outf("/OpenAction [%s /FitH null]", first)
	case "real":
		f.outf("/OpenAction [%s /XYZ null null 1]", first)
	}
	switch f.layoutMode {
	case "single", "SinglePage":
		f.out("/PageLayout /SinglePage")
	case "continuous", "OneColumn":
		f.out("/PageLayout /OneColumn")
	case "two", "TwoColumnLeft":
		f.out("/PageLayout /TwoColumnLeft")
	case "TwoColumnRight":
		f.out("/PageLayout /TwoColumnRight")
	case "TwoPageLeft", "TwoPageRight":
		f.out("/PageLayout /" + f.layoutMode)
	}
}

func (f *Fpdf) putheader() {
	f.out("%PDF-" + f.pdfVersion.String())
	f.out("%µ¶")
}

func (f *Fpdf) puttrailer() {
	f.outf("/Size %d", f.n+1)
	f.outf("/Root %s", objRef(f.n))
	f.outf("/Info %s", objRef(f.n-1))
}

func (f *Fpdf) putxref() {
	f.out("xref")
	f.outf("0 %d", f.n+1)
	f.out("0000000000 65535 f ")
	for j := 1; j <= f.n; j++ {
		f.out(xrefEntry(f.offsets[j]))
	}
}

func (f *Fpdf) enddoc() {
	if f.err != nil {
		return
	}
	f.putheader()
	f.putpages()
	f.putresources()
	if f.err != nil {
		return
	}
	// Info
	f.newobj()
	f.out("<<")
	f.putinfo()
	f.out(">>")
	f.out("endobj")
	// Catalog
	f.newobj()
	f.out("<<")
	f.putcatalog()
	f.out(">>")
	f.out("endobj")
	// Cross-ref
	o := f.currentOffset()
	f.putxref()
	// Trailer
	f.out("trailer")
	f.out("<<")
	f.puttrailer()
	f.out(">>")
	f.out("startxref")
	f.outf("%d", o)
	f.out("%%EOF")
	if f.err != nil {
		return
	}
	f.state = stateClosed
}

// SetDisplayMode sets advisory display directives for the document viewer.
// Pages can be displayed entirely on screen, occupy the full width of the
// window, use real size, be scaled by a specific zooming factor or use viewer
// default (configured in the Preferences menu of Adobe Reader). The page
// layout can be specified so that pages are displayed individually or in
// pairs.
//
// zoomStr can be "fullpage" to display the entire page on screen, "fullwidth"
// to use maximum width of window, "real" to use real size (equivalent to 100%
// zoom) or "default" to use viewer default mode.
//
// layoutStr can be "single" (or "SinglePage") to display one page at once,
// "continuous" (or "OneColumn") to display pages continuously, "two" (or
// "TwoColumnLeft") to display two pages on two columns with odd-numbered pages
// on the left, or "TwoColumnRight" to display two pages on two columns with
// odd-numbered pages on the right, or "TwoPageLeft" to display pages two at a
// time with odd-numbered pages on the left, or "TwoPageRight" to display pages
// two at a time with odd-numbered pages on the right, or "default" to use
// viewer default mode.
func (f *Fpdf) SetDisplayMode(zoomStr, layoutStr string) {
	if f.err != nil {
		return
	}
	if layoutStr == "" {
		layoutStr = "default"
	}
	switch zoomStr {
	case "fullpage", "fullwidth", "real", "default":
		f.zoomMode = zoomStr
	default:
		f.err = errs.Errorf("incorrect zoom display mode: %s", zoomStr)
		return
	}
	switch layoutStr {
	case "single", "continuous", "two", "default", "SinglePage", "OneColumn",
		"TwoColumnLeft", "TwoColumnRight":
		f.layoutMode = layoutStr
	case "TwoPageLeft", "TwoPageRight":
		f.layoutMode = layoutStr
		f.requireVersion(pdfVers1_5)
	default:
		f.err = errs.Errorf("incorrect layout display mode: %s", layoutStr)
		return
	}
}

// requireVersion raises the PDF version written in the header. It has no
// effect once the document is being assembled.
func (f *Fpdf) requireVersion(v pdfVersion) {
	if f.pdfVersion < v && f.state != stateClosed {
		f.pdfVersion = v
	}
}

// GetPdfVersion returns the version of the PDF header, for example "1.3".
func (f *Fpdf) GetPdfVersion() string {
	return f.pdfVersion.String()
}
