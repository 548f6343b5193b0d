package tfpdf

import (
	"os"
	"time"

	"github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/config"
	"github.com/tinywasm/tfpdf/env"
	"github.com/tinywasm/tfpdf/fontManager"
	"github.com/tinywasm/tfpdf/fpdf"
)

// Render builds the document described by def. def must have been through
// SetDefaults and Validate, as config.LoadConfig does. options are passed
// on to New; a *fontManager.MetricsCache among them replaces the one made
// for def.CacheDir.
//
// The returned document is not closed yet: call Output or
// OutputFileAndClose on its Fpdf. Errors are those of the document.
func Render(def *config.Document, options ...any) (*TFPDF, error) {
	opts := []any{}
	if u, ok := fpdf.Unit(def.Unit); ok {
		opts = append(opts, u)
	}
	if o, ok := fpdf.Orientation(def.Orientation); ok {
		opts = append(opts, o)
	}
	if def.Size != nil {
		opts = append(opts, fpdf.PageSize{Wd: def.Size.Width, Ht: def.Size.Height})
	} else if size, ok := fpdf.StdPageSize(def.PageSize); ok {
		opts = append(opts, size)
	}
	if def.CompressionLevel != nil {
		opts = append(opts, fpdf.CompressionLevel(*def.CompressionLevel))
	}
	if def.CacheDir != "" {
		opts = append(opts, fontManager.NewMetricsCache(def.CacheDir, env.FileReader, env.FileWriter))
	}

	tp := New(append(opts, options...)...)
	pdf := tp.Fpdf

	pdf.SetTitle(def.Title)
	pdf.SetSubject(def.Subject)
	pdf.SetAuthor(def.Author)
	pdf.SetKeywords(def.Keywords)
	if def.Creator != "" {
		pdf.SetCreator(def.Creator)
	}
	if def.Producer != "" {
		pdf.SetProducer(def.Producer)
	}
	pdf.SetLang(def.Lang)
	if creation, mod, err := def.Dates(sourceDateEpoch()); err != nil {
		pdf.SetError(err)
	} else {
		pdf.SetCreationDate(time.Unix(0, creation).UTC())
		pdf.SetModificationDate(time.Unix(0, mod).UTC())
	}
	if def.Compression != nil {
		pdf.SetCompression(*def.Compression)
	}
	if def.Display != nil {
		pdf.SetDisplayMode(def.Display.Zoom, def.Display.Layout)
	}
	if def.JavaScript != "" {
		pdf.SetJavascript(def.JavaScript)
	}

	for _, font := range def.Fonts {
		pdf.AddUTF8Font(font.Family, font.Style, font.Path)
	}

	// anchors may be targeted from pages before their own
	anchors := make(map[string]int)
	for _, page := range def.Pages {
		for _, it := range page.Items {
			if it.Anchor != nil {
				anchors[it.Anchor.Name] = pdf.AddLink()
			}
		}
	}

	for _, page := range def.Pages {
		addPage(pdf, page)
		for _, it := range page.Items {
			drawItem(pdf, it, anchors)
		}
		if !pdf.Ok() {
			break
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, err
	}
	tp.Log("document rendered:", pdf.PageCount(), "pages")
	return tp, nil
}

func addPage(pdf *fpdf.Fpdf, page config.Page) {
	if page.Orientation == "" && page.PageSize == "" && page.Size == nil {
		pdf.AddPage()
		return
	}
	orientation, _ := fpdf.Orientation(page.Orientation)
	var size fpdf.PageSize
	if page.Size != nil {
		size = fpdf.PageSize{Wd: page.Size.Width, Ht: page.Size.Height}
	} else if std, ok := fpdf.StdPageSize(page.PageSize); ok {
		k := pdf.GetConversionRatio()
		size = fpdf.PageSize{Wd: std.Wd / k, Ht: std.Ht / k}
	}
	pdf.AddPageFormat(orientation, size)
}

func drawItem(pdf *fpdf.Fpdf, it config.Item, anchors map[string]int) {
	switch {
	case it.Font != nil:
		pdf.SetFont(it.Font.Family, it.Font.Style, it.Font.Size)
	case it.Style != nil:
		if c := it.Style.Draw; len(c) == 3 {
			pdf.SetDrawColor(c[0], c[1], c[2])
		}
		if c := it.Style.Fill; len(c) == 3 {
			pdf.SetFillColor(c[0], c[1], c[2])
		}
		if c := it.Style.Text; len(c) == 3 {
			pdf.SetTextColor(c[0], c[1], c[2])
		}
		if it.Style.LineWidth != nil {
			pdf.SetLineWidth(*it.Style.LineWidth)
		}
	case it.Text != nil:
		pdf.Text(it.Text.X, it.Text.Y, it.Text.Text)
	case it.Anchor != nil:
		pdf.SetLink(anchors[it.Anchor.Name], it.Anchor.Y, -1)
	case it.Link != nil:
		l := it.Link
		if l.URL != "" {
			pdf.LinkString(l.X, l.Y, l.W, l.H, l.URL)
		} else {
			pdf.Link(l.X, l.Y, l.W, l.H, anchors[l.Target])
		}
	case it.Image != nil:
		img := it.Image
		if img.Type != "" {
			pdf.RegisterImage(img.Path, img.Type)
		}
		pdf.Image(img.Path, img.X, img.Y, img.W, img.H)
	case it.Line != nil:
		pdf.Line(it.Line.X1, it.Line.Y1, it.Line.X2, it.Line.Y2)
	case it.Rect != nil:
		pdf.Rect(it.Rect.X, it.Rect.Y, it.Rect.W, it.Rect.H, it.Rect.Op)
	}
}

// sourceDateEpoch is SOURCE_DATE_EPOCH in seconds, zero when it is unset or
// not a number.
func sourceDateEpoch() int64 {
	secs, err := fmt.Convert(os.Getenv("SOURCE_DATE_EPOCH")).Int64()
	if err != nil {
		return 0
	}
	return secs
}
