// Package config reads document definitions: the metadata, fonts and page
// content of a PDF written as YAML.
//
//	title: Invoice
//	unit: mm
//	page-size: a4
//	fonts:
//	  - family: dejavu
//	    path: fonts/DejaVuSans.ttf
//	pages:
//	  - items:
//	      - font: {family: dejavu, size: 14}
//	      - text: {x: 20, y: 30, text: Grüße}
package config

import (
	"bytes"
	"errors"
	"io"

	. "github.com/tinywasm/fmt"
	clock "github.com/tinywasm/time"
	"gopkg.in/yaml.v3"

	"github.com/tinywasm/tfpdf/errs"
	"github.com/tinywasm/tfpdf/fpdf"
)

// Common errors
var (
	ErrConfiguration        = errs.New("configuration error")
	ErrMissingRequiredField = errs.New("missing required field")
	ErrInvalidValue         = errs.New("invalid value")
)

// ConfigError represents a configuration error with the field it concerns.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	if e.Err == nil {
		return ErrConfiguration
	}
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

func missing(field string) *ConfigError {
	return &ConfigError{Field: field, Message: "required field is missing", Err: ErrMissingRequiredField}
}

func invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: Sprintf(format, args...), Err: ErrInvalidValue}
}

// Document is the definition of one PDF.
type Document struct {
	Title    string `yaml:"title"`
	Subject  string `yaml:"subject"`
	Author   string `yaml:"author"`
	Keywords string `yaml:"keywords"`
	Creator  string `yaml:"creator"`
	Producer string `yaml:"producer"`
	Lang     string `yaml:"lang"`

	// CreationDate and ModDate are "YYYY-MM-DD" or "YYYY-MM-DD HH:MM[:SS]"
	// in UTC. See Dates for the values used when they are empty.
	CreationDate string `yaml:"creation-date"`
	ModDate      string `yaml:"mod-date"`

	// Unit is pt, mm, cm or inch. Defaults to mm.
	Unit string `yaml:"unit"`
	// Orientation is portrait or landscape. Defaults to portrait.
	Orientation string `yaml:"orientation"`
	// PageSize names a standard size (a3, a4, a5, a6, letter, legal).
	// Defaults to a4 unless Size is set.
	PageSize string `yaml:"page-size"`
	// Size is a custom default page size in points.
	Size *Size `yaml:"size"`

	// Compression defaults to true. CompressionLevel is a zlib level.
	Compression      *bool `yaml:"compression"`
	CompressionLevel *int  `yaml:"compression-level"`

	Display    *Display `yaml:"display"`
	JavaScript string   `yaml:"javascript"`

	// CacheDir keeps parsed font metrics between runs when set.
	CacheDir string `yaml:"cache-dir"`

	Fonts []Font `yaml:"fonts"`
	Pages []Page `yaml:"pages"`
}

// Size is a page size. Points for the document default, document units for
// a single page.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Display sets how a viewer opens the document.
type Display struct {
	Zoom   string `yaml:"zoom"`
	Layout string `yaml:"layout"`
}

// Font registers a TrueType file under a family and style.
type Font struct {
	Family string `yaml:"family"`
	Style  string `yaml:"style"`
	Path   string `yaml:"path"`
}

// Page is one page and the items drawn on it, in order.
type Page struct {
	Orientation string `yaml:"orientation"`
	PageSize    string `yaml:"page-size"`
	Size        *Size  `yaml:"size"`
	Items       []Item `yaml:"items"`
}

// Item is a single drawing instruction. Exactly one field is set.
type Item struct {
	Font   *FontItem   `yaml:"font"`
	Style  *StyleItem  `yaml:"style"`
	Text   *TextItem   `yaml:"text"`
	Anchor *AnchorItem `yaml:"anchor"`
	Link   *LinkItem   `yaml:"link"`
	Image  *ImageItem  `yaml:"image"`
	Line   *LineItem   `yaml:"line"`
	Rect   *RectItem   `yaml:"rect"`
}

// FontItem selects a registered font.
type FontItem struct {
	Family string  `yaml:"family"`
	Style  string  `yaml:"style"`
	Size   float64 `yaml:"size"`
}

// StyleItem changes colors and line width. Colors are RGB components (0 -
// 255).
type StyleItem struct {
	Draw      []int    `yaml:"draw"`
	Fill      []int    `yaml:"fill"`
	Text      []int    `yaml:"text"`
	LineWidth *float64 `yaml:"line-width"`
}

// TextItem prints text with its baseline origin at (X, Y).
type TextItem struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Text string  `yaml:"text"`
}

// AnchorItem names a position on the current page that links can target.
type AnchorItem struct {
	Name string  `yaml:"name"`
	Y    float64 `yaml:"y"`
}

// LinkItem makes a rectangle clickable. Either URL or Target (an anchor
// name) is set.
type LinkItem struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	W      float64 `yaml:"w"`
	H      float64 `yaml:"h"`
	URL    string  `yaml:"url"`
	Target string  `yaml:"target"`
}

// ImageItem places an image file. A zero W or H keeps the aspect ratio;
// both zero uses the natural size.
type ImageItem struct {
	Path string  `yaml:"path"`
	Type string  `yaml:"type"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`
}

// LineItem draws a line between (X1, Y1) and (X2, Y2).
type LineItem struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// RectItem draws a rectangle. Op is D, F or DF.
type RectItem struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	W  float64 `yaml:"w"`
	H  float64 `yaml:"h"`
	Op string  `yaml:"op"`
}

// LoadConfig reads and parses the definition at filename with readFile,
// then applies defaults and validates it.
func LoadConfig(filename string, readFile func(string) ([]byte, error)) (*Document, error) {
	data, err := readFile(filename)
	if err != nil {
		return nil, errs.Wrapf(errs.KindStreamIO, "", err, "failed to read config file %s", filename)
	}
	doc, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	doc.SetDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseConfig parses a definition from YAML data. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, &ConfigError{Message: typeErr.Error(), Err: err}
		}
		return nil, &ConfigError{Message: err.Error(), Err: errs.Wrap(errs.KindFileFormat, "yaml", err)}
	}
	return &doc, nil
}

// ParseDate reads "YYYY-MM-DD" or "YYYY-MM-DD HH:MM[:SS]" as a UnixNano
// timestamp in UTC.
func ParseDate(s string) (int64, error) {
	parts := Convert(s).Split()
	switch len(parts) {
	case 1:
		return clock.ParseDate(parts[0])
	case 2:
		return clock.ParseDateTime(parts[0], parts[1])
	}
	return 0, errs.Errorf("invalid date %s", s)
}

// Dates returns the creation and modification dates as UnixNano
// timestamps. An empty creation date is epoch, in seconds as in
// SOURCE_DATE_EPOCH; an empty modification date is the creation date.
// A definition therefore always renders to the same bytes.
func (d *Document) Dates(epoch int64) (creation, mod int64, err error) {
	creation = epoch * 1e9
	if d.CreationDate != "" {
		if creation, err = ParseDate(d.CreationDate); err != nil {
			return 0, 0, err
		}
	}
	mod = creation
	if d.ModDate != "" {
		if mod, err = ParseDate(d.ModDate); err != nil {
			return 0, 0, err
		}
	}
	return creation, mod, nil
}

// SetDefaults fills the fields left empty.
func (d *Document) SetDefaults() {
	if d.Unit == "" {
		d.Unit = string(fpdf.MM)
	}
	if d.Orientation == "" {
		d.Orientation = "portrait"
	}
	if d.PageSize == "" && d.Size == nil {
		d.PageSize = "a4"
	}
	if d.Compression == nil {
		on := true
		d.Compression = &on
	}
}

// Validate checks the definition and returns the first problem found as a
// *ConfigError.
func (d *Document) Validate() error {
	if _, ok := fpdf.Unit(d.Unit); !ok {
		return invalid("unit", "unknown unit %s", d.Unit)
	}
	if err := validatePage("", d.Orientation, d.PageSize, d.Size); err != nil {
		return err
	}
	for _, date := range []struct{ field, value string }{
		{"creation-date", d.CreationDate}, {"mod-date", d.ModDate},
	} {
		if date.value == "" {
			continue
		}
		if _, err := ParseDate(date.value); err != nil {
			return invalid(date.field, "%s is not a date (YYYY-MM-DD [HH:MM[:SS]])", date.value)
		}
	}
	if d.CompressionLevel != nil && (*d.CompressionLevel < -1 || *d.CompressionLevel > 9) {
		return invalid("compression-level", "level %d is not between -1 and 9", *d.CompressionLevel)
	}
	if d.Display != nil && d.Display.Zoom == "" {
		return missing("display.zoom")
	}
	fonts := make(map[string]bool)
	for i, f := range d.Fonts {
		field := Sprintf("fonts[%d]", i)
		if f.Family == "" {
			return missing(field + ".family")
		}
		if f.Path == "" {
			return missing(field + ".path")
		}
		key := Convert(f.Family + "/" + f.Style).ToLower().String()
		if fonts[key] {
			return invalid(field, "font %s %s registered twice", f.Family, f.Style)
		}
		fonts[key] = true
	}
	if len(d.Pages) == 0 {
		return missing("pages")
	}

	anchors := make(map[string]bool)
	for i, p := range d.Pages {
		for j, it := range p.Items {
			if it.Anchor == nil {
				continue
			}
			field := Sprintf("pages[%d].items[%d].anchor", i, j)
			if it.Anchor.Name == "" {
				return missing(field + ".name")
			}
			if anchors[it.Anchor.Name] {
				return invalid(field, "anchor %s defined twice", it.Anchor.Name)
			}
			anchors[it.Anchor.Name] = true
		}
	}
	for i, p := range d.Pages {
		field := Sprintf("pages[%d]", i)
		if err := validatePage(field+".", p.Orientation, p.PageSize, p.Size); err != nil {
			return err
		}
		for j, it := range p.Items {
			if err := it.validate(Sprintf("%s.items[%d]", field, j), fonts, anchors); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePage(prefix, orientation, pageSize string, size *Size) error {
	if orientation != "" {
		if _, ok := fpdf.Orientation(orientation); !ok {
			return invalid(prefix+"orientation", "unknown orientation %s", orientation)
		}
	}
	if pageSize != "" && size != nil {
		return invalid(prefix+"size", "page-size and size are exclusive")
	}
	if pageSize != "" {
		if _, ok := fpdf.StdPageSize(pageSize); !ok {
			return invalid(prefix+"page-size", "unknown page size %s", pageSize)
		}
	}
	if size != nil && (size.Width <= 0 || size.Height <= 0) {
		return invalid(prefix+"size", "width and height must be positive")
	}
	return nil
}

func (it *Item) validate(field string, fonts, anchors map[string]bool) error {
	set := 0
	for _, ok := range []bool{it.Font != nil, it.Style != nil, it.Text != nil, it.Anchor != nil,
		it.Link != nil, it.Image != nil, it.Line != nil, it.Rect != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return invalid(field, "exactly one instruction must be set, found %d", set)
	}
	switch {
	case it.Font != nil:
		if it.Font.Family == "" {
			return missing(field + ".font.family")
		}
		if !fonts[Convert(it.Font.Family+"/"+it.Font.Style).ToLower().String()] {
			return invalid(field+".font", "font %s %s is not registered", it.Font.Family, it.Font.Style)
		}
		if it.Font.Size < 0 {
			return invalid(field+".font.size", "negative size")
		}
	case it.Style != nil:
		colors := []struct {
			name string
			c    []int
		}{{"draw", it.Style.Draw}, {"fill", it.Style.Fill}, {"text", it.Style.Text}}
		for _, col := range colors {
			name, c := col.name, col.c
			if c == nil {
				continue
			}
			if len(c) != 3 {
				return invalid(field+".style."+name, "a color has 3 components, found %d", len(c))
			}
			for _, v := range c {
				if v < 0 || v > 255 {
					return invalid(field+".style."+name, "component %d is not between 0 and 255", v)
				}
			}
		}
		if it.Style.LineWidth != nil && *it.Style.LineWidth < 0 {
			return invalid(field+".style.line-width", "negative width")
		}
	case it.Link != nil:
		if (it.Link.URL == "") == (it.Link.Target == "") {
			return invalid(field+".link", "exactly one of url and target must be set")
		}
		if it.Link.Target != "" && !anchors[it.Link.Target] {
			return invalid(field+".link.target", "unknown anchor %s", it.Link.Target)
		}
	case it.Image != nil:
		if it.Image.Path == "" {
			return missing(field + ".image.path")
		}
		if it.Image.W < 0 || it.Image.H < 0 {
			return invalid(field+".image", "negative size")
		}
	}
	return nil
}
