package fpdf_test

import (
	"math"
	"testing"
	"time"

	"github.com/tinywasm/tfpdf/fpdf"
)

func floatNear(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestGetAuthor(t *testing.T) {
	pdf := NewDocPdfTest()
	pdf.SetAuthor("John Doe")

	if got, want := pdf.GetAuthor(), "John Doe"; got != want {
		t.Errorf("invalid author: got=%v, want=%v", got, want)
	}
}

func TestGetMetadata(t *testing.T) {
	pdf := NewDocPdfTest()
	pdf.SetTitle("Title")
	pdf.SetSubject("Subject")
	pdf.SetKeywords("invoice August")
	pdf.SetCreator("Creator")
	pdf.SetProducer("Producer")
	pdf.SetLang("de-CH")

	tests := []struct {
		name      string
		got, want string
	}{
		{"title", pdf.GetTitle(), "Title"},
		{"subject", pdf.GetSubject(), "Subject"},
		{"keywords", pdf.GetKeywords(), "invoice August"},
		{"creator", pdf.GetCreator(), "Creator"},
		{"producer", pdf.GetProducer(), "Producer"},
		{"lang", pdf.GetLang(), "de-CH"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("invalid %s: got=%v, want=%v", tt.name, tt.got, tt.want)
		}
	}
}

func TestGetCompression(t *testing.T) {
	pdf := NewDocPdfTest()
	if got, want := pdf.GetCompression(), false; got != want {
		t.Errorf("invalid compression: got=%v, want=%v", got, want)
	}
	pdf.SetCompression(true)
	if got, want := pdf.GetCompression(), true; got != want {
		t.Errorf("invalid compression: got=%v, want=%v", got, want)
	}
	pdf.SetCompressionLevel(fpdf.NoCompression)
	if got, want := pdf.GetCompression(), false; got != want {
		t.Errorf("invalid compression: got=%v, want=%v", got, want)
	}
}

func TestGetConversionRatio(t *testing.T) {
	tests := []struct {
		unit any
		want float64
	}{
		{fpdf.POINT, 1},
		{fpdf.MM, 72 / 25.4},
		{fpdf.CM, 72 / 2.54},
		{fpdf.IN, 72},
	}
	for _, tt := range tests {
		pdf := fpdf.New(tt.unit)
		if got := pdf.GetConversionRatio(); !floatNear(got, tt.want) {
			t.Errorf("%v: invalid ratio: got=%v, want=%v", tt.unit, got, tt.want)
		}
	}
}

func TestGetCreationDate(t *testing.T) {
	pdf := NewDocPdfTest()
	date := time.Date(2023, 5, 4, 3, 2, 1, 0, time.UTC)
	pdf.SetCreationDate(date)
	pdf.SetModificationDate(date.Add(time.Hour))

	if got, want := pdf.GetCreationDate(), date; !got.Equal(want) {
		t.Errorf("invalid creation date: got=%v, want=%v", got, want)
	}
	if got, want := pdf.GetModificationDate(), date.Add(time.Hour); !got.Equal(want) {
		t.Errorf("invalid modification date: got=%v, want=%v", got, want)
	}
}

func TestGetFontSize(t *testing.T) {
	pdf := NewDocPdfTest(fpdf.POINT)
	pdf.SetFont("go", "", 17)

	pt, u := pdf.GetFontSize()
	if got, want := pt, 17.0; !floatNear(got, want) {
		t.Errorf("invalid font size in points: got=%v, want=%v", got, want)
	}
	if got, want := u, 17.0; !floatNear(got, want) {
		t.Errorf("invalid font size in units: got=%v, want=%v", got, want)
	}
	pdf.SetFontSize(9)
	if pt, _ := pdf.GetFontSize(); !floatNear(pt, 9) {
		t.Errorf("invalid font size after SetFontSize: got=%v, want=9", pt)
	}
}

func TestGetStringWidth(t *testing.T) {
	pdf := NewDocPdfTest(fpdf.POINT)
	if got := pdf.GetStringWidth("no font"); got != 0 {
		t.Errorf("width without font: got=%v, want=0", got)
	}
	pdf.SetFont("go", "", 10)
	one := pdf.GetStringWidth("i")
	if one <= 0 {
		t.Fatalf("invalid width of i: %v", one)
	}
	if got, want := pdf.GetStringWidth("iii"), 3*one; !floatNear(got, want) {
		t.Errorf("invalid width: got=%v, want=%v", got, want)
	}
}

func TestGetColors(t *testing.T) {
	pdf := NewDocPdfTest()
	pdf.SetDrawColor(1, 2, 3)
	pdf.SetFillColor(4, 5, 6)
	pdf.SetTextColor(7, 8, 9)

	check := func(name string, r, g, b int, want [3]int) {
		if got := [3]int{r, g, b}; got != want {
			t.Errorf("invalid %s color: got=%v, want=%v", name, got, want)
		}
	}
	r, g, b := pdf.GetDrawColor()
	check("draw", r, g, b, [3]int{1, 2, 3})
	r, g, b = pdf.GetFillColor()
	check("fill", r, g, b, [3]int{4, 5, 6})
	r, g, b = pdf.GetTextColor()
	check("text", r, g, b, [3]int{7, 8, 9})
}

func TestGetLineWidth(t *testing.T) {
	pdf := NewDocPdfTest()
	if got, want := pdf.GetLineWidth(), 0.567*25.4/72; !floatNear(got, want) {
		t.Errorf("invalid default line width: got=%v, want=%v", got, want)
	}
	pdf.SetLineWidth(2)
	if got, want := pdf.GetLineWidth(), 2.0; !floatNear(got, want) {
		t.Errorf("invalid line width: got=%v, want=%v", got, want)
	}
}

func TestGetPageNo(t *testing.T) {
	pdf := NewDocPdfTest()
	if got, want := pdf.PageNo(), 0; got != want {
		t.Errorf("invalid page before AddPage: got=%v, want=%v", got, want)
	}
	pdf.AddPage()
	pdf.AddPage()
	if got, want := pdf.PageNo(), 2; got != want {
		t.Errorf("invalid page: got=%v, want=%v", got, want)
	}
}

func TestGetPageSizeDefault(t *testing.T) {
	pdf := NewDocPdfTest(fpdf.Landscape, fpdf.POINT, fpdf.Letter)
	wd, ht, unit := pdf.PageSize(0)
	if !floatNear(wd, fpdf.Letter.Ht) || !floatNear(ht, fpdf.Letter.Wd) || unit != "pt" {
		t.Errorf("invalid default page size: got=%v %v %v", wd, ht, unit)
	}
}

func TestGetJavascript(t *testing.T) {
	pdf := NewDocPdfTest()
	if got := pdf.GetJavascript(); got != "" {
		t.Errorf("invalid javascript before set: got=%q", got)
	}
	pdf.SetJavascript("print(true);")
	if got, want := pdf.GetJavascript(), "print(true);"; got != want {
		t.Errorf("invalid javascript: got=%q, want=%q", got, want)
	}
}

func TestStdPageSize(t *testing.T) {
	size, ok := fpdf.StdPageSize("A4")
	if !ok || size != fpdf.A4 {
		t.Errorf("invalid A4: got=%v %v", size, ok)
	}
	if _, ok := fpdf.StdPageSize("B12"); ok {
		t.Error("unknown page size accepted")
	}
}
