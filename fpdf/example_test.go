package fpdf_test

import (
	"bytes"

	"github.com/tinywasm/tfpdf/fpdf"
)

// ExampleFpdf_AddUTF8Font writes a page of text in an embedded subset of
// Go Regular.
func ExampleFpdf_AddUTF8Font() {
	pdf := fpdf.New(fpdf.MM, fpdf.A4, fpdf.ReadFileFunc(readTestFile))
	pdf.AddUTF8Font("go", "", "fonts/goregular.ttf")
	pdf.SetTitle("Grüße")
	pdf.AddPage()
	pdf.SetFont("go", "", 16)
	pdf.Text(20, 30, "Ünïcödé text, subset on output")
	pdf.SetDrawColor(0, 0, 128)
	pdf.Line(20, 32, 120, 32)

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	Summary(err, buf.Bytes())
	// Output:
	// Successfully generated pdf, header %PDF-1.3
}

// ExampleFpdf_SetDisplayMode shows that two page layouts need PDF 1.5.
func ExampleFpdf_SetDisplayMode() {
	pdf := fpdf.New(fpdf.ReadFileFunc(readTestFile))
	pdf.SetDisplayMode("fullpage", "TwoPageLeft")
	pdf.AddPage()

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	Summary(err, buf.Bytes())
	// Output:
	// Successfully generated pdf, header %PDF-1.5
}
