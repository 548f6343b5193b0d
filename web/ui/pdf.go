//go:build wasm
// +build wasm

package ui

import (
	"bytes"
	"syscall/js"

	"github.com/tinywasm/tfpdf"
	"github.com/tinywasm/tfpdf/config"
	"github.com/tinywasm/tfpdf/fpdf"
)

// GeneratePDF renders the definition of the page and shows the result.
func GeneratePDF() {
	def, err := config.ParseConfig([]byte(DefinitionText()))
	if err == nil {
		def.SetDefaults()
		// the browser has no file system to keep metrics in
		def.CacheDir = ""
		err = def.Validate()
	}
	if err != nil {
		ShowError(err.Error())
		return
	}

	doc, err := tfpdf.Render(def, fpdf.LogFunc(logger))
	var buf bytes.Buffer
	if err == nil {
		err = doc.Fpdf.Output(&buf)
	}
	if err != nil {
		logger("render failed:", err.Error())
		ShowError(err.Error())
		return
	}
	logger("PDF rendered,", buf.Len(), "bytes")
	ShowPDFFromBytes(buf.Bytes())
}

// ShowPDFFromBytes shows pdfBytes through a Blob URL.
func ShowPDFFromBytes(pdfBytes []byte) {
	uint8Array := js.Global().Get("Uint8Array").New(len(pdfBytes))
	js.CopyBytesToJS(uint8Array, pdfBytes)

	blob := js.Global().Get("Blob").New([]any{uint8Array}, map[string]any{"type": "application/pdf"})
	ShowPDF(js.Global().Get("URL").Call("createObjectURL", blob).String())
}
