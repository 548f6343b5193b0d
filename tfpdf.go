package tfpdf

import (
	"github.com/tinywasm/tfpdf/env"
	"github.com/tinywasm/tfpdf/fpdf"
)

type TFPDF struct {
	Fpdf   *fpdf.Fpdf
	logger func(message ...any)
}

// Log writes a message with the logger of the platform: the standard
// output on servers, the browser console under wasm.
func (tp *TFPDF) Log(message ...any) {
	if tp.logger != nil {
		tp.logger(message...)
	}
}

// New returns a document wired to the IO functions of package env. options
// are passed on to fpdf.New and take precedence over the defaults; a
// fpdf.LogFunc among them also replaces the logger of Log.
func New(options ...any) *TFPDF {
	tp := &TFPDF{logger: env.Logger}
	for _, opt := range options {
		if l, ok := opt.(fpdf.LogFunc); ok {
			tp.logger = l
		}
	}

	defaults := []any{
		fpdf.WriteFileFunc(env.FileWriter),
		fpdf.ReadFileFunc(env.FileReader),
		fpdf.FileStatFunc(env.FileStat),
		fpdf.LogFunc(tp.Log),
	}
	tp.Fpdf = fpdf.New(append(defaults, options...)...)

	return tp
}
