package httpimg

import (
	"bytes"
	"io"

	"github.com/tinywasm/tfpdf/env"
	"github.com/tinywasm/tfpdf/errs"
	"github.com/tinywasm/tfpdf/fpdf"
)

// httpimgPdf is a partial interface that only implements the functions we need
// from the PDF generator to put the HTTP images on the PDF.
type httpimgPdf interface {
	GetImageInfo(imageStr string) *fpdf.ImageInfoType
	RegisterImageReader(imgName, tp string, r io.Reader) *fpdf.ImageInfoType
	SetError(err error)
}

// Register registers a HTTP image. Downloading the image from the provided URL
// and adding it to the PDF but not adding it to the page. Use Image() with the
// same URL to add the image to the page. An empty tp takes the image type
// from the URL extension.
func Register(f httpimgPdf, urlStr, tp string) (info *fpdf.ImageInfoType) {
	info = f.GetImageInfo(urlStr)
	if info != nil {
		return
	}

	data, err := env.Fetch(urlStr)
	if err != nil {
		f.SetError(errs.Wrapf(errs.KindStreamIO, "", err, "error fetching image %s", urlStr))
		return
	}
	if tp == "" {
		tp = fpdf.ImageTypeFromName(urlStr)
	}
	return f.RegisterImageReader(urlStr, tp, bytes.NewReader(data))
}
