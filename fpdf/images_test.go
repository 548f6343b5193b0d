package fpdf_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinywasm/tfpdf/fpdf"
)

// newImageDoc returns an uncompressed document without fonts, so the
// first image XObject is object 5.
func newImageDoc(options ...any) *fpdf.Fpdf {
	options = append(options, fpdf.ReadFileFunc(readTestFile))
	pdf := fpdf.New(options...)
	pdf.SetCompression(false)
	pdf.SetCreationDate(testDate)
	pdf.SetModificationDate(testDate)
	return pdf
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func alphaImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 128})
	return img
}

var imageRefRe = regexp.MustCompile(`/I([0-9a-f]{40}) Do`)

func TestImagePNGSoftMask(t *testing.T) {
	pdf := newImageDoc()
	testFiles["images/dot.png"] = encodePNG(t, alphaImage())
	pdf.AddPage()
	pdf.Image("images/dot.png", 10, 10, 20, 0)
	if got, want := pdf.GetPdfVersion(), "1.4"; got != want {
		t.Errorf("soft mask version got=%s, want=%s", got, want)
	}
	doc := output(t, pdf)

	if got := findObject(t, doc, 3).dict; !strings.Contains(got, "/Group <</Type /Group /S /Transparency") {
		t.Errorf("1.4 page lacks transparency group: %q", got)
	}
	content := string(findObject(t, doc, 4).data(t))
	ref := imageRefRe.FindStringSubmatch(content)
	if ref == nil {
		t.Fatalf("content does not draw the image: %q", content)
	}
	if want := "q 56.69291 0 0 56.69291 28.34646 756.85063 cm /I" + ref[1] + " Do Q"; !strings.Contains(content, want) {
		t.Errorf("content got %q, want %q", content, want)
	}
	if got, want := findObject(t, doc, 2).dict, "/I"+ref[1]+" 5 0 R"; !strings.Contains(got, want) {
		t.Errorf("resource dict got %q, want %q", got, want)
	}

	img := findObject(t, doc, 5)
	for _, want := range []string{"/Subtype /Image", "/Width 2", "/Height 2", "/ColorSpace /DeviceRGB", "/BitsPerComponent 8", "/SMask 6 0 R"} {
		if !strings.Contains(img.dict, want) {
			t.Errorf("image dict lacks %q: %q", want, img.dict)
		}
	}
	wantRGB := []byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 255}
	if diff := cmp.Diff(wantRGB, img.stream); diff != "" {
		t.Errorf("image samples mismatch (-want +got):\n%s", diff)
	}
	mask := findObject(t, doc, 6)
	if !strings.Contains(mask.dict, "/ColorSpace /DeviceGray") {
		t.Errorf("soft mask dict got %q", mask.dict)
	}
	if diff := cmp.Diff([]byte{255, 255, 255, 128}, mask.stream); diff != "" {
		t.Errorf("soft mask mismatch (-want +got):\n%s", diff)
	}
}

func TestImageJPEG(t *testing.T) {
	tests := []struct {
		name       string
		img        image.Image
		colorSpace string
	}{
		{"rgb", image.NewRGBA(image.Rect(0, 0, 3, 2)), "/ColorSpace /DeviceRGB"},
		{"gray", image.NewGray(image.Rect(0, 0, 3, 2)), "/ColorSpace /DeviceGray"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeJPEG(t, tt.img)
			pdf := newImageDoc()
			pdf.RegisterImageReader("photo", "jpg", bytes.NewReader(data))
			pdf.AddPage()
			pdf.Image("photo", 0, 0, 0, 30)
			doc := output(t, pdf)

			img := findObject(t, doc, 5)
			for _, want := range []string{"/Filter /DCTDecode", "/Width 3", "/Height 2", tt.colorSpace} {
				if !strings.Contains(img.dict, want) {
					t.Errorf("image dict lacks %q: %q", want, img.dict)
				}
			}
			if !bytes.Equal(img.stream, data) {
				t.Error("JPEG data was not passed through")
			}
			if got := pdf.GetPdfVersion(); got != "1.3" {
				t.Errorf("opaque image raised version to %s", got)
			}
		})
	}
}

func TestImageGrayPNG(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		gray.SetGray(x, 0, color.Gray{uint8(x * 60)})
	}
	pdf := newImageDoc()
	info := pdf.RegisterImageReader("gray", "png", bytes.NewReader(encodePNG(t, gray)))
	if info == nil {
		t.Fatal(pdf.Error())
	}
	if got, want := info.ColorSpace, "DeviceGray"; got != want {
		t.Errorf("color space got=%s, want=%s", got, want)
	}
	if diff := cmp.Diff([]byte{0, 60, 120, 180}, info.Data); diff != "" {
		t.Errorf("gray samples mismatch (-want +got):\n%s", diff)
	}
	if info.SoftMask != nil {
		t.Error("opaque image has a soft mask")
	}
}

func TestImageGIF(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.RGBA{10, 20, 30, 255}, color.RGBA{40, 50, 60, 255}})
	pal.SetColorIndex(1, 0, 1)
	var buf bytes.Buffer
	if err := gif.Encode(&buf, pal, nil); err != nil {
		t.Fatal(err)
	}
	pdf := newImageDoc()
	info := pdf.RegisterImageReader("anim.gif", "gif", &buf)
	if info == nil {
		t.Fatal(pdf.Error())
	}
	if diff := cmp.Diff([]byte{10, 20, 30, 40, 50, 60}, info.Data); diff != "" {
		t.Errorf("gif samples mismatch (-want +got):\n%s", diff)
	}
}

func TestImageIndexed(t *testing.T) {
	pdf := newImageDoc()
	pdf.RegisterImageInfo("indexed", &fpdf.ImageInfoType{
		W: 2, H: 1, ColorSpace: "Indexed", BPC: 8,
		Palette: []byte{0, 0, 0, 255, 255, 255},
		Trns:    []int{0},
		Data:    []byte{0, 1},
	})
	pdf.AddPage()
	pdf.Image("indexed", 0, 0, 10, 5)
	doc := output(t, pdf)

	img := findObject(t, doc, 5).dict
	for _, want := range []string{"/ColorSpace [/Indexed /DeviceRGB 1 6 0 R]", "/Mask [0 0 ]"} {
		if !strings.Contains(img, want) {
			t.Errorf("image dict lacks %q: %q", want, img)
		}
	}
	if diff := cmp.Diff([]byte{0, 0, 0, 255, 255, 255}, findObject(t, doc, 6).stream); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestImageDeduplicated(t *testing.T) {
	data := encodePNG(t, alphaImage())
	pdf := newImageDoc()
	a := pdf.RegisterImageReader("a", "png", bytes.NewReader(data))
	b := pdf.RegisterImageReader("b", "png", bytes.NewReader(data))
	if a == nil || a != b {
		t.Fatalf("identical images registered twice: %p %p", a, b)
	}
	pdf.AddPage()
	pdf.Image("a", 0, 0, 10, 0)
	pdf.Image("b", 20, 0, 10, 0)
	doc := output(t, pdf)
	if got := bytes.Count(doc, []byte("/Subtype /Image")); got != 2 {
		t.Errorf("got %d image XObjects, want the image and its mask", got)
	}
}

func TestImageNaturalSize(t *testing.T) {
	pdf := newImageDoc(fpdf.POINT)
	info := pdf.RegisterImageReader("dot", "png", bytes.NewReader(encodePNG(t, alphaImage())))
	if wd, ht := info.Extent(); !floatNear(wd, 2) || !floatNear(ht, 2) {
		t.Errorf("extent at 72 dpi got %v x %v", wd, ht)
	}
	info.SetDpi(144)
	if wd := info.Width(); !floatNear(wd, 1) {
		t.Errorf("width at 144 dpi got %v", wd)
	}
	pdf.AddPage()
	pdf.Image("dot", 0, 0, 0, 0)
	doc := output(t, pdf)
	if content := string(findObject(t, doc, 4).data(t)); !strings.Contains(content, "q 1.00000 0 0 1.00000 0.00000 ") {
		t.Errorf("natural size not used: %q", content)
	}
}

func TestImageErrors(t *testing.T) {
	pdf := newImageDoc()
	pdf.RegisterImageReader("x", "bmp", bytes.NewReader(nil))
	if pdf.Ok() {
		t.Error("unsupported image type accepted")
	}

	pdf = newImageDoc()
	pdf.AddPage()
	pdf.Image("images/missing.png", 0, 0, 10, 10)
	if pdf.Ok() {
		t.Error("missing image file accepted")
	}

	pdf = newImageDoc()
	pdf.RegisterImageReader("broken", "png", strings.NewReader("not a png"))
	if pdf.Ok() {
		t.Error("broken png accepted")
	}

	pdf = newImageDoc()
	pdf.RegisterImageInfo("empty", &fpdf.ImageInfoType{})
	if pdf.Ok() {
		t.Error("empty image information accepted")
	}
}

func TestImageParserOverride(t *testing.T) {
	pdf := newImageDoc()
	pdf.RegisterImageParser("RAW", fpdf.ImageParserFunc(func(r io.Reader) (*fpdf.ImageInfoType, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return &fpdf.ImageInfoType{W: float64(len(data)), H: 1, ColorSpace: "DeviceGray", BPC: 8, Data: data}, nil
	}))
	info := pdf.RegisterImageReader("line", "raw", strings.NewReader("\x00\x80\xff"))
	if info == nil {
		t.Fatal(pdf.Error())
	}
	if got, want := info.W, 3.0; got != want {
		t.Errorf("custom parser width got=%v, want=%v", got, want)
	}
	if got := pdf.GetImageInfo("line"); got != info {
		t.Error("GetImageInfo does not return the registered image")
	}
	if got := fpdf.ImageTypeFromName("photos/Summer.JPEG"); got != "jpg" {
		t.Errorf("ImageTypeFromName got %q", got)
	}
}
