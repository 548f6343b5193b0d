package fpdf

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/errs"
)

// ImageParser turns an encoded image into the record the document embeds.
// The document treats the returned data as opaque.
type ImageParser interface {
	ParseImage(r io.Reader) (*ImageInfoType, error)
}

// ImageParserFunc adapts a function to ImageParser.
type ImageParserFunc func(r io.Reader) (*ImageInfoType, error)

// ParseImage calls fn(r).
func (fn ImageParserFunc) ParseImage(r io.Reader) (*ImageInfoType, error) {
	return fn(r)
}

// RegisterImageParser sets the parser used for images of type tp, such as
// "png". It replaces any parser registered before, built-in ones included.
func (f *Fpdf) RegisterImageParser(tp string, p ImageParser) {
	f.imageParsers[Convert(tp).ToLower().String()] = p
}

// ImageTypeFromName returns the image type of fileStr taken from its
// extension, "jpeg" normalized to "jpg".
func ImageTypeFromName(fileStr string) string {
	tp := Convert(path.Ext(fileStr)).ToLower().String()
	if len(tp) > 0 {
		tp = tp[1:]
	}
	if tp == "jpeg" {
		tp = "jpg"
	}
	return tp
}

// RegisterImage reads fileStr through the document's ReadFileFunc and
// registers it under its file name. tp is the image type; empty means the
// file extension.
func (f *Fpdf) RegisterImage(fileStr, tp string) (info *ImageInfoType) {
	if f.err != nil {
		return nil
	}
	if info, ok := f.images[fileStr]; ok {
		return info
	}
	data, err := f.readFile(fileStr)
	if err != nil {
		f.err = errs.Wrap(errs.KindStreamIO, "read "+fileStr, err)
		return nil
	}
	if tp == "" {
		tp = ImageTypeFromName(fileStr)
	}
	return f.RegisterImageReader(fileStr, tp, bytes.NewReader(data))
}

// RegisterImageReader parses an image of type tp from r and registers it
// under imgName.
func (f *Fpdf) RegisterImageReader(imgName, tp string, r io.Reader) (info *ImageInfoType) {
	if f.err != nil {
		return nil
	}
	if info, ok := f.images[imgName]; ok {
		return info
	}
	p, ok := f.imageParsers[Convert(tp).ToLower().String()]
	if !ok {
		f.err = errs.Errorf("unsupported image type: %s", tp)
		return nil
	}
	info, err := p.ParseImage(r)
	if err != nil {
		f.err = err
		return nil
	}
	return f.RegisterImageInfo(imgName, info)
}

// RegisterImageInfo registers an already parsed image under imgName.
// Identical images registered under several names are embedded once.
func (f *Fpdf) RegisterImageInfo(imgName string, info *ImageInfoType) *ImageInfoType {
	if f.err != nil {
		return nil
	}
	if info == nil || info.W <= 0 || info.H <= 0 || info.BPC <= 0 || info.ColorSpace == "" {
		f.SetErrorf("image %s: incomplete image information", imgName)
		return nil
	}
	if info.ColorSpace == "Indexed" && len(info.Palette) < 3 {
		f.SetErrorf("image %s: indexed image without palette", imgName)
		return nil
	}
	id, err := generateImageID(info)
	if err != nil {
		f.err = err
		return nil
	}
	for _, other := range f.images {
		if other.i == id {
			f.images[imgName] = other
			return other
		}
	}
	info.i = id
	info.scale = f.k
	if len(info.SoftMask) > 0 {
		f.requireVersion(pdfVers1_4)
	}
	f.images[imgName] = info
	return info
}

// GetImageInfo returns information about the registered image specified by
// imageStr. If the image has not been registered, nil is returned.
func (f *Fpdf) GetImageInfo(imageStr string) (info *ImageInfoType) {
	return f.images[imageStr]
}

// Image puts a registered image, or the image file imageNameStr, in the
// current page at (x, y), the upper left corner. With w and h zero the
// image is placed at its size at its DPI; with one of them zero the other
// follows the aspect ratio.
func (f *Fpdf) Image(imageNameStr string, x, y, w, h float64) {
	if f.err != nil {
		return
	}
	if !f.writable() {
		return
	}
	info := f.RegisterImage(imageNameStr, "")
	if f.err != nil {
		return
	}
	if w == 0 && h == 0 {
		w, h = info.Extent()
	}
	if w == 0 {
		w = h * info.W / info.H
	}
	if h == 0 {
		h = w * info.H / info.W
	}
	f.outf("q %.5f 0 0 %.5f %.5f %.5f cm /I%s Do Q", w*f.k, h*f.k, x*f.k, (f.h-(y+h))*f.k, info.i)
}

// uniqueImages returns each embedded image once, by name order.
func (f *Fpdf) uniqueImages() []*ImageInfoType {
	var list []*ImageInfoType
	seen := make(map[string]bool)
	for _, name := range sortedKeys(f.images) {
		info := f.images[name]
		if seen[info.i] {
			continue
		}
		seen[info.i] = true
		list = append(list, info)
	}
	return list
}

func (f *Fpdf) putimages() {
	for _, info := range f.uniqueImages() {
		if f.err != nil {
			return
		}
		f.putimage(info)
	}
}

// putimage writes the image XObject, then its soft mask XObject and its
// palette, each when present, in that order.
func (f *Fpdf) putimage(info *ImageInfoType) {
	info.n = f.newobj()
	smask := info.n + 1
	palette := info.n + 1
	if len(info.SoftMask) > 0 {
		palette++
	}
	data, filter := info.Data, info.Filter
	if filter == "" {
		var ok bool
		if data, ok = f.compressed(data); ok {
			filter = "FlateDecode"
		}
	}

	f.out("<</Type /XObject")
	f.out("/Subtype /Image")
	f.outf("/Width %d", int(info.W))
	f.outf("/Height %d", int(info.H))
	if info.ColorSpace == "Indexed" {
		f.outf("/ColorSpace [/Indexed /DeviceRGB %d %s]", len(info.Palette)/3-1, objRef(palette))
	} else {
		f.out("/ColorSpace /" + info.ColorSpace)
		if info.ColorSpace == "DeviceCMYK" {
			f.out("/Decode [1 0 1 0 1 0 1 0]")
		}
	}
	f.outf("/BitsPerComponent %d", info.BPC)
	if filter != "" {
		f.out("/Filter /" + filter)
	}
	if info.DecodeParms != "" {
		f.outf("/DecodeParms <<%s>>", info.DecodeParms)
	}
	if len(info.Trns) > 0 {
		var trns fmtBuffer
		for _, v := range info.Trns {
			trns.printf("%d %d ", v, v)
		}
		f.outf("/Mask [%s]", trns.String())
	}
	if len(info.SoftMask) > 0 {
		f.outf("/SMask %s", objRef(smask))
	}
	f.outf("/Length %d>>", len(data))
	f.putstream(data)
	f.out("endobj")

	// Soft mask
	if len(info.SoftMask) > 0 {
		f.putimage(&ImageInfoType{
			W:          info.W,
			H:          info.H,
			ColorSpace: "DeviceGray",
			BPC:        8,
			Data:       info.SoftMask,
			scale:      info.scale,
		})
	}
	// Palette
	if info.ColorSpace == "Indexed" {
		f.newobj()
		f.putStreamObject("", info.Palette)
		f.expectObj("putimage", palette)
	}
}

// jpegParser passes JPEG data through as DCTDecode.
type jpegParser struct{}

func (jpegParser) ParseImage(r io.Reader) (*ImageInfoType, error) {
	var data bytes.Buffer
	if _, err := data.ReadFrom(r); err != nil {
		return nil, errs.Wrap(errs.KindStreamIO, "jpeg", err)
	}
	config, err := jpeg.DecodeConfig(bytes.NewReader(data.Bytes()))
	if err != nil {
		return nil, errs.Wrap(errs.KindFileFormat, "jpeg", err)
	}
	info := &ImageInfoType{
		W:      float64(config.Width),
		H:      float64(config.Height),
		Filter: "DCTDecode",
		BPC:    8,
		Data:   data.Bytes(),
	}
	switch config.ColorModel {
	case color.GrayModel:
		info.ColorSpace = "DeviceGray"
	case color.YCbCrModel:
		info.ColorSpace = "DeviceRGB"
	case color.CMYKModel:
		info.ColorSpace = "DeviceCMYK"
	default:
		return nil, errs.FileFormat("jpeg", "unsupported color space")
	}
	return info, nil
}

// decodedParser decodes PNG and GIF images to raw samples: gray or RGB
// plus a soft mask when any pixel is not opaque.
type decodedParser struct{}

func (decodedParser) ParseImage(r io.Reader) (*ImageInfoType, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errs.Wrap(errs.KindFileFormat, "image", err)
	}
	bounds := img.Bounds()
	gray := img.ColorModel() == color.GrayModel || img.ColorModel() == color.Gray16Model
	channels := 3
	info := &ImageInfoType{
		W:          float64(bounds.Dx()),
		H:          float64(bounds.Dy()),
		ColorSpace: "DeviceRGB",
		BPC:        8,
	}
	if gray {
		channels = 1
		info.ColorSpace = "DeviceGray"
	}
	pixels := bounds.Dx() * bounds.Dy()
	info.Data = make([]byte, 0, pixels*channels)
	alpha := make([]byte, 0, pixels)
	opaque := true
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if gray {
				info.Data = append(info.Data, c.R)
			} else {
				info.Data = append(info.Data, c.R, c.G, c.B)
			}
			alpha = append(alpha, c.A)
			if c.A != 0xFF {
				opaque = false
			}
		}
	}
	if !opaque {
		info.SoftMask = alpha
	}
	return info, nil
}
