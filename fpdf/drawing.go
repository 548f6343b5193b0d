package fpdf

import (
	. "github.com/tinywasm/fmt"
)

// rgbColor is a color with the operator that sets it in a content stream.
type rgbColor struct {
	ir, ig, ib int
	str        string
}

// rgbColorValue returns a color whose operator is grayStr for gray levels
// and fullStr otherwise.
func (f *Fpdf) rgbColorValue(r, g, b int, grayStr, fullStr string) rgbColor {
	c := rgbColor{ir: r, ig: g, ib: b}
	if r == g && r == b {
		c.str = Sprintf("%.3f %s", float64(r)/255, grayStr)
	} else {
		c.str = Sprintf("%.3f %.3f %.3f %s", float64(r)/255, float64(g)/255, float64(b)/255, fullStr)
	}
	return c
}

// SetDrawColor defines the color used for all drawing operations (lines and
// rectangles). It is expressed in RGB components (0 - 255). The method can be
// called before the first page is created. The value is retained from page to
// page.
func (f *Fpdf) SetDrawColor(r, g, b int) {
	f.drawColor = f.rgbColorValue(r, g, b, "G", "RG")
	if f.page > 0 && f.state == statePage {
		f.out(f.drawColor.str)
	}
}

// GetDrawColor returns the most recently set draw color as RGB components (0 -
// 255).
func (f *Fpdf) GetDrawColor() (int, int, int) {
	return f.drawColor.ir, f.drawColor.ig, f.drawColor.ib
}

// SetFillColor defines the color used for all filling operations. It is
// expressed in RGB components (0 -255). The method can be called before the
// first page is created and the value is retained from page to page.
func (f *Fpdf) SetFillColor(r, g, b int) {
	f.fillColor = f.rgbColorValue(r, g, b, "g", "rg")
	f.colorFlag = f.fillColor.str != f.textColor.str
	if f.page > 0 && f.state == statePage {
		f.out(f.fillColor.str)
	}
}

// GetFillColor returns the most recently set fill color as RGB components (0 -
// 255).
func (f *Fpdf) GetFillColor() (int, int, int) {
	return f.fillColor.ir, f.fillColor.ig, f.fillColor.ib
}

// SetTextColor defines the color used for text. It is expressed in RGB
// components (0 - 255). The method can be called before the first page is
// created. The value is retained from page to page.
func (f *Fpdf) SetTextColor(r, g, b int) {
	f.textColor = f.rgbColorValue(r, g, b, "g", "rg")
	f.colorFlag = f.fillColor.str != f.textColor.str
}

// GetTextColor returns the most recently set text color as RGB components (0 -
// 255).
func (f *Fpdf) GetTextColor() (int, int, int) {
	return f.textColor.ir, f.textColor.ig, f.textColor.ib
}

// SetLineWidth defines the line width. By default, the value equals 0.2 mm.
// The method can be called before the first page is created. The value is
// retained from page to page.
func (f *Fpdf) SetLineWidth(width float64) {
	f.lineWidth = width
	if f.page > 0 && f.state == statePage {
		f.outf("%.2f w", width*f.k)
	}
}

// GetLineWidth returns the current line thickness.
func (f *Fpdf) GetLineWidth() float64 {
	return f.lineWidth
}

// restoreGraphics repeats the line width and colors at the top of a new
// page, whose graphics state starts from the defaults.
func (f *Fpdf) restoreGraphics() {
	f.outf("%.2f w", f.lineWidth*f.k)
	if f.drawColor.str != "0 G" {
		f.out(f.drawColor.str)
	}
	if f.fillColor.str != "0 g" {
		f.out(f.fillColor.str)
	}
}

// Line draws a line between points (x1, y1) and (x2, y2) using the current
// draw color and line width.
func (f *Fpdf) Line(x1, y1, x2, y2 float64) {
	if !f.writable() {
		return
	}
	f.outf("%.2f %.2f m %.2f %.2f l S", x1*f.k, (f.h-y1)*f.k, x2*f.k, (f.h-y2)*f.k)
}

// fillDrawOp corrects path painting operators
func fillDrawOp(styleStr string) (opStr string) {
	switch Convert(styleStr).ToUpper().String() {
	case "", "D":
		// Stroke the path.
		opStr = "S"
	case "F":
		// fill the path, using the nonzero winding number rule
		opStr = "f"
	case "F*":
		// fill the path, using the even-odd rule
		opStr = "f*"
	case "FD", "DF":
		// fill and then stroke the path, using the nonzero winding number rule
		opStr = "B"
	case "FD*", "DF*":
		// fill and then stroke the path, using the even-odd rule
		opStr = "B*"
	default:
		opStr = styleStr
	}
	return
}

// Rect outputs a rectangle of width w and height h with the upper left corner
// positioned at point (x, y).
//
// It can be drawn (border only), filled (with no border) or both. styleStr can
// be "F" for filled, "D" for outlined only, or "DF" or "FD" for outlined and
// filled. An empty string will be replaced with "D".
func (f *Fpdf) Rect(x, y, w, h float64, styleStr string) {
	if !f.writable() {
		return
	}
	f.outf("%.2f %.2f %.2f %.2f re %s", x*f.k, (f.h-y)*f.k, w*f.k, -h*f.k, fillDrawOp(styleStr))
}
