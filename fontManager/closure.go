package fontManager

import (
	"sort"

	"github.com/tinywasm/tfpdf/errs"
)

// composite glyph component flags
const (
	argsAreWords   = 0x0001
	weHaveAScale   = 0x0008
	moreComponents = 0x0020
	xAndYScale     = 0x0040
	twoByTwo       = 0x0080
)

// GlyphClosure is the set of glyphs a subset must carry.
type GlyphClosure struct {
	// Glyphs lists original glyph ids in dense order: Glyphs[dense] = original.
	Glyphs []uint16
	// Dense maps an original glyph id to its id in the subset.
	Dense map[uint16]uint16
}

// Len returns the number of glyphs in the closure.
func (c *GlyphClosure) Len() int { return len(c.Glyphs) }

// glyphData returns the glyf bytes of glyph id.
func glyphData(gt *GlyphTable, glyf []byte, id uint16) ([]byte, error) {
	if int(id) >= gt.NumGlyphs() {
		return nil, errs.FileFormat("glyf", "glyph %d out of range (%d glyphs)", id, gt.NumGlyphs())
	}
	start, end := gt.Loca[id], gt.Loca[id+1]
	if end < start || int(end) > len(glyf) {
		return nil, errs.FileFormat("glyf", "glyph %d data [%d:%d] outside table", id, start, end)
	}
	return glyf[start:end], nil
}

// isComposite reports whether glyph data starts with a negative contour count.
func isComposite(data []byte) bool {
	return len(data) >= 2 && int16(uint16(data[0])<<8|uint16(data[1])) < 0
}

// walkComponents calls fn with the byte position of each component's
// glyph index field and its value. data must be a composite glyph.
func walkComponents(data []byte, fn func(pos int, glyph uint16) error) error {
	pos := 10 // numberOfContours and bounding box
	for {
		flags, ok1 := u16(data, pos)
		glyph, ok2 := u16(data, pos+2)
		if !ok1 || !ok2 {
			return errs.FileFormat("glyf", "truncated composite glyph at byte %d", pos)
		}
		if err := fn(pos+2, glyph); err != nil {
			return err
		}
		pos += 4
		if flags&argsAreWords != 0 {
			pos += 4
		} else {
			pos += 2
		}
		switch {
		case flags&weHaveAScale != 0:
			pos += 2
		case flags&xAndYScale != 0:
			pos += 4
		case flags&twoByTwo != 0:
			pos += 8
		}
		if flags&moreComponents == 0 {
			return nil
		}
	}
}

// ResolveGlyphs computes the glyphs needed to draw request: .notdef, the
// glyph of every covered codepoint and, transitively, every component of
// a composite glyph. Dense ids follow ascending original ids.
func ResolveGlyphs(gt *GlyphTable, glyf []byte, request []rune) (*GlyphClosure, error) {
	visited := map[uint16]bool{0: true}
	queue := []uint16{0}

	runes := append([]rune(nil), request...)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	for _, r := range runes {
		if g, ok := gt.Lookup(r); ok && !visited[g] {
			visited[g] = true
			queue = append(queue, g)
		}
	}

	enqueue := func(_ int, component uint16) error {
		if int(component) >= gt.NumGlyphs() {
			return errs.FileFormat("glyf", "component glyph %d out of range", component)
		}
		if !visited[component] {
			visited[component] = true
			queue = append(queue, component)
		}
		return nil
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		data, err := glyphData(gt, glyf, id)
		if err != nil {
			return nil, err
		}
		if !isComposite(data) {
			continue
		}
		if err = walkComponents(data, enqueue); err != nil {
			return nil, err
		}
	}

	closure := &GlyphClosure{
		Glyphs: make([]uint16, 0, len(visited)),
		Dense:  make(map[uint16]uint16, len(visited)),
	}
	for id := range visited {
		closure.Glyphs = append(closure.Glyphs, id)
	}
	sort.Slice(closure.Glyphs, func(i, j int) bool { return closure.Glyphs[i] < closure.Glyphs[j] })
	for dense, id := range closure.Glyphs {
		closure.Dense[id] = uint16(dense)
	}
	return closure, nil
}
