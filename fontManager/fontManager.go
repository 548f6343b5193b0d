package fontManager

import (
	"strings"
	"time"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/errs"
)

// ReadFileFunc reads a whole font file.
type ReadFileFunc func(filePath string) ([]byte, error)

// StatFunc returns the size and modification time of a font file.
type StatFunc func(filePath string) (size int64, modTime time.Time, err error)

// FontManager manages the loading and accessing of fonts for the PDF document.
type FontManager struct {
	fontsPath    []string // List of font paths/URLs to load
	fontFamilies []FontFamily
	readFile     ReadFileFunc
	stat         StatFunc
	cache        *MetricsCache
	log          func(...any) // logging function, can be nil
}

// NewFontManager creates and initializes a new FontManager.
//
// fontsPath: slice of font file paths or URLs used by LoadFonts.
//
// For WASM builds, use URLs:
//
//	fontsPath := []string{"fonts/arial.ttf", "fonts/arial-bold.ttf"}
//
// For Server/Desktop builds, use file paths:
//
//	fontsPath := []string{"./fonts/arial.ttf", "/usr/share/fonts/truetype/arial.ttf"}
//
// logger: optional logging function. Pass nil to disable logging.
//
// options may hold a ReadFileFunc, a StatFunc and a *MetricsCache. Without
// a ReadFileFunc the platform loader is used; without a StatFunc or a
// cache, metrics are parsed on every Load.
func NewFontManager(fontsPath []string, logger func(...any), options ...any) *FontManager {
	fm := &FontManager{
		fontsPath:    fontsPath,
		fontFamilies: make([]FontFamily, 0),
		log:          logger,
	}
	fm.readFile = fm.getFontData
	for _, opt := range options {
		switch v := opt.(type) {
		case ReadFileFunc:
			fm.readFile = v
		case func(string) ([]byte, error):
			fm.readFile = v
		case StatFunc:
			fm.stat = v
		case *MetricsCache:
			fm.cache = v
		}
	}
	return fm
}

func (fm *FontManager) logf(format string, args ...any) {
	if fm.log != nil {
		fm.log(Sprintf(format, args...))
	}
}

// Parse reads and parses the font file at path.
func (fm *FontManager) Parse(path string) (*TtfType, error) {
	data, err := fm.readFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindStreamIO, "read "+path, err)
	}
	return TtfParse(data)
}

// Load returns the metrics of the font file at path, from the cache when
// the file has not changed since it was stored.
func (fm *FontManager) Load(path string) (*Metrics, error) {
	var key CacheKey
	cacheable := fm.cache != nil && fm.stat != nil
	if cacheable {
		size, modTime, err := fm.stat(path)
		if err != nil {
			return nil, errs.Wrap(errs.KindStreamIO, "stat "+path, err)
		}
		key = NewCacheKey(path, size, modTime)
		if m, ok := fm.cache.Get(key); ok {
			fm.logf("font %s: metrics loaded from cache", path)
			return m, nil
		}
	}
	ttf, err := fm.Parse(path)
	if err != nil {
		return nil, err
	}
	m := ttf.Metrics
	if cacheable {
		if err := fm.cache.Put(key, &m); err != nil {
			fm.logf("font %s: could not store metrics: %v", path, err)
		}
	}
	fm.logf("font %s: parsed %s, %d glyphs", path, m.PostScriptName, m.NumGlyphs)
	return &m, nil
}

// Subset rebuilds the font file at path restricted to runes.
func (fm *FontManager) Subset(path string, runes []rune) (*Subset, error) {
	ttf, err := fm.Parse(path)
	if err != nil {
		return nil, err
	}
	s, err := NewSubset(ttf, runes)
	if err != nil {
		return nil, err
	}
	fm.logf("font %s: subset of %d glyphs, %d bytes", path, s.Closure.Len(), len(s.Font))
	return s, nil
}

// LoadFonts loads every .ttf in fontsPath and groups them into families
// by file name. Files that cannot be loaded are logged and skipped.
func (fm *FontManager) LoadFonts() error {
	fm.fontFamilies = make([]FontFamily, 0)

	for _, fontPath := range fm.fontsPath {
		if !strings.HasSuffix(Convert(fontPath).ToLower().String(), ".ttf") {
			continue
		}

		m, err := fm.Load(fontPath)
		if err != nil {
			fm.logf("Warning: could not load font '%s': %v", fontPath, err)
			continue
		}

		fontFamilyName, style := parseFontName(fontPath)
		def := &FontDef{Family: fontFamilyName, Style: style, Path: fontPath, Metrics: m}

		var family *FontFamily
		for i := range fm.fontFamilies {
			if fm.fontFamilies[i].Name == fontFamilyName {
				family = &fm.fontFamilies[i]
				break
			}
		}
		if family == nil {
			fm.fontFamilies = append(fm.fontFamilies, FontFamily{
				Name:   fontFamilyName,
				Styles: make(map[fontStyle]*FontDef),
			})
			family = &fm.fontFamilies[len(fm.fontFamilies)-1]
		}

		family.Styles[style] = def
		if style == Regular {
			family.Regular = def
		}
	}
	if len(fm.fontFamilies) == 0 && len(fm.fontsPath) > 0 {
		return errs.Errorf("no font could be loaded from %d paths", len(fm.fontsPath))
	}
	return nil
}

// GetFontDef retrieves a font definition for a given family and style.
// If the exact style is not found, it attempts to fall back to the Regular style for that family.
func (fm *FontManager) GetFontDef(family string, style fontStyle) (*FontDef, error) {
	var fontFamily *FontFamily
	for i := range fm.fontFamilies {
		if fm.fontFamilies[i].Name == family {
			fontFamily = &fm.fontFamilies[i]
			break
		}
	}
	if fontFamily == nil {
		return nil, errs.Errorf("font family '%s' not found", family)
	}

	fontDef, ok := fontFamily.Styles[style]
	if !ok {
		if fontFamily.Regular != nil {
			return fontFamily.Regular, nil
		}
		return nil, errs.Errorf("font style '%s' not found for family '%s' and no regular fallback is available", style, family)
	}

	return fontDef, nil
}

// GetAllFontDefs returns every loaded font definition in load order.
func (fm *FontManager) GetAllFontDefs() []*FontDef {
	var defs []*FontDef
	for _, path := range fm.fontsPath {
		for i := range fm.fontFamilies {
			for _, def := range fm.fontFamilies[i].Styles {
				if def.Path == path {
					defs = append(defs, def)
				}
			}
		}
	}
	return defs
}
