package fontManager

import (
	"path"
	"strings"

	. "github.com/tinywasm/fmt"
)

// parseFontName extracts the font family and style from a filename or path.
// It preserves the family name casing as provided in the basename and detects
// common style suffixes (case-insensitive) such as "bold" and "italic".
func parseFontName(fontPath string) (family string, style fontStyle) {
	base := path.Base(fontPath)
	if strings.HasSuffix(Convert(base).ToLower().String(), ".ttf") {
		base = base[:len(base)-4]
	}

	// Split on hyphen; last part may be the style
	parts := Convert(base).Split("-")
	if len(parts) > 1 {
		rawStyle := parts[len(parts)-1]
		family = strings.Join(parts[:len(parts)-1], "-")

		s := Convert(rawStyle).ToLower().String()
		switch s {
		case "bold", "b":
			style = Bold
		case "italic", "it", "i", "oblique", "ob":
			style = Italic
		case "bolditalic", "bold-italic", "italicbold", "bi":
			style = BoldItalic
		case "light", "thin", "extralight", "ultralight":
			style = Light
		case "semibold", "demibold", "demi-bold", "sb":
			style = SemiBold
		case "extrabold", "heavy", "black", "eb":
			style = ExtraBold
		case "regular":
			style = Regular
		default:
			// Unknown style token, keep it in the family name.
			family = base
			style = Regular
		}
	} else {
		family = base
		style = Regular
	}
	return family, style
}
