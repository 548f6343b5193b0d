package fontManager

type fontStyle string

const (
	Regular fontStyle = "Regular"
	Bold    fontStyle = "Bold"
	Italic  fontStyle = "Italic"
	// Additional styles
	BoldItalic fontStyle = "BoldItalic"
	Light      fontStyle = "Light"
	SemiBold   fontStyle = "SemiBold"
	ExtraBold  fontStyle = "ExtraBold"
)

// Code returns the FPDF style string for s: "", "B", "I" or "BI".
// Light is treated as regular, SemiBold and ExtraBold as bold.
func (s fontStyle) Code() string {
	switch s {
	case Bold, SemiBold, ExtraBold:
		return "B"
	case Italic:
		return "I"
	case BoldItalic:
		return "BI"
	}
	return ""
}
