package fpdf

import (
	"encoding/hex"
	"unicode/utf8"

	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding/unicode"
)

var utf16BOM = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)

// textEncode returns s unchanged when it is ASCII, else UTF-16BE with a
// byte order mark as PDF text strings require.
func textEncode(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}
	out, err := utf16BOM.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// cidString hex encodes the CIDs of s for Identity-H. Identity-H is two
// bytes per code, so runes outside the BMP are written as CID 0.
func cidString(s string) string {
	b := make([]byte, 0, 2*len(s))
	for _, r := range s {
		if r > 0xFFFF {
			r = 0
		}
		b = append(b, byte(r>>8), byte(r))
	}
	return hex.EncodeToString(b)
}

// sortedRunes returns the keys of set in ascending order.
func sortedRunes(set map[rune]struct{}) []rune {
	runes := make([]rune, 0, len(set))
	for r := range set {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return runes
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
