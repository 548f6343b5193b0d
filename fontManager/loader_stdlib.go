//go:build !wasm

package fontManager

import (
	"os"
	"time"
)

// getFontData reads the font file bytes for the given filename (non-Wasm).
func (fm *FontManager) getFontData(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// FileStat is the StatFunc of the local file system.
func FileStat(path string) (int64, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	return info.Size(), info.ModTime(), nil
}
