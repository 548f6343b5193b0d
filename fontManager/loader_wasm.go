//go:build wasm

package fontManager

import (
	"time"

	"github.com/tinywasm/tfpdf/env"
	"github.com/tinywasm/tfpdf/errs"
)

// getFontData fetches the font at the given URL.
func (fm *FontManager) getFontData(path string) ([]byte, error) {
	data, err := env.Fetch(path)
	if err != nil {
		return nil, errs.Wrapf(errs.KindStreamIO, "", err, "error fetching font %s", path)
	}
	return data, nil
}

// FileStat is not available in the browser; fonts fetched by URL are not
// cached between loads.
func FileStat(path string) (int64, time.Time, error) {
	return 0, time.Time{}, errs.Errorf("stat %s: not supported in wasm", path)
}
