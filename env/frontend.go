//go:build wasm
// +build wasm

package env

import (
	"syscall/js"
	"time"

	. "github.com/tinywasm/fmt"

	"github.com/tinywasm/tfpdf/errs"
)

// SetupDefaultLogger configures the default logger for frontend environments
func SetupDefaultLogger() func(a ...any) {
	return func(a ...any) {
		console := js.Global().Get("console")
		if console.IsUndefined() {
			return
		}
		args := make([]any, len(a))
		for i, arg := range a {
			args[i] = Convert(arg).String()
		}
		console.Call("log", args...)
	}
}

// SetupDefaultFileWriter hands the data to the browser as a download named
// after filename.
func SetupDefaultFileWriter() func(filename string, data []byte) error {
	return func(filename string, data []byte) error {
		uint8Array := js.Global().Get("Uint8Array").New(len(data))
		js.CopyBytesToJS(uint8Array, data)

		blob := js.Global().Get("Blob").New([]any{uint8Array}, map[string]any{"type": "application/pdf"})
		url := js.Global().Get("URL").Call("createObjectURL", blob)

		link := js.Global().Get("document").Call("createElement", "a")
		link.Set("href", url)
		link.Set("download", filename)
		link.Call("click")
		js.Global().Get("URL").Call("revokeObjectURL", url)
		return nil
	}
}

// SetupDefaultFileReader fetches static resources such as fonts and images
// relative to the page.
func SetupDefaultFileReader() func(filename string) ([]byte, error) {
	return func(filename string) ([]byte, error) {
		data, err := Fetch(filename)
		if err != nil {
			return nil, errs.Wrapf(errs.KindStreamIO, "", err, "error fetching file %s", filename)
		}
		return data, nil
	}
}

// SetupDefaultFileStat always fails: fetched resources have no stable
// modification time, so their metrics are not cached.
func SetupDefaultFileStat() func(filename string) (int64, time.Time, error) {
	return func(filename string) (int64, time.Time, error) {
		return 0, time.Time{}, errs.Errorf("stat %s: not supported in wasm", filename)
	}
}
