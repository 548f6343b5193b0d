package env

import (
	"github.com/tinywasm/fetch"

	"github.com/tinywasm/tfpdf/errs"
)

// Fetch sends a GET request for url and waits for the response body. Any
// status other than 200 is an error.
//
// The request completes on another goroutine (a browser promise under
// wasm), so Fetch must not be called from a js callback.
func Fetch(url string) ([]byte, error) {
	type result struct {
		body []byte
		err  error
	}
	done := make(chan result, 1)
	fetch.Get(url).Send(func(resp *fetch.Response, err error) {
		switch {
		case err != nil:
			done <- result{err: err}
		case resp.Status != 200:
			done <- result{err: errs.Errorf("status %d", resp.Status)}
		default:
			done <- result{body: resp.Body()}
		}
	})
	r := <-done
	return r.body, r.err
}
