//go:build wasm

package main

import (
	"github.com/tinywasm/tfpdf/env"
	"github.com/tinywasm/tfpdf/web/ui"
)

func main() {
	env.Logger("tfpdf client ready")

	ui.Setup(env.Logger)

	// keep the handlers alive
	select {}
}
