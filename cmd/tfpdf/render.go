package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinywasm/tfpdf"
	"github.com/tinywasm/tfpdf/config"
	"github.com/tinywasm/tfpdf/env"
	"github.com/tinywasm/tfpdf/fpdf"
)

func renderCommand(args []string) {
	renderFlags := flag.NewFlagSet("render", flag.ExitOnError)

	var (
		output   string
		quiet    bool
		noCompr  bool
		cacheDir string
	)
	renderFlags.StringVar(&output, "o", "", "Output PDF file (default: definition name with .pdf)")
	renderFlags.BoolVar(&quiet, "q", false, "Do not log font loading and subsetting")
	renderFlags.BoolVar(&noCompr, "no-compression", false, "Write uncompressed streams")
	renderFlags.StringVar(&cacheDir, "cache-dir", "", "Directory for cached font metrics, overrides the definition")

	renderFlags.Usage = func() {
		fmt.Printf("Usage: %s render [options] <definition.yaml>\n\n", os.Args[0])
		fmt.Println("Render a YAML document definition to PDF.")
		fmt.Println("")
		fmt.Println("Options:")
		renderFlags.PrintDefaults()
	}

	if err := renderFlags.Parse(args[2:]); err != nil {
		fail(err)
		return
	}
	if renderFlags.NArg() != 1 {
		renderFlags.Usage()
		osExit(1)
		return
	}

	defPath := renderFlags.Arg(0)
	if output == "" {
		output = strings.TrimSuffix(defPath, filepath.Ext(defPath)) + ".pdf"
	}

	def, err := config.LoadConfig(defPath, env.FileReader)
	if err != nil {
		fail(err)
		return
	}
	if cacheDir != "" {
		def.CacheDir = cacheDir
	}
	if def.CacheDir != "" {
		if err := os.MkdirAll(def.CacheDir, 0o755); err != nil {
			fail(err)
			return
		}
	}
	if noCompr {
		off := false
		def.Compression = &off
	}

	var options []any
	if quiet {
		options = append(options, fpdf.LogFunc(nil))
	}
	doc, err := tfpdf.Render(def, options...)
	if err != nil {
		fail(err)
		return
	}
	if err := doc.Fpdf.OutputFileAndClose(output); err != nil {
		fail(err)
		return
	}
	fmt.Printf("Successfully rendered PDF: %s\n", output)
}
