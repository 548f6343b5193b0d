// Command tfpdf renders PDF documents from YAML definitions and inspects
// the TrueType fonts they embed.
//
// Usage:
//
//	tfpdf <command> [options] <args>
//
// Commands:
//
//	render   Render a document definition to a PDF file
//	font     Print the metrics of a TrueType font
//	subset   Write a TrueType font restricted to the glyphs of a text
//	version  Show version information
//	help     Show help message
//
// Examples:
//
//	# Render a definition
//	tfpdf render -o invoice.pdf invoice.yaml
//
//	# Subset a font to the glyphs of a word
//	tfpdf subset -text "Grüße" DejaVuSans.ttf sub.ttf
package main

import (
	"fmt"
	"os"
)

// These variables are set at build time using ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/tfpdf
var (
	version   = "dev"
	buildTime = "unknown"
)

// osExit is a variable for os.Exit to allow testing
var osExit = os.Exit

func main() {
	run(os.Args)
}

func run(args []string) {
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "render":
		renderCommand(args)
	case "font":
		fontCommand(args)
	case "subset":
		subsetCommand(args)
	case "version":
		fmt.Printf("tfpdf version %s\n", version)
		fmt.Printf("Build time: %s\n", buildTime)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[1])
		usage()
		osExit(2)
	}
}

func usage() {
	fmt.Printf("tfpdf - PDF generator with embedded TrueType subsets\n\n")
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  render   Render a document definition to a PDF file")
	fmt.Println("  font     Print the metrics of a TrueType font")
	fmt.Println("  subset   Write a TrueType font restricted to the glyphs of a text")
	fmt.Println("  version  Show version information")
	fmt.Println("  help     Show this help message")
	fmt.Println("")
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
}

// fail prints err and exits with status 1.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	osExit(1)
}
