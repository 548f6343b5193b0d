package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tinywasm/tfpdf/env"
	"github.com/tinywasm/tfpdf/fontManager"
)

func newFontManager() *fontManager.FontManager {
	return fontManager.NewFontManager(nil, nil, fontManager.ReadFileFunc(env.FileReader))
}

func fontCommand(args []string) {
	fontFlags := flag.NewFlagSet("font", flag.ExitOnError)
	var runes string
	fontFlags.StringVar(&runes, "widths", "", "Also print the advance width of each character of this text")

	fontFlags.Usage = func() {
		fmt.Printf("Usage: %s font [options] <font.ttf>\n\n", os.Args[0])
		fmt.Println("Print the metrics a PDF font descriptor is built from.")
		fmt.Println("")
		fmt.Println("Options:")
		fontFlags.PrintDefaults()
	}
	if err := fontFlags.Parse(args[2:]); err != nil {
		fail(err)
		return
	}
	if fontFlags.NArg() != 1 {
		fontFlags.Usage()
		osExit(1)
		return
	}

	ttf, err := newFontManager().Parse(fontFlags.Arg(0))
	if err != nil {
		fail(err)
		return
	}
	d := ttf.Desc
	fmt.Printf("PostScript name:  %s\n", ttf.PostScriptName)
	fmt.Printf("Units per em:     %d\n", ttf.UnitsPerEm)
	fmt.Printf("Glyphs:           %d\n", ttf.NumGlyphs)
	fmt.Printf("Mapped chars:     %d (last U+%04X)\n", len(ttf.Glyphs.Chars), ttf.LastRune)
	fmt.Printf("Ascent/Descent:   %d %d\n", d.Ascent, d.Descent)
	fmt.Printf("CapHeight:        %d\n", d.CapHeight)
	fmt.Printf("FontBBox:         [%d %d %d %d]\n", d.FontBBox.Xmin, d.FontBBox.Ymin, d.FontBBox.Xmax, d.FontBBox.Ymax)
	fmt.Printf("ItalicAngle:      %d\n", d.ItalicAngle)
	fmt.Printf("StemV:            %d\n", d.StemV)
	fmt.Printf("Flags:            %d\n", d.Flags)
	fmt.Printf("MissingWidth:     %d\n", d.MissingWidth)
	fmt.Printf("Underline:        %d %d\n", ttf.UnderlinePosition, ttf.UnderlineThickness)
	fmt.Printf("fsType:           0x%04X\n", ttf.FsType)
	for _, r := range runes {
		if g, ok := ttf.Glyphs.Lookup(r); ok {
			fmt.Printf("  U+%04X %q glyph %d width %d\n", r, r, g, ttf.Width(r))
		} else {
			fmt.Printf("  U+%04X %q not covered\n", r, r)
		}
	}
}

func subsetCommand(args []string) {
	subsetFlags := flag.NewFlagSet("subset", flag.ExitOnError)
	var text string
	subsetFlags.StringVar(&text, "text", "", "Characters the subset must cover")

	subsetFlags.Usage = func() {
		fmt.Printf("Usage: %s subset -text <chars> <font.ttf> <subset.ttf>\n\n", os.Args[0])
		fmt.Println("Write the font restricted to the glyphs of the given text.")
		fmt.Println("")
		fmt.Println("Options:")
		subsetFlags.PrintDefaults()
	}
	if err := subsetFlags.Parse(args[2:]); err != nil {
		fail(err)
		return
	}
	if subsetFlags.NArg() != 2 || text == "" {
		subsetFlags.Usage()
		osExit(1)
		return
	}

	seen := make(map[rune]bool)
	var runes []rune
	for _, r := range text {
		if !seen[r] {
			seen[r] = true
			runes = append(runes, r)
		}
	}
	sub, err := newFontManager().Subset(subsetFlags.Arg(0), runes)
	if err != nil {
		fail(err)
		return
	}
	if err := env.FileWriter(subsetFlags.Arg(1), sub.Font); err != nil {
		fail(err)
		return
	}
	fmt.Printf("Wrote %s: %d glyphs, %d bytes\n", subsetFlags.Arg(1), sub.Closure.Len(), len(sub.Font))
}
