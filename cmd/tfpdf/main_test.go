package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// withExit replaces osExit for the duration of the test and returns a
// pointer to the last status passed to it, -1 if it was not called.
func withExit(t *testing.T) *int {
	t.Helper()
	code := -1
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = os.Exit })
	return &code
}

func writeFont(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "goregular.ttf")
	if err := os.WriteFile(p, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSubsetCommand(t *testing.T) {
	code := withExit(t)
	dir := t.TempDir()
	in := writeFont(t, dir)
	out := filepath.Join(dir, "sub.ttf")

	run([]string{"tfpdf", "subset", "-text", "Héllo", in, out})
	if *code != -1 {
		t.Fatalf("exit status %d", *code)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) >= len(goregular.TTF) {
		t.Errorf("subset of %d bytes is not smaller than the font (%d)", len(data), len(goregular.TTF))
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		t.Fatalf("subset does not parse: %v", err)
	}
	// .notdef, H, é, l, o and whatever é is composed of
	if n := f.NumGlyphs(); n < 5 {
		t.Errorf("subset has %d glyphs, want at least 5", n)
	}
}

func TestRenderCommand(t *testing.T) {
	code := withExit(t)
	dir := t.TempDir()
	font := writeFont(t, dir)
	def := []byte("title: Hello\nfonts:\n  - family: go\n    path: " + font + "\n" +
		"pages:\n  - items:\n      - font: {family: go, size: 12}\n      - text: {x: 10, y: 20, text: Hello}\n")
	defPath := filepath.Join(dir, "hello.yaml")
	if err := os.WriteFile(defPath, def, 0o644); err != nil {
		t.Fatal(err)
	}

	run([]string{"tfpdf", "render", "-q", defPath})
	if *code != -1 {
		t.Fatalf("exit status %d", *code)
	}
	doc, err := os.ReadFile(filepath.Join(dir, "hello.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-1.3")) || !bytes.HasSuffix(doc, []byte("%%EOF\n")) {
		t.Errorf("output is not a complete PDF")
	}
}

func TestSubsetCommandMissingArgs(t *testing.T) {
	code := withExit(t)
	run([]string{"tfpdf", "subset", "font.ttf"})
	if *code != 1 {
		t.Errorf("exit status got=%d, want=1", *code)
	}
}
