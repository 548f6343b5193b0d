package tfpdf_test

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/tinywasm/tfpdf"
	"github.com/tinywasm/tfpdf/config"
	"github.com/tinywasm/tfpdf/errs"
	"github.com/tinywasm/tfpdf/fpdf"
)

const report = `
title: Report
author: Ana
creation-date: 2001-02-03 04:05:06
unit: mm
compression: false
fonts:
  - family: go
    path: fonts/goregular.ttf
pages:
  - items:
      - font: {family: go, size: 14}
      - text: {x: 20, y: 30, text: "Quarterly report"}
      - link: {x: 20, y: 40, w: 40, h: 6, target: end}
      - link: {x: 20, y: 50, w: 40, h: 6, url: "https://example.com"}
  - orientation: landscape
    items:
      - anchor: {name: end, y: 10}
      - style: {draw: [0, 0, 255], line-width: 0.5}
      - line: {x1: 10, y1: 10, x2: 100, y2: 10}
      - text: {x: 20, y: 30, text: "Grüße"}
`

func readTestFile(path string) ([]byte, error) {
	if path == "fonts/goregular.ttf" {
		return goregular.TTF, nil
	}
	return nil, fmt.Errorf("%s: file not found", path)
}

func render(t *testing.T, yaml string) []byte {
	t.Helper()
	def, err := config.ParseConfig([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	def.SetDefaults()
	if err := def.Validate(); err != nil {
		t.Fatal(err)
	}
	doc, err := tfpdf.Render(def, fpdf.ReadFileFunc(readTestFile), fpdf.LogFunc(nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var buf bytes.Buffer
	if err := doc.Fpdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	return buf.Bytes()
}

func TestRender(t *testing.T) {
	doc := render(t, report)

	for _, want := range []string{
		"/Title (Report)",
		"/Author (Ana)",
		"/Count 2",
		"/Subtype /Type0",
		"/URI (https://example.com)",
		"/Dest [",
		"%%EOF",
	} {
		if !bytes.Contains(doc, []byte(want)) {
			t.Errorf("document lacks %q", want)
		}
	}
	// the landscape page differs from the default A4 portrait
	if !bytes.Contains(doc, []byte("/MediaBox [0 0 841.89 595.28]")) {
		t.Errorf("landscape page has no MediaBox of its own")
	}
}

func TestRenderDeterministic(t *testing.T) {
	undated := strings.Replace(report, "creation-date: 2001-02-03 04:05:06\n", "", 1)
	for _, yaml := range []string{report, undated} {
		first := render(t, yaml)
		time.Sleep(1100 * time.Millisecond)
		second := render(t, yaml)
		if sha1.Sum(first) != sha1.Sum(second) {
			t.Errorf("two renders differ: %v", fpdf.CompareBytes(first, second, nil))
		}
	}
}

func TestRenderDates(t *testing.T) {
	tests := []struct {
		name   string
		dates  string
		epoch  string
		create string
		mod    string
	}{
		{"definition", "creation-date: 2001-02-03 04:05:06\nmod-date: 2002-03-04\n", "", "D:20010203040506Z", "D:20020304000000Z"},
		{"mod follows creation", "creation-date: 2001-02-03 04:05\n", "", "D:20010203040500Z", "D:20010203040500Z"},
		{"source date epoch", "", "1000000000", "D:20010909014640Z", "D:20010909014640Z"},
		{"unix epoch", "", "", "D:19700101000000Z", "D:19700101000000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SOURCE_DATE_EPOCH", tt.epoch)
			yaml := strings.Replace(report, "creation-date: 2001-02-03 04:05:06\n", tt.dates, 1)
			doc := render(t, yaml)
			for _, want := range []string{"/CreationDate (" + tt.create + ")", "/ModDate (" + tt.mod + ")"} {
				if !bytes.Contains(doc, []byte(want)) {
					t.Errorf("document lacks %q", want)
				}
			}
		})
	}
}

func TestRenderMissingFont(t *testing.T) {
	def, err := config.ParseConfig([]byte(report))
	if err != nil {
		t.Fatal(err)
	}
	def.SetDefaults()
	def.Fonts[0].Path = "fonts/missing.ttf"

	_, err = tfpdf.Render(def, fpdf.ReadFileFunc(readTestFile), fpdf.LogFunc(nil))
	if !errors.Is(err, errs.ErrStreamIO) {
		t.Errorf("error got=%v, want a stream i/o error", err)
	}
}

func TestNewLogger(t *testing.T) {
	var got []any
	tp := tfpdf.New(fpdf.LogFunc(func(message ...any) { got = append(got, message...) }))
	tp.Log("hello", 1)
	if len(got) != 2 || got[0] != "hello" || got[1] != 1 {
		t.Errorf("logged %v", got)
	}
}
