package config_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tinywasm/tfpdf/config"
)

const invoice = `
title: Invoice
author: Ana
unit: pt
page-size: letter
compression: false
display:
  zoom: fullpage
  layout: single
fonts:
  - family: go
    path: fonts/goregular.ttf
pages:
  - items:
      - font: {family: go, size: 12}
      - style: {draw: [255, 0, 0], line-width: 2}
      - text: {x: 10, y: 20, text: "Grüße"}
      - link: {x: 10, y: 10, w: 50, h: 12, target: totals}
  - orientation: landscape
    page-size: a5
    items:
      - anchor: {name: totals, y: 0}
      - rect: {x: 1, y: 2, w: 3, h: 4, op: DF}
`

func TestParseConfig(t *testing.T) {
	doc, err := config.ParseConfig([]byte(invoice))
	if err != nil {
		t.Fatal(err)
	}
	doc.SetDefaults()
	if err := doc.Validate(); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}

	if got, want := doc.Title, "Invoice"; got != want {
		t.Errorf("title got=%q, want=%q", got, want)
	}
	if doc.Compression == nil || *doc.Compression {
		t.Errorf("compression got=%v, want false", doc.Compression)
	}
	if got, want := doc.Orientation, "portrait"; got != want {
		t.Errorf("default orientation got=%q, want=%q", got, want)
	}
	wantFonts := []config.Font{{Family: "go", Path: "fonts/goregular.ttf"}}
	if diff := cmp.Diff(wantFonts, doc.Fonts); diff != "" {
		t.Errorf("fonts mismatch (-want +got):\n%s", diff)
	}
	if got := len(doc.Pages); got != 2 {
		t.Fatalf("got %d pages, want 2", got)
	}
	wantText := &config.TextItem{X: 10, Y: 20, Text: "Grüße"}
	if diff := cmp.Diff(wantText, doc.Pages[0].Items[2].Text); diff != "" {
		t.Errorf("text item mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Pages[0].Items[1].Style.LineWidth; got == nil || *got != 2 {
		t.Errorf("line width got=%v", got)
	}
}

func TestParseConfigUnknownField(t *testing.T) {
	_, err := config.ParseConfig([]byte("title: x\npaper: a4\n"))
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("unknown field: got %v, want a *ConfigError", err)
	}
	if !strings.Contains(cfgErr.Error(), "paper") {
		t.Errorf("error does not name the field: %v", cfgErr)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	doc, err := config.ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	doc.SetDefaults()
	err = doc.Validate()
	if !errors.Is(err, config.ErrMissingRequiredField) {
		t.Errorf("empty definition: got %v, want a missing field", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
		kind  error
	}{
		{"unit", "unit: furlong\npages: [{}]", "unit", config.ErrInvalidValue},
		{"orientation", "orientation: upside\npages: [{}]", "orientation", config.ErrInvalidValue},
		{"page size", "page-size: b12\npages: [{}]", "page-size", config.ErrInvalidValue},
		{"exclusive size", "page-size: a4\nsize: {width: 10, height: 10}\npages: [{}]", "size", config.ErrInvalidValue},
		{"creation date", "creation-date: yesterday\npages: [{}]", "creation-date", config.ErrInvalidValue},
		{"mod date", "mod-date: 2024-13-01\npages: [{}]", "mod-date", config.ErrInvalidValue},
		{"level", "compression-level: 12\npages: [{}]", "compression-level", config.ErrInvalidValue},
		{"zoom", "display: {layout: single}\npages: [{}]", "display.zoom", config.ErrMissingRequiredField},
		{"font path", "fonts: [{family: go}]\npages: [{}]", "fonts[0].path", config.ErrMissingRequiredField},
		{"font twice", "fonts: [{family: go, path: a}, {family: GO, path: b}]\npages: [{}]", "fonts[1]", config.ErrInvalidValue},
		{"no pages", "title: x", "pages", config.ErrMissingRequiredField},
		{"page size", "pages: [{page-size: b12}]", "pages[0].page-size", config.ErrInvalidValue},
		{"two instructions", "pages: [{items: [{text: {text: a}, line: {x1: 1}}]}]", "pages[0].items[0]", config.ErrInvalidValue},
		{"no instruction", "pages: [{items: [{}]}]", "pages[0].items[0]", config.ErrInvalidValue},
		{"unregistered font", "pages: [{items: [{font: {family: go}}]}]", "pages[0].items[0].font", config.ErrInvalidValue},
		{"color", "pages: [{items: [{style: {fill: [1, 2]}}]}]", "pages[0].items[0].style.fill", config.ErrInvalidValue},
		{"component", "pages: [{items: [{style: {text: [1, 2, 300]}}]}]", "pages[0].items[0].style.text", config.ErrInvalidValue},
		{"link", "pages: [{items: [{link: {x: 1}}]}]", "pages[0].items[0].link", config.ErrInvalidValue},
		{"target", "pages: [{items: [{link: {target: nowhere}}]}]", "pages[0].items[0].link.target", config.ErrInvalidValue},
		{"anchor twice", "pages: [{items: [{anchor: {name: a}}]}, {items: [{anchor: {name: a}}]}]", "pages[1].items[0].anchor", config.ErrInvalidValue},
		{"image", "pages: [{items: [{image: {x: 1}}]}]", "pages[0].items[0].image.path", config.ErrMissingRequiredField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := config.ParseConfig([]byte(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			doc.SetDefaults()
			err = doc.Validate()
			var cfgErr *config.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("got %v, want a *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field got=%q, want=%q (%v)", cfgErr.Field, tt.field, err)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("error %v is not %v", err, tt.kind)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	files := map[string][]byte{"doc.yaml": []byte(invoice)}
	read := func(name string) ([]byte, error) {
		if data, ok := files[name]; ok {
			return data, nil
		}
		return nil, errors.New("file not found")
	}

	doc, err := config.LoadConfig("doc.yaml", read)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Unit, "pt"; got != want {
		t.Errorf("unit got=%q, want=%q", got, want)
	}

	if _, err := config.LoadConfig("missing.yaml", read); err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Errorf("missing file: got %v", err)
	}
}

func TestConfigError(t *testing.T) {
	err := config.NewConfigError("field", "message")
	if got, want := err.Error(), "config error in 'field': message"; got != want {
		t.Errorf("got=%q, want=%q", got, want)
	}
	if !errors.Is(err, config.ErrConfiguration) {
		t.Error("ConfigError does not unwrap to ErrConfiguration")
	}
	if got, want := config.NewConfigError("", "general error").Error(), "config error: general error"; got != want {
		t.Errorf("got=%q, want=%q", got, want)
	}
}

func TestDates(t *testing.T) {
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC).UnixNano()
	tests := []struct {
		name     string
		creation string
		mod      string
		epoch    int64
		want     [2]int64
	}{
		{"epoch", "", "", 10, [2]int64{10e9, 10e9}},
		{"date", "2024-05-06", "", 10, [2]int64{day, day}},
		{"date and time", "2024-05-06 07:08:09", "2024-05-06 07:08", 0,
			[2]int64{day + int64(7*time.Hour+8*time.Minute+9*time.Second), day + int64(7*time.Hour+8*time.Minute)}},
		{"mod only", "", "2024-05-06", 10, [2]int64{10e9, day}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &config.Document{CreationDate: tt.creation, ModDate: tt.mod}
			creation, mod, err := doc.Dates(tt.epoch)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, [2]int64{creation, mod}); diff != "" {
				t.Errorf("dates mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := config.ParseDate("2024-05-06 07:08:09 CET"); err == nil {
		t.Error("date with three fields accepted")
	}
}
