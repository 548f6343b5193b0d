//go:build wasm
// +build wasm

// Package ui is the browser page of the web demo: a YAML document
// definition, a button that renders it and an embedded viewer.
package ui

import (
	"syscall/js"
)

// defaultDefinition is shown on load. Fonts are fetched relative to the
// page.
const defaultDefinition = `title: Example
fonts:
  - family: dejavu
    path: fonts/DejaVuSans.ttf
pages:
  - items:
      - font: {family: dejavu, size: 18}
      - text: {x: 20, y: 30, text: "Grüße aus dem Browser"}
      - link: {x: 20, y: 36, w: 60, h: 8, url: "https://example.com"}
`

var (
	logger     func(...any)
	definition js.Value
	pdfEmbed   js.Value
)

// Setup builds the page. log receives progress messages.
func Setup(log func(...any)) {
	logger = log
	setupUI()
}

func setupUI() {
	document := js.Global().Get("document")
	body := document.Get("body")
	body.Set("innerHTML", "")

	container := document.Call("createElement", "div")
	container.Set("className", "container")

	title := document.Call("createElement", "h1")
	title.Set("textContent", "tfpdf")
	container.Call("appendChild", title)

	formSection := document.Call("createElement", "div")
	formSection.Set("className", "form-section")

	inputLabel := document.Call("createElement", "label")
	inputLabel.Set("textContent", "Document definition (YAML):")
	formSection.Call("appendChild", inputLabel)

	definition = document.Call("createElement", "textarea")
	definition.Set("rows", 16)
	definition.Set("value", defaultDefinition)
	formSection.Call("appendChild", definition)

	btn := document.Call("createElement", "button")
	btn.Set("textContent", "Render PDF")
	btn.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		// fonts are fetched, which must not block the event loop
		go GeneratePDF()
		return nil
	}))
	formSection.Call("appendChild", btn)

	container.Call("appendChild", formSection)

	pdfContainer := document.Call("createElement", "div")
	pdfContainer.Set("className", "pdf-container")
	pdfContainer.Set("id", "pdf-container")
	container.Call("appendChild", pdfContainer)

	body.Call("appendChild", container)

	loadStyles()
}

func loadStyles() {
	document := js.Global().Get("document")
	head := document.Get("head")

	existingLink := document.Call("querySelector", "link[href='style.css']")
	if !existingLink.IsNull() {
		return
	}

	link := document.Call("createElement", "link")
	link.Set("rel", "stylesheet")
	link.Set("href", "style.css")
	head.Call("appendChild", link)
}

// ShowError replaces the viewer with message.
func ShowError(message string) {
	document := js.Global().Get("document")
	pdfContainer := document.Call("getElementById", "pdf-container")
	pdfContainer.Set("innerHTML", "")

	errorDiv := document.Call("createElement", "div")
	errorDiv.Set("className", "error-message")
	errorDiv.Set("textContent", message)

	pdfContainer.Call("appendChild", errorDiv)
}

// ShowPDF embeds the document at url.
func ShowPDF(url string) {
	document := js.Global().Get("document")
	pdfContainer := document.Call("getElementById", "pdf-container")
	if pdfContainer.IsNull() {
		logger("pdf-container not found")
		return
	}
	pdfContainer.Set("innerHTML", "")

	pdfEmbed = document.Call("createElement", "embed")
	pdfEmbed.Set("src", url)
	pdfEmbed.Set("type", "application/pdf")
	pdfEmbed.Set("className", "pdf-embed")
	pdfEmbed.Set("width", "100%")
	pdfEmbed.Set("height", "600px")

	pdfContainer.Call("appendChild", pdfEmbed)
}

// DefinitionText returns the YAML typed in the page.
func DefinitionText() string {
	return definition.Get("value").String()
}
