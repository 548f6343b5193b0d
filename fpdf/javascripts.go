package fpdf

// GetJavascript returns the Adobe JavaScript for the document.
//
// GetJavascript returns an empty string if no javascript was
// previously defined.
func (f *Fpdf) GetJavascript() string {
	if f.javascript == nil {
		return ""
	}
	return *f.javascript
}

// SetJavascript adds Adobe JavaScript to the document. It is run when the
// document is opened.
func (f *Fpdf) SetJavascript(script string) {
	f.javascript = &script
}

// putjavascript writes the name tree and the action, nJs being the tree.
func (f *Fpdf) putjavascript() {
	if f.javascript == nil {
		return
	}
	f.nJs = f.newobj()
	f.out("<<")
	f.outf("/Names [(EmbeddedJS) %s]", objRef(f.nJs+1))
	f.out(">>")
	f.out("endobj")
	f.newobj()
	f.out("<<")
	f.out("/S /JavaScript")
	f.outf("/JS %s", f.textstring(*f.javascript))
	f.out(">>")
	f.out("endobj")
	f.expectObj("putjavascript", f.nJs+1)
}
