package fpdf

import (
	"time"

	clock "github.com/tinywasm/time"
)

// GetCreationDate returns the CreationDate written to the document
// information, the zero time if it is taken when the document is closed.
func (f *Fpdf) GetCreationDate() time.Time {
	return f.creationDate
}

// SetCreationDate fixes the document's CreationDate. Documents that must
// come out byte for byte the same on every run set it; the zero time
// stamps the document when it is closed.
func (f *Fpdf) SetCreationDate(tm time.Time) {
	f.creationDate = tm
}

// GetModificationDate returns the ModDate written to the document
// information.
func (f *Fpdf) GetModificationDate() time.Time {
	return f.modDate
}

// SetModificationDate fixes the document's ModDate, see SetCreationDate.
func (f *Fpdf) SetModificationDate(tm time.Time) {
	f.modDate = tm
}

// pdfDate formats tm as a PDF date string in UTC. The zero time is now.
func pdfDate(tm time.Time) string {
	nano := clock.Now()
	if !tm.IsZero() {
		nano = tm.UnixNano()
	}
	return "D:" + clock.FormatCompact(nano) + "Z"
}
