package fpdf_test

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/tinywasm/tfpdf/fpdf"
)

// testFiles is the file system seen by test documents.
var testFiles = map[string][]byte{
	"fonts/goregular.ttf":  goregular.TTF,
	"fonts/gobold.ttf":     gobold.TTF,
	"fonts/Go-Regular.ttf": goregular.TTF,
	"fonts/Go-Bold.ttf":    gobold.TTF,
}

func readTestFile(path string) ([]byte, error) {
	if data, ok := testFiles[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%s: file not found", path)
}

var testDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NewDocPdfTest returns an uncompressed document with fixed dates that
// reads from testFiles and has the Go fonts registered as "go".
func NewDocPdfTest(options ...any) *fpdf.Fpdf {
	options = append(options, fpdf.ReadFileFunc(readTestFile))
	pdf := fpdf.New(options...)
	pdf.SetCompression(false)
	pdf.SetCreationDate(testDate)
	pdf.SetModificationDate(testDate)
	pdf.AddUTF8Font("go", "", "fonts/goregular.ttf")
	pdf.AddUTF8Font("go", "B", "fonts/gobold.ttf")
	return pdf
}

// output closes pdf and returns the document bytes.
func output(t *testing.T, pdf *fpdf.Fpdf) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	return buf.Bytes()
}

var lengthRe = regexp.MustCompile(`/Length (\d+)`)

// pdfObject is an indirect object of a document: its dictionary text and
// the raw bytes of its stream, if any.
type pdfObject struct {
	dict   string
	stream []byte
}

// findObject returns object n of doc.
func findObject(t *testing.T, doc []byte, n int) pdfObject {
	t.Helper()
	head := []byte("\n" + strconv.Itoa(n) + " 0 obj\n")
	pos := bytes.Index(doc, head)
	if pos < 0 {
		t.Fatalf("object %d not found", n)
	}
	body := doc[pos+len(head):]
	end := bytes.Index(body, []byte("endobj"))
	streamAt := bytes.Index(body, []byte("stream\n"))
	if streamAt < 0 || streamAt > end {
		return pdfObject{dict: string(body[:end])}
	}
	obj := pdfObject{dict: string(body[:streamAt])}
	m := lengthRe.FindStringSubmatch(obj.dict)
	if m == nil {
		t.Fatalf("object %d: stream without /Length", n)
	}
	length, _ := strconv.Atoi(m[1])
	start := streamAt + len("stream\n")
	obj.stream = body[start : start+length]
	if !bytes.HasPrefix(body[start+length:], []byte("\nendstream")) {
		t.Fatalf("object %d: /Length %d does not end at endstream", n, length)
	}
	return obj
}

// data returns the stream of o, inflated when it is Flate encoded.
func (o pdfObject) data(t *testing.T) []byte {
	t.Helper()
	if !bytes.Contains([]byte(o.dict), []byte("/FlateDecode")) {
		return o.stream
	}
	zr, err := zlib.NewReader(bytes.NewReader(o.stream))
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	return out
}

// Summary generates a predictable report for use by test examples. If the
// specified error is nil, the size class of the document is printed with a
// success message. Otherwise the error is printed.
func Summary(err error, doc []byte) {
	if err == nil {
		fmt.Printf("Successfully generated pdf, header %s\n", bytes.SplitN(doc, []byte("\n"), 2)[0])
	} else {
		fmt.Println(err)
	}
}
