package errs

import (
	"github.com/tinywasm/fmt"
)

// Kind classifies a failure so callers can branch with errors.Is.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindFileFormat is a malformed, truncated or unsupported font file.
	KindFileFormat
	// KindPolicyViolation is a font whose embedding permissions forbid it.
	KindPolicyViolation
	// KindStreamIO is a read past the end of a font while it is rebuilt.
	KindStreamIO
	// KindCompression is a Flate failure.
	KindCompression
	// KindInternalConsistency is a planned object number that was not honored.
	KindInternalConsistency
	// KindNoPage is output attempted before the first page.
	KindNoPage
	// KindDocumentClosed is output attempted after the document was finalized.
	KindDocumentClosed
)

var kindNames = [...]string{
	KindUnknown:             "error",
	KindFileFormat:          "file format",
	KindPolicyViolation:     "policy violation",
	KindStreamIO:            "stream i/o",
	KindCompression:         "compression",
	KindInternalConsistency: "internal consistency",
	KindNoPage:              "no page",
	KindDocumentClosed:      "document closed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrFileFormat          = &Error{Kind: KindFileFormat}
	ErrPolicyViolation     = &Error{Kind: KindPolicyViolation}
	ErrStreamIO            = &Error{Kind: KindStreamIO}
	ErrCompression         = &Error{Kind: KindCompression}
	ErrInternalConsistency = &Error{Kind: KindInternalConsistency}
	ErrNoPage              = &Error{Kind: KindNoPage, Msg: "no page has been added"}
	ErrDocumentClosed      = &Error{Kind: KindDocumentClosed, Msg: "document is already closed"}
)

func newKind(k Kind, op, format string, args []any) *Error {
	e := &Error{Kind: k, Op: op}
	if format != "" {
		e.Msg = fmt.Sprintf(format, args...)
	}
	return e
}

// FileFormat reports a malformed or unsupported font file.
func FileFormat(op, format string, args ...any) error {
	return newKind(KindFileFormat, op, format, args)
}

// PolicyViolation reports a font that may not be embedded.
func PolicyViolation(op, format string, args ...any) error {
	return newKind(KindPolicyViolation, op, format, args)
}

// StreamIO reports a truncated read while rebuilding a font.
func StreamIO(op, format string, args ...any) error {
	return newKind(KindStreamIO, op, format, args)
}

// Compression wraps a Flate failure.
func Compression(op string, err error) error {
	return &Error{Kind: KindCompression, Op: op, Err: err}
}

// InternalConsistency reports an object numbering mismatch or similar bug.
func InternalConsistency(op, format string, args ...any) error {
	return newKind(KindInternalConsistency, op, format, args)
}
