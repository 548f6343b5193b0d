package errs

import (
	"github.com/tinywasm/fmt"
)

// Error is a classified failure. Op names the operation that failed
// ("cmap", "glyf", "putfonts", ...), Err is the wrapped cause if any.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var out string
	if e.Kind != KindUnknown {
		out = e.Kind.String()
	}
	if e.Op != "" {
		out = join(out, " ", e.Op)
	}
	if e.Msg != "" {
		out = join(out, ": ", e.Msg)
	}
	if e.Err != nil {
		out = join(out, ": ", e.Err.Error())
	}
	return out
}

func join(head, sep, tail string) string {
	if head == "" {
		return tail
	}
	return head + sep + tail
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind. Unclassified
// errors only match themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind != KindUnknown && t.Kind == e.Kind
}

// New returns an unclassified error with a fixed message.
func New(msg string) error {
	return &Error{Msg: msg}
}

// Errorf returns an unclassified error with a formatted message. An error
// argument only contributes its text, use Wrapf to keep it as the cause.
func Errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and op to an underlying error.
func Wrap(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Op: op, Err: err}
}

// Wrapf is Wrap with a formatted message ahead of the cause.
func Wrapf(k Kind, op string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}
