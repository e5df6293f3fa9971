package reporter

import "fmt"

// ErrorWithPos is an internal parse failure that carries the byte span
// responsible for it, grounded on the teacher's reporter.ErrorWithPos /
// errorWithSourcePos. It is the boundary type between the lexer/parser
// packages and the public Diagnostic produced at the top level.
type ErrorWithPos interface {
	error
	Span() (lo, hi int, ok bool)
}

type errorWithSourcePos struct {
	message string
	lo, hi  int
	hasSpan bool
}

func (e errorWithSourcePos) Error() string { return e.message }

func (e errorWithSourcePos) Span() (lo, hi int, ok bool) {
	return e.lo, e.hi, e.hasSpan
}

// Error creates an ErrorWithPos with an explicit byte span.
func Error(message string, lo, hi int) ErrorWithPos {
	return errorWithSourcePos{message: message, lo: lo, hi: hi, hasSpan: true}
}

// Errorf is like Error but builds the message with fmt.Sprintf.
func Errorf(lo, hi int, format string, args ...any) ErrorWithPos {
	return Error(fmt.Sprintf(format, args...), lo, hi)
}

// ErrorNoSpan creates an ErrorWithPos with no known location, used for the
// unrecognized-eof case, whose contract span is fixed at (0,0)-(0,0)
// regardless of where in the source EOF was actually reached.
func ErrorNoSpan(message string) ErrorWithPos {
	return errorWithSourcePos{message: message}
}

var _ ErrorWithPos = errorWithSourcePos{}
