package pdf

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnsupportedInput Kind = "UNSUPPORTED_INPUT"
	KindDetectionFailure Kind = "DETECTION_FAILURE"
	KindImageConversion  Kind = "IMAGE_CONVERSION"
	KindPDFRead          Kind = "PDF_READ"
	KindPDFWrite         Kind = "PDF_WRITE"
	KindFontLoad         Kind = "FONT_LOAD"
)

// Fatal reports whether an error of this kind aborts the run.
func (k Kind) Fatal() bool {
	switch k {
	case KindUnsupportedInput, KindDetectionFailure:
		return false
	}
	return true
}

// Error carries a Kind so callers can decide between skipping an input and
// aborting the run.
type Error struct {
	Kind    Kind
	Message string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, message, path string, err error) *Error {
	return &Error{Kind: kind, Message: message, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var pdfErr *Error
	if errors.As(err, &pdfErr) {
		return pdfErr.Kind, true
	}
	return "", false
}

// IsFatal reports whether err should abort the run. Errors without a kind
// are fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	kind, ok := KindOf(err)
	return !ok || kind.Fatal()
}
