// Package rederr defines the error taxonomy shared by the redlining pipeline.
//
// Every failure that leaves a package is an *Error carrying a Code, so callers
// can branch with errors.Is against the sentinel values below without caring
// about the wrapped cause.
package rederr

import (
	"errors"
	"fmt"
)

// Code identifies the class of a failure.
type Code string

const (
	CodeConfiguration    Code = "CONFIGURATION"
	CodeInvalidValue     Code = "INVALID_VALUE"
	CodeDocumentLoad     Code = "DOCUMENT_LOAD"
	CodeOCR              Code = "OCR_FAILED"
	CodeNoMatch          Code = "NO_MATCH"
	CodeAlreadyAnnotated Code = "ALREADY_ANNOTATED"
	CodeAnnotationInsert Code = "ANNOTATION_INSERT"
	CodeSave             Code = "SAVE_FAILED"
)

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrConfiguration    = &Error{Code: CodeConfiguration}
	ErrInvalidValue     = &Error{Code: CodeInvalidValue}
	ErrDocumentLoad     = &Error{Code: CodeDocumentLoad}
	ErrOCR              = &Error{Code: CodeOCR}
	ErrNoMatch          = &Error{Code: CodeNoMatch}
	ErrAlreadyAnnotated = &Error{Code: CodeAlreadyAnnotated}
	ErrAnnotationInsert = &Error{Code: CodeAnnotationInsert}
	ErrSave             = &Error{Code: CodeSave}
)

// Error is a classified pipeline failure.
type Error struct {
	Code     Code
	Message  string
	Document string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Document != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Document)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDocument returns a copy of e tagged with the document it concerns.
func (e *Error) WithDocument(doc string) *Error {
	c := *e
	c.Document = doc
	return &c
}

// CodeOf extracts the Code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func newf(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Configuration(format string, args ...any) *Error {
	return newf(CodeConfiguration, nil, format, args...)
}

func InvalidValue(format string, args ...any) *Error {
	return newf(CodeInvalidValue, nil, format, args...)
}

func DocumentLoad(cause error, format string, args ...any) *Error {
	return newf(CodeDocumentLoad, cause, format, args...)
}

func OCR(cause error, format string, args ...any) *Error {
	return newf(CodeOCR, cause, format, args...)
}

func NoMatch(format string, args ...any) *Error {
	return newf(CodeNoMatch, nil, format, args...)
}

func AlreadyAnnotated(format string, args ...any) *Error {
	return newf(CodeAlreadyAnnotated, nil, format, args...)
}

func AnnotationInsert(cause error, format string, args ...any) *Error {
	return newf(CodeAnnotationInsert, cause, format, args...)
}

func Save(cause error, format string, args ...any) *Error {
	return newf(CodeSave, cause, format, args...)
}
