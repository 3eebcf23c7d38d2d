// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to the CLI and web layers.
type ErrorKind string

const (
	// KindInvalidInput covers unsupported extensions and same-format requests.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindMissingFile means the source path does not exist.
	KindMissingFile ErrorKind = "missing_file"
	// KindNoUploadProvided means no file source yielded a document.
	KindNoUploadProvided ErrorKind = "no_upload_provided"
	// KindDependencyMissing means a required external binary is absent.
	KindDependencyMissing ErrorKind = "dependency_missing"
	// KindConversionFailed means every fallback tier failed.
	KindConversionFailed ErrorKind = "conversion_failed"
)

// Error is a typed error with a stable kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var typed *Error
	if !errors.As(err, &typed) {
		return false
	}
	return typed.Kind == kind
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var typed *Error
	if !errors.As(err, &typed) {
		return ""
	}
	return typed.Kind
}
