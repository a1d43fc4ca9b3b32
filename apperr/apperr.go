package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can tell them apart without string matching.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindValidation     Kind = "validation"
	KindStore          Kind = "store"
	KindPartialFailure Kind = "partial_failure"
)

// Error wraps a failure with its kind and the operation that produced it.
type Error struct {
	// Kind is the taxonomy bucket.
	Kind Kind

	// Op is the operation that failed (e.g. "billing.ApplyDiscount").
	Op string

	// Message is safe to show to API clients.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports an absent table, item, order or bill.
func NotFound(op, what, id string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf("%s %q not found", what, id)}
}

// Validation reports rejected input. err may be a sentinel to match with errors.Is.
func Validation(op, message string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Err: err}
}

// Store wraps a persistence failure.
func Store(op string, err error) *Error {
	return &Error{Kind: KindStore, Op: op, Message: "store operation failed", Err: err}
}

// Kinded is implemented by errors that carry their own Kind.
type Kinded interface {
	ErrorKind() Kind
}

// ErrorKind implements Kinded.
func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// KindOf returns the kind of the outermost classified error in the chain,
// or KindStore for unclassified errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindStore
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
