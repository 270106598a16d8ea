package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the stable categories the transport
// layer maps to HTTP status classes.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidOperation
	KindUnauthorized
	KindConflict
	KindUploadFailed
	KindStoreUnavailable
)

// Error is a typed error carried from the service layer to the transport
// layer. Message is always non-empty and safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidOperation(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func UploadFailed(message string, err error) *Error {
	return &Error{Kind: KindUploadFailed, Message: message, Err: err}
}

// StoreUnavailable wraps a failed store call. The underlying error is kept
// for logs; the message is what callers see.
func StoreUnavailable(message string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: message, Err: err}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and
// KindStoreUnavailable otherwise, so unclassified failures surface as a
// store-side problem rather than leaking internals.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindStoreUnavailable
}

func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
