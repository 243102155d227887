package faults

import (
	"errors"
	"net/http"
)

// Kind classifies a failure of the export pipeline.
type Kind int

const (
	KindInternal Kind = iota
	KindMethodNotAllowed
	KindForbidden
	KindTooManyRequests
	KindInvalidArgument
	KindNotFound
	KindRender
)

// Fault is a classified error. The message is safe to log; user-facing
// text is chosen by the transport from the kind alone.
type Fault struct {
	kind  Kind
	msg   string
	cause error
}

func (f *Fault) Error() string {
	if f.cause != nil {
		return f.msg + ": " + f.cause.Error()
	}

	return f.msg
}

func (f *Fault) Unwrap() error {
	return f.cause
}

func (f *Fault) Kind() Kind {
	return f.kind
}

// New creates a fault without an underlying cause.
func New(kind Kind, msg string) *Fault {
	return &Fault{kind: kind, msg: msg}
}

// Wrap creates a fault retaining the underlying cause for logs.
func Wrap(kind Kind, msg string, cause error) *Fault {
	return &Fault{kind: kind, msg: msg, cause: cause}
}

// KindOf extracts the kind from err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.kind
	}

	return KindInternal
}

// HTTPStatus maps a kind to the response status of the export contract.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRender, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
