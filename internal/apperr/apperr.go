// Package apperr defines the error taxonomy shared by the services, the HTTP
// layer and the viewer client.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for propagation and status mapping.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindValidation is missing or invalid input, including disallowed file types.
	KindValidation
	// KindNotFound is an unknown media or settings id.
	KindNotFound
	// KindStorage is a blob store or persistence engine fault, including conflicts.
	KindStorage
	// KindTransient is a network-layer failure seen by the client. Retrying is up to the caller.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStorage    = &Error{Kind: KindStorage}
	ErrTransient  = &Error{Kind: KindTransient}
)

// Error is a classified error. Msg is safe to show to API callers; Err is the
// underlying cause and is never rendered to clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches kind sentinels (errors with no message and no cause).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func Storage(msg string, err error) error { return &Error{Kind: KindStorage, Msg: msg, Err: err} }

func Transient(msg string, err error) error { return &Error{Kind: KindTransient, Msg: msg, Err: err} }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the caller-safe message of err. Unclassified errors yield a
// generic message so internal details do not leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "Internal Server Error"
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus classifies a non-2xx response status received by a client.
func FromStatus(status int, msg string) error {
	switch {
	case status == http.StatusNotFound:
		return NotFound(msg)
	case status >= 400 && status < 500:
		return Validation(msg)
	case status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout || status == http.StatusBadGateway:
		return Transient(msg, nil)
	default:
		return Storage(msg, nil)
	}
}
