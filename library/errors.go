package library

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure of a workflow operation.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindTransactionConflict
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindTransactionConflict:
		return "transaction_conflict"
	case KindInvalidInput:
		return "invalid_input"
	}
	return "internal"
}

func (k Kind) status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindTransactionConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is the uniform failure returned by every workflow operation. Code is
// the HTTP status a transport should answer with.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: kind.status(), Message: fmt.Sprintf(format, args...), Err: cause}
}

func NotFoundf(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func InvalidStatef(format string, args ...any) *Error {
	return newError(KindInvalidState, nil, format, args...)
}

func InvalidInputf(format string, args ...any) *Error {
	return newError(KindInvalidInput, nil, format, args...)
}

func Internalf(cause error, format string, args ...any) *Error {
	return newError(KindInternal, cause, format, args...)
}

func conflict(cause error) *Error {
	return newError(KindTransactionConflict, cause, "the operation conflicted with a concurrent change, retry")
}

// AsError returns the *Error in err's chain, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func IsKind(err error, kind Kind) bool {
	e := AsError(err)
	return e != nil && e.Kind == kind
}

// StatusCode is 200 for nil, the carried code for *Error and 500 otherwise.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if e := AsError(err); e != nil {
		return e.Code
	}
	return http.StatusInternalServerError
}
