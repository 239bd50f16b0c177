// Package apperr carries the error taxonomy shared by the session engine and its HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound                 Kind = "not_found"
	KindForbidden                Kind = "forbidden"
	KindAlreadyCompleted         Kind = "already_completed"
	KindPersistenceFailure       Kind = "persistence_failure"
	KindEvaluationPartialFailure Kind = "evaluation_partial_failure"
	KindValidationFailure        Kind = "validation_failure"
)

// Sentinels for errors.Is. Any *Error of the same kind matches its sentinel.
var (
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrForbidden                = &Error{Kind: KindForbidden}
	ErrAlreadyCompleted         = &Error{Kind: KindAlreadyCompleted}
	ErrPersistenceFailure       = &Error{Kind: KindPersistenceFailure}
	ErrEvaluationPartialFailure = &Error{Kind: KindEvaluationPartialFailure}
	ErrValidationFailure        = &Error{Kind: KindValidationFailure}
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Newf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps a kind onto the status the API answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindAlreadyCompleted:
		return http.StatusConflict
	case KindPersistenceFailure:
		return http.StatusServiceUnavailable
	case KindValidationFailure:
		return http.StatusBadRequest
	case KindEvaluationPartialFailure:
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
