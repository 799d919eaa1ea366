package domain

import (
	"errors"
	"fmt"
)

// ErrKind classifies every failure the core can report.
type ErrKind int

const (
	KindValidation ErrKind = iota + 1
	KindNotFound
	KindForbidden
	KindStorage
	KindProtocol
)

func (k ErrKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindStorage:
		return "storage"
	case KindProtocol:
		return "protocol"
	}
	return "unknown"
}

// Sentinels for errors.Is. ErrInvalidOrder is a Validation error.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrInvalidOrder = &Error{Kind: KindValidation, Err: errors.New("order out of range")}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrStorage      = &Error{Kind: KindStorage}
	ErrProtocol     = &Error{Kind: KindProtocol}
)

// Error 领域错误，Op 为出错的操作名
type Error struct {
	Kind ErrKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind. ErrInvalidOrder additionally requires the wrapped
// cause to be the invalid order cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == ErrInvalidOrder {
		return e == ErrInvalidOrder || (e.Kind == KindValidation && errors.Is(e.Err, ErrInvalidOrder.Err))
	}
	return t.Op == "" && t.Err == nil && e.Kind == t.Kind
}

func newError(kind ErrKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation 构造校验错误
func Validation(op string, format string, args ...any) error {
	return newError(KindValidation, op, fmt.Errorf(format, args...))
}

// InvalidOrder reports an order target outside [0, count-1].
func InvalidOrder(op string, target, count int) error {
	return newError(KindValidation, op, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidOrder.Err, target, count-1))
}

func NotFound(op string, what string) error {
	return newError(KindNotFound, op, errors.New(what+" not found"))
}

func Forbidden(op string, what string) error {
	return newError(KindForbidden, op, errors.New(what+" belongs to another user"))
}

// Storage wraps a persistence failure. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return newError(KindStorage, op, err)
}

func Protocol(op string, err error) error {
	return newError(KindProtocol, op, err)
}

// KindOf returns the kind of err, or 0 when err is not a domain error.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
