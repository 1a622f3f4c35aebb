// Package dberr defines the error kinds returned by the persistence layer.
//
// Stores classify driver errors once, at the boundary, so callers branch on
// Kind instead of matching message text.
package dberr

import (
	"errors"
	"fmt"
)

// Kind categorises a store failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUniqueViolation
	KindReferentialViolation
	KindTransient
)

// String returns the snake_case name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUniqueViolation:
		return "unique_violation"
	case KindReferentialViolation:
		return "referential_violation"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is a classified store error.
type Error struct {
	Kind Kind
	Op   string // store operation, e.g. "player.Delete"
	Err  error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NotFound builds a KindNotFound error for op.
func NotFound(op string) *Error {
	return &Error{Kind: KindNotFound, Op: op}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a KindNotFound store error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUniqueViolation reports whether err is a KindUniqueViolation store error.
func IsUniqueViolation(err error) bool { return KindOf(err) == KindUniqueViolation }

// IsReferentialViolation reports whether err is a KindReferentialViolation store error.
func IsReferentialViolation(err error) bool { return KindOf(err) == KindReferentialViolation }

// IsTransient reports whether err is a KindTransient store error.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }
