package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures
type ErrorKind string

// Error kinds
const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindDuplicateKey      ErrorKind = "DUPLICATE_KEY"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindInvalidOperation  ErrorKind = "INVALID_OPERATION"
	KindInvalidArgument   ErrorKind = "INVALID_ARGUMENT"
	KindInternal          ErrorKind = "INTERNAL"
)

// Error is a classified domain failure
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrDuplicateKey      = &Error{Kind: KindDuplicateKey}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrInvalidOperation  = &Error{Kind: KindInvalidOperation}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrInternal          = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// NewNotFound reports a missing entity looked up by field
func NewNotFound(entity, field string, value interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with %s: %v", entity, field, value)}
}

// NewDuplicateKey reports a unique key collision
func NewDuplicateKey(entity, field string, value interface{}) *Error {
	return &Error{Kind: KindDuplicateKey, Message: fmt.Sprintf("%s with %s %v already exists", entity, field, value)}
}

// NewInsufficientStock reports a decrement that would drive stock negative
func NewInsufficientStock(item *Item, requested int) *Error {
	return &Error{
		Kind: KindInsufficientStock,
		Message: fmt.Sprintf("not enough stock for item %s (%s): available %d, requested %d",
			item.Name, item.SKU, item.CurrentStock, requested),
	}
}

// NewInvalidState reports a value that breaks an entity invariant
func NewInvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidOperation reports an illegal state transition
func NewInvalidOperation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidArgument reports malformed input
func NewInvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewInternal wraps an unclassified failure
func NewInternal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
