package cv

import (
	"errors"
	"fmt"
)

// Op names the operation that produced an Error.
type Op string

const (
	OpCreate Op = "create"
	OpParse  Op = "parse"
	OpExtend Op = "extend"
	OpSpin   Op = "spin"
)

var (
	// ErrInvalidArgument is the kind of every error caused by malformed input text.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidOperation is the kind of errors raised when a version does not support the
	// requested operation.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Error describes a rejected correlation vector operation. errors.Is matches it against
// ErrInvalidArgument or ErrInvalidOperation.
type Error struct {
	Op     Op
	Kind   error
	Value  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v: %s", e.Op, e.Value, e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalidArgument(op Op, value string, format string, args ...any) *Error {
	return &Error{Op: op, Kind: ErrInvalidArgument, Value: value, Reason: fmt.Sprintf(format, args...)}
}

func invalidOperation(op Op, value string, format string, args ...any) *Error {
	return &Error{Op: op, Kind: ErrInvalidOperation, Value: value, Reason: fmt.Sprintf(format, args...)}
}
