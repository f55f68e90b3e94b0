package object

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	Internal ErrorKind = iota
	UnboundSymbol
	NotCallable
	ArityMismatch
	TypeMismatch
	ReservedName
	DivideByZero
	EmptyList
	MalformedExpression
	RecursionLimit
)

var errorKindNames = [...]string{
	"internal",
	"unbound symbol",
	"not callable",
	"arity mismatch",
	"type mismatch",
	"reserved name",
	"divide by zero",
	"empty list",
	"malformed expression",
	"recursion limit",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "unknown"
}

// RuntimeError is every failure raised while evaluating.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
}

func (re *RuntimeError) Error() string { return re.Message }

func NewError(kind ErrorKind, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// IsKind reports whether err wraps a RuntimeError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Kind == kind
}
