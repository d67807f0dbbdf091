// Package errz defines the typed failures produced by symbolic evaluation
// and settings extraction.
//
// These errors are values, not control flow: every evaluator and matcher
// code path returns one rather than panicking, and callers downgrade them
// at the per-setting or per-plugin boundary (a setting that cannot be
// confidently classified is omitted, not fabricated).
package errz

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/settix/ast"
)

// Kind represents the category of an evaluation error.
type Kind int

const (
	// UnresolvedIdentifier indicates an identifier that could not be
	// resolved to a declaration with an evaluable initializer.
	UnresolvedIdentifier Kind = iota
	// UnresolvableAccess indicates a property access that matched no
	// enum constant, object literal property, or builtin enum table entry.
	UnresolvableAccess
	// NonNumericOperand indicates a binary expression operand that did
	// not evaluate to a number.
	NonNumericOperand
	// DivisionByZero indicates a division or modulo whose right operand
	// evaluated to zero.
	DivisionByZero
	// UnsupportedOperator indicates a binary operator outside the
	// supported arithmetic/bitwise set.
	UnsupportedOperator
	// UnsupportedExpressionKind indicates an expression form outside the
	// evaluator's closed grammar.
	UnsupportedExpressionKind
	// UnsupportedPattern indicates an options declaration that matched
	// none of the recognized enumeration idioms.
	UnsupportedPattern
	// MissingRequiredProperty indicates a setting declaration lacking a
	// property its classification requires.
	MissingRequiredProperty
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case UnresolvedIdentifier:
		return "unresolved identifier"
	case UnresolvableAccess:
		return "unresolvable access"
	case NonNumericOperand:
		return "non-numeric operand"
	case DivisionByZero:
		return "division by zero"
	case UnsupportedOperator:
		return "unsupported operator"
	case UnsupportedExpressionKind:
		return "unsupported expression"
	case UnsupportedPattern:
		return "unsupported pattern"
	case MissingRequiredProperty:
		return "missing required property"
	default:
		return "error"
	}
}

// EvalError is a typed evaluation failure carrying the offending node.
type EvalError struct {
	Kind    Kind
	Message string
	Node    ast.Node
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Node != nil && e.Node.Pos().IsValid() {
		pos := e.Node.Pos()
		return fmt.Sprintf("%s: %s (%s:%d:%d)",
			e.Kind, e.Message, pos.File, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New returns a new EvalError for the given node.
func New(kind Kind, node ast.Node, format string, args ...interface{}) *EvalError {
	return &EvalError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}

// KindOf returns the Kind of err if it is (or wraps) an EvalError, and
// whether it was one.
func KindOf(err error) (Kind, bool) {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an EvalError of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
