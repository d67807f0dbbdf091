package parser

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/settix/internal/token"
)

// ErrorOpts holds the data used to construct a ParserError. All fields are
// optional, although one of Cause or Message is recommended. If Cause is
// set, Message is ignored.
type ErrorOpts struct {
	ErrType       string
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
}

// NewParserError returns a new ParserError populated with the given data.
func NewParserError(opts ErrorOpts) *ParserError {
	return &ParserError{
		errType:       opts.ErrType,
		message:       opts.Message,
		cause:         opts.Cause,
		file:          opts.File,
		startPosition: opts.StartPosition,
		endPosition:   opts.EndPosition,
		sourceCode:    opts.SourceCode,
	}
}

// NewSyntaxError returns a ParserError of type "syntax error".
func NewSyntaxError(opts ErrorOpts) *ParserError {
	opts.ErrType = "syntax error"
	return NewParserError(opts)
}

// ParserError is an error produced while parsing, with position and
// source-line context.
type ParserError struct {
	errType       string
	message       string
	cause         error
	file          string
	startPosition token.Position
	endPosition   token.Position
	sourceCode    string
}

func (e *ParserError) Error() string {
	var msg string
	if e.cause != nil {
		msg = e.cause.Error()
	} else {
		msg = e.message
	}
	if e.errType != "" {
		msg = fmt.Sprintf("%s: %s", e.errType, msg)
	}
	if e.file != "" {
		return fmt.Sprintf("%s (%s:%d:%d)",
			msg, e.file, e.startPosition.LineNumber(), e.startPosition.ColumnNumber())
	}
	return fmt.Sprintf("%s (%d:%d)",
		msg, e.startPosition.LineNumber(), e.startPosition.ColumnNumber())
}

func (e *ParserError) Unwrap() error { return e.cause }

// Message returns the error message without position context.
func (e *ParserError) Message() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

// StartPosition returns the position at which the error begins.
func (e *ParserError) StartPosition() token.Position { return e.startPosition }

// SourceCode returns the line of source text containing the error.
func (e *ParserError) SourceCode() string { return e.sourceCode }

// Errors aggregates the parse errors collected from one input.
type Errors struct {
	errs []*ParserError
}

// NewErrors returns an Errors aggregating the given parse errors.
func NewErrors(errs []*ParserError) *Errors {
	return &Errors{errs: errs}
}

func (e *Errors) Error() string {
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	lines := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		lines = append(lines, err.Error())
	}
	return fmt.Sprintf("%d parse errors:\n%s", len(e.errs), strings.Join(lines, "\n"))
}

// All returns the individual parse errors.
func (e *Errors) All() []*ParserError { return e.errs }
