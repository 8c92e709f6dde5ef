package peg

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError is a fatal failure: raised by Must and Raise, or produced when
// an action returns an error. It unwinds past ordinary backtracking.
type ParseError struct {
	Pos Position
	// Rule is the innermost named rule the error passed through.
	Rule    string
	Message string
	// Line is the text of the input line holding Pos.
	Line string
	Err  error
}

func NewParseError(in *Input, msg string) *ParseError {
	pos := in.Position()
	return &ParseError{
		Pos:     pos,
		Message: msg,
		Line:    in.Line(pos),
	}
}

func (e *ParseError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%v: %v", e.Pos, e.Message)
	}
	return fmt.Sprintf("%v: %v (inside %q)", e.Pos, e.Message, e.Rule)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Caret renders the offending line with a marker under the column.
func (e *ParseError) Caret() string {
	col := e.Pos.Column - 1
	if col < 0 {
		col = 0
	}
	return e.Line + "\n" + strings.Repeat("-", col) + "^"
}

func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func actionError(m Match, err error) error {
	if _, ok := AsParseError(err); ok {
		return err
	}
	return &ParseError{
		Pos:     m.begin,
		Message: err.Error(),
		Line:    m.in.Line(m.begin),
		Err:     err,
	}
}
