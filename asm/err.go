package asm

import (
	"errors"

	"github.com/ezrec/novavm/translate"
)

var f = translate.From

var (
	// Preprocessor errors
	ErrMacroSyntax    = errors.New(f("macro definition syntax"))
	ErrMacroParameter = errors.New(f("macro parameter duplicated"))
)

type ErrUnknownMacro string

func (err ErrUnknownMacro) Error() string {
	return f("macro '%v' unknown", string(err))
}

type ErrMacroArityMismatch struct {
	Macro    string
	Expected int
	Got      int
}

func (err ErrMacroArityMismatch) Error() string {
	return f("macro '%v' expects %d arguments, got %d", err.Macro, err.Expected, err.Got)
}

type ErrMacroExpansionLimitExceeded struct {
	Macro string
	Limit int
}

func (err ErrMacroExpansionLimitExceeded) Error() string {
	return f("macro '%v' exceeded %d expansions", err.Macro, err.Limit)
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrUnknownToken string

func (err ErrUnknownToken) Error() string {
	return f("'%v' is not an opcode, register, syscall or number", string(err))
}

// ErrSyntax locates an assembly error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
