package image

import (
	"errors"

	"github.com/ezrec/novavm/translate"
)

var f = translate.From

var (
	ErrDataDuplicate = errors.New(f("%v duplicated", DATA_MARKER))
)

// ErrInvalidByteLiteral is a token that is not a single byte value.
type ErrInvalidByteLiteral string

func (err ErrInvalidByteLiteral) Error() string {
	return f("'%v' is not a byte literal", string(err))
}

// ErrSyntax locates an image parse error.
type ErrSyntax struct {
	LineNo int
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
