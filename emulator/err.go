package emulator

import (
	"github.com/ezrec/novavm/translate"
)

var f = translate.From

// ErrTickLimit is a program that did not halt within the tick limit.
type ErrTickLimit int

func (err ErrTickLimit) Error() string {
	return f("no halt after %d ticks", int(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (pc 0x%02x) %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
