package cpu

import (
	"errors"

	"github.com/ezrec/novavm/translate"
)

var f = translate.From

var (
	ErrInvalidEncoding = errors.New(f("invalid utf-8 encoding"))
	ErrConsoleInvalid  = errors.New(f("console invalid"))
)

// ErrDecode is a byte that does not map to a variant of Kind.
type ErrDecode struct {
	Byte byte
	Kind Kind
}

func (err ErrDecode) Error() string {
	return f("byte 0x%02x is not a valid %v", err.Byte, err.Kind.String())
}

// ErrBounds is an index outside of a fixed size array.
type ErrBounds struct {
	Index    int
	Capacity int
}

func (err ErrBounds) Error() string {
	return f("index %d out of bounds for capacity %d", err.Index, err.Capacity)
}

// ErrArithmetic is an arithmetic operation that has no result.
type ErrArithmetic struct {
	OpCode OpCode
}

func (err ErrArithmetic) Error() string {
	return f("%v: division by zero", err.OpCode.String())
}

type ErrSyscallNotImplemented Syscall

func (err ErrSyscallNotImplemented) Error() string {
	return f("syscall %v not implemented", Syscall(err).String())
}

type ErrUnsupportedMode uint16

func (err ErrUnsupportedMode) Error() string {
	return f("unsupported mode %d", uint16(err))
}

// ErrCapacityExceeded is a program stream too long to load.
type ErrCapacityExceeded struct {
	What     string
	Size     int
	Capacity int
}

func (err ErrCapacityExceeded) Error() string {
	return f("%v of %d bytes exceeds capacity of %d bytes", err.What, err.Size, err.Capacity)
}

// ErrFault is a fault raised while executing the instruction at Pc.
type ErrFault struct {
	Pc  uint16
	Err error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%02x %v", err.Pc, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
