package cpu

import (
	"unicode/utf8"
)

type syscallHandler func(m *Machine, args []uint16) error

// syscallHandlers are the implemented syscalls. A declared syscall without
// a handler (READ) faults when called.
var syscallHandlers = map[Syscall]syscallHandler{
	SYS_EXIT:  sysExit,
	SYS_WRITE: sysWrite,
}

// syscall dispatches a decoded syscall with its fetched operands.
func (m *Machine) syscall(sc Syscall, args []uint16) (err error) {
	handler, ok := syscallHandlers[sc]
	if !ok {
		err = ErrSyscallNotImplemented(sc)
		return
	}

	return handler(m, args)
}

func sysExit(m *Machine, args []uint16) (err error) {
	m.Halt = true
	return
}

// sysWrite sends data[start:start+length] as text to the console.
func sysWrite(m *Machine, args []uint16) (err error) {
	mode, start, length := args[0], int(args[1]), int(args[2])

	if mode != WRITE_MODE_STDOUT {
		err = ErrUnsupportedMode(mode)
		return
	}

	end := start + length
	if end > len(m.Data) {
		err = ErrBounds{Index: end, Capacity: len(m.Data)}
		return
	}

	text := m.Data[start:end]
	if !utf8.Valid(text) {
		err = ErrInvalidEncoding
		return
	}

	if m.Console == nil {
		err = ErrConsoleInvalid
		return
	}

	return m.Console.WriteText(string(text))
}
