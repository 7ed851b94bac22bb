// Package io provides the output devices for the novavm emulator.
package io

import (
	"io"

	"github.com/ezrec/novavm/cpu"
)

// Console writes syscall text to an io.Writer, normally standard output.
type Console struct {
	Output io.Writer

	written int
}

var _ cpu.Console = (*Console)(nil)

// WriteText writes all of text to the output.
func (con *Console) WriteText(text string) (err error) {
	if con.Output == nil {
		err = ErrConsoleClosed
		return
	}

	n, err := io.WriteString(con.Output, text)
	con.written += n

	return
}

// Written returns the number of bytes written since the last Rewind.
func (con *Console) Written() int {
	return con.written
}

// Rewind resets the written byte counter.
func (con *Console) Rewind() {
	con.written = 0
}
