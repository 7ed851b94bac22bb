package asm

import (
	"github.com/ezrec/novavm/image"
)

// Line is an assembled instruction line with its source location.
type Line struct {
	LineNo int
	Pc     int
	Words  []string
	Bytes  []byte
}

// Program is an assembled image with its listing.
type Program struct {
	image.Image
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the line holding the byte at pc.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(pc) >= line.Pc && int(pc) < line.Pc+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(pc) - line.Pc,
			}
			break
		}
	}

	return
}
