package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/novavm/asm"
	"github.com/ezrec/novavm/cpu"
)

// tableSink collects debug events as rows of a trace table.
type tableSink struct {
	prog  *asm.Program
	trace table.Writer
}

var _ cpu.Sink = (*tableSink)(nil)

func newTableSink(prog *asm.Program) (sink *tableSink) {
	sink = &tableSink{
		prog:  prog,
		trace: table.NewWriter(),
	}

	sink.trace.SetTitle("Trace")
	header := table.Row{"Tick", "Line", "PC", "Instruction"}
	for reg := range cpu.Registers() {
		header = append(header, reg.String())
	}
	header = append(header, "Fault")
	sink.trace.AppendHeader(header)

	return
}

// Debug records one event.
func (sink *tableSink) Debug(event cpu.Event) {
	var lineno any = ""
	if dbg := sink.prog.Debug(event.Pc); dbg.Line != nil {
		lineno = dbg.LineNo
	}

	words := []string{event.OpCode.String()}
	if event.OpCode == cpu.OP_SYSCALL {
		words = append(words, event.Syscall.String())
	}
	for _, operand := range event.Operands {
		words = append(words, fmt.Sprintf("0x%02X", operand))
	}

	row := table.Row{sink.trace.Length(), lineno, fmt.Sprintf("0x%02X", event.Pc), strings.Join(words, " ")}
	for _, value := range event.Registers {
		row = append(row, fmt.Sprintf("%04X", value))
	}
	if event.Err != nil {
		row = append(row, event.Err.Error())
	} else {
		row = append(row, "")
	}

	sink.trace.AppendRow(row)
}

// Render returns the trace table as text.
func (sink *tableSink) Render() string {
	return sink.trace.Render()
}
