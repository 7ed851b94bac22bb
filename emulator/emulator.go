// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"os"

	"github.com/ezrec/novavm/asm"
	"github.com/ezrec/novavm/cpu"
	"github.com/ezrec/novavm/internal"
	"github.com/ezrec/novavm/io"
)

const (
	TICK_LIMIT = 1 << 20 // Default limit of ticks for Run.
)

var _emulator_defines = map[string]string{
	"TICK_LIMIT": fmt.Sprintf("%v", TICK_LIMIT),
}

// Emulator state. Machine + Console + assembled Program.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *asm.Program // Reference to the currently running program listing.

	Console io.Console // WRITE syscall output.

	TickLimit int // Limit of ticks for Run; zero is TICK_LIMIT.
}

// NewEmulator creates a new emulator, writing to standard output.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(),
		Program: &asm.Program{},
	}

	emu.Console.Output = os.Stdout
	emu.Machine.Console = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Predefine adds the emulator defines to an assembler.
func (emu *Emulator) Predefine(assembler *asm.Assembler) {
	for name, text := range emu.Defines() {
		assembler.Predefine(name, text)
	}
}

// Reset loads the program image into the machine and resets it.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = emu.Verbose

	err = emu.Program.Image.Load(emu.Machine)
	if err != nil {
		return
	}

	emu.Machine.Reset()
	emu.Console.Rewind()

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Machine.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Machine.Register[cpu.REG_PC]
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Pc())
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the machine. done is set once the machine
// has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	pc := emu.Pc()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.Step()
	if err != nil {
		return
	}

	done = emu.Machine.State() == cpu.STATE_HALTED
	if done && emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Machine.Ticks)
	}

	return
}

// Run ticks the machine until it halts, faults, or exceeds the tick limit.
func (emu *Emulator) Run() (err error) {
	limit := emu.TickLimit
	if limit <= 0 {
		limit = TICK_LIMIT
	}

	for range limit {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = &ErrRuntime{Pc: emu.Pc(), LineNo: emu.LineNo(), Err: ErrTickLimit(limit)}
	return
}
