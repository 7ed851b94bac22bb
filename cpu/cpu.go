// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	MEMORY_SIZE = 256 // Bytes of code memory.
	DATA_SIZE   = 256 // Bytes of data.

	WRITE_MODE_STDOUT = 1 // WRITE mode for UTF-8 text to standard output.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"DATA_SIZE":   fmt.Sprintf("%v", DATA_SIZE),
	"STDOUT":      fmt.Sprintf("%v", WRITE_MODE_STDOUT),
}

// Console is where the WRITE syscall sends its text.
type Console interface {
	WriteText(text string) error
}

// State is the execution state of a Machine.
type State int

//go:generate go tool stringer -linecomment -type=State

const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

// Machine is the register machine simulation.
type Machine struct {
	Verbose bool // Set to enable verbose logging.
	Debug   bool // Set to send an Event to Sink for every instruction.

	Sink    Sink    // Debug event receiver.
	Console Console // WRITE syscall output.

	Register [REGISTER_COUNT]uint16 // Register file.
	Memory   [MEMORY_SIZE]byte      // Executable code.
	Data     [DATA_SIZE]byte        // Syscall payload.
	Halt     bool                   // Halt flag.

	Ticks int // Instructions executed.

	fault error
}

// NewMachine creates a machine with all-zero state.
func NewMachine() (m *Machine) {
	m = &Machine{}
	return
}

// Defines for the machine.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Load copies a code and data stream into zeroed memory and data arrays.
func (m *Machine) Load(code []byte, data []byte) (err error) {
	if len(code) > len(m.Memory) {
		err = ErrCapacityExceeded{What: "code", Size: len(code), Capacity: len(m.Memory)}
		return
	}
	if len(data) > len(m.Data) {
		err = ErrCapacityExceeded{What: "data", Size: len(data), Capacity: len(m.Data)}
		return
	}

	clear(m.Memory[:])
	clear(m.Data[:])
	copy(m.Memory[:], code)
	copy(m.Data[:], data)

	if m.Verbose {
		log.Printf("cpu: load %d code, %d data", len(code), len(data))
	}

	return
}

// Reset clears the registers, halt flag, fault and tick counter.
// Memory and data are kept.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("cpu: reset")
	}

	clear(m.Register[:])
	m.Halt = false
	m.Ticks = 0
	m.fault = nil
}

// State returns the current execution state.
func (m *Machine) State() State {
	switch {
	case m.fault != nil:
		return STATE_FAULTED
	case m.Halt:
		return STATE_HALTED
	}
	return STATE_RUNNING
}

// Fault returns the fault that stopped the machine, if any.
func (m *Machine) Fault() error {
	return m.fault
}

// String returns the register file as text.
func (m *Machine) String() (text string) {
	for reg := range Registers() {
		text += fmt.Sprintf("% 5s: %04X\n", reg.String(), m.Register[reg])
	}
	text += fmt.Sprintf("% 5s: %v\n", "state", m.State())
	return
}

// Step executes a single fetch-decode-execute cycle.
//
// A faulted machine returns its fault again and does nothing; a halted
// machine does nothing.
func (m *Machine) Step() (err error) {
	if m.fault != nil {
		return m.fault
	}
	if m.Halt {
		return
	}

	pc := m.Register[REG_PC]
	if int(pc) >= len(m.Memory) {
		if m.Verbose {
			log.Printf("cpu: pc 0x%x at end of memory", pc)
		}
		m.Halt = true
		return
	}

	defer func() {
		if err != nil {
			err = &ErrFault{Pc: pc, Err: err}
			m.fault = err
		}
	}()

	event := Event{Pc: pc, Registers: m.Register}

	// An undecodable opcode is still reported, with its raw byte.
	op, err := fetch(m, DecodeOpCode)
	event.OpCode = op
	decoded := err == nil
	if decoded {
		err = m.execute(&event)
	}

	if m.Verbose {
		log.Printf("%02x: %v %v", pc, op, event.Operands)
	}

	if m.Debug && m.Sink != nil {
		event.Err = err
		m.Sink.Debug(event)
	}

	if decoded {
		m.Ticks++
	}

	return
}

// Run steps the machine until it halts or faults.
func (m *Machine) Run() (err error) {
	for m.State() == STATE_RUNNING {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return m.fault
}

// word fetches a zero-extended operand, recording it in the event.
func (m *Machine) word(event *Event) (value uint16, err error) {
	value, err = fetch(m, DecodeWord)
	if err != nil {
		return
	}
	event.Operands = append(event.Operands, value)
	return
}

// register fetches a register operand, recording its tag in the event.
func (m *Machine) register(event *Event) (reg Register, err error) {
	reg, err = fetch(m, DecodeRegister)
	if err != nil {
		return
	}
	event.Operands = append(event.Operands, uint16(reg.Byte()))
	return
}

// operands fetches the operands listed for event.OpCode in the opcode
// table. Registers are returned as indexes; a syscall operand is followed
// by its own arity of words.
func (m *Machine) operands(event *Event) (args []uint16, err error) {
	for _, kind := range opcodeTable[event.OpCode].operands {
		switch kind {
		case KIND_REGISTER:
			var reg Register
			reg, err = m.register(event)
			if err != nil {
				return
			}
			args = append(args, uint16(reg))
		case KIND_WORD:
			var value uint16
			value, err = m.word(event)
			if err != nil {
				return
			}
			args = append(args, value)
		case KIND_SYSCALL:
			var sc Syscall
			sc, err = fetch(m, DecodeSyscall)
			if err != nil {
				return
			}
			event.Syscall = sc
			args = append(args, uint16(sc))
			for range sc.Arity() {
				var value uint16
				value, err = m.word(event)
				if err != nil {
					return
				}
				args = append(args, value)
			}
		}
	}

	return
}

// execute runs the handler for event.OpCode.
func (m *Machine) execute(event *Event) (err error) {
	args, err := m.operands(event)
	if err != nil {
		return
	}

	switch op := event.OpCode; op {
	case OP_HALT:
		m.Halt = true
	case OP_NOP:
		// pass
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
		var value uint16
		value, err = doAlu(op, args[1], args[2])
		if err != nil {
			return
		}
		m.Register[args[0]] = value
	case OP_PUSH:
		m.Register[REG_SP] = m.Register[args[0]]
	case OP_POP:
		m.Register[args[0]] = m.Register[REG_SP]
	case OP_SWAP:
		r1, r2 := args[0], args[1]
		m.Register[r1], m.Register[r2] = m.Register[r2], m.Register[r1]
	case OP_SYSCALL:
		err = m.syscall(event.Syscall, args[1:])
	default:
		err = ErrDecode{Byte: byte(op), Kind: KIND_OPCODE}
	}

	return
}

// doAlu performs the arithmetic for op. Results wrap at 16 bits.
func doAlu(op OpCode, a, b uint16) (value uint16, err error) {
	switch op {
	case OP_ADD:
		value = a + b
	case OP_SUB:
		value = a - b
	case OP_MUL:
		value = a * b
	case OP_DIV:
		if b == 0 {
			err = ErrArithmetic{OpCode: op}
			return
		}
		value = a / b
	default:
		err = ErrDecode{Byte: byte(op), Kind: KIND_OPCODE}
	}

	return
}
