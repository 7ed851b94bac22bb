package cpu

import (
	"fmt"
	"iter"
	"slices"
)

// OpCode is the one byte tag of an instruction.
type OpCode byte

const (
	OP_HALT    = OpCode(0x00) // HALT
	OP_NOP     = OpCode(0x01) // NOP
	OP_ADD     = OpCode(0x50) // ADD
	OP_SUB     = OpCode(0x51) // SUB
	OP_MUL     = OpCode(0x52) // MUL
	OP_DIV     = OpCode(0x53) // DIV
	OP_PUSH    = OpCode(0x60) // PUSH
	OP_POP     = OpCode(0x61) // POP
	OP_SWAP    = OpCode(0x62) // SWAP
	OP_SYSCALL = OpCode(0x80) // SYSCALL
)

// Kind is the target kind of a decoded byte.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind

const (
	KIND_OPCODE   = Kind(0) // opcode
	KIND_REGISTER = Kind(1) // register
	KIND_SYSCALL  = Kind(2) // syscall
	KIND_BYTE     = Kind(3) // byte
	KIND_WORD     = Kind(4) // word
)

type opcodeInfo struct {
	name     string
	operands []Kind
}

// opcodeTable is the complete instruction set. A byte missing from the
// table is not an instruction.
var opcodeTable = map[OpCode]opcodeInfo{
	OP_HALT:    {"HALT", nil},
	OP_NOP:     {"NOP", nil},
	OP_ADD:     {"ADD", []Kind{KIND_REGISTER, KIND_WORD, KIND_WORD}},
	OP_SUB:     {"SUB", []Kind{KIND_REGISTER, KIND_WORD, KIND_WORD}},
	OP_MUL:     {"MUL", []Kind{KIND_REGISTER, KIND_WORD, KIND_WORD}},
	OP_DIV:     {"DIV", []Kind{KIND_REGISTER, KIND_WORD, KIND_WORD}},
	OP_PUSH:    {"PUSH", []Kind{KIND_REGISTER}},
	OP_POP:     {"POP", []Kind{KIND_REGISTER}},
	OP_SWAP:    {"SWAP", []Kind{KIND_REGISTER, KIND_REGISTER}},
	OP_SYSCALL: {"SYSCALL", []Kind{KIND_SYSCALL}},
}

var opcodeByName = func() map[string]OpCode {
	names := make(map[string]OpCode, len(opcodeTable))
	for op, info := range opcodeTable {
		names[info.name] = op
	}
	return names
}()

// Byte returns the encoding of the opcode.
func (op OpCode) Byte() byte {
	return byte(op)
}

// Valid returns true if the opcode is in the instruction set.
func (op OpCode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Operands returns the kinds of the operands that follow the opcode, in
// the order the machine fetches them. The operands of a SYSCALL continue
// with the syscall's own arity.
func (op OpCode) Operands() []Kind {
	return slices.Clone(opcodeTable[op].operands)
}

func (op OpCode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("OpCode(0x%02x)", byte(op))
	}
	return info.name
}

// ParseOpCode looks up an opcode by its exact mnemonic.
func ParseOpCode(name string) (op OpCode, ok bool) {
	op, ok = opcodeByName[name]
	return
}

// OpCodes returns all opcodes in encoding order.
func OpCodes() iter.Seq[OpCode] {
	ops := make([]OpCode, 0, len(opcodeTable))
	for op := range opcodeTable {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return slices.Values(ops)
}

// Register is an index into the register file.
type Register int

const (
	REG_A     = Register(0) // A
	REG_B     = Register(1) // B
	REG_C     = Register(2) // C
	REG_M     = Register(3) // M
	REG_SP    = Register(4) // SP
	REG_PC    = Register(5) // PC
	REG_FLAGS = Register(6) // FLAGS

	REGISTER_COUNT = 7 // Size of the register file, never addressable.
)

var registerName = [REGISTER_COUNT]string{"A", "B", "C", "M", "SP", "PC", "FLAGS"}

// registerTag is the encoding of each register. Zero is not a register.
var registerTag = [REGISTER_COUNT]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}

// Byte returns the encoding of the register, or zero if it is not valid.
func (reg Register) Byte() byte {
	if !reg.Valid() {
		return 0
	}
	return registerTag[reg]
}

// Valid returns true if the register is addressable.
func (reg Register) Valid() bool {
	return reg >= REG_A && reg < REGISTER_COUNT
}

func (reg Register) String() string {
	if !reg.Valid() {
		return fmt.Sprintf("Register(%d)", int(reg))
	}
	return registerName[reg]
}

// ParseRegister looks up a register by its exact mnemonic.
func ParseRegister(name string) (reg Register, ok bool) {
	n := slices.Index(registerName[:], name)
	if n < 0 {
		return
	}
	return Register(n), true
}

// Registers returns all addressable registers.
func Registers() iter.Seq[Register] {
	return func(yield func(Register) bool) {
		for reg := REG_A; reg < REGISTER_COUNT; reg++ {
			if !yield(reg) {
				return
			}
		}
	}
}

// Syscall is the one byte tag of a kernel call.
type Syscall byte

const (
	SYS_EXIT  = Syscall(0x01) // EXIT
	SYS_READ  = Syscall(0x03) // READ
	SYS_WRITE = Syscall(0x04) // WRITE
)

type syscallInfo struct {
	name  string
	arity int
}

var syscallTable = map[Syscall]syscallInfo{
	SYS_EXIT:  {"EXIT", 0},
	SYS_READ:  {"READ", 2},
	SYS_WRITE: {"WRITE", 3},
}

var syscallByName = func() map[string]Syscall {
	names := make(map[string]Syscall, len(syscallTable))
	for sc, info := range syscallTable {
		names[info.name] = sc
	}
	return names
}()

// Byte returns the encoding of the syscall.
func (sc Syscall) Byte() byte {
	return byte(sc)
}

// Valid returns true if the syscall is declared.
func (sc Syscall) Valid() bool {
	_, ok := syscallTable[sc]
	return ok
}

// Arity is the number of operand bytes following the syscall tag.
func (sc Syscall) Arity() int {
	return syscallTable[sc].arity
}

func (sc Syscall) String() string {
	info, ok := syscallTable[sc]
	if !ok {
		return fmt.Sprintf("Syscall(0x%02x)", byte(sc))
	}
	return info.name
}

// ParseSyscall looks up a syscall by its exact mnemonic.
func ParseSyscall(name string) (sc Syscall, ok bool) {
	sc, ok = syscallByName[name]
	return
}

// Syscalls returns all declared syscalls in encoding order.
func Syscalls() iter.Seq[Syscall] {
	scs := make([]Syscall, 0, len(syscallTable))
	for sc := range syscallTable {
		scs = append(scs, sc)
	}
	slices.Sort(scs)
	return slices.Values(scs)
}
