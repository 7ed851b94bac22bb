package cpu

// Decoders for each fetchable Kind. The set is closed; each one consumes
// exactly one byte.

// DecodeOpCode interprets a byte as an opcode.
func DecodeOpCode(b byte) (op OpCode, err error) {
	op = OpCode(b)
	if !op.Valid() {
		err = ErrDecode{Byte: b, Kind: KIND_OPCODE}
	}
	return
}

// DecodeRegister interprets a byte as a register.
func DecodeRegister(b byte) (reg Register, err error) {
	for n, tag := range registerTag {
		if tag == b {
			reg = Register(n)
			return
		}
	}
	err = ErrDecode{Byte: b, Kind: KIND_REGISTER}
	return
}

// DecodeSyscall interprets a byte as a syscall.
func DecodeSyscall(b byte) (sc Syscall, err error) {
	sc = Syscall(b)
	if !sc.Valid() {
		err = ErrDecode{Byte: b, Kind: KIND_SYSCALL}
	}
	return
}

// DecodeByte interprets a byte as a raw value.
func DecodeByte(b byte) (value uint8, err error) {
	return b, nil
}

// DecodeWord zero-extends a byte to a 16-bit value.
func DecodeWord(b byte) (value uint16, err error) {
	return uint16(b), nil
}

// fetch pulls the byte at the program counter through decode, advancing
// the program counter by one.
func fetch[T any](m *Machine, decode func(b byte) (T, error)) (value T, err error) {
	pc := int(m.Register[REG_PC])
	if pc >= len(m.Memory) {
		err = ErrBounds{Index: pc, Capacity: len(m.Memory)}
		return
	}

	value, err = decode(m.Memory[pc])
	if err != nil {
		return
	}

	m.Register[REG_PC]++
	return
}
