package cpu

// Event is the record of a single decoded instruction.
type Event struct {
	Pc        uint16                 // Address of the opcode byte.
	Registers [REGISTER_COUNT]uint16 // Registers before execution.
	OpCode    OpCode                 // Decoded opcode.
	Syscall   Syscall                // Decoded syscall, if OpCode is OP_SYSCALL.
	Operands  []uint16               // Operands fetched, in order.
	Err       error                  // Fault raised by the instruction, if any.
}

// Sink receives debug events from a machine with Debug set.
type Sink interface {
	Debug(event Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(event Event)

func (fn SinkFunc) Debug(event Event) {
	fn(event)
}
