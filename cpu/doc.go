// Package cpu implements the novavm register machine.
//
// The machine has seven 16-bit registers (A, B, C, M, SP, PC, FLAGS), a
// 256 byte memory holding the executable code, and a 256 byte data array
// holding payload bytes for syscalls. Every opcode, register, syscall and
// operand is encoded as a single byte; operands are zero-extended to 16
// bits when fetched.
//
// Machine.Step runs one fetch-decode-execute cycle. The machine halts when
// the program counter runs off the end of memory, on HALT, or on the EXIT
// syscall. Any fault stops the machine permanently.
package cpu
