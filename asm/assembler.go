// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"io"
	"iter"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/novavm/cpu"
	"github.com/ezrec/novavm/image"
	"github.com/ezrec/novavm/internal"
)

// PartKind is the classification of a source token.
type PartKind int

//go:generate go tool stringer -linecomment -type=PartKind

const (
	PART_OPCODE   = PartKind(0) // opcode
	PART_REGISTER = PartKind(1) // register
	PART_SYSCALL  = PartKind(2) // syscall
	PART_DECIMAL  = PartKind(3) // decimal
	PART_HEX      = PartKind(4) // hex
	PART_BINARY   = PartKind(5) // binary
)

// Part is a classified token and the byte it contributes.
type Part struct {
	Kind  PartKind
	Value byte
}

// prefixes are the explicit numeric forms, tried before mnemonics.
var prefixes = []struct {
	prefix string
	base   int
	kind   PartKind
}{
	{"$", 10, PART_DECIMAL},
	{"0x", 16, PART_HEX},
	{"0b", 2, PART_BINARY},
}

// splitImmediate finds the digits and base of a numeric token, in any of
// the prefix forms or as a bare decimal.
func splitImmediate(word string) (digits string, base int, kind PartKind, ok bool) {
	for _, form := range prefixes {
		digits, ok = strings.CutPrefix(word, form.prefix)
		if ok {
			base = form.base
			kind = form.kind
			return
		}
	}

	if isDigits(word) {
		digits, base, kind, ok = word, 10, PART_DECIMAL, true
	}

	return
}

// parseImmediate parses digits in base, rejecting anything over a byte.
func parseImmediate(word string, digits string, base int) (value byte, err error) {
	v64, err := strconv.ParseUint(digits, base, 8)
	if err != nil {
		err = image.ErrInvalidByteLiteral(word)
		return
	}

	value = byte(v64)
	return
}

func isDigits(word string) bool {
	return len(word) > 0 && strings.Trim(word, "0123456789") == ""
}

func names[T fmt.Stringer](seq iter.Seq[T]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for item := range seq {
			if !yield(item.String()) {
				return
			}
		}
	}
}

// Mnemonics iterates over every opcode, register and syscall name.
func Mnemonics() iter.Seq[string] {
	return internal.IterSeqConcat(
		names(cpu.OpCodes()),
		names(cpu.Registers()),
		names(cpu.Syscalls()),
	)
}

// Classify resolves a single token to the byte it assembles to.
// Mnemonics never consist of digits, so numbers are tried first.
func Classify(word string) (part Part, err error) {
	if digits, base, kind, ok := splitImmediate(word); ok {
		part.Kind = kind
		part.Value, err = parseImmediate(word, digits, base)
		return
	}

	if op, ok := cpu.ParseOpCode(word); ok {
		part = Part{Kind: PART_OPCODE, Value: op.Byte()}
		return
	}

	if reg, ok := cpu.ParseRegister(word); ok {
		part = Part{Kind: PART_REGISTER, Value: reg.Byte()}
		return
	}

	if sc, ok := cpu.ParseSyscall(word); ok {
		part = Part{Kind: PART_SYSCALL, Value: sc.Byte()}
		return
	}

	err = ErrUnknownToken(word)
	return
}

// Assembler turns preprocessed source into a program image.
// It stops at the first error.
type Assembler struct {
	Verbose      bool         // If set, verbosely logs the assembler actions.
	Preprocessor Preprocessor // Macro expansion, run before assembly.

	Lines []Line // Listing of the last Parse.
	Code  []byte // Code stream of the last Parse.
	Data  []byte // Data stream of the last Parse.
}

// Predefine adds a plain macro visible to every Parse.
func (asm *Assembler) Predefine(name string, text string) {
	asm.Preprocessor.Predefine(name, text)
}

// Parse preprocesses and assembles an input stream.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	asm.Preprocessor.Verbose = asm.Verbose

	lines, err := asm.Preprocessor.Process(input)
	if err != nil {
		return
	}

	return asm.Assemble(lines)
}

// Assemble assembles already preprocessed lines. Line numbers are the
// 1-based slice indexes.
func (asm *Assembler) Assemble(lines []string) (prog *Program, err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.Code = asm.Code[:0]
	asm.Data = asm.Data[:0]

	in_data := false
	for lineno, line = range internal.IterEnumerate(lines, 1) {
		if asm.Verbose {
			log.Printf("%v: %v", lineno, line)
		}

		if !in_data {
			rest, ok := image.CutDataMarker(line)
			if !ok {
				err = asm.parseLine(line, lineno)
				if err != nil {
					return
				}
				continue
			}
			in_data = true
			rest = strings.TrimSpace(rest)
			if len(rest) == 0 {
				continue
			}
			line = rest
		}

		asm.Data = append(asm.Data, line...)
		asm.Data = append(asm.Data, 0)

		if len(asm.Data) > cpu.DATA_SIZE {
			err = cpu.ErrCapacityExceeded{What: "data", Size: len(asm.Data), Capacity: cpu.DATA_SIZE}
			return
		}
	}

	prog = &Program{
		Image: image.Image{
			Code: slices.Clone(asm.Code),
			Data: slices.Clone(asm.Data),
		},
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// parseLine assembles a single instruction line.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	line, _, _ = strings.Cut(line, ";")
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	codes := make([]byte, 0, len(words))
	for _, word := range words {
		var part Part
		part, err = Classify(word)
		if err != nil {
			return
		}
		if asm.Verbose {
			log.Printf("%v: %v => %v 0x%02x", lineno, word, part.Kind, part.Value)
		}
		codes = append(codes, part.Value)
	}

	asm.Lines = append(asm.Lines, Line{
		LineNo: lineno,
		Pc:     len(asm.Code),
		Words:  words,
		Bytes:  codes,
	})
	asm.Code = append(asm.Code, codes...)

	if len(asm.Code) > cpu.MEMORY_SIZE {
		err = cpu.ErrCapacityExceeded{What: "code", Size: len(asm.Code), Capacity: cpu.MEMORY_SIZE}
		return
	}

	return
}
