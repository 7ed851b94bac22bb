package asm

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/novavm/cpu"
	"github.com/ezrec/novavm/image"
)

func parse(t *testing.T, program []string) (prog *Program, err error) {
	t.Helper()
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(prog.Code)
	assert.Empty(prog.Data)
	assert.Empty(prog.Lines)
}

func TestClassify(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		word string
		part Part
	}{
		{"HALT", Part{PART_OPCODE, 0x00}},
		{"ADD", Part{PART_OPCODE, 0x50}},
		{"SYSCALL", Part{PART_OPCODE, 0x80}},
		{"A", Part{PART_REGISTER, 0x01}},
		{"FLAGS", Part{PART_REGISTER, 0x07}},
		{"WRITE", Part{PART_SYSCALL, 0x04}},
		{"$10", Part{PART_DECIMAL, 10}},
		{"$255", Part{PART_DECIMAL, 0xff}},
		{"0x53", Part{PART_HEX, 0x53}},
		{"0xA", Part{PART_HEX, 0x0a}},
		{"0b101", Part{PART_BINARY, 5}},
		{"16", Part{PART_DECIMAL, 16}},
		{"0", Part{PART_DECIMAL, 0}},
	}

	for _, entry := range table {
		part, err := Classify(entry.word)
		assert.NoError(err, entry.word)
		assert.Equal(entry.part, part, entry.word)
	}

	assert.Equal("hex", PART_HEX.String())
	assert.Equal("PartKind(9)", PartKind(9).String())
}

func TestMnemonics(t *testing.T) {
	assert := assert.New(t)

	mnemonics := slices.Collect(Mnemonics())
	assert.Len(mnemonics, 10+int(cpu.REGISTER_COUNT)+3)
	assert.Equal("HALT", mnemonics[0])
	assert.Contains(mnemonics, "FLAGS")
	assert.Contains(mnemonics, "WRITE")

	for _, mnemonic := range mnemonics {
		_, err := Classify(mnemonic)
		assert.NoError(err, mnemonic)
	}
}

func TestClassifyErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		word string
		err  error
	}{
		{"add", ErrUnknownToken("add")},
		{"R0", ErrUnknownToken("R0")},
		{"-1", ErrUnknownToken("-1")},
		{"1a", ErrUnknownToken("1a")},
		{"$", image.ErrInvalidByteLiteral("$")},
		{"$abc", image.ErrInvalidByteLiteral("$abc")},
		{"$256", image.ErrInvalidByteLiteral("$256")},
		{"0x100", image.ErrInvalidByteLiteral("0x100")},
		{"0xFFFF", image.ErrInvalidByteLiteral("0xFFFF")},
		{"0x", image.ErrInvalidByteLiteral("0x")},
		{"0xADD", image.ErrInvalidByteLiteral("0xADD")},
		{"0b2", image.ErrInvalidByteLiteral("0b2")},
		{"300", image.ErrInvalidByteLiteral("300")},
	}

	for _, entry := range table {
		_, err := Classify(entry.word)
		assert.Equal(entry.err, err, entry.word)
	}
}

func TestAssemblerArithmetic(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{"ADD A 5 3"})
	assert.NoError(err)
	assert.Equal([]byte{cpu.OP_ADD.Byte(), cpu.REG_A.Byte(), 0x05, 0x03}, prog.Code)
	assert.Empty(prog.Data)
}

func TestAssemblerListing(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"; add two numbers",
		"ADD M 16 1 ; M = 17",
		"",
		"SWAP M A",
		"SYSCALL EXIT",
	})
	assert.NoError(err)

	expected := []Line{
		{2, 0, []string{"ADD", "M", "16", "1"}, []byte{0x50, 0x04, 0x10, 0x01}},
		{4, 4, []string{"SWAP", "M", "A"}, []byte{0x62, 0x04, 0x01}},
		{5, 7, []string{"SYSCALL", "EXIT"}, []byte{0x80, 0x01}},
	}
	assert.Equal(expected, prog.Lines)
	assert.Equal([]byte{0x50, 0x04, 0x10, 0x01, 0x62, 0x04, 0x01, 0x80, 0x01}, prog.Code)

	dbg := prog.Debug(5)
	if assert.NotNil(dbg.Line) {
		assert.Equal(4, dbg.LineNo)
		assert.Equal(1, dbg.Index)
	}

	dbg = prog.Debug(9)
	assert.Nil(dbg.Line)
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"SYSCALL WRITE 1 0 5",
		"[[DATA]]",
		"Hello",
	})
	assert.NoError(err)
	assert.Equal([]byte{0x80, 0x04, 0x01, 0x00, 0x05}, prog.Code)
	assert.Equal([]byte("Hello\x00"), prog.Data)

	prog, err = parse(t, []string{
		"HALT",
		"[[DATA]] inline",
		"ADD A 1 2 ; stays text",
		"",
		"[[DATA]]",
	})
	assert.NoError(err)
	assert.Equal([]byte{0x00}, prog.Code)
	assert.Equal([]byte("inline\x00ADD A 1 2 ; stays text\x00\x00[[DATA]]\x00"), prog.Data)
	assert.Equal(1, len(prog.Lines))
}

func TestAssemblerIndentedData(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"HALT",
		"  [[DATA]]",
		"Hello; world",
		"Hi !there",
	})
	assert.NoError(err)
	assert.Equal([]byte{0x00}, prog.Code)
	assert.Equal([]byte("Hello; world\x00Hi !there\x00"), prog.Data)

	prog, err = parse(t, []string{
		"NOP",
		"\t[[DATA]]  tail ",
	})
	assert.NoError(err)
	assert.Equal([]byte("tail\x00"), prog.Data)
}

func TestAssemblerMacroNumbers(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"!define_macro X 010",
		"ADD A !X $(X)",
	})
	assert.NoError(err)
	assert.Equal([]byte{0x50, 0x01, 10, 10}, prog.Code)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	_, err := parse(t, []string{
		"!define_macro FOO => 0x05",
		"ADD A !FOO 0x05",
		"!define_macro_func PRINT start len => SYSCALL WRITE !STDOUT start len",
		"!define_macro STDOUT 1",
		"!PRINT 0 $(LEN)",
	})
	// LEN is not a number yet.
	assert.Error(err)

	asm := &Assembler{}
	asm.Predefine("LEN", "2")
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"!define_macro FOO => 0x05",
		"ADD A !FOO 0x05",
		"!define_macro STDOUT 1",
		"!define_macro_func PRINT start len => SYSCALL WRITE !STDOUT start len",
		"!PRINT 0 $(LEN)",
		"[[DATA]]",
		"hi",
	}, "\n")))
	assert.NoError(err)
	assert.Equal([]byte{0x50, 0x01, 0x05, 0x05, 0x80, 0x04, 0x01, 0x00, 0x02}, prog.Code)
	assert.Equal(5, prog.Lines[1].LineNo)
	assert.Equal([]string{"SYSCALL", "WRITE", "1", "0", "0x2"}, prog.Lines[1].Words)
}

func TestAssemblerCapacity(t *testing.T) {
	assert := assert.New(t)

	program := make([]string, 0, cpu.MEMORY_SIZE/4+1)
	for range cpu.MEMORY_SIZE/4 + 1 {
		program = append(program, "ADD A 1 1")
	}
	_, err := parse(t, program)
	var ec cpu.ErrCapacityExceeded
	assert.True(errors.As(err, &ec))
	assert.Equal("code", ec.What)
	var se *ErrSyntax
	assert.True(errors.As(err, &se))
	assert.Equal(len(program), se.LineNo)

	_, err = parse(t, []string{"[[DATA]] " + strings.Repeat("x", cpu.DATA_SIZE)})
	assert.True(errors.As(err, &ec))
	assert.Equal("data", ec.What)
	assert.Equal(cpu.DATA_SIZE+1, ec.Size)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		prog string
		line int
		err  error
	}{
		{"ADD A 5 3\nADD R0 5 3", 2, ErrUnknownToken("R0")},
		{"NOP\nNOP\nADD A 0x100 1", 3, image.ErrInvalidByteLiteral("0x100")},
		{"ADD A $(255 + 1) 1", 1, image.ErrInvalidByteLiteral("0x100")},
		{"!NOPE", 1, ErrUnknownMacro("NOPE")},
		{"halt", 1, ErrUnknownToken("halt")},
	}

	asm := &Assembler{}
	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		if assert.True(errors.As(err, &se), entry.prog) {
			assert.Equal(entry.line, se.LineNo, entry.prog)
			assert.Equal(entry.err, se.Err, entry.prog)
		}
	}
}

func TestAssemblerMacroParity(t *testing.T) {
	assert := assert.New(t)

	with, err := parse(t, []string{"!define_macro FOO => 0x05", "!FOO"})
	assert.NoError(err)
	without, err := parse(t, []string{"", "0x05"})
	assert.NoError(err)
	assert.Equal(without, with)
}
