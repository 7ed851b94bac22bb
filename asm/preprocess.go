// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/novavm/image"
)

const (
	DEFINE_MACRO      = "!define_macro"      // !define_macro NAME [=>] TEXT...
	DEFINE_MACRO_FUNC = "!define_macro_func" // !define_macro_func NAME ARG... => BODY...

	MACRO_DEPTH_LIMIT = 64 // Default limit of macro expansions per line.
)

// Macro is a plain or parameterized text substitution.
type Macro struct {
	LineNo int      // Line number of the definition.
	Text   string   // Replacement text of a plain macro.
	Func   bool     // Set for a parameterized macro.
	Params []string // Formal parameters of a parameterized macro.
	Body   []string // Body words of a parameterized macro.
}

// Preprocessor expands macros and $(...) expressions, line by line.
type Preprocessor struct {
	Verbose  bool              // If set, verbosely logs each expansion.
	MaxDepth int               // Expansions allowed per line; zero is MACRO_DEPTH_LIMIT.
	Macro    map[string]*Macro // Macros defined so far.

	predefine map[string]string
}

// Predefine adds a plain macro that exists before every pass.
func (pp *Preprocessor) Predefine(name string, text string) {
	if pp.predefine == nil {
		pp.predefine = map[string]string{name: text}
	} else {
		pp.predefine[name] = text
	}
}

// Reset forgets all macros except the predefines.
func (pp *Preprocessor) Reset() {
	pp.Macro = make(map[string]*Macro, len(pp.predefine))
	for name, text := range pp.predefine {
		pp.Macro[name] = &Macro{Text: text}
	}
}

// Process expands every line of input. The output has one line per input
// line; definitions become empty lines. Everything from a [[DATA]] line
// onwards is passed through untouched.
func (pp *Preprocessor) Process(input io.Reader) (lines []string, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	pp.Reset()

	in_data := false
	for scanner.Scan() {
		line = scanner.Text()
		lineno++

		if _, ok := image.CutDataMarker(line); in_data || ok {
			in_data = true
			lines = append(lines, line)
			continue
		}

		var out string
		out, err = pp.Line(line, lineno)
		if err != nil {
			return
		}
		lines = append(lines, out)
	}

	err = scanner.Err()
	return
}

// Line expands a single instruction line.
func (pp *Preprocessor) Line(line string, lineno int) (out string, err error) {
	if pp.Macro == nil {
		pp.Reset()
	}

	line, _, _ = strings.Cut(line, ";")
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case DEFINE_MACRO, DEFINE_MACRO_FUNC:
		err = pp.define(words, lineno)
		return
	}

	words, err = pp.expandWords(words, 0, lineno)
	if err != nil {
		return
	}

	out, err = pp.evaluate(strings.Join(words, " "), lineno)
	return
}

// expandWords expands the macro invocations in words. A leading `!NAME`
// may consume the rest of the words as arguments; any other `!NAME` is
// expanded with no arguments. The text a macro produces is expanded again
// one level deeper, up to the depth limit.
func (pp *Preprocessor) expandWords(words []string, depth int, lineno int) (out []string, err error) {
	limit := pp.MaxDepth
	if limit <= 0 {
		limit = MACRO_DEPTH_LIMIT
	}

	invoke := func(name string, args []string) (text []string, consumed bool, err error) {
		if depth >= limit {
			err = ErrMacroExpansionLimitExceeded{Macro: name, Limit: limit}
			return
		}

		var expanded string
		expanded, consumed, err = pp.expand(name, args)
		if err != nil {
			return
		}

		if pp.Verbose {
			log.Printf("%v: !%v => %v", lineno, name, expanded)
		}

		text = strings.Fields(expanded)
		return
	}

	if len(words) > 0 && words[0][0] == '!' {
		text, consumed, err := invoke(words[0][1:], words[1:])
		if err != nil {
			return nil, err
		}
		if !consumed {
			text = append(text, words[1:]...)
		}
		return pp.expandWords(text, depth+1, lineno)
	}

	out = make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < 2 || word[0] != '!' {
			out = append(out, word)
			continue
		}

		var text []string
		text, _, err = invoke(word[1:], nil)
		if err != nil {
			return
		}
		text, err = pp.expandWords(text, depth+1, lineno)
		if err != nil {
			return
		}
		out = append(out, text...)
	}

	return
}

// define records a !define_macro or !define_macro_func line.
// Redefinition replaces the previous macro.
func (pp *Preprocessor) define(words []string, lineno int) (err error) {
	if len(words) < 2 {
		err = ErrMacroSyntax
		return
	}

	name := words[1]
	rest := words[2:]
	macro := &Macro{LineNo: lineno}

	switch words[0] {
	case DEFINE_MACRO:
		if len(rest) > 0 && rest[0] == "=>" {
			rest = rest[1:]
		}
		macro.Text = strings.Join(rest, " ")
	case DEFINE_MACRO_FUNC:
		arrow := slices.Index(rest, "=>")
		if arrow < 0 {
			err = ErrMacroSyntax
			return
		}
		macro.Func = true
		macro.Params = slices.Clone(rest[:arrow])
		macro.Body = slices.Clone(rest[arrow+1:])
		for n, param := range macro.Params {
			if slices.Contains(macro.Params[n+1:], param) {
				err = ErrMacroParameter
				return
			}
		}
	}

	if pp.Verbose {
		if _, ok := pp.Macro[name]; ok {
			log.Printf("%v: macro %v redefined", lineno, name)
		}
		for mnemonic := range Mnemonics() {
			if mnemonic == name {
				log.Printf("%v: macro %v shadows a mnemonic", lineno, name)
			}
		}
	}

	pp.Macro[name] = macro

	return
}

// expand produces the text of a macro invocation. A parameterized macro
// consumes the arguments; a plain macro leaves them in place.
func (pp *Preprocessor) expand(name string, args []string) (text string, consumed bool, err error) {
	macro, ok := pp.Macro[name]
	if !ok {
		err = ErrUnknownMacro(name)
		return
	}

	if !macro.Func {
		text = macro.Text
		return
	}

	if len(args) != len(macro.Params) {
		err = ErrMacroArityMismatch{Macro: name, Expected: len(macro.Params), Got: len(args)}
		return
	}

	body := slices.Clone(macro.Body)
	for n, word := range body {
		index := slices.Index(macro.Params, word)
		if index >= 0 {
			body[n] = args[index]
		}
	}

	text = strings.Join(body, " ")
	consumed = true
	return
}

var reExpression = regexp.MustCompile(`\$\([^\$]*\)`)

// evaluate replaces every $(...) with its value.
func (pp *Preprocessor) evaluate(line string, lineno int) (out string, err error) {
	out = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := pp.parenEval(str[2:len(str)-1], lineno)
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})

	return
}

// parenEval does compile-time $(...) evaluations. Plain macros with
// numeric text are visible as integers.
func (pp *Preprocessor) parenEval(expr string, lineno int) (value int64, err error) {
	thread := starlark.Thread{Name: "novavm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"LINENO": starlark.MakeInt(lineno),
	}
	for name, macro := range pp.Macro {
		if macro.Func {
			continue
		}
		number, ok := parseNumber(macro.Text)
		if !ok {
			continue
		}
		pred[name] = starlark.MakeInt64(number)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseNumber reads a numeric token in any of the assembler's forms. The
// value may be as wide as a register.
func parseNumber(word string) (value int64, ok bool) {
	digits, base, _, ok := splitImmediate(word)
	if !ok {
		return
	}

	v64, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		ok = false
		return
	}

	value = int64(v64)
	return
}
