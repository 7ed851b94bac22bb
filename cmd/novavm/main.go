// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/novavm/asm"
	"github.com/ezrec/novavm/emulator"
	"github.com/ezrec/novavm/image"
)

func main() {
	var compile string
	var input string
	var output string
	var save bool
	var verbose bool
	var debug bool

	flag.StringVar(&compile, "c", "", ".nasm file to compile")
	flag.StringVar(&input, "i", "", ".nimg image to run")
	flag.StringVar(&output, "o", "", ".nimg image to write")
	flag.BoolVar(&save, "s", false, "Save the image only, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&debug, "d", false, "Print a trace table to stderr")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(input) == 0) {
		log.Fatalf("%v: exactly one of -c or -i is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	prog := &asm.Program{}

	// Compile a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		assembler := &asm.Assembler{Verbose: verbose}
		emu.Predefine(assembler)
		prog, err = assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Read a pre-assembled image.
	if len(input) != 0 {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()

		img, err := image.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		prog.Image = *img
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		err = prog.Image.Write(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if save {
		atexit.Exit(0)
	}

	emu.Program = prog
	if debug {
		sink := newTableSink(prog)
		emu.Machine.Debug = true
		emu.Machine.Sink = sink
		atexit.Register(func() {
			fmt.Fprintln(os.Stderr, sink.Render())
		})
	}

	err := emu.Reset()
	if err != nil {
		atexit.Fatalf("%v", err)
	}

	err = emu.Run()
	if err != nil {
		atexit.Fatalf("%v", err)
	}

	if verbose {
		log.Printf("%v", emu.Machine.String())
	}

	atexit.Exit(0)
}
