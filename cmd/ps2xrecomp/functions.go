package main

import (
	"errors"
	"flag"
	"fmt"

	"ps2xrecomp/internal/elfx"
)

func cmdFunctions(args []string) error {
	fs := flag.NewFlagSet("functions", flag.ExitOnError)
	elfPath := fs.String("elf", "", "input executable")
	symbolMap := fs.String("symbol-map", "", "optional ghidra-style symbol map")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *elfPath == "" {
		return errors.New("functions: --elf is required")
	}

	f, err := elfx.Open(*elfPath)
	if err != nil {
		return err
	}
	if *symbolMap != "" {
		if err := f.LoadGhidraFunctionMap(*symbolMap); err != nil {
			return err
		}
	}

	funcs := f.ExtractFunctions()
	for _, fn := range funcs {
		fmt.Printf("0x%08x  0x%08x  %s\n", fn.Start, fn.End, fn.Name)
	}
	fmt.Printf("%d function(s)\n", len(funcs))
	return nil
}
