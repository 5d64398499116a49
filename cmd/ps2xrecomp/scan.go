package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"ps2xrecomp/internal/elfx"
)

func cmdScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	elfPath := fs.String("elf", "", "input executable")
	dump := fs.Bool("dump", false, "spew the parsed structures")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *elfPath == "" {
		return errors.New("scan: --elf is required")
	}

	f, err := elfx.Open(*elfPath)
	if err != nil {
		return err
	}

	fmt.Printf("entry point: 0x%08x\n", f.EntryPoint())
	fmt.Printf("sections: %d  symbols: %d  relocations: %d\n",
		len(f.Sections()), len(f.Symbols()), len(f.Relocations()))

	for _, s := range f.Sections() {
		kind := "data"
		switch {
		case s.IsExecutable:
			kind = "text"
		case s.IsBSS:
			kind = "bss"
		}
		fmt.Printf("  %-16s 0x%08x  0x%08x  %s\n", s.Name, s.Address, s.Size, kind)
	}

	if *dump {
		spew.Dump(f.Sections())
		spew.Dump(f.Symbols())
	}
	return nil
}
