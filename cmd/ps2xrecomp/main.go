package main

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

func main() {
	log.SetHandler(cli.New(os.Stderr))

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "recompile":
		err = cmdRecompile(os.Args[2:])
	case "scan":
		err = cmdScan(os.Args[2:])
	case "functions":
		err = cmdFunctions(os.Args[2:])
	case "callgraph":
		err = cmdCallgraph(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `ps2xrecomp — PS2 EE static recompiler

Usage:
  ps2xrecomp recompile --config <path>          Recompile an ELF into Go sources
  ps2xrecomp scan      --elf <path> [--dump]    Print sections, symbols, entry point
  ps2xrecomp functions --elf <path>             List discovered function ranges
  ps2xrecomp callgraph --config <path>          Emit a static call graph (DOT)

Flags:
  --config <path>     TOML configuration file
  --elf <path>        Input executable
  --dump              Spew the parsed structures (scan)
`)
}
