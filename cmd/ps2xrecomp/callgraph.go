package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"ps2xrecomp/internal/callgraph"
	"ps2xrecomp/internal/recomp"
	"ps2xrecomp/internal/render"
)

// cmdCallgraph decodes the guest and writes callgraph.dot into the
// configured output directory.
func cmdCallgraph(args []string) error {
	fs := flag.NewFlagSet("callgraph", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("callgraph: --config is required")
	}

	r, err := recomp.New(*configPath)
	if err != nil {
		return err
	}
	if err := r.Initialize(); err != nil {
		return err
	}
	if err := r.Recompile(); err != nil {
		return err
	}

	nameAt := make(map[uint32]string)
	var funcs []callgraph.FuncInfo
	for _, fn := range r.Functions() {
		if !fn.IsRecompiled {
			continue
		}
		nameAt[fn.Start] = fn.Name
		funcs = append(funcs, callgraph.FuncInfo{
			Name:  fn.Name,
			Start: fn.Start,
			End:   fn.End,
			Insts: r.Decoded()[fn.Start],
		})
	}

	g := callgraph.BuildCallGraph(funcs, func(addr uint32) (string, bool) {
		n, ok := nameAt[addr]
		return n, ok
	})

	dot := render.DOT(g, "guest call graph", render.Mono)
	outPath := filepath.Join(r.OutputPath(), "callgraph.dot")
	if err := os.WriteFile(outPath, []byte(dot), 0o644); err != nil {
		return err
	}
	log.WithField("path", outPath).Info("wrote call graph")
	return nil
}
