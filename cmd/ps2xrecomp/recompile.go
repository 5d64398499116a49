package main

import (
	"errors"
	"flag"
	"os"

	"ps2xrecomp/internal/recomp"
)

func cmdRecompile(args []string) error {
	fs := flag.NewFlagSet("recompile", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("recompile: --config is required")
	}

	r, err := recomp.New(*configPath)
	if err != nil {
		return err
	}
	if err := r.Run(); err != nil {
		return err
	}

	if r.FailedCount() > 0 {
		// The driver already wrote the skip summary; exit non-zero.
		os.Exit(1)
	}
	return nil
}
