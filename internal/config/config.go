// Package config reads the recompiler's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/pelletier/go-toml/v2"
)

var ErrMissingField = errors.New("config: missing required field")

// Config is the resolved recompiler configuration.
type Config struct {
	InputPath        string
	OutputPath       string
	GhidraMapPath    string
	SingleFileOutput bool

	StubImplementations []string
	SkipFunctions       []string

	// Patches maps a guest address to a replacement instruction word.
	Patches map[uint32]uint32
}

// rawConfig mirrors the TOML schema. stubs/skip are accepted both under
// [general] and at top level.
type rawConfig struct {
	General struct {
		Input            string   `toml:"input"`
		Output           string   `toml:"output"`
		GhidraOutput     string   `toml:"ghidra_output"`
		SingleFileOutput bool     `toml:"single_file_output"`
		Stubs            []string `toml:"stubs"`
		Skip             []string `toml:"skip"`
	} `toml:"general"`
	Stubs   []string `toml:"stubs"`
	Skip    []string `toml:"skip"`
	Patches struct {
		Instructions []rawPatch `toml:"instructions"`
	} `toml:"patches"`
}

// rawPatch accepts address/value as integers or "0x.." strings.
type rawPatch struct {
	Address any `toml:"address"`
	Value   any `toml:"value"`
}

// Load parses the configuration file. Malformed patch entries are
// logged and dropped so the original instruction word stays in effect;
// everything else malformed is fatal.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML document into a Config.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if raw.General.Input == "" {
		return nil, fmt.Errorf("%w: general.input", ErrMissingField)
	}
	if raw.General.Output == "" {
		return nil, fmt.Errorf("%w: general.output", ErrMissingField)
	}

	cfg := &Config{
		InputPath:        raw.General.Input,
		OutputPath:       raw.General.Output,
		GhidraMapPath:    raw.General.GhidraOutput,
		SingleFileOutput: raw.General.SingleFileOutput,
		Patches:          make(map[uint32]uint32),
	}

	cfg.StubImplementations = raw.General.Stubs
	if len(cfg.StubImplementations) == 0 {
		cfg.StubImplementations = raw.Stubs
	}
	cfg.SkipFunctions = raw.General.Skip
	if len(cfg.SkipFunctions) == 0 {
		cfg.SkipFunctions = raw.Skip
	}

	for _, p := range raw.Patches.Instructions {
		addr, err := toUint32(p.Address)
		if err != nil {
			log.WithError(err).Warn("config: patch address unparsable, dropping entry")
			continue
		}
		val, err := toUint32(p.Value)
		if err != nil {
			log.WithFields(log.Fields{"addr": fmt.Sprintf("0x%x", addr)}).
				WithError(err).Warn("config: patch value unparsable, keeping original word")
			continue
		}
		cfg.Patches[addr] = val
	}

	return cfg, nil
}

func toUint32(v any) (uint32, error) {
	switch x := v.(type) {
	case int64:
		return uint32(x), nil
	case string:
		n, err := strconv.ParseUint(x, 0, 64)
		if err != nil {
			return 0, err
		}
		return uint32(n), nil
	case nil:
		return 0, errors.New("missing value")
	}
	return 0, fmt.Errorf("unsupported value type %T", v)
}
