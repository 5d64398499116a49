// Package recomp orchestrates the static recompilation pipeline: load,
// decode, discover entry points, rename, emit.
package recomp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"

	"ps2xrecomp/internal/analysis"
	"ps2xrecomp/internal/codegen"
	"ps2xrecomp/internal/config"
	"ps2xrecomp/internal/elfx"
	"ps2xrecomp/internal/r5900"
	"ps2xrecomp/ps2rt"
)

// Recompiler drives one batch run over a guest executable.
type Recompiler struct {
	cfg *config.Config
	ld  *elfx.File
	gen *codegen.Generator

	functions []elfx.Function
	symbols   []elfx.Symbol
	decoded   map[uint32][]r5900.Instruction
	renames   map[uint32]string
	boot      codegen.BootstrapInfo

	skip  map[string]bool
	stubs map[string]bool

	failed int
}

// New builds a recompiler from a config file path.
func New(configPath string) (*Recompiler, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return &Recompiler{cfg: cfg}, nil
}

// NewFromConfig builds a recompiler from an already-parsed config.
func NewFromConfig(cfg *config.Config) *Recompiler {
	return &Recompiler{cfg: cfg}
}

// FailedCount reports how many functions were skipped for decode
// failures or truncated during decode; non-zero means a partial result.
func (r *Recompiler) FailedCount() int { return r.failed }

// Functions exposes the classified function list after Recompile.
func (r *Recompiler) Functions() []elfx.Function { return r.functions }

// Decoded exposes the decoded instruction lists after Recompile.
func (r *Recompiler) Decoded() map[uint32][]r5900.Instruction { return r.decoded }

// OutputPath reports the configured output directory.
func (r *Recompiler) OutputPath() string { return r.cfg.OutputPath }

// Initialize loads and validates the guest, merges external symbols,
// derives the function list and captures the bootstrap description.
func (r *Recompiler) Initialize() error {
	r.skip = make(map[string]bool)
	for _, n := range r.cfg.SkipFunctions {
		r.skip[n] = true
	}
	r.stubs = make(map[string]bool)
	for _, n := range r.cfg.StubImplementations {
		r.stubs[n] = true
	}

	ld, err := elfx.Open(r.cfg.InputPath)
	if err != nil {
		return fmt.Errorf("recomp: parse %s: %w", r.cfg.InputPath, err)
	}
	r.ld = ld

	if r.cfg.GhidraMapPath != "" {
		if err := ld.LoadGhidraFunctionMap(r.cfg.GhidraMapPath); err != nil {
			return err
		}
	}

	r.functions = ld.ExtractFunctions()
	r.symbols = ld.Symbols()
	if len(r.functions) == 0 {
		return fmt.Errorf("recomp: no functions found in %s", r.cfg.InputPath)
	}

	r.captureBootstrapInfo()

	log.WithFields(log.Fields{
		"functions":   len(r.functions),
		"symbols":     len(r.symbols),
		"sections":    len(ld.Sections()),
		"relocations": len(ld.Relocations()),
	}).Info("extracted guest image")

	r.gen = codegen.NewGenerator(r.symbols)
	r.gen.SetBootstrapInfo(r.boot)

	if err := os.MkdirAll(r.cfg.OutputPath, 0o755); err != nil {
		return fmt.Errorf("recomp: output dir: %w", err)
	}
	return nil
}

// captureBootstrapInfo records the entry point, BSS extent and _gp.
func (r *Recompiler) captureBootstrapInfo() {
	entry := r.ld.EntryPoint()
	log.WithField("entry", fmt.Sprintf("0x%08x", entry)).Info("ELF entry point")

	var bssStart, bssEnd uint32 = ^uint32(0), 0
	for _, sec := range r.ld.Sections() {
		if sec.IsBSS && sec.Size > 0 {
			if sec.Address < bssStart {
				bssStart = sec.Address
			}
			if end := sec.Address + sec.Size; end > bssEnd {
				bssEnd = end
			}
		}
	}

	var gp uint32
	for _, sym := range r.symbols {
		if sym.Name == "_gp" {
			gp = sym.Address
			break
		}
	}

	if entry != 0 {
		r.boot.Valid = true
		r.boot.Entry = entry
		r.boot.GP = gp
		if bssStart != ^uint32(0) && bssEnd > bssStart {
			r.boot.BSSStart = bssStart
			r.boot.BSSEnd = bssEnd
		}
	}
}

func (r *Recompiler) isStubFunction(name string) bool {
	return r.stubs[name] || ps2rt.IsStubName(name)
}

// Recompile decodes every function, then runs entry-point discovery.
func (r *Recompiler) Recompile() error {
	log.WithField("count", len(r.functions)).Info("recompiling functions")
	r.decoded = make(map[uint32][]r5900.Instruction, len(r.functions))

	for i := range r.functions {
		fn := &r.functions[i]

		if r.isStubFunction(fn.Name) || r.skip[fn.Name] {
			fn.IsStub = true
			continue
		}

		end := fn.End
		insts, err := analysis.DecodeFunction(r.ld, fn, r.cfg.Patches)
		if err != nil {
			r.failed++
			log.WithField("func", fn.Name).WithError(err).Error("skipping function")
			continue
		}
		if fn.End != end {
			// Truncated: kept and recompiled, but counted as a partial result.
			r.failed++
		}
		r.decoded[fn.Start] = insts
		fn.IsRecompiled = true
	}

	analysis.DiscoverEntryPoints(r.ld, &r.functions, r.decoded)

	if r.failed > 0 {
		fmt.Fprintf(os.Stderr, "Recompile completed with %d function(s) skipped\n", r.failed)
	}
	return nil
}

// buildRenames resolves global name collisions: every colliding
// sanitized name gets its guest start appended.
func (r *Recompiler) buildRenames() {
	names := analysis.ResolveNames(r.symbols)

	makeName := func(fn *elfx.Function) string {
		guest := fn.Name
		if guest == "" {
			guest = analysis.FunctionName(names, fn.Start)
		}
		s := codegen.SanitizeName(guest)
		if s == "" {
			s = fmt.Sprintf("func_%x", fn.Start)
		}
		return s
	}

	counts := make(map[string]int)
	for i := range r.functions {
		fn := &r.functions[i]
		if !fn.IsRecompiled && !fn.IsStub {
			continue
		}
		counts[makeName(fn)]++
	}

	r.renames = make(map[uint32]string)
	for i := range r.functions {
		fn := &r.functions[i]
		if !fn.IsRecompiled && !fn.IsStub {
			continue
		}
		s := makeName(fn)
		if counts[s] > 1 {
			s = fmt.Sprintf("%s_0x%x", s, fn.Start)
		}
		r.renames[fn.Start] = s
	}

	r.gen.SetRenamedFunctions(r.renames)

	if r.boot.Valid {
		if name, ok := r.renames[r.boot.Entry]; ok {
			r.boot.EntryName = name
			r.gen.SetBootstrapInfo(r.boot)
		}
	}
}

// GenerateOutput emits the generated sources into the output directory.
func (r *Recompiler) GenerateOutput() error {
	r.buildRenames()

	stubNames := make(map[string]bool)
	for _, n := range r.cfg.SkipFunctions {
		stubNames[n] = true
	}
	for _, n := range r.cfg.StubImplementations {
		stubNames[n] = true
	}

	if r.cfg.SingleFileOutput {
		if err := r.writeSingleFile(); err != nil {
			return err
		}
	} else {
		if err := r.writePerFunctionFiles(); err != nil {
			return err
		}
		if err := r.writeFile("ps2_recompiled_functions.go", r.gen.GenerateManifest(r.functions)); err != nil {
			return err
		}
	}

	if err := r.writeFile("register_functions.go", r.gen.GenerateRegistration(r.functions)); err != nil {
		return err
	}

	var stubList []string
	for n := range stubNames {
		stubList = append(stubList, n)
	}
	if err := r.writeFile("ps2_recompiled_stubs.go", r.gen.GenerateStubsInterface(stubList)); err != nil {
		return err
	}

	log.WithField("dir", r.cfg.OutputPath).Info("wrote generated sources")
	return nil
}

func (r *Recompiler) writeSingleFile() error {
	var b strings.Builder
	b.WriteString("// Code generated by ps2xrecomp. DO NOT EDIT.\n\n")
	b.WriteString("package ps2gen\n\n")
	b.WriteString("import \"ps2xrecomp/ps2rt\"\n\n")

	boot, err := r.gen.GenerateBootstrap(false)
	if err != nil {
		return err
	}
	if boot != "" {
		b.WriteString(boot)
		b.WriteString("\n")
	}

	for i := range r.functions {
		fn := &r.functions[i]
		if !fn.IsRecompiled && !fn.IsStub {
			continue
		}
		code, err := r.generateOne(fn, false)
		if err != nil {
			return err
		}
		b.WriteString(code)
		b.WriteString("\n")
	}

	manifest := r.gen.GenerateManifest(r.functions)
	// Strip the file header; the combined file already has one.
	if i := strings.Index(manifest, "// RecompiledFunctions"); i >= 0 {
		b.WriteString(manifest[i:])
	}

	return r.writeFile("ps2_recompiled_functions.go", b.String())
}

func (r *Recompiler) writePerFunctionFiles() error {
	boot, err := r.gen.GenerateBootstrap(true)
	if err != nil {
		return err
	}
	if boot != "" {
		if err := r.writeFile("ps2_entry_bootstrap.go", boot); err != nil {
			return err
		}
	}

	for i := range r.functions {
		fn := &r.functions[i]
		if !fn.IsRecompiled && !fn.IsStub {
			continue
		}
		code, err := r.generateOne(fn, true)
		if err != nil {
			return err
		}
		if err := r.writeFile(r.outputFileName(fn), code); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recompiler) generateOne(fn *elfx.Function, standalone bool) (string, error) {
	if fn.IsStub {
		code := r.gen.GenerateStub(fn)
		if standalone {
			code = fileHeaderFor(code)
		}
		return code, nil
	}
	insts, ok := r.decoded[fn.Start]
	if !ok {
		return "", fmt.Errorf("recomp: no decoded instructions for 0x%08x", fn.Start)
	}
	code, err := r.gen.GenerateFunction(fn, insts, standalone)
	if err != nil {
		return "", fmt.Errorf("recomp: generate %s (0x%08x): %w", fn.Name, fn.Start, err)
	}
	return code, nil
}

func fileHeaderFor(body string) string {
	return "// Code generated by ps2xrecomp. DO NOT EDIT.\n\n" +
		"package ps2gen\n\n" +
		"import \"ps2xrecomp/ps2rt\"\n\n" + body
}

// outputFileName builds <sanitized>_0x<hexstart>.go, scrubbing path
// metacharacters the filesystem would reject.
func (r *Recompiler) outputFileName(fn *elfx.Function) string {
	name := r.renames[fn.Start]
	if name == "" {
		name = codegen.SanitizeName(fn.Name)
	}
	name = strings.Map(func(c rune) rune {
		switch c {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '$':
			return '_'
		}
		return c
	}, name)
	if name == "" {
		name = fmt.Sprintf("func_%x", fn.Start)
	}
	suffix := fmt.Sprintf("_0x%x", fn.Start)
	if !strings.HasSuffix(name, suffix) {
		name += suffix
	}
	return name + ".go"
}

func (r *Recompiler) writeFile(name, content string) error {
	path := filepath.Join(r.cfg.OutputPath, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("recomp: write %s: %w", path, err)
	}
	return nil
}

// Run executes the whole pipeline.
func (r *Recompiler) Run() error {
	if err := r.Initialize(); err != nil {
		return err
	}
	if err := r.Recompile(); err != nil {
		return err
	}
	return r.GenerateOutput()
}
