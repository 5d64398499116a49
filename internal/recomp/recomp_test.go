package recomp

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ps2xrecomp/internal/config"
	"ps2xrecomp/internal/testelf"
)

func words(ws ...uint32) []byte {
	b := make([]byte, 4*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// buildGuest assembles a small image: "start" with a jump into its own
// interior (an alternate entry point), plus a "memcpy" that the stub
// table replaces.
func buildGuest(t *testing.T) string {
	t.Helper()
	text := words(
		// start: 0x100000
		0x02<<26|0x100010>>2, // J 0x100010 (interior label)
		0x00000000,           // NOP
		0x24420001,           // ADDIU $2, $2, 1
		0x00000000,           // NOP
		// 0x100010 (interior target)
		0x03E00008, // JR $31
		0x00000000, // NOP
		// memcpy: 0x100018
		0x03E00008, // JR $31
		0x00000000, // NOP
	)
	path := filepath.Join(t.TempDir(), "game.elf")
	img := testelf.Build(testelf.Params{
		Entry:    0x100000,
		TextAddr: 0x100000,
		Text:     text,
		BSSAddr:  0x200000,
		BSSSize:  0x30,
		Syms: []testelf.Sym{
			{Name: "start", Value: 0x100000, Size: 24, IsFunc: true},
			{Name: "memcpy", Value: 0x100018, Size: 8, IsFunc: true},
			{Name: "_gp", Value: 0x1F8000, Abs: true},
		},
	})
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runPipeline(t *testing.T, singleFile bool) (*Recompiler, string) {
	t.Helper()
	elfPath := buildGuest(t)
	outDir := filepath.Join(t.TempDir(), "out")

	cfg := &config.Config{
		InputPath:        elfPath,
		OutputPath:       outDir,
		SingleFileOutput: singleFile,
		Patches:          map[uint32]uint32{},
	}
	r := NewFromConfig(cfg)
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	return r, outDir
}

func TestPipelineMultiFile(t *testing.T) {
	r, outDir := runPipeline(t, false)

	if r.FailedCount() != 0 {
		t.Fatalf("failed = %d", r.FailedCount())
	}

	for _, name := range []string{
		"start_0x100000.go",
		"entry_100010_0x100010.go",
		"memcpy_0x100018.go",
		"ps2_entry_bootstrap.go",
		"ps2_recompiled_functions.go",
		"ps2_recompiled_stubs.go",
		"register_functions.go",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	reg, err := os.ReadFile(filepath.Join(outDir, "register_functions.go"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"rt.RegisterFunction(0x100000, entry_100000)", // bootstrap under entry addr
		"rt.RegisterFunction(0x100000, start)",
		"rt.RegisterFunction(0x100010, entry_100010)",
		"rt.RegisterFunction(0x100018, memcpy)",
	} {
		if !strings.Contains(string(reg), want) {
			t.Errorf("registration missing %q:\n%s", want, reg)
		}
	}

	// memcpy is stubbed, not recompiled.
	stub, err := os.ReadFile(filepath.Join(outDir, "memcpy_0x100018.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stub), `rt.Stubs.Call("memcpy", rdram, ctx, rt)`) {
		t.Errorf("memcpy stub body:\n%s", stub)
	}

	// The alias is the containing function's tail.
	alias, err := os.ReadFile(filepath.Join(outDir, "entry_100010_0x100010.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(alias), "func entry_100010(") {
		t.Errorf("alias function:\n%s", alias)
	}
	if !strings.Contains(string(alias), "ctx.PC = ps2rt.GPRU32(ctx, 31)") {
		t.Errorf("alias should carry the tail JR:\n%s", alias)
	}

	// The bootstrap zeroes BSS and seeds gp from _gp.
	boot, err := os.ReadFile(filepath.Join(outDir, "ps2_entry_bootstrap.go"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"func entry_100000(",
		"ps2rt.SetGPRU32(ctx, 28, 0x1f8000)",
		"start(rdram, ctx, rt)",
	} {
		if !strings.Contains(string(boot), want) {
			t.Errorf("bootstrap missing %q:\n%s", want, boot)
		}
	}
}

func TestPipelineSingleFile(t *testing.T) {
	_, outDir := runPipeline(t, true)

	combined, err := os.ReadFile(filepath.Join(outDir, "ps2_recompiled_functions.go"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"package ps2gen",
		"func entry_100000(",
		"func start(",
		"func entry_100010(",
		"func memcpy(",
		"var RecompiledFunctions = map[uint32]string{",
	} {
		if !strings.Contains(string(combined), want) {
			t.Errorf("combined output missing %q", want)
		}
	}

	if _, err := os.Stat(filepath.Join(outDir, "register_functions.go")); err != nil {
		t.Error("registration file must exist in single-file mode")
	}
	if _, err := os.Stat(filepath.Join(outDir, "start_0x100000.go")); err == nil {
		t.Error("per-function files must not exist in single-file mode")
	}
}

func TestPipelineSkipCoercesToStub(t *testing.T) {
	elfPath := buildGuest(t)
	outDir := filepath.Join(t.TempDir(), "out")
	cfg := &config.Config{
		InputPath:     elfPath,
		OutputPath:    outDir,
		SkipFunctions: []string{"start"},
		Patches:       map[uint32]uint32{},
	}
	r := NewFromConfig(cfg)
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "start_0x100000.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "rt.Stubs.TODO(rdram, ctx, rt)") {
		t.Errorf("skipped function should be a TODO stub:\n%s", data)
	}
}

func TestPipelineAppliesPatches(t *testing.T) {
	elfPath := buildGuest(t)
	outDir := filepath.Join(t.TempDir(), "out")
	cfg := &config.Config{
		InputPath:  elfPath,
		OutputPath: outDir,
		// Replace the ADDIU at 0x100008 with ADDIU $2, $0, 7.
		Patches: map[uint32]uint32{0x100008: 0x24020007},
	}
	r := NewFromConfig(cfg)
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "start_0x100000.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ps2rt.SetGPRS32(ctx, 2, int32(ps2rt.GPRU32(ctx, 0))+7)") {
		t.Errorf("patched instruction not reflected:\n%s", data)
	}
}

func TestNameCollisionSuffixing(t *testing.T) {
	// Two distinct guest functions whose names sanitize identically.
	text := words(
		0x03E00008, 0, // a? at 0x100000: JR; NOP
		0x03E00008, 0, // at 0x100008
	)
	path := filepath.Join(t.TempDir(), "dup.elf")
	img := testelf.Build(testelf.Params{
		Entry:    0x100000,
		TextAddr: 0x100000,
		Text:     text,
		Syms: []testelf.Sym{
			{Name: "dup.fn", Value: 0x100000, Size: 8, IsFunc: true},
			{Name: "dup:fn", Value: 0x100008, Size: 8, IsFunc: true},
		},
	})
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(t.TempDir(), "out")
	cfg := &config.Config{InputPath: path, OutputPath: outDir, Patches: map[uint32]uint32{}}
	r := NewFromConfig(cfg)
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}

	reg, err := os.ReadFile(filepath.Join(outDir, "register_functions.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(reg), "dup_fn_0x100000") ||
		!strings.Contains(string(reg), "dup_fn_0x100008") {
		t.Errorf("colliding names must gain address suffixes:\n%s", reg)
	}
}
