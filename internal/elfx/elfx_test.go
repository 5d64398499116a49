package elfx

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ps2xrecomp/internal/testelf"
)

func writeImage(t *testing.T, p testelf.Params) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.elf")
	if err := os.WriteFile(path, testelf.Build(p), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func words(ws ...uint32) []byte {
	b := make([]byte, 4*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

func testImage(t *testing.T) *File {
	t.Helper()
	path := writeImage(t, testelf.Params{
		Entry:    0x100000,
		TextAddr: 0x100000,
		Text: words(
			0x3C020001, // LUI $2, 1
			0x03E00008, // JR $31
			0x00000000, // NOP
			0x24020042, // ADDIU $2, $0, 0x42
			0x03E00008, // JR $31
			0x00000000, // NOP
		),
		BSSAddr: 0x200000,
		BSSSize: 0x40,
		Syms: []testelf.Sym{
			{Name: "start", Value: 0x100000, Size: 12, IsFunc: true},
			{Name: "helper", Value: 0x10000C, Size: 12, IsFunc: true},
			{Name: "_gp", Value: 0x1F0000, Abs: true},
		},
	})
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestOpenValidates(t *testing.T) {
	f := testImage(t)
	if f.EntryPoint() != 0x100000 {
		t.Errorf("entry = 0x%x", f.EntryPoint())
	}
	if len(f.Sections()) != 2 {
		t.Fatalf("sections = %d, want .text and .bss", len(f.Sections()))
	}
}

func TestOpenRejectsNonELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk")
	os.WriteFile(path, []byte("not an elf at all, definitely"), 0o644)
	if _, err := Open(path); !errors.Is(err, ErrNotELF) {
		t.Fatalf("err = %v, want ErrNotELF", err)
	}
}

func TestReadWord(t *testing.T) {
	f := testImage(t)
	w, err := f.ReadWord(0x100000)
	if err != nil {
		t.Fatal(err)
	}
	if w != 0x3C020001 {
		t.Errorf("word = 0x%x", w)
	}

	if _, err := f.ReadWord(0x100002); !errors.Is(err, ErrInvalidAddress) {
		t.Error("misaligned read must fail")
	}
	if _, err := f.ReadWord(0x900000); !errors.Is(err, ErrInvalidAddress) {
		t.Error("out-of-section read must fail")
	}

	// BSS reads yield zero.
	w, err = f.ReadWord(0x200000)
	if err != nil {
		t.Fatal(err)
	}
	if w != 0 {
		t.Errorf("BSS word = 0x%x", w)
	}
}

func TestIsValid(t *testing.T) {
	f := testImage(t)
	if !f.IsValid(0x100000) || !f.IsValid(0x100014) {
		t.Error("text addresses should be valid")
	}
	if !f.IsValid(0x200010) {
		t.Error("BSS addresses should be valid")
	}
	if f.IsValid(0x100018) {
		t.Error("address past .text should be invalid")
	}
}

func TestExtractFunctions(t *testing.T) {
	f := testImage(t)
	funcs := f.ExtractFunctions()
	if len(funcs) != 2 {
		t.Fatalf("functions = %d, want 2", len(funcs))
	}
	if funcs[0].Name != "start" || funcs[0].Start != 0x100000 || funcs[0].End != 0x10000C {
		t.Errorf("funcs[0] = %+v", funcs[0])
	}
	// The last function runs to its section's end.
	if funcs[1].Name != "helper" || funcs[1].End != 0x100018 {
		t.Errorf("funcs[1] = %+v", funcs[1])
	}
}

func TestSymbols(t *testing.T) {
	f := testImage(t)
	syms := f.Symbols()
	var gp *Symbol
	for i := range syms {
		if syms[i].Name == "_gp" {
			gp = &syms[i]
		}
	}
	if gp == nil {
		t.Fatal("_gp symbol missing")
	}
	if gp.Address != 0x1F0000 || gp.IsFunction {
		t.Errorf("_gp = %+v", gp)
	}
}

func TestLoadGhidraFunctionMap(t *testing.T) {
	f := testImage(t)
	mapPath := filepath.Join(t.TempDir(), "ghidra.map")
	os.WriteFile(mapPath, []byte(
		"# name address size\n"+
			"renamed_start 0x100000 12\n"+
			"extra_func 0x10000C 12\n"+
			"bogus line\n",
	), 0o644)

	if err := f.LoadGhidraFunctionMap(mapPath); err != nil {
		t.Fatal(err)
	}

	funcs := f.ExtractFunctions()
	byStart := make(map[uint32]string)
	for _, fn := range funcs {
		byStart[fn.Start] = fn.Name
	}
	if byStart[0x100000] != "renamed_start" {
		t.Errorf("rename not applied: %q", byStart[0x100000])
	}
}
