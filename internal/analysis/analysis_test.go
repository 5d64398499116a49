package analysis

import (
	"errors"
	"testing"

	"ps2xrecomp/internal/elfx"
	"ps2xrecomp/internal/r5900"
)

// fakeImage serves words from a map, like a loader over one section.
type fakeImage struct {
	words map[uint32]uint32
}

func (f *fakeImage) IsValid(addr uint32) bool {
	_, ok := f.words[addr]
	return ok
}

func (f *fakeImage) ReadWord(addr uint32) (uint32, error) {
	w, ok := f.words[addr]
	if !ok {
		return 0, elfx.ErrInvalidAddress
	}
	return w, nil
}

func image(start uint32, words []uint32) *fakeImage {
	m := make(map[uint32]uint32, len(words))
	for i, w := range words {
		m[start+uint32(i)*4] = w
	}
	return &fakeImage{words: m}
}

func TestDecodeFunction(t *testing.T) {
	img := image(0x1000, []uint32{
		0x24020003, // ADDIU $2, $0, 3
		0x03E00008, // JR $31
		0x00000000, // NOP
	})
	fn := &elfx.Function{Start: 0x1000, End: 0x100C, Name: "f"}
	insts, err := DecodeFunction(img, fn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(insts) != 3 {
		t.Fatalf("len = %d, want 3", len(insts))
	}
	if insts[1].Address != 0x1004 || !insts[1].IsBranch {
		t.Error("JR not decoded at 0x1004")
	}
}

func TestDecodeFunctionAppliesPatch(t *testing.T) {
	img := image(0x1000, []uint32{0x24020003, 0x03E00008, 0})
	fn := &elfx.Function{Start: 0x1000, End: 0x100C, Name: "f"}
	insts, err := DecodeFunction(img, fn, map[uint32]uint32{0x1000: 0x24020007})
	if err != nil {
		t.Fatal(err)
	}
	if insts[0].Raw != 0x24020007 {
		t.Errorf("patched word = 0x%x", insts[0].Raw)
	}
}

func TestDecodeFunctionTruncatesOnInvalidRead(t *testing.T) {
	// Only the first two words are readable; End claims four.
	img := image(0x1000, []uint32{0x24020003, 0x24030004})
	fn := &elfx.Function{Start: 0x1000, End: 0x1010, Name: "f"}
	insts, err := DecodeFunction(img, fn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(insts) != 2 {
		t.Fatalf("len = %d, want 2", len(insts))
	}
	if fn.End != 0x1008 {
		t.Errorf("End = 0x%x, want truncated 0x1008", fn.End)
	}
}

func TestDecodeFunctionEmptyIsError(t *testing.T) {
	img := &fakeImage{words: map[uint32]uint32{}}
	fn := &elfx.Function{Start: 0x1000, End: 0x1010, Name: "f"}
	if _, err := DecodeFunction(img, fn, nil); !errors.Is(err, ErrEmptyFunction) {
		t.Fatalf("err = %v, want ErrEmptyFunction", err)
	}
}

func TestResolveNames(t *testing.T) {
	names := ResolveNames([]elfx.Symbol{
		{Address: 0x1000, Name: "data_thing", IsFunction: false},
		{Address: 0x1000, Name: "func_thing", IsFunction: true},
		{Address: 0x2000, Name: "other", IsFunction: false},
	})
	if names[0x1000] != "func_thing" {
		t.Errorf("function symbol must win: %q", names[0x1000])
	}
	if names[0x2000] != "other" {
		t.Errorf("data name lost: %q", names[0x2000])
	}
	if FunctionName(names, 0x3000) != "func_3000" {
		t.Errorf("fallback name = %q", FunctionName(names, 0x3000))
	}
}

// A J into the middle of another function synthesizes an aliasing
// entry whose instructions are the containing function's tail.
func TestDiscoverEntryPoints(t *testing.T) {
	// Single function A over [0x400, 0x500) with J 0x440 at 0x410; no
	// symbol exists at 0x440.
	words := make([]uint32, 64)    // 0x400..0x500, NOPs
	words[4] = 0x02<<26 | 0x440>>2 // J 0x440 at 0x410
	img := image(0x400, words)

	functions := []elfx.Function{
		{Start: 0x400, End: 0x500, Name: "A"},
	}
	insts, err := DecodeFunction(img, &functions[0], nil)
	if err != nil {
		t.Fatal(err)
	}
	functions[0].IsRecompiled = true
	decoded := map[uint32][]r5900.Instruction{0x400: insts}

	added := DiscoverEntryPoints(img, &functions, decoded)
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	if len(functions) != 2 {
		t.Fatalf("functions = %d, want 2", len(functions))
	}

	var alias *elfx.Function
	for i := range functions {
		if functions[i].Start == 0x440 {
			alias = &functions[i]
		}
	}
	if alias == nil {
		t.Fatal("no alias at 0x440")
	}
	if alias.Name != "entry_440" {
		t.Errorf("alias name = %q", alias.Name)
	}
	if alias.End != 0x500 {
		t.Errorf("alias end = 0x%x, want containing end", alias.End)
	}
	if !alias.IsRecompiled || alias.IsStub {
		t.Error("alias must be recompiled, not stub")
	}

	tail := decoded[0x440]
	k := (0x440 - 0x400) / 4
	if len(tail) != len(insts)-k {
		t.Fatalf("tail length = %d, want %d", len(tail), len(insts)-k)
	}
	for i, inst := range tail {
		if inst != insts[k+i] {
			t.Fatalf("tail[%d] differs from containing instructions", i)
		}
	}

	// Re-running discovers nothing new.
	if again := DiscoverEntryPoints(img, &functions, decoded); again != 0 {
		t.Errorf("second pass added %d", again)
	}
}

func TestDiscoverEntryPointsIgnoresExistingStarts(t *testing.T) {
	words := []uint32{
		0x02<<26 | 0x1008>>2, // J 0x1008 (already a function start)
		0,
		0x03E00008, // JR
		0,
	}
	img := image(0x1000, words)
	functions := []elfx.Function{
		{Start: 0x1000, End: 0x1008, Name: "a"},
		{Start: 0x1008, End: 0x1010, Name: "b"},
	}
	decoded := make(map[uint32][]r5900.Instruction)
	for i := range functions {
		insts, err := DecodeFunction(img, &functions[i], nil)
		if err != nil {
			t.Fatal(err)
		}
		functions[i].IsRecompiled = true
		decoded[functions[i].Start] = insts
	}
	if added := DiscoverEntryPoints(img, &functions, decoded); added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
}
