package codegen

import (
	"strings"
	"testing"

	"ps2xrecomp/internal/elfx"
	"ps2xrecomp/internal/r5900"
)

func rType(op, rs, rt, rd, sa, fn uint32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | rd<<11 | sa<<6 | fn
}

func iType(op, rs, rt, imm uint32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | imm&0xFFFF
}

func decodeAll(start uint32, words []uint32) []r5900.Instruction {
	insts := make([]r5900.Instruction, len(words))
	for i, w := range words {
		insts[i] = r5900.Decode(start+uint32(i)*4, w)
	}
	return insts
}

func newTestGenerator(funcs map[uint32]string) *Generator {
	var syms []elfx.Symbol
	for addr, name := range funcs {
		syms = append(syms, elfx.Symbol{Address: addr, Name: name, IsFunction: true})
	}
	g := NewGenerator(syms)
	renames := make(map[uint32]string, len(funcs))
	for addr, name := range funcs {
		renames[addr] = SanitizeName(name)
	}
	g.SetRenamedFunctions(renames)
	return g
}

func generate(t *testing.T, g *Generator, fn *elfx.Function, words []uint32) string {
	t.Helper()
	insts := decodeAll(fn.Start, words)
	code, err := g.GenerateFunction(fn, insts, false)
	if err != nil {
		t.Fatalf("GenerateFunction: %v", err)
	}
	return code
}

// Straight-line arithmetic ending in JR $ra.
func TestGenerate_StraightLine(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x100000: "calc"})
	fn := &elfx.Function{Start: 0x100000, End: 0x100014, Name: "calc", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		iType(0x0F, 0, 2, 0x0001), // LUI   $2, 0x1
		iType(0x0D, 2, 2, 0x2345), // ORI   $2, $2, 0x2345
		iType(0x09, 2, 3, 0xFFFF), // ADDIU $3, $2, -1
		rType(0, 31, 0, 0, 0, 8),  // JR    $31
		0,                         // NOP
	})

	for _, want := range []string{
		"func calc(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime) {",
		"ps2rt.SetGPRU32(ctx, 2, 0x1<<16)",
		"ps2rt.SetGPRU32(ctx, 2, ps2rt.GPRU32(ctx, 2)|0x2345)",
		"ps2rt.SetGPRS32(ctx, 3, int32(ps2rt.GPRU32(ctx, 2))+(-1))",
		"ctx.PC = ps2rt.GPRU32(ctx, 31)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("missing %q in:\n%s", want, code)
		}
	}
	if !strings.Contains(code, "return") {
		t.Error("JR must end with return")
	}
}

// Non-likely conditional branch: delay slot precedes the condition.
func TestGenerate_BranchDelaySlotOrder(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x200000: "cond"})
	fn := &elfx.Function{Start: 0x200000, End: 0x200018, Name: "cond", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		iType(0x09, 0, 2, 3),     // ADDIU $2, $0, 3
		iType(0x04, 2, 0, 2),     // BEQ   $2, $0, +2 -> 0x200010
		iType(0x09, 2, 2, 1),     // ADDIU $2, $2, 1   (delay slot)
		iType(0x09, 2, 2, 10),    // ADDIU $2, $2, 10
		rType(0, 31, 0, 0, 0, 8), // JR    $31
		0,                        // NOP
	})

	if !strings.Contains(code, "label_200010:") {
		t.Fatalf("internal label missing:\n%s", code)
	}
	if !strings.Contains(code, "goto label_200010") {
		t.Fatalf("goto to internal target missing:\n%s", code)
	}

	// The delay slot must appear lexically before the if.
	delay := strings.Index(code, "ps2rt.SetGPRS32(ctx, 2, int32(ps2rt.GPRU32(ctx, 2))+1)")
	cond := strings.Index(code, "if ps2rt.GPRU32(ctx, 2) == ps2rt.GPRU32(ctx, 0) {")
	if delay < 0 || cond < 0 {
		t.Fatalf("delay or condition missing:\n%s", code)
	}
	if delay > cond {
		t.Errorf("delay slot must precede the condition for non-likely branches:\n%s", code)
	}
}

// Likely branch: delay slot nests inside the condition body.
func TestGenerate_LikelyBranchNestsDelaySlot(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x300000: "likely"})
	fn := &elfx.Function{Start: 0x300000, End: 0x300014, Name: "likely", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		iType(0x09, 0, 2, 0),     // ADDIU $2, $0, 0
		iType(0x14, 2, 0, 2),     // BEQL  $2, $0, +2 -> 0x300010
		iType(0x09, 2, 2, 1),     // ADDIU $2, $2, 1   (delay slot, only if taken)
		iType(0x09, 2, 2, 10),    // ADDIU $2, $2, 10
		rType(0, 31, 0, 0, 0, 8), // JR    $31
	})

	cond := strings.Index(code, "if ps2rt.GPRU32(ctx, 2) == ps2rt.GPRU32(ctx, 0) {")
	delay := strings.Index(code, "ps2rt.SetGPRS32(ctx, 2, int32(ps2rt.GPRU32(ctx, 2))+1)")
	if cond < 0 || delay < 0 {
		t.Fatalf("condition or delay missing:\n%s", code)
	}
	if delay < cond {
		t.Errorf("likely branch must nest the delay slot inside the condition:\n%s", code)
	}
}

// JAL links address+8 and falls through after a direct call.
func TestGenerate_JALLinksAndCalls(t *testing.T) {
	g := newTestGenerator(map[uint32]string{
		0x100000: "caller",
		0x100100: "callee",
	})
	fn := &elfx.Function{Start: 0x100000, End: 0x100010, Name: "caller", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		0x03<<26 | 0x100100>>2,   // JAL 0x100100
		0,                        // NOP
		rType(0, 31, 0, 0, 0, 8), // JR $31
		0,                        // NOP
	})

	if !strings.Contains(code, "ps2rt.SetGPRU32(ctx, 31, 0x100008)") {
		t.Errorf("link register value missing:\n%s", code)
	}
	if !strings.Contains(code, "callee(rdram, ctx, rt)") {
		t.Errorf("direct call missing:\n%s", code)
	}
	if strings.Contains(code, "callee(rdram, ctx, rt)\n\treturn") {
		t.Errorf("JAL must fall through after the call:\n%s", code)
	}
}

// J to a known function start calls and returns; to an unknown address
// it synchronizes PC and exits.
func TestGenerate_JumpTargetActions(t *testing.T) {
	g := newTestGenerator(map[uint32]string{
		0x100000: "a",
		0x100100: "b",
	})
	fn := &elfx.Function{Start: 0x100000, End: 0x100008, Name: "a", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		0x02<<26 | 0x100100>>2, // J 0x100100
		0,                      // NOP
	})
	if !strings.Contains(code, "b(rdram, ctx, rt)\n\treturn") {
		t.Errorf("J to known function must call and return:\n%s", code)
	}

	fn2 := &elfx.Function{Start: 0x100000, End: 0x100008, Name: "a", IsRecompiled: true}
	code2 := generate(t, g, fn2, []uint32{
		0x02<<26 | 0x400000>>2, // J 0x400000 (unknown)
		0,
	})
	if !strings.Contains(code2, "ctx.PC = 0x400000") || !strings.Contains(code2, "return") {
		t.Errorf("J to unknown target must set PC and return:\n%s", code2)
	}
}

// JALR selects the link register, defaulting to $ra when rd is 0.
func TestGenerate_JALR(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x100000: "a"})
	fn := &elfx.Function{Start: 0x100000, End: 0x100008, Name: "a", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		rType(0, 4, 0, 6, 0, 9), // JALR $6, $4
		0,
	})
	if !strings.Contains(code, "ps2rt.SetGPRU32(ctx, 6, 0x100008)") {
		t.Errorf("JALR link into rd missing:\n%s", code)
	}
	if !strings.Contains(code, "ctx.PC = ps2rt.GPRU32(ctx, 4)") {
		t.Errorf("JALR indirect exit missing:\n%s", code)
	}
}

// ADD emits the overflow-checked form; ADDU never signals.
func TestGenerate_OverflowGate(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x100000: "a"})
	fn := &elfx.Function{Start: 0x100000, End: 0x100008, Name: "a", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		rType(0, 4, 5, 6, 0, 0x20), // ADD  $6, $4, $5
		rType(0, 4, 5, 7, 0, 0x21), // ADDU $7, $4, $5
	})
	if !strings.Contains(code, "if rt.CheckOverflow {") {
		t.Errorf("ADD must gate on CheckOverflow:\n%s", code)
	}
	if !strings.Contains(code, "rt.SignalException(ctx, ps2rt.ExceptionIntegerOverflow)") {
		t.Errorf("ADD must signal IntegerOverflow:\n%s", code)
	}
	// The ADDU line must not touch the exception path.
	adduLine := "ps2rt.SetGPRS32(ctx, 7, ps2rt.GPRS32(ctx, 4)+ps2rt.GPRS32(ctx, 5))"
	if !strings.Contains(code, adduLine) {
		t.Errorf("ADDU must wrap silently:\n%s", code)
	}
}

// A branch target at the very end of the function keeps the label legal.
func TestGenerate_TrailingLabelGetsReturn(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x100000: "a"})
	fn := &elfx.Function{Start: 0x100000, End: 0x100010, Name: "a", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{
		iType(0x04, 0, 0, 2), // BEQ $0, $0, +2 -> 0x10000C
		0,                    // NOP (delay)
		iType(0x09, 2, 2, 1), // ADDIU
		0,                    // NOP (branch target, last instruction)
	})
	if !strings.Contains(code, "label_10000c:") {
		t.Fatalf("trailing label missing:\n%s", code)
	}
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(code), "}"))
	if !strings.HasSuffix(trimmed, "return") {
		t.Errorf("trailing label must be followed by a statement:\n%s", code)
	}
}

func TestGenerateStubDispatch(t *testing.T) {
	g := newTestGenerator(map[uint32]string{
		0x1000: "FlushCache",
		0x2000: "memcpy",
		0x3000: "weird_thing",
	})

	sys := g.GenerateStub(&elfx.Function{Start: 0x1000, Name: "FlushCache", IsStub: true})
	if !strings.Contains(sys, `rt.Syscalls.Call("FlushCache", rdram, ctx, rt)`) {
		t.Errorf("syscall stub:\n%s", sys)
	}
	stub := g.GenerateStub(&elfx.Function{Start: 0x2000, Name: "memcpy", IsStub: true})
	if !strings.Contains(stub, `rt.Stubs.Call("memcpy", rdram, ctx, rt)`) {
		t.Errorf("stub table stub:\n%s", stub)
	}
	todo := g.GenerateStub(&elfx.Function{Start: 0x3000, Name: "weird_thing", IsStub: true})
	if !strings.Contains(todo, "rt.Stubs.TODO(rdram, ctx, rt)") {
		t.Errorf("TODO stub:\n%s", todo)
	}
}

func TestGenerateBootstrap(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x100008: "crt0"})
	g.SetBootstrapInfo(BootstrapInfo{
		Valid:     true,
		Entry:     0x100008,
		BSSStart:  0x400000,
		BSSEnd:    0x400104,
		GP:        0x3F0000,
		EntryName: "crt0",
	})
	code, err := g.GenerateBootstrap(false)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"func entry_100008(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime)",
		"ps2rt.Write128(rdram, addr, ps2rt.U128{})",
		"ps2rt.Write32(rdram, addr, 0)",
		"ps2rt.Write8(rdram, addr, 0)",
		"ps2rt.SetGPRU32(ctx, 28, 0x3f0000)",
		"ps2rt.SetGPRU32(ctx, 29, bssEnd)",
		"crt0(rdram, ctx, rt)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("bootstrap missing %q:\n%s", want, code)
		}
	}
}

func TestGenerateRegistration(t *testing.T) {
	g := newTestGenerator(map[uint32]string{
		0x1000: "fa",
		0x2000: "fb",
	})
	g.SetBootstrapInfo(BootstrapInfo{Valid: true, Entry: 0x1000, EntryName: "fa"})
	funcs := []elfx.Function{
		{Start: 0x1000, Name: "fa", IsRecompiled: true},
		{Start: 0x2000, Name: "fb", IsStub: true},
	}
	code := g.GenerateRegistration(funcs)
	for _, want := range []string{
		"func RegisterAllFunctions(rt *ps2rt.Runtime) {",
		"rt.RegisterFunction(0x1000, entry_1000)",
		"rt.RegisterFunction(0x1000, fa)",
		"rt.RegisterFunction(0x2000, fb)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("registration missing %q:\n%s", want, code)
		}
	}
}

func TestGenerateManifestAndStubsInterface(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x1000: "fa"})
	funcs := []elfx.Function{{Start: 0x1000, Name: "fa", IsRecompiled: true}}
	manifest := g.GenerateManifest(funcs)
	if !strings.Contains(manifest, `0x1000: "fa",`) {
		t.Errorf("manifest:\n%s", manifest)
	}

	iface := g.GenerateStubsInterface([]string{"printf", "my-odd-name"})
	if !strings.Contains(iface, "type RequiredStubs interface {") {
		t.Errorf("interface header:\n%s", iface)
	}
	if !strings.Contains(iface, "printf(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime)") {
		t.Errorf("printf method:\n%s", iface)
	}
	if !strings.Contains(iface, "my_odd_name(") {
		t.Errorf("sanitized method:\n%s", iface)
	}
}

func TestSyscallNamedFunctionBecomesWrapper(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x1000: "FlushCache"})
	fn := &elfx.Function{Start: 0x1000, End: 0x1008, Name: "FlushCache", IsRecompiled: true}
	code := generate(t, g, fn, []uint32{0, 0})
	if !strings.Contains(code, `rt.Syscalls.Call("FlushCache", rdram, ctx, rt)`) {
		t.Errorf("syscall wrapper:\n%s", code)
	}
}
