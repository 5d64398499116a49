package r5900

import "testing"

// Instruction word builders for test encodings.
func rType(op, rs, rt, rd, sa, fn uint32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | rd<<11 | sa<<6 | fn
}

func iType(op, rs, rt, imm uint32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | imm&0xFFFF
}

func TestDecodeDeterministicAndRawPreserved(t *testing.T) {
	raw := iType(OpADDIU, 2, 3, 0xFFFF)
	a := Decode(0x100000, raw)
	b := Decode(0x100000, raw)
	if a != b {
		t.Fatal("decode is not deterministic")
	}
	if a.Raw != raw {
		t.Fatalf("raw = 0x%x, want 0x%x", a.Raw, raw)
	}
}

func TestDecodeFields(t *testing.T) {
	inst := Decode(0, rType(OpSpecial, 1, 2, 3, 4, SpADD))
	if inst.Rs != 1 || inst.Rt != 2 || inst.Rd != 3 || inst.Sa != 4 || inst.Function != SpADD {
		t.Errorf("fields = rs%d rt%d rd%d sa%d fn%#x", inst.Rs, inst.Rt, inst.Rd, inst.Sa, inst.Function)
	}
	imm := Decode(0, iType(OpADDIU, 0, 0, 0x8001))
	if imm.Immediate != 0x8001 {
		t.Errorf("immediate = 0x%x", imm.Immediate)
	}
	if imm.SImmediate != -32767 {
		t.Errorf("simmediate = %d", imm.SImmediate)
	}
}

func TestBranchClassification(t *testing.T) {
	cases := []struct {
		name   string
		raw    uint32
		branch bool
		likely bool
	}{
		{"J", 0x02<<26 | 0x100, true, false},
		{"JAL", 0x03<<26 | 0x100, true, false},
		{"JR", rType(OpSpecial, 31, 0, 0, 0, SpJR), true, false},
		{"JALR", rType(OpSpecial, 4, 0, 31, 0, SpJALR), true, false},
		{"BEQ", iType(OpBEQ, 1, 2, 4), true, false},
		{"BNE", iType(OpBNE, 1, 2, 4), true, false},
		{"BLEZ", iType(OpBLEZ, 1, 0, 4), true, false},
		{"BGTZ", iType(OpBGTZ, 1, 0, 4), true, false},
		{"BEQL", iType(OpBEQL, 1, 2, 4), true, true},
		{"BNEL", iType(OpBNEL, 1, 2, 4), true, true},
		{"BLEZL", iType(OpBLEZL, 1, 0, 4), true, true},
		{"BGTZL", iType(OpBGTZL, 1, 0, 4), true, true},
		{"BLTZ", iType(OpRegimm, 1, RiBLTZ, 4), true, false},
		{"BGEZAL", iType(OpRegimm, 1, RiBGEZAL, 4), true, false},
		{"BLTZALL", iType(OpRegimm, 1, RiBLTZALL, 4), true, true},
		{"BGEZL", iType(OpRegimm, 1, RiBGEZL, 4), true, true},
		{"BC1F", iType(OpCOP1, CopBC, BcF, 4), true, false},
		{"BC1TL", iType(OpCOP1, CopBC, BcTL, 4), true, true},
		{"BC2FL", iType(OpCOP2, CopBC, BcFL, 4), true, true},
		{"BC2T", iType(OpCOP2, CopBC, BcT, 4), true, false},
		{"ADDU", rType(OpSpecial, 1, 2, 3, 0, SpADDU), false, false},
		{"TGEI", iType(OpRegimm, 1, RiTGEI, 4), false, false},
		{"SW", iType(OpSW, 29, 4, 16), false, false},
		{"SYSCALL", rType(OpSpecial, 0, 0, 0, 0, SpSYSCALL), false, false},
	}
	for _, c := range cases {
		inst := Decode(0x1000, c.raw)
		if inst.IsBranch != c.branch {
			t.Errorf("%s: IsBranch = %v, want %v", c.name, inst.IsBranch, c.branch)
		}
		if inst.HasDelaySlot != c.branch {
			t.Errorf("%s: HasDelaySlot = %v, want %v", c.name, inst.HasDelaySlot, c.branch)
		}
		if inst.IsLikely() != c.likely {
			t.Errorf("%s: IsLikely = %v, want %v", c.name, inst.IsLikely(), c.likely)
		}
	}
}

func TestVCALLMSIsNotABranch(t *testing.T) {
	// COP2 CO-space VCALLMS: rs bit 4 set, function 0x38.
	raw := uint32(OpCOP2)<<26 | uint32(CopCO)<<21 | uint32(VuVCALLMS)
	inst := Decode(0x1000, raw)
	if inst.IsBranch || inst.HasDelaySlot {
		t.Error("VCALLMS must not be a MIPS branch")
	}
	raw = uint32(OpCOP2)<<26 | uint32(CopCO)<<21 | uint32(VuVCALLMSR)
	inst = Decode(0x1000, raw)
	if inst.IsBranch || inst.HasDelaySlot {
		t.Error("VCALLMSR must not be a MIPS branch")
	}
}

func TestMMIClassification(t *testing.T) {
	inst := Decode(0, rType(OpMMI, 1, 2, 3, Mmi0PADDW, MmiMMI0))
	if !inst.IsMMI {
		t.Fatal("MMI flag not set")
	}
	if inst.IsBranch {
		t.Fatal("MMI is not a branch")
	}
}

func TestAbsTargetRule(t *testing.T) {
	// JAL at 0x0010FFFC with a zero index jumps into the 0x00000000
	// region; the link register gets address+8.
	if got := AbsTarget(0x0010FFFC, 0); got != 0 {
		t.Errorf("target = 0x%x, want 0x0", got)
	}
	if got := AbsTarget(0x1FFFFFFC, 0x40); got != 0x20000100 {
		t.Errorf("target = 0x%x, want 0x20000100", got)
	}
}

func TestBranchTarget(t *testing.T) {
	inst := Decode(0x00200004, iType(OpBEQ, 2, 0, 2))
	if got := inst.BranchTarget(); got != 0x00200010 {
		t.Errorf("target = 0x%x, want 0x00200010", got)
	}
	back := Decode(0x00200010, iType(OpBNE, 2, 0, 0xFFFC)) // offset -4
	if got := back.BranchTarget(); got != 0x00200004 {
		t.Errorf("backward target = 0x%x, want 0x00200004", got)
	}
}

func TestStaticTarget(t *testing.T) {
	j := Decode(0x00100000, 0x02<<26|(0x00100040>>2))
	if tgt, ok := j.StaticTarget(); !ok || tgt != 0x00100040 {
		t.Errorf("J static target = 0x%x, %v", tgt, ok)
	}
	jr := Decode(0x00100000, rType(OpSpecial, 31, 0, 0, 0, SpJR))
	if _, ok := jr.StaticTarget(); ok {
		t.Error("JR has no static target")
	}
	beq := Decode(0x00100000, iType(OpBEQ, 1, 2, 4))
	if tgt, ok := beq.StaticTarget(); !ok || tgt != 0x00100014 {
		t.Errorf("BEQ static target = 0x%x", tgt)
	}
}

func TestVectorInfo(t *testing.T) {
	// dest mask bits 24:21 map to x..w as bits 0..3.
	raw := uint32(OpCOP2)<<26 | uint32(CopCO)<<21 | 1<<24 | 1<<21 | uint32(VuVADD)
	inst := Decode(0, raw)
	if inst.Vector.DestMask != 0x9 { // x and w
		t.Errorf("dest mask = 0x%x, want 0x9", inst.Vector.DestMask)
	}
	if inst.Vector.BC != uint8(VuVADD&0x3) {
		t.Errorf("bc = %d", inst.Vector.BC)
	}
}
