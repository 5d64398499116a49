package codegen

import (
	"fmt"

	"ps2xrecomp/internal/r5900"
)

// cop0ReadFields maps COP0 register numbers to the context field names
// that MFC0 reads.
var cop0ReadFields = map[uint8]string{
	r5900.Cop0Index:    "ctx.Cop0Index",
	r5900.Cop0Random:   "ctx.Cop0Random",
	r5900.Cop0EntryLo0: "ctx.Cop0EntryLo0",
	r5900.Cop0EntryLo1: "ctx.Cop0EntryLo1",
	r5900.Cop0Context:  "ctx.Cop0Context",
	r5900.Cop0PageMask: "ctx.Cop0PageMask",
	r5900.Cop0Wired:    "ctx.Cop0Wired",
	r5900.Cop0BadVAddr: "ctx.Cop0BadVAddr",
	r5900.Cop0Count:    "ctx.Cop0Count",
	r5900.Cop0EntryHi:  "ctx.Cop0EntryHi",
	r5900.Cop0Compare:  "ctx.Cop0Compare",
	r5900.Cop0Status:   "ctx.Cop0Status",
	r5900.Cop0Cause:    "ctx.Cop0Cause",
	r5900.Cop0EPC:      "ctx.Cop0EPC",
	r5900.Cop0PRId:     "ctx.Cop0PRId",
	r5900.Cop0Config:   "ctx.Cop0Config",
	r5900.Cop0BadPAddr: "ctx.Cop0BadPAddr",
	r5900.Cop0Debug:    "ctx.Cop0Debug",
	r5900.Cop0Perf:     "ctx.Cop0Perf",
	r5900.Cop0TagLo:    "ctx.Cop0TagLo",
	r5900.Cop0TagHi:    "ctx.Cop0TagHi",
	r5900.Cop0ErrorEPC: "ctx.Cop0ErrorEPC",
}

func (g *Generator) translateCOP0(inst r5900.Instruction) string {
	rt, rd := inst.Rt, inst.Rd

	switch inst.Rs {
	case r5900.CopMF:
		if field, ok := cop0ReadFields[rd]; ok {
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, %s)", rt, field)
		}
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, 0) // unimplemented COP0 register %d", rt, rd)

	case r5900.CopMT:
		src := fmt.Sprintf("ps2rt.GPRU32(ctx, %d)", rt)
		switch rd {
		case r5900.Cop0Index:
			return fmt.Sprintf("ctx.Cop0Index = %s & 0x3F", src)
		case r5900.Cop0Random, r5900.Cop0BadVAddr, r5900.Cop0PRId, r5900.Cop0BadPAddr:
			return "// MTC0 to read-only register ignored"
		case r5900.Cop0EntryLo0:
			return fmt.Sprintf("ctx.Cop0EntryLo0 = %s & 0x3FFFFFFF", src)
		case r5900.Cop0EntryLo1:
			return fmt.Sprintf("ctx.Cop0EntryLo1 = %s & 0x3FFFFFFF", src)
		case r5900.Cop0Context:
			return fmt.Sprintf("ctx.Cop0Context = ctx.Cop0Context&0xFF800000 | %s&0x7FFFFF", src)
		case r5900.Cop0PageMask:
			return fmt.Sprintf("ctx.Cop0PageMask = %s & 0x01FFE000", src)
		case r5900.Cop0Wired:
			return fmt.Sprintf(`ctx.Cop0Wired = %s & 0x3F
ctx.Cop0Random = 47`, src)
		case r5900.Cop0Count:
			// A COUNT write that matches COMPARE drops the timer flag.
			return fmt.Sprintf(`ctx.Cop0Count = %s
if ctx.Cop0Count == ctx.Cop0Compare {
	ctx.Cop0Cause &^= 0x8000
}`, src)
		case r5900.Cop0EntryHi:
			return fmt.Sprintf("ctx.Cop0EntryHi = %s & 0xC00000FF", src)
		case r5900.Cop0Compare:
			// Writing COMPARE clears the timer-match flag in CAUSE.
			return fmt.Sprintf(`ctx.Cop0Compare = %s
ctx.Cop0Cause &^= 0x8000`, src)
		case r5900.Cop0Status:
			return fmt.Sprintf("ctx.Cop0Status = %s & 0xFF57FFFF", src)
		case r5900.Cop0Cause:
			return fmt.Sprintf("ctx.Cop0Cause = ctx.Cop0Cause&^0x300 | %s&0x300", src)
		case r5900.Cop0EPC:
			return fmt.Sprintf("ctx.Cop0EPC = %s", src)
		case r5900.Cop0Config:
			return fmt.Sprintf("ctx.Cop0Config = ctx.Cop0Config&^0x7 | %s&0x7", src)
		case r5900.Cop0Debug:
			return fmt.Sprintf("ctx.Cop0Debug = %s", src)
		case r5900.Cop0Perf:
			return fmt.Sprintf("ctx.Cop0Perf = %s", src)
		case r5900.Cop0TagLo:
			return fmt.Sprintf("ctx.Cop0TagLo = %s", src)
		case r5900.Cop0TagHi:
			return fmt.Sprintf("ctx.Cop0TagHi = %s", src)
		case r5900.Cop0ErrorEPC:
			return fmt.Sprintf("ctx.Cop0ErrorEPC = %s", src)
		}
		return fmt.Sprintf("// Unimplemented MTC0 to COP0 register %d", rd)

	case r5900.CopBC:
		return fmt.Sprintf("// BC0 (condition 0x%x) - handled by branch logic", rt)
	}

	if inst.Rs >= r5900.CopCO {
		switch inst.Function {
		case r5900.Cop0TLBR:
			return "rt.HandleTLBR(rdram, ctx)"
		case r5900.Cop0TLBWI:
			return "rt.HandleTLBWI(rdram, ctx)"
		case r5900.Cop0TLBWR:
			return "rt.HandleTLBWR(rdram, ctx)"
		case r5900.Cop0TLBP:
			return "rt.HandleTLBP(rdram, ctx)"
		case r5900.Cop0ERET:
			// ERL selects ERROREPC, else EPC with EXL cleared; the LL
			// bit always drops and the translated block ends.
			return `if ctx.Cop0Status&0x4 != 0 {
	ctx.PC = ctx.Cop0ErrorEPC
	ctx.Cop0Status &^= 0x4
} else {
	ctx.PC = ctx.Cop0EPC
	ctx.Cop0Status &^= 0x2
}
rt.ClearLLBit(ctx)
return`
		case r5900.Cop0EI:
			return "ctx.Cop0Status |= 0x1"
		case r5900.Cop0DI:
			return "ctx.Cop0Status &^= 0x1"
		}
		return fmt.Sprintf("// Unhandled COP0 CO function: 0x%02x", inst.Function)
	}

	return fmt.Sprintf("// Unhandled COP0 format: 0x%02x", inst.Rs)
}
