package codegen

import (
	"fmt"

	"ps2xrecomp/internal/r5900"
)

// vecOp emits rd = op(rs, rt) over full 128-bit registers.
func vecOp(op string, rd, a, b uint8) string {
	return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.%s(ps2rt.GPRVec(ctx, %d), ps2rt.GPRVec(ctx, %d)))", rd, op, a, b)
}

// vecOp1 emits rd = op(rs) over full 128-bit registers.
func vecOp1(op string, rd, a uint8) string {
	return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.%s(ps2rt.GPRVec(ctx, %d)))", rd, op, a)
}

// vecAcc emits rd = op(ctx, rs, rt) for the multiply-accumulate helpers
// that also write HI:LO.
func vecAcc(op string, rd, a, b uint8) string {
	return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.%s(ctx, ps2rt.GPRVec(ctx, %d), ps2rt.GPRVec(ctx, %d)))", rd, op, a, b)
}

func (g *Generator) translateMMI(inst r5900.Instruction) string {
	rs, rt, rd, sa := inst.Rs, inst.Rt, inst.Rd, inst.Sa

	switch inst.Function {
	case r5900.MmiMFHI1:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.HI1)", rd)
	case r5900.MmiMTHI1:
		return fmt.Sprintf("ctx.HI1 = ps2rt.GPRU32(ctx, %d)", rs)
	case r5900.MmiMFLO1:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.LO1)", rd)
	case r5900.MmiMTLO1:
		return fmt.Sprintf("ctx.LO1 = ps2rt.GPRU32(ctx, %d)", rs)

	case r5900.MmiMULT1:
		return fmt.Sprintf(`{
	p := int64(ps2rt.GPRS32(ctx, %d)) * int64(ps2rt.GPRS32(ctx, %d))
	ctx.LO1 = uint32(p)
	ctx.HI1 = uint32(p >> 32)
}`, rs, rt)
	case r5900.MmiMULTU1:
		return fmt.Sprintf(`{
	p := uint64(ps2rt.GPRU32(ctx, %d)) * uint64(ps2rt.GPRU32(ctx, %d))
	ctx.LO1 = uint32(p)
	ctx.HI1 = uint32(p >> 32)
}`, rs, rt)
	case r5900.MmiDIV1:
		return fmt.Sprintf("ctx.LO1, ctx.HI1 = ps2rt.Div32(ps2rt.GPRS32(ctx, %d), ps2rt.GPRS32(ctx, %d))", rs, rt)
	case r5900.MmiDIVU1:
		return fmt.Sprintf("ctx.LO1, ctx.HI1 = ps2rt.DivU32(ps2rt.GPRU32(ctx, %d), ps2rt.GPRU32(ctx, %d))", rs, rt)

	case r5900.MmiMADD:
		return maddCode(rs, rt, "HI", "LO", "+")
	case r5900.MmiMADDU:
		return madduCode(rs, rt, "HI", "LO", "+")
	case r5900.MmiMADD1:
		return maddCode(rs, rt, "HI1", "LO1", "+")
	case r5900.MmiMADDU1:
		return madduCode(rs, rt, "HI1", "LO1", "+")

	case r5900.MmiPLZCW:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.Clz32(ps2rt.GPRU32(ctx, %d)))", rd, rs)

	case r5900.MmiPSLLH:
		return shiftVec("PSllH", rd, rt, sa)
	case r5900.MmiPSRLH:
		return shiftVec("PSrlH", rd, rt, sa)
	case r5900.MmiPSRAH:
		return shiftVec("PSraH", rd, rt, sa)
	case r5900.MmiPSLLW:
		return shiftVec("PSllW", rd, rt, sa)
	case r5900.MmiPSRLW:
		return shiftVec("PSrlW", rd, rt, sa)
	case r5900.MmiPSRAW:
		return shiftVec("PSraW", rd, rt, sa)

	case r5900.MmiMMI0:
		return g.translateMMI0(inst)
	case r5900.MmiMMI1:
		return g.translateMMI1(inst)
	case r5900.MmiMMI2:
		return g.translateMMI2(inst)
	case r5900.MmiMMI3:
		return g.translateMMI3(inst)
	case r5900.MmiPMFHL:
		return g.translatePMFHL(inst)
	case r5900.MmiPMTHL:
		return g.translatePMTHL(inst)
	}

	return fmt.Sprintf("// Unhandled MMI instruction: 0x%02x", inst.Function)
}

func shiftVec(op string, rd, rt, sa uint8) string {
	return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.%s(ps2rt.GPRVec(ctx, %d), %d))", rd, op, rt, sa)
}

func maddCode(rs, rt uint8, hi, lo, op string) string {
	return fmt.Sprintf(`{
	acc := int64(ctx.%s)<<32 | int64(ctx.%s)
	acc %s= int64(ps2rt.GPRS32(ctx, %d)) * int64(ps2rt.GPRS32(ctx, %d))
	ctx.%s = uint32(acc)
	ctx.%s = uint32(acc >> 32)
}`, hi, lo, op, rs, rt, lo, hi)
}

func madduCode(rs, rt uint8, hi, lo, op string) string {
	return fmt.Sprintf(`{
	acc := uint64(ctx.%s)<<32 | uint64(ctx.%s)
	acc %s= uint64(ps2rt.GPRU32(ctx, %d)) * uint64(ps2rt.GPRU32(ctx, %d))
	ctx.%s = uint32(acc)
	ctx.%s = uint32(acc >> 32)
}`, hi, lo, op, rs, rt, lo, hi)
}

func (g *Generator) translateMMI0(inst r5900.Instruction) string {
	rs, rt, rd := inst.Rs, inst.Rt, inst.Rd

	switch inst.Sa {
	case r5900.Mmi0PADDW:
		return vecOp("PAddW", rd, rs, rt)
	case r5900.Mmi0PSUBW:
		return vecOp("PSubW", rd, rs, rt)
	case r5900.Mmi0PCGTW:
		return vecOp("PCgtW", rd, rs, rt)
	case r5900.Mmi0PMAXW:
		return vecOp("PMaxW", rd, rs, rt)
	case r5900.Mmi0PADDH:
		return vecOp("PAddH", rd, rs, rt)
	case r5900.Mmi0PSUBH:
		return vecOp("PSubH", rd, rs, rt)
	case r5900.Mmi0PCGTH:
		return vecOp("PCgtH", rd, rs, rt)
	case r5900.Mmi0PMAXH:
		return vecOp("PMaxH", rd, rs, rt)
	case r5900.Mmi0PADDB:
		return vecOp("PAddB", rd, rs, rt)
	case r5900.Mmi0PSUBB:
		return vecOp("PSubB", rd, rs, rt)
	case r5900.Mmi0PCGTB:
		return vecOp("PCgtB", rd, rs, rt)
	case r5900.Mmi0PADDSW:
		return vecOp("PAddsW", rd, rs, rt)
	case r5900.Mmi0PSUBSW:
		return vecOp("PSubsW", rd, rs, rt)
	case r5900.Mmi0PEXTLW:
		return vecOp("PExtlW", rd, rs, rt)
	case r5900.Mmi0PPACW:
		return vecOp("PPacW", rd, rs, rt)
	case r5900.Mmi0PADDSH:
		return vecOp("PAddsH", rd, rs, rt)
	case r5900.Mmi0PSUBSH:
		return vecOp("PSubsH", rd, rs, rt)
	case r5900.Mmi0PEXTLH:
		return vecOp("PExtlH", rd, rs, rt)
	case r5900.Mmi0PPACH:
		return vecOp("PPacH", rd, rs, rt)
	case r5900.Mmi0PADDSB:
		return vecOp("PAddsB", rd, rs, rt)
	case r5900.Mmi0PSUBSB:
		return vecOp("PSubsB", rd, rs, rt)
	case r5900.Mmi0PEXTLB:
		return vecOp("PExtlB", rd, rs, rt)
	case r5900.Mmi0PPACB:
		return vecOp("PPacB", rd, rs, rt)
	case r5900.Mmi0PEXT5:
		return "// Unhandled PEXT5"
	case r5900.Mmi0PPAC5:
		return "// Unhandled PPAC5"
	}
	return fmt.Sprintf("// Unhandled MMI0 sub-function: 0x%02x", inst.Sa)
}

func (g *Generator) translateMMI1(inst r5900.Instruction) string {
	rs, rt, rd := inst.Rs, inst.Rt, inst.Rd

	switch inst.Sa {
	case r5900.Mmi1PABSW:
		return vecOp1("PAbsW", rd, rs)
	case r5900.Mmi1PCEQW:
		return vecOp("PCeqW", rd, rs, rt)
	case r5900.Mmi1PMINW:
		return vecOp("PMinW", rd, rs, rt)
	case r5900.Mmi1PADSBH:
		return "// Unhandled PADSBH"
	case r5900.Mmi1PABSH:
		return vecOp1("PAbsH", rd, rs)
	case r5900.Mmi1PCEQH:
		return vecOp("PCeqH", rd, rs, rt)
	case r5900.Mmi1PMINH:
		return vecOp("PMinH", rd, rs, rt)
	case r5900.Mmi1PCEQB:
		return vecOp("PCeqB", rd, rs, rt)
	case r5900.Mmi1PADDUW:
		return vecOp("PAddW", rd, rs, rt)
	case r5900.Mmi1PSUBUW:
		return vecOp("PSubW", rd, rs, rt)
	case r5900.Mmi1PEXTUW:
		return vecOp("PExtuW", rd, rs, rt)
	case r5900.Mmi1PADDUH:
		return vecOp("PAddH", rd, rs, rt)
	case r5900.Mmi1PSUBUH:
		return vecOp("PSubH", rd, rs, rt)
	case r5900.Mmi1PEXTUH:
		return vecOp("PExtuH", rd, rs, rt)
	case r5900.Mmi1PADDUB:
		return vecOp("PAddUB", rd, rs, rt)
	case r5900.Mmi1PSUBUB:
		return vecOp("PSubUB", rd, rs, rt)
	case r5900.Mmi1PEXTUB:
		return vecOp("PExtuB", rd, rs, rt)
	case r5900.Mmi1QFSRV:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.QFSRV(ps2rt.GPRVec(ctx, %d), ps2rt.GPRVec(ctx, %d), ctx.SA))", rd, rs, rt)
	}
	return fmt.Sprintf("// Unhandled MMI1 sub-function: 0x%02x", inst.Sa)
}

func (g *Generator) translateMMI2(inst r5900.Instruction) string {
	rs, rt, rd := inst.Rs, inst.Rt, inst.Rd

	switch inst.Sa {
	case r5900.Mmi2PMADDW:
		return vecAcc("PMaddW", rd, rs, rt)
	case r5900.Mmi2PSLLVW:
		return vecOp("PSllVW", rd, rs, rt)
	case r5900.Mmi2PSRLVW:
		return vecOp("PSrlVW", rd, rs, rt)
	case r5900.Mmi2PMSUBW:
		return "// Unhandled PMSUBW"
	case r5900.Mmi2PMFHI:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.HI)", rd)
	case r5900.Mmi2PMFLO:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.LO)", rd)
	case r5900.Mmi2PINTH:
		return vecOp("PInth", rd, rs, rt)
	case r5900.Mmi2PMULTW:
		return "// Unhandled PMULTW"
	case r5900.Mmi2PDIVW:
		return vecAcc("PDivW", rd, rs, rt)
	case r5900.Mmi2PCPYLD:
		return vecOp("PCpyLD", rd, rs, rt)
	case r5900.Mmi2PAND:
		return vecOp("PAnd", rd, rs, rt)
	case r5900.Mmi2PXOR:
		return vecOp("PXor", rd, rs, rt)
	case r5900.Mmi2PMADDH:
		return vecAcc("PMaddH", rd, rs, rt)
	case r5900.Mmi2PHMADH:
		return vecAcc("PHmadH", rd, rs, rt)
	case r5900.Mmi2PMSUBH:
		return "// Unhandled PMSUBH"
	case r5900.Mmi2PHMSBH:
		return "// Unhandled PHMSBH"
	case r5900.Mmi2PEXEH:
		return vecOp1("PExeH", rd, rs)
	case r5900.Mmi2PREVH:
		return vecOp1("PRevH", rd, rs)
	case r5900.Mmi2PMULTH:
		return vecAcc("PMultH", rd, rs, rt)
	case r5900.Mmi2PDIVBW:
		return vecAcc("PDivBW", rd, rs, rt)
	case r5900.Mmi2PEXEW:
		return vecOp1("PExeW", rd, rs)
	case r5900.Mmi2PROT3W:
		return vecOp1("PRot3W", rd, rs)
	}
	return fmt.Sprintf("// Unhandled MMI2 sub-function: 0x%02x", inst.Sa)
}

func (g *Generator) translateMMI3(inst r5900.Instruction) string {
	rs, rt, rd := inst.Rs, inst.Rt, inst.Rd

	switch inst.Sa {
	case r5900.Mmi3PMADDUW:
		return "// Unhandled PMADDUW"
	case r5900.Mmi3PSRAVW:
		return vecOp("PSravW", rd, rs, rt)
	case r5900.Mmi3PMTHI:
		return fmt.Sprintf("ctx.HI = ps2rt.GPRU32(ctx, %d)", rs)
	case r5900.Mmi3PMTLO:
		return fmt.Sprintf("ctx.LO = ps2rt.GPRU32(ctx, %d)", rs)
	case r5900.Mmi3PINTEH:
		return vecOp("PInteh", rd, rs, rt)
	case r5900.Mmi3PMULTUW:
		return vecAcc("PMultUW", rd, rs, rt)
	case r5900.Mmi3PDIVUW:
		return vecAcc("PDivUW", rd, rs, rt)
	case r5900.Mmi3PCPYUD:
		return vecOp("PCpyUD", rd, rs, rt)
	case r5900.Mmi3POR:
		return vecOp("POr", rd, rs, rt)
	case r5900.Mmi3PNOR:
		return vecOp("PNor", rd, rs, rt)
	case r5900.Mmi3PEXCH:
		return vecOp1("PExeH", rd, rs)
	case r5900.Mmi3PCPYH:
		return vecOp1("PCpyH", rd, rs)
	case r5900.Mmi3PEXCW:
		return vecOp1("PExeW", rd, rs)
	}
	return fmt.Sprintf("// Unhandled MMI3 sub-function: 0x%02x", inst.Sa)
}

func (g *Generator) translatePMFHL(inst r5900.Instruction) string {
	rd := inst.Rd
	switch inst.Sa {
	case r5900.PmfhlLW:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.PMfhlLW(ctx))", rd)
	case r5900.PmfhlUW:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.PMfhlUW(ctx))", rd)
	case r5900.PmfhlSLW:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.PMfhlSLW(ctx))", rd)
	case r5900.PmfhlLH:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.PMfhlLH(ctx))", rd)
	case r5900.PmfhlSH:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.PMfhlSH(ctx))", rd)
	}
	return fmt.Sprintf("// Unhandled PMFHL sub-function: 0x%02x", inst.Sa)
}

func (g *Generator) translatePMTHL(inst r5900.Instruction) string {
	if inst.Sa == r5900.PmfhlLW {
		return fmt.Sprintf(`{
	v := ps2rt.GPRVec(ctx, %d)
	ctx.LO = v.W(0)
	ctx.HI = v.W(1)
}`, inst.Rs)
	}
	return fmt.Sprintf("// Unhandled PMTHL sub-function: 0x%02x", inst.Sa)
}
