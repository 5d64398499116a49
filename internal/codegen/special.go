package codegen

import (
	"fmt"

	"ps2xrecomp/internal/r5900"
)

func (g *Generator) translateSpecial(inst r5900.Instruction) string {
	rs, rt, rd, sa := inst.Rs, inst.Rt, inst.Rd, inst.Sa

	switch inst.Function {
	case r5900.SpSLL:
		if rd == 0 && rt == 0 && sa == 0 {
			return "// NOP"
		}
		if rd == 0 {
			return "// NOP (sll to $zero)"
		}
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)<<%d)", rd, rt, sa)
	case r5900.SpSRL:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)>>%d)", rd, rt, sa)
	case r5900.SpSRA:
		return fmt.Sprintf("ps2rt.SetGPRS32(ctx, %d, ps2rt.GPRS32(ctx, %d)>>%d)", rd, rt, sa)
	case r5900.SpSLLV:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)<<(ps2rt.GPRU32(ctx, %d)&0x1F))", rd, rt, rs)
	case r5900.SpSRLV:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)>>(ps2rt.GPRU32(ctx, %d)&0x1F))", rd, rt, rs)
	case r5900.SpSRAV:
		return fmt.Sprintf("ps2rt.SetGPRS32(ctx, %d, ps2rt.GPRS32(ctx, %d)>>(ps2rt.GPRU32(ctx, %d)&0x1F))", rd, rt, rs)

	case r5900.SpJR:
		return fmt.Sprintf("// JR $%d - handled by branch logic", rs)
	case r5900.SpJALR:
		return fmt.Sprintf("// JALR $%d, $%d - handled by branch logic", rd, rs)

	case r5900.SpSYSCALL:
		return "rt.HandleSyscall(rdram, ctx)"
	case r5900.SpBREAK:
		return "rt.HandleBreak(rdram, ctx)"
	case r5900.SpSYNC:
		return "// SYNC - no memory barrier needed in recompiled code"

	case r5900.SpMFHI:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.HI)", rd)
	case r5900.SpMTHI:
		return fmt.Sprintf("ctx.HI = ps2rt.GPRU32(ctx, %d)", rs)
	case r5900.SpMFLO:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.LO)", rd)
	case r5900.SpMTLO:
		return fmt.Sprintf("ctx.LO = ps2rt.GPRU32(ctx, %d)", rs)
	case r5900.SpMFSA:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.SA)", rd)
	case r5900.SpMTSA:
		return fmt.Sprintf("ctx.SA = ps2rt.GPRU32(ctx, %d) & 0x1F", rs)

	case r5900.SpMULT:
		return fmt.Sprintf(`{
	p := int64(ps2rt.GPRS32(ctx, %d)) * int64(ps2rt.GPRS32(ctx, %d))
	ctx.LO = uint32(p)
	ctx.HI = uint32(p >> 32)
}`, rs, rt)
	case r5900.SpMULTU:
		return fmt.Sprintf(`{
	p := uint64(ps2rt.GPRU32(ctx, %d)) * uint64(ps2rt.GPRU32(ctx, %d))
	ctx.LO = uint32(p)
	ctx.HI = uint32(p >> 32)
}`, rs, rt)
	case r5900.SpDIV:
		return fmt.Sprintf("ctx.LO, ctx.HI = ps2rt.Div32(ps2rt.GPRS32(ctx, %d), ps2rt.GPRS32(ctx, %d))", rs, rt)
	case r5900.SpDIVU:
		return fmt.Sprintf("ctx.LO, ctx.HI = ps2rt.DivU32(ps2rt.GPRU32(ctx, %d), ps2rt.GPRU32(ctx, %d))", rs, rt)

	case r5900.SpADD:
		return fmt.Sprintf(`if rt.CheckOverflow {
	tmp, ov := ps2rt.Add32Ov(ps2rt.GPRU32(ctx, %d), ps2rt.GPRU32(ctx, %d))
	if ov {
		rt.SignalException(ctx, ps2rt.ExceptionIntegerOverflow)
	} else {
		ps2rt.SetGPRS32(ctx, %d, int32(tmp))
	}
} else {
	ps2rt.SetGPRS32(ctx, %d, ps2rt.GPRS32(ctx, %d)+ps2rt.GPRS32(ctx, %d))
}`, rs, rt, rd, rd, rs, rt)
	case r5900.SpADDU:
		return fmt.Sprintf("ps2rt.SetGPRS32(ctx, %d, ps2rt.GPRS32(ctx, %d)+ps2rt.GPRS32(ctx, %d))", rd, rs, rt)
	case r5900.SpSUB:
		return fmt.Sprintf(`if rt.CheckOverflow {
	tmp, ov := ps2rt.Sub32Ov(ps2rt.GPRU32(ctx, %d), ps2rt.GPRU32(ctx, %d))
	if ov {
		rt.SignalException(ctx, ps2rt.ExceptionIntegerOverflow)
	} else {
		ps2rt.SetGPRS32(ctx, %d, int32(tmp))
	}
} else {
	ps2rt.SetGPRS32(ctx, %d, ps2rt.GPRS32(ctx, %d)-ps2rt.GPRS32(ctx, %d))
}`, rs, rt, rd, rd, rs, rt)
	case r5900.SpSUBU:
		return fmt.Sprintf("ps2rt.SetGPRS32(ctx, %d, ps2rt.GPRS32(ctx, %d)-ps2rt.GPRS32(ctx, %d))", rd, rs, rt)

	case r5900.SpAND:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)&ps2rt.GPRU32(ctx, %d))", rd, rs, rt)
	case r5900.SpOR:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)|ps2rt.GPRU32(ctx, %d))", rd, rs, rt)
	case r5900.SpXOR:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)^ps2rt.GPRU32(ctx, %d))", rd, rs, rt)
	case r5900.SpNOR:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ^(ps2rt.GPRU32(ctx, %d)|ps2rt.GPRU32(ctx, %d)))", rd, rs, rt)
	case r5900.SpSLT:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.SLT32(ps2rt.GPRS32(ctx, %d), ps2rt.GPRS32(ctx, %d)))", rd, rs, rt)
	case r5900.SpSLTU:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.SLTU32(ps2rt.GPRU32(ctx, %d), ps2rt.GPRU32(ctx, %d)))", rd, rs, rt)
	case r5900.SpMOVZ:
		return fmt.Sprintf(`if ps2rt.GPRU32(ctx, %d) == 0 {
	ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d))
}`, rt, rd, rs)
	case r5900.SpMOVN:
		return fmt.Sprintf(`if ps2rt.GPRU32(ctx, %d) != 0 {
	ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d))
}`, rt, rd, rs)

	case r5900.SpDADD:
		return fmt.Sprintf(`{
	res, ov := ps2rt.Add64Ov(ps2rt.GPRS64(ctx, %d), ps2rt.GPRS64(ctx, %d))
	if ov {
		rt.SignalException(ctx, ps2rt.ExceptionIntegerOverflow)
	} else {
		ps2rt.SetGPRS64(ctx, %d, res)
	}
}`, rs, rt, rd)
	case r5900.SpDADDU:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)+ps2rt.GPRU64(ctx, %d))", rd, rs, rt)
	case r5900.SpDSUB:
		return fmt.Sprintf(`{
	res, ov := ps2rt.Sub64Ov(ps2rt.GPRS64(ctx, %d), ps2rt.GPRS64(ctx, %d))
	if ov {
		rt.SignalException(ctx, ps2rt.ExceptionIntegerOverflow)
	} else {
		ps2rt.SetGPRS64(ctx, %d, res)
	}
}`, rs, rt, rd)
	case r5900.SpDSUBU:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)-ps2rt.GPRU64(ctx, %d))", rd, rs, rt)

	case r5900.SpDSLL:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)<<%d)", rd, rt, sa)
	case r5900.SpDSRL:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)>>%d)", rd, rt, sa)
	case r5900.SpDSRA:
		return fmt.Sprintf("ps2rt.SetGPRS64(ctx, %d, ps2rt.GPRS64(ctx, %d)>>%d)", rd, rt, sa)
	case r5900.SpDSLLV:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)<<(ps2rt.GPRU32(ctx, %d)&0x3F))", rd, rt, rs)
	case r5900.SpDSRLV:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)>>(ps2rt.GPRU32(ctx, %d)&0x3F))", rd, rt, rs)
	case r5900.SpDSRAV:
		return fmt.Sprintf("ps2rt.SetGPRS64(ctx, %d, ps2rt.GPRS64(ctx, %d)>>(ps2rt.GPRU32(ctx, %d)&0x3F))", rd, rt, rs)
	case r5900.SpDSLL32:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)<<%d)", rd, rt, 32+uint32(sa))
	case r5900.SpDSRL32:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.GPRU64(ctx, %d)>>%d)", rd, rt, 32+uint32(sa))
	case r5900.SpDSRA32:
		return fmt.Sprintf("ps2rt.SetGPRS64(ctx, %d, ps2rt.GPRS64(ctx, %d)>>%d)", rd, rt, 32+uint32(sa))

	case r5900.SpTGE:
		return trapRR(">=", "S32", rs, rt)
	case r5900.SpTGEU:
		return trapRR(">=", "U32", rs, rt)
	case r5900.SpTLT:
		return trapRR("<", "S32", rs, rt)
	case r5900.SpTLTU:
		return trapRR("<", "U32", rs, rt)
	case r5900.SpTEQ:
		return trapRR("==", "U32", rs, rt)
	case r5900.SpTNE:
		return trapRR("!=", "U32", rs, rt)
	}

	return fmt.Sprintf("// Unhandled SPECIAL instruction: 0x%02x", inst.Function)
}

func trapRR(op, width string, rs, rt uint8) string {
	return fmt.Sprintf(`if ps2rt.GPR%s(ctx, %d) %s ps2rt.GPR%s(ctx, %d) {
	rt.HandleTrap(rdram, ctx)
}`, width, rs, op, width, rt)
}

func trapRI(op, width string, rs uint8, imm string) string {
	return fmt.Sprintf(`if ps2rt.GPR%s(ctx, %d) %s %s {
	rt.HandleTrap(rdram, ctx)
}`, width, rs, op, imm)
}

func (g *Generator) translateRegimm(inst r5900.Instruction) string {
	rs := inst.Rs
	simm := inst.SImmediate

	switch inst.Rt {
	case r5900.RiBLTZ, r5900.RiBGEZ, r5900.RiBLTZL, r5900.RiBGEZL,
		r5900.RiBLTZAL, r5900.RiBGEZAL, r5900.RiBLTZALL, r5900.RiBGEZALL:
		return fmt.Sprintf("// REGIMM branch to 0x%x - handled by branch logic", inst.BranchTarget())

	case r5900.RiMTSAB:
		return fmt.Sprintf("ctx.SA = (ps2rt.GPRU32(ctx, %d) + %d) & 0xF", rs, uint32(int32(simm)))
	case r5900.RiMTSAH:
		return fmt.Sprintf("ctx.SA = ((ps2rt.GPRU32(ctx, %d) + %d) & 0x7) << 1", rs, uint32(int32(simm)))

	case r5900.RiTGEI:
		return trapRI(">=", "S32", rs, simmExpr(simm))
	case r5900.RiTGEIU:
		return trapRI(">=", "U32", rs, fmt.Sprintf("0x%x", uint32(int32(simm))))
	case r5900.RiTLTI:
		return trapRI("<", "S32", rs, simmExpr(simm))
	case r5900.RiTLTIU:
		return trapRI("<", "U32", rs, fmt.Sprintf("0x%x", uint32(int32(simm))))
	case r5900.RiTEQI:
		return trapRI("==", "S32", rs, simmExpr(simm))
	case r5900.RiTNEI:
		return trapRI("!=", "S32", rs, simmExpr(simm))
	}

	return fmt.Sprintf("// Unhandled REGIMM instruction: 0x%02x", inst.Rt)
}
