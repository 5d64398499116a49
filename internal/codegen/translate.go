package codegen

import (
	"fmt"

	"ps2xrecomp/internal/r5900"
)

// addrExpr builds the effective-address expression base + simm.
func addrExpr(rs uint8, simm int16) string {
	base := fmt.Sprintf("ps2rt.GPRU32(ctx, %d)", rs)
	switch {
	case simm > 0:
		return fmt.Sprintf("%s+%d", base, simm)
	case simm < 0:
		return fmt.Sprintf("%s-%d", base, -int32(simm))
	}
	return base
}

// simmExpr renders a signed immediate for addition to an int32 operand.
func simmExpr(simm int16) string {
	if simm < 0 {
		return fmt.Sprintf("(%d)", simm)
	}
	return fmt.Sprintf("%d", simm)
}

// translate renders one non-branch instruction as Go statements. The
// decoder never fails, so unknown encodings come out as comments.
func (g *Generator) translate(inst r5900.Instruction) string {
	if inst.IsMMI {
		return g.translateMMI(inst)
	}

	rs, rt := inst.Rs, inst.Rt
	simm := inst.SImmediate
	imm := inst.Immediate

	switch inst.Opcode {
	case r5900.OpSpecial:
		return g.translateSpecial(inst)
	case r5900.OpRegimm:
		return g.translateRegimm(inst)
	case r5900.OpCOP0:
		return g.translateCOP0(inst)
	case r5900.OpCOP1:
		return g.translateFPU(inst)
	case r5900.OpCOP2:
		return g.translateVU(inst)

	case r5900.OpADDI:
		if rt == 0 {
			return "// NOP (addi to $zero)"
		}
		return fmt.Sprintf(`{
	tmp, ov := ps2rt.Add32Ov(ps2rt.GPRU32(ctx, %d), %d)
	if ov {
		rt.SignalException(ctx, ps2rt.ExceptionIntegerOverflow)
	} else {
		ps2rt.SetGPRS32(ctx, %d, int32(tmp))
	}
}`, rs, uint32(int32(simm)), rt)
	case r5900.OpADDIU:
		if rt == 0 {
			return "// NOP (addiu to $zero)"
		}
		return fmt.Sprintf("ps2rt.SetGPRS32(ctx, %d, int32(ps2rt.GPRU32(ctx, %d))+%s)", rt, rs, simmExpr(simm))
	case r5900.OpSLTI:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.SLT32(ps2rt.GPRS32(ctx, %d), %s))", rt, rs, simmExpr(simm))
	case r5900.OpSLTIU:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.SLTU32(ps2rt.GPRU32(ctx, %d), 0x%x))", rt, rs, uint32(int32(simm)))
	case r5900.OpANDI:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)&0x%x)", rt, rs, imm)
	case r5900.OpORI:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)|0x%x)", rt, rs, imm)
	case r5900.OpXORI:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.GPRU32(ctx, %d)^0x%x)", rt, rs, imm)
	case r5900.OpLUI:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, 0x%x<<16)", rt, imm)
	case r5900.OpDADDI:
		return fmt.Sprintf(`{
	res, ov := ps2rt.Add64Ov(ps2rt.GPRS64(ctx, %d), %d)
	if ov {
		rt.SignalException(ctx, ps2rt.ExceptionIntegerOverflow)
	} else {
		ps2rt.SetGPRS64(ctx, %d, res)
	}
}`, rs, simm, rt)
	case r5900.OpDADDIU:
		return fmt.Sprintf("ps2rt.SetGPRS64(ctx, %d, ps2rt.GPRS64(ctx, %d)+%s)", rt, rs, simmExpr(simm))

	case r5900.OpLB:
		return fmt.Sprintf("ps2rt.SetGPRS32(ctx, %d, int32(int8(ps2rt.Read8(rdram, %s))))", rt, addrExpr(rs, simm))
	case r5900.OpLH:
		return fmt.Sprintf("ps2rt.SetGPRS32(ctx, %d, int32(int16(ps2rt.Read16(rdram, %s))))", rt, addrExpr(rs, simm))
	case r5900.OpLW:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.Read32(rdram, %s))", rt, addrExpr(rs, simm))
	case r5900.OpLBU:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, uint32(ps2rt.Read8(rdram, %s)))", rt, addrExpr(rs, simm))
	case r5900.OpLHU:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, uint32(ps2rt.Read16(rdram, %s)))", rt, addrExpr(rs, simm))
	case r5900.OpLWU:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.Read32(rdram, %s))", rt, addrExpr(rs, simm))
	case r5900.OpLD:
		return fmt.Sprintf("ps2rt.SetGPRU64(ctx, %d, ps2rt.Read64(rdram, %s))", rt, addrExpr(rs, simm))
	case r5900.OpLQ:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.Read128(rdram, %s))", rt, addrExpr(rs, simm))
	case r5900.OpSB:
		return fmt.Sprintf("ps2rt.Write8(rdram, %s, uint8(ps2rt.GPRU32(ctx, %d)))", addrExpr(rs, simm), rt)
	case r5900.OpSH:
		return fmt.Sprintf("ps2rt.Write16(rdram, %s, uint16(ps2rt.GPRU32(ctx, %d)))", addrExpr(rs, simm), rt)
	case r5900.OpSW:
		return fmt.Sprintf("ps2rt.Write32(rdram, %s, ps2rt.GPRU32(ctx, %d))", addrExpr(rs, simm), rt)
	case r5900.OpSD:
		return fmt.Sprintf("ps2rt.Write64(rdram, %s, ps2rt.GPRU64(ctx, %d))", addrExpr(rs, simm), rt)
	case r5900.OpSQ:
		return fmt.Sprintf("ps2rt.Write128(rdram, %s, ps2rt.GPRVec(ctx, %d))", addrExpr(rs, simm), rt)

	case r5900.OpLWC1:
		return fmt.Sprintf("ps2rt.SetFPUBits(ctx, %d, ps2rt.Read32(rdram, %s))", rt, addrExpr(rs, simm))
	case r5900.OpSWC1:
		return fmt.Sprintf("ps2rt.Write32(rdram, %s, ps2rt.FPUBits(ctx, %d))", addrExpr(rs, simm), rt)
	case r5900.OpLDC2:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VFFromBits(ps2rt.Read128(rdram, %s))", rt, addrExpr(rs, simm))
	case r5900.OpSDC2:
		return fmt.Sprintf("ps2rt.Write128(rdram, %s, ps2rt.VFBits(ctx.VF[%d]))", addrExpr(rs, simm), rt)

	case r5900.OpLWL:
		return fmt.Sprintf(`{
	addr := %s
	shift := (^addr & 3) << 3
	mask := uint32(0xFFFFFFFF) >> shift
	word := ps2rt.Read32(rdram, addr&^3)
	ps2rt.SetGPRU32(ctx, %d, (ps2rt.GPRU32(ctx, %d)&^mask)|((word>>shift)&mask))
}`, addrExpr(rs, simm), rt, rt)
	case r5900.OpLWR:
		return fmt.Sprintf(`{
	addr := %s
	shift := (addr & 3) << 3
	mask := uint32(0xFFFFFFFF) << shift
	word := ps2rt.Read32(rdram, addr&^3)
	ps2rt.SetGPRU32(ctx, %d, (ps2rt.GPRU32(ctx, %d)&^mask)|(word<<shift))
}`, addrExpr(rs, simm), rt, rt)
	case r5900.OpSWL:
		return fmt.Sprintf(`{
	addr := %s
	shift := (addr & 3) << 3
	mask := uint32(0xFFFFFFFF) << shift
	old := ps2rt.Read32(rdram, addr&^3)
	ps2rt.Write32(rdram, addr&^3, (old&^mask)|(ps2rt.GPRU32(ctx, %d)&mask))
}`, addrExpr(rs, simm), rt)
	case r5900.OpSWR:
		return fmt.Sprintf(`{
	addr := %s
	shift := (^addr & 3) << 3
	mask := uint32(0xFFFFFFFF) >> shift
	old := ps2rt.Read32(rdram, addr&^3)
	ps2rt.Write32(rdram, addr&^3, (old&^mask)|(ps2rt.GPRU32(ctx, %d)&mask))
}`, addrExpr(rs, simm), rt)
	case r5900.OpLDL:
		return fmt.Sprintf(`{
	addr := %s
	shift := (addr & 7) << 3
	mask := uint64(0xFFFFFFFFFFFFFFFF) << shift
	dword := ps2rt.Read64(rdram, addr&^7)
	ps2rt.SetGPRU64(ctx, %d, (ps2rt.GPRU64(ctx, %d)&^mask)|(dword&mask))
}`, addrExpr(rs, simm), rt, rt)
	case r5900.OpLDR:
		return fmt.Sprintf(`{
	addr := %s
	shift := (^addr & 7) << 3
	mask := uint64(0xFFFFFFFFFFFFFFFF) >> shift
	dword := ps2rt.Read64(rdram, addr&^7)
	ps2rt.SetGPRU64(ctx, %d, (ps2rt.GPRU64(ctx, %d)&^mask)|(dword&mask))
}`, addrExpr(rs, simm), rt, rt)
	case r5900.OpSDL:
		return fmt.Sprintf(`{
	addr := %s
	shift := (addr & 7) << 3
	mask := uint64(0xFFFFFFFFFFFFFFFF) << shift
	old := ps2rt.Read64(rdram, addr&^7)
	ps2rt.Write64(rdram, addr&^7, (old&^mask)|(ps2rt.GPRU64(ctx, %d)&mask))
}`, addrExpr(rs, simm), rt)
	case r5900.OpSDR:
		return fmt.Sprintf(`{
	addr := %s
	shift := (^addr & 7) << 3
	mask := uint64(0xFFFFFFFFFFFFFFFF) >> shift
	old := ps2rt.Read64(rdram, addr&^7)
	ps2rt.Write64(rdram, addr&^7, (old&^mask)|(ps2rt.GPRU64(ctx, %d)&mask))
}`, addrExpr(rs, simm), rt)

	case r5900.OpJ:
		return fmt.Sprintf("// J 0x%x - handled by branch logic", r5900.AbsTarget(inst.Address, inst.Target))
	case r5900.OpJAL:
		return fmt.Sprintf("// JAL 0x%x - handled by branch logic", r5900.AbsTarget(inst.Address, inst.Target))
	case r5900.OpBEQ, r5900.OpBNE, r5900.OpBLEZ, r5900.OpBGTZ,
		r5900.OpBEQL, r5900.OpBNEL, r5900.OpBLEZL, r5900.OpBGTZL:
		return fmt.Sprintf("// branch at 0x%x - handled by branch logic", inst.Address)

	case r5900.OpCACHE:
		return "// CACHE (ignored)"
	case r5900.OpPREF:
		return "// PREF (ignored)"
	}

	return fmt.Sprintf("// Unhandled opcode: 0x%02x", inst.Opcode)
}
