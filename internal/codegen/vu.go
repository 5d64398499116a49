package codegen

import (
	"fmt"

	"ps2xrecomp/internal/r5900"
)

// vu0ControlRead maps CFC2 control register numbers to context sources.
var vu0ControlRead = map[uint8]string{
	r5900.VuCrStatus:  "ctx.VU0Status",
	r5900.VuCrMAC:     "ctx.VU0MACFlags",
	r5900.VuCrClip:    "ctx.VU0ClipFlags",
	r5900.VuCrTPC:     "ctx.VU0TPC",
	r5900.VuCrCMSAR0:  "ctx.VU0CMSAR0",
	r5900.VuCrCMSAR1:  "ctx.VU0CMSAR1",
	r5900.VuCrFBRST:   "ctx.VU0FBRST",
	r5900.VuCrVPUStat: "ctx.VU0VPUStat",
	r5900.VuCrITOP:    "ctx.VU0ITOP",
	r5900.VuCrXITOP:   "ctx.VU0XITOP",
	r5900.VuCrInfo:    "ctx.VU0Info",
}

// blendExpr emits a masked lane write of res into VF[fd].
func blendExpr(fd uint8, res string, mask uint8) string {
	return fmt.Sprintf("ctx.VF[%d] = ps2rt.VBlend(ctx.VF[%d], %s, 0x%x)", fd, fd, res, mask)
}

func (g *Generator) translateVU(inst r5900.Instruction) string {
	rt, rd := inst.Rt, inst.Rd

	switch inst.Rs {
	case r5900.Cop2QMFC2:
		return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.VFBits(ctx.VF[%d]))", rt, rd)
	case r5900.Cop2QMTC2:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VFFromBits(ps2rt.GPRVec(ctx, %d))", rd, rt)

	case r5900.CopCF:
		switch rd {
		case r5900.VuCrR:
			return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.VFBits(ctx.VU0R))", rt)
		case r5900.VuCrACC:
			return fmt.Sprintf("ps2rt.SetGPRVec(ctx, %d, ps2rt.VFBits(ctx.VU0ACC))", rt)
		case r5900.VuCrI:
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.VFBits(ps2rt.VSplat(ctx.VU0I)).W(0))", rt)
		case r5900.VuCrQ:
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.VFBits(ps2rt.VSplat(ctx.VU0Q)).W(0))", rt)
		case r5900.VuCrP:
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.VFBits(ps2rt.VSplat(ctx.VU0P)).W(0))", rt)
		}
		if rd < 16 {
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, uint32(ctx.VI[%d]))", rt, rd)
		}
		if field, ok := vu0ControlRead[rd]; ok {
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, %s)", rt, field)
		}
		return fmt.Sprintf("// Unimplemented CFC2 VU control register %d", rd)

	case r5900.CopCT:
		src := fmt.Sprintf("ps2rt.GPRU32(ctx, %d)", rt)
		switch rd {
		case r5900.VuCrStatus:
			return fmt.Sprintf("ctx.VU0Status = %s & 0xFFFF", src)
		case r5900.VuCrMAC:
			return fmt.Sprintf("ctx.VU0MACFlags = %s", src)
		case r5900.VuCrClip:
			return fmt.Sprintf("ctx.VU0ClipFlags = %s", src)
		case r5900.VuCrR:
			return fmt.Sprintf("ctx.VU0R = ps2rt.VFFromBits(ps2rt.GPRVec(ctx, %d))", rt)
		case r5900.VuCrACC:
			return fmt.Sprintf("ctx.VU0ACC = ps2rt.VFFromBits(ps2rt.GPRVec(ctx, %d))", rt)
		case r5900.VuCrI:
			return fmt.Sprintf("ctx.VU0I = ps2rt.VFFromBits(ps2rt.GPRVec(ctx, %d))[0]", rt)
		case r5900.VuCrQ:
			return fmt.Sprintf("ctx.VU0Q = ps2rt.VFFromBits(ps2rt.GPRVec(ctx, %d))[0]", rt)
		case r5900.VuCrP:
			return fmt.Sprintf("ctx.VU0P = ps2rt.VFFromBits(ps2rt.GPRVec(ctx, %d))[0]", rt)
		case r5900.VuCrTPC:
			return fmt.Sprintf("ctx.VU0TPC = %s", src)
		case r5900.VuCrCMSAR0:
			return fmt.Sprintf("ctx.VU0CMSAR0 = %s", src)
		case r5900.VuCrCMSAR1:
			return fmt.Sprintf("ctx.VU0CMSAR1 = %s", src)
		case r5900.VuCrFBRST:
			return fmt.Sprintf("ctx.VU0FBRST = %s", src)
		case r5900.VuCrVPUStat:
			// Written unmasked; hardware keeps some bits read-only.
			return fmt.Sprintf("ctx.VU0VPUStat = %s", src)
		case r5900.VuCrITOP:
			return fmt.Sprintf("ctx.VU0ITOP = %s & 0x3FF", src)
		case r5900.VuCrXITOP:
			return fmt.Sprintf("ctx.VU0XITOP = %s & 0x3FF", src)
		case r5900.VuCrInfo:
			return fmt.Sprintf("ctx.VU0Info = %s", src)
		}
		if rd < 16 {
			return fmt.Sprintf("ctx.VI[%d] = uint16(%s)", rd, src)
		}
		return fmt.Sprintf("// Unimplemented CTC2 VU control register %d", rd)

	case r5900.CopBC:
		return fmt.Sprintf("// BC2 (condition 0x%x) - handled by branch logic", rt)
	}

	if inst.Rs >= r5900.CopCO {
		return g.translateVUMacro(inst)
	}
	return fmt.Sprintf("// Unhandled COP2 format: 0x%02x", inst.Rs)
}

// translateVUMacro handles the special-1/special-2 VU0 macro tables.
// Register fields: ft/it in rt, fs/is in rd, fd/id in sa.
func (g *Generator) translateVUMacro(inst r5900.Instruction) string {
	ft, fs, fd := inst.Rt, inst.Rd, inst.Sa
	mask := inst.Vector.DestMask

	if inst.Function >= 0x3C {
		code := uint16(inst.Function&0x3) | uint16(inst.Sa)<<2
		switch uint8(code) {
		case r5900.Vu2VDIV:
			return fmt.Sprintf("ctx.VU0Q = ps2rt.VU0Div(ctx.VF[%d][%d], ctx.VF[%d][%d])",
				fs, inst.Vector.Fsf, ft, inst.Vector.Ftf)
		case r5900.Vu2VSQRT:
			return fmt.Sprintf("ctx.VU0Q = ps2rt.VU0Sqrt(ctx.VF[%d][%d])", ft, inst.Vector.Ftf)
		case r5900.Vu2VRSQRT:
			return fmt.Sprintf("ctx.VU0Q = ps2rt.VU0Rsqrt(ctx.VF[%d][%d])", ft, inst.Vector.Ftf)
		case r5900.Vu2VWAITQ:
			return "// VWAITQ - Q result is always complete here"
		case r5900.Vu2VMTIR:
			return fmt.Sprintf("ctx.VU0I = float32(ctx.VI[%d])", ft)
		case r5900.Vu2VMFIR:
			return blendExpr(ft, fmt.Sprintf("ps2rt.VSplat(float32(ctx.VI[%d]))", fs), mask)
		case r5900.Vu2VILWR:
			return fmt.Sprintf(`{
	addr := uint32(ctx.VF[%d][%d]+ctx.VU0I) & 0x3FFC
	ctx.VI[%d] = uint16(ps2rt.Read32(rdram, addr))
}`, fs, inst.Vector.Ftf, ft)
		case r5900.Vu2VISWR:
			return fmt.Sprintf(`{
	addr := uint32(ctx.VF[%d][%d]+ctx.VU0I) & 0x3FFC
	ps2rt.Write32(rdram, addr, uint32(ctx.VI[%d]))
}`, fs, inst.Vector.Ftf, ft)
		case r5900.Vu2VRNEXT:
			return "ctx.VU0R = ps2rt.VRNext(ctx.VU0R)"
		case r5900.Vu2VRGET:
			return blendExpr(ft, "ctx.VU0R", mask)
		case r5900.Vu2VRINIT:
			return fmt.Sprintf("ctx.VU0R = ps2rt.VRInit(ps2rt.VFBits(ctx.VF[%d]).W(0))", fs)
		case r5900.Vu2VRXOR:
			return fmt.Sprintf("ctx.VU0R = ps2rt.VRXor(ctx.VU0R, ctx.VF[%d])", fs)
		case r5900.Vu2VABS:
			return fmt.Sprintf("ctx.VF[%d] = ps2rt.VAbs(ctx.VF[%d])", ft, fs)
		case r5900.Vu2VNOP:
			return "// VNOP"
		case r5900.Vu2VMOVE:
			return fmt.Sprintf("ctx.VF[%d] = ctx.VF[%d]", ft, fs)
		case r5900.Vu2VMR32:
			return fmt.Sprintf("ctx.VF[%d] = ps2rt.VMr32(ctx.VF[%d])", ft, fs)
		}
		return fmt.Sprintf("// Unhandled VU0 special-2 function: 0x%02x", code)
	}

	switch inst.Function {
	case r5900.VuVADDx, r5900.VuVADDy, r5900.VuVADDz, r5900.VuVADDw:
		return vuFieldOp("VAdd", inst)
	case r5900.VuVSUBx, r5900.VuVSUBy, r5900.VuVSUBz, r5900.VuVSUBw:
		return vuFieldOp("VSub", inst)
	case r5900.VuVMULx, r5900.VuVMULy, r5900.VuVMULz, r5900.VuVMULw:
		return vuFieldOp("VMul", inst)
	case r5900.VuVMAXx, r5900.VuVMAXy, r5900.VuVMAXz, r5900.VuVMAXw:
		return vuFieldOp("VMax", inst)
	case r5900.VuVMINIx, r5900.VuVMINIy, r5900.VuVMINIz, r5900.VuVMINIw:
		return vuFieldOp("VMin", inst)
	case r5900.VuVMADDx, r5900.VuVMADDy, r5900.VuVMADDz, r5900.VuVMADDw:
		field := inst.Function & 0x3
		return fmt.Sprintf(`{
	res := ps2rt.VAdd(ctx.VU0ACC, ps2rt.VMul(ctx.VF[%d], ps2rt.VBroadcast(ctx.VF[%d], %d)))
	ctx.VF[%d] = ps2rt.VBlend(ctx.VF[%d], res, 0x%x)
	ctx.VU0ACC = res
}`, fs, ft, field, fd, fd, mask)

	case r5900.VuVADD:
		return vuVecOp("VAdd", fd, fs, ft, mask)
	case r5900.VuVSUB:
		return vuVecOp("VSub", fd, fs, ft, mask)
	case r5900.VuVMUL:
		return vuVecOp("VMul", fd, fs, ft, mask)
	case r5900.VuVMAX:
		return vuVecOp("VMax", fd, fs, ft, mask)
	case r5900.VuVMINI:
		return vuVecOp("VMin", fd, fs, ft, mask)
	case r5900.VuVMADD:
		return fmt.Sprintf(`{
	res := ps2rt.VAdd(ctx.VU0ACC, ps2rt.VMul(ctx.VF[%d], ctx.VF[%d]))
	ctx.VF[%d] = ps2rt.VBlend(ctx.VF[%d], res, 0x%x)
	ctx.VU0ACC = res
}`, fs, ft, fd, fd, mask)
	case r5900.VuVOPMSUB:
		return fmt.Sprintf(`{
	res := ps2rt.VSub(ctx.VU0ACC, ps2rt.VMul(ctx.VF[%d], ctx.VF[%d]))
	ctx.VF[%d] = ps2rt.VBlend(ctx.VF[%d], res, 0x%x)
	ctx.VU0ACC = res
}`, fs, ft, fd, fd, mask)

	case r5900.VuVADDq:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VAdd(ctx.VF[%d], ps2rt.VSplat(ctx.VU0Q))", fd, fs)
	case r5900.VuVSUBq:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VSub(ctx.VF[%d], ps2rt.VSplat(ctx.VU0Q))", fd, fs)
	case r5900.VuVMULq:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VMul(ctx.VF[%d], ps2rt.VSplat(ctx.VU0Q))", fd, fs)
	case r5900.VuVADDi:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VAdd(ctx.VF[%d], ps2rt.VSplat(ctx.VU0I))", fd, fs)
	case r5900.VuVSUBi:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VSub(ctx.VF[%d], ps2rt.VSplat(ctx.VU0I))", fd, fs)
	case r5900.VuVMULi:
		return fmt.Sprintf("ctx.VF[%d] = ps2rt.VMul(ctx.VF[%d], ps2rt.VSplat(ctx.VU0I))", fd, fs)

	case r5900.VuVIADD:
		return fmt.Sprintf("ctx.VI[%d] = ctx.VI[%d] + ctx.VI[%d]", fd, fs, ft)
	case r5900.VuVISUB:
		return fmt.Sprintf("ctx.VI[%d] = ctx.VI[%d] - ctx.VI[%d]", fd, fs, ft)
	case r5900.VuVIADDI:
		return fmt.Sprintf("ctx.VI[%d] = ctx.VI[%d] + %d", ft, fs, inst.Sa)
	case r5900.VuVIAND:
		return fmt.Sprintf("ctx.VI[%d] = ctx.VI[%d] & ctx.VI[%d]", fd, fs, ft)
	case r5900.VuVIOR:
		return fmt.Sprintf("ctx.VI[%d] = ctx.VI[%d] | ctx.VI[%d]", fd, fs, ft)

	case r5900.VuVCALLMS:
		// The immediate indexes 64-bit VU instructions; shift to bytes.
		addr := uint32(inst.Immediate&0x1FF) << 3
		return fmt.Sprintf(`ctx.VU0TPC = 0x%x
rt.ExecuteVU0Microprogram(rdram, ctx, 0x%x)`, addr, addr)
	case r5900.VuVCALLMSR:
		return fmt.Sprintf(`{
	addr := uint32(ctx.VI[%d]&0x1FF) << 3
	ctx.VU0PC = addr
	rt.VU0StartMicroProgram(rdram, ctx, addr)
}`, fs)
	}

	return fmt.Sprintf("// Unhandled VU0 special-1 function: 0x%02x", inst.Function)
}

// vuFieldOp emits a broadcast-variant arithmetic op: the named lane of
// ft spreads across all four lanes before the operation.
func vuFieldOp(op string, inst r5900.Instruction) string {
	field := inst.Function & 0x3
	return fmt.Sprintf(`{
	res := ps2rt.%s(ctx.VF[%d], ps2rt.VBroadcast(ctx.VF[%d], %d))
	ctx.VF[%d] = ps2rt.VBlend(ctx.VF[%d], res, 0x%x)
}`, op, inst.Rd, inst.Rt, field, inst.Sa, inst.Sa, inst.Vector.DestMask)
}

// vuVecOp emits a full vector op under the destination mask.
func vuVecOp(op string, fd, fs, ft uint8, mask uint8) string {
	return fmt.Sprintf(`{
	res := ps2rt.%s(ctx.VF[%d], ctx.VF[%d])
	ctx.VF[%d] = ps2rt.VBlend(ctx.VF[%d], res, 0x%x)
}`, op, fs, ft, fd, fd, mask)
}
