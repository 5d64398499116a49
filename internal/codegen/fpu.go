package codegen

import (
	"fmt"

	"ps2xrecomp/internal/r5900"
)

// fpuComparePredicates maps C.cond.S function codes to ps2rt predicate
// names; C.F and C.SF clear the condition unconditionally.
var fpuComparePredicates = map[uint8]string{
	r5900.FpuCUN:   "CUnS",
	r5900.FpuCEQ:   "CEqS",
	r5900.FpuCUEQ:  "CUeqS",
	r5900.FpuCOLT:  "COltS",
	r5900.FpuCULT:  "CUltS",
	r5900.FpuCOLE:  "COleS",
	r5900.FpuCULE:  "CUleS",
	r5900.FpuCNGLE: "CNgleS",
	r5900.FpuCSEQ:  "CSeqS",
	r5900.FpuCNGL:  "CNglS",
	r5900.FpuCLT:   "CLtS",
	r5900.FpuCNGE:  "CNgeS",
	r5900.FpuCLE:   "CLeS",
	r5900.FpuCNGT:  "CNgtS",
}

func (g *Generator) translateFPU(inst r5900.Instruction) string {
	// COP1 register fields: ft in rt, fs in rd, fd in sa.
	ft, fs, fd := inst.Rt, inst.Rd, inst.Sa

	switch inst.Rs {
	case r5900.CopMF:
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ps2rt.FPUBits(ctx, %d))", ft, fs)
	case r5900.CopMT:
		return fmt.Sprintf("ps2rt.SetFPUBits(ctx, %d, ps2rt.GPRU32(ctx, %d))", fs, ft)
	case r5900.CopCF:
		switch fs {
		case 31:
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, ctx.FCR31)", ft)
		case 0:
			// FCR0 is the FPU implementation register.
			return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, 0)", ft)
		}
		return fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, 0) // unimplemented FCR%d", ft, fs)
	case r5900.CopCT:
		if fs == 31 {
			return fmt.Sprintf("ctx.FCR31 = ps2rt.GPRU32(ctx, %d) & 0x0183FFFF", ft)
		}
		return fmt.Sprintf("// CTC1 to FCR%d ignored", fs)
	case r5900.CopBC:
		return "// FPU branch - handled by branch logic"

	case r5900.FpuFmtS:
		switch inst.Function {
		case r5900.FpuADD:
			return fmt.Sprintf("ctx.F[%d] = ctx.F[%d] + ctx.F[%d]", fd, fs, ft)
		case r5900.FpuSUB:
			return fmt.Sprintf("ctx.F[%d] = ctx.F[%d] - ctx.F[%d]", fd, fs, ft)
		case r5900.FpuMUL:
			return fmt.Sprintf("ctx.F[%d] = ctx.F[%d] * ctx.F[%d]", fd, fs, ft)
		case r5900.FpuDIV:
			return fmt.Sprintf("ctx.F[%d] = ps2rt.FPUDivS(ctx, ctx.F[%d], ctx.F[%d])", fd, fs, ft)
		case r5900.FpuSQRT:
			return fmt.Sprintf("ctx.F[%d] = ps2rt.FPUSqrtS(ctx.F[%d])", fd, ft)
		case r5900.FpuRSQRT:
			return fmt.Sprintf("ctx.F[%d] = ctx.F[%d] * ps2rt.FPURsqrtS(ctx.F[%d])", fd, fs, ft)
		case r5900.FpuABS:
			return fmt.Sprintf("ctx.F[%d] = ps2rt.FPUAbsS(ctx.F[%d])", fd, fs)
		case r5900.FpuMOV:
			return fmt.Sprintf("ctx.F[%d] = ctx.F[%d]", fd, fs)
		case r5900.FpuNEG:
			return fmt.Sprintf("ctx.F[%d] = -ctx.F[%d]", fd, fs)
		case r5900.FpuROUNDW:
			return fmt.Sprintf("ps2rt.SetFPUWord(ctx, %d, ps2rt.RoundW(ctx.F[%d]))", fd, fs)
		case r5900.FpuTRUNCW:
			return fmt.Sprintf("ps2rt.SetFPUWord(ctx, %d, ps2rt.TruncW(ctx.F[%d]))", fd, fs)
		case r5900.FpuCEILW:
			return fmt.Sprintf("ps2rt.SetFPUWord(ctx, %d, ps2rt.CeilW(ctx.F[%d]))", fd, fs)
		case r5900.FpuFLOORW:
			return fmt.Sprintf("ps2rt.SetFPUWord(ctx, %d, ps2rt.FloorW(ctx.F[%d]))", fd, fs)
		case r5900.FpuCVTW:
			return fmt.Sprintf("ps2rt.SetFPUWord(ctx, %d, ps2rt.TruncW(ctx.F[%d]))", fd, fs)
		case r5900.FpuMAX:
			return fmt.Sprintf("ctx.F[%d] = ps2rt.FPUMaxS(ctx.F[%d], ctx.F[%d])", fd, fs, ft)
		case r5900.FpuMIN:
			return fmt.Sprintf("ctx.F[%d] = ps2rt.FPUMinS(ctx.F[%d], ctx.F[%d])", fd, fs, ft)

		// The MAC group uses f[31] as the implicit accumulator.
		case r5900.FpuADDA:
			return fmt.Sprintf("ctx.F[31] = ctx.F[%d] + ctx.F[%d]", fs, ft)
		case r5900.FpuSUBA:
			return fmt.Sprintf("ctx.F[31] = ctx.F[%d] - ctx.F[%d]", fs, ft)
		case r5900.FpuMULA:
			return fmt.Sprintf("ctx.F[31] = ctx.F[%d] * ctx.F[%d]", fs, ft)
		case r5900.FpuMADD:
			return fmt.Sprintf("ctx.F[%d] = ctx.F[31] + ctx.F[%d]*ctx.F[%d]", fd, fs, ft)
		case r5900.FpuMSUB:
			return fmt.Sprintf("ctx.F[%d] = ctx.F[31] - ctx.F[%d]*ctx.F[%d]", fd, fs, ft)
		case r5900.FpuMADDA:
			return fmt.Sprintf("ctx.F[31] = ctx.F[31] + ctx.F[%d]*ctx.F[%d]", fs, ft)
		case r5900.FpuMSUBA:
			return fmt.Sprintf("ctx.F[31] = ctx.F[31] - ctx.F[%d]*ctx.F[%d]", fs, ft)

		case r5900.FpuCF, r5900.FpuCSF:
			return "ps2rt.SetFPUCond(ctx, false)"
		}
		if pred, ok := fpuComparePredicates[inst.Function]; ok {
			return fmt.Sprintf("ps2rt.SetFPUCond(ctx, ps2rt.%s(ctx.F[%d], ctx.F[%d]))", pred, fs, ft)
		}
		return fmt.Sprintf("// Unhandled FPU.S function: 0x%02x", inst.Function)

	case r5900.FpuFmtW:
		if inst.Function == r5900.FpuCVTS {
			return fmt.Sprintf("ctx.F[%d] = ps2rt.CvtSW(ps2rt.FPUWord(ctx, %d))", fd, fs)
		}
		return fmt.Sprintf("// Unhandled FPU.W function: 0x%02x", inst.Function)
	}

	return fmt.Sprintf("// Unhandled FPU format: 0x%02x", inst.Rs)
}
