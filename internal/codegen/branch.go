package codegen

import (
	"fmt"
	"strings"

	"ps2xrecomp/internal/r5900"
)

// targetAction resolves where a transfer lands: an internal label, a
// known function start, or a PC-synchronous exit to the dispatcher.
func (g *Generator) targetAction(target uint32, internal map[uint32]bool, returnAfterCall bool) string {
	if internal[target] {
		return fmt.Sprintf("goto label_%x", target)
	}
	if name := g.FunctionName(target); name != "" {
		if returnAfterCall {
			return fmt.Sprintf("%s(rdram, ctx, rt)\nreturn", name)
		}
		return fmt.Sprintf("%s(rdram, ctx, rt)", name)
	}
	return fmt.Sprintf("ctx.PC = 0x%x\nreturn", target)
}

// branchCondition builds the condition expression for a conditional
// branch, evaluated against the context before the delay slot runs.
func branchCondition(inst r5900.Instruction) string {
	rs, rt := int(inst.Rs), int(inst.Rt)
	switch inst.Opcode {
	case r5900.OpBEQ, r5900.OpBEQL:
		return fmt.Sprintf("ps2rt.GPRU32(ctx, %d) == ps2rt.GPRU32(ctx, %d)", rs, rt)
	case r5900.OpBNE, r5900.OpBNEL:
		return fmt.Sprintf("ps2rt.GPRU32(ctx, %d) != ps2rt.GPRU32(ctx, %d)", rs, rt)
	case r5900.OpBLEZ, r5900.OpBLEZL:
		return fmt.Sprintf("ps2rt.GPRS32(ctx, %d) <= 0", rs)
	case r5900.OpBGTZ, r5900.OpBGTZL:
		return fmt.Sprintf("ps2rt.GPRS32(ctx, %d) > 0", rs)
	case r5900.OpRegimm:
		switch inst.Rt {
		case r5900.RiBLTZ, r5900.RiBLTZL, r5900.RiBLTZAL, r5900.RiBLTZALL:
			return fmt.Sprintf("ps2rt.GPRS32(ctx, %d) < 0", rs)
		case r5900.RiBGEZ, r5900.RiBGEZL, r5900.RiBGEZAL, r5900.RiBGEZALL:
			return fmt.Sprintf("ps2rt.GPRS32(ctx, %d) >= 0", rs)
		}
	case r5900.OpCOP1:
		if inst.Rt == r5900.BcF || inst.Rt == r5900.BcFL {
			return "!ps2rt.FPUCond(ctx)"
		}
		return "ps2rt.FPUCond(ctx)"
	case r5900.OpCOP2:
		if inst.Rt == r5900.BcF || inst.Rt == r5900.BcFL {
			return "ctx.VU0Status&0x1 == 0"
		}
		return "ctx.VU0Status&0x1 != 0"
	}
	return "false"
}

// regimmLinks reports whether a REGIMM branch is an AL variant that
// materializes the return address into $ra.
func regimmLinks(rt uint8) bool {
	switch rt {
	case r5900.RiBLTZAL, r5900.RiBGEZAL, r5900.RiBLTZALL, r5900.RiBGEZALL:
		return true
	}
	return false
}

// translateBranch composes a branch with its delay slot. A nil delay
// slot (branch truncated at the function's end) simply drops the slot.
func (g *Generator) translateBranch(inst r5900.Instruction, delay *r5900.Instruction, internal map[uint32]bool) string {
	var lines []string
	add := func(code string) {
		if code == "" {
			return
		}
		lines = append(lines, strings.Split(code, "\n")...)
	}

	delayCode := ""
	if delay != nil && delay.Raw != 0 {
		delayCode = g.translate(*delay)
	}

	switch {
	case inst.Opcode == r5900.OpJ || inst.Opcode == r5900.OpJAL:
		target := r5900.AbsTarget(inst.Address, inst.Target)
		if inst.Opcode == r5900.OpJAL {
			add(fmt.Sprintf("ps2rt.SetGPRU32(ctx, 31, 0x%x)", inst.Address+8))
		}
		add(delayCode)
		// JAL falls through after a direct call; J never returns here.
		add(g.targetAction(target, internal, inst.Opcode == r5900.OpJ))

	case inst.Opcode == r5900.OpSpecial &&
		(inst.Function == r5900.SpJR || inst.Function == r5900.SpJALR):
		if inst.Function == r5900.SpJALR {
			link := int(inst.Rd)
			if link == 0 {
				link = 31
			}
			add(fmt.Sprintf("ps2rt.SetGPRU32(ctx, %d, 0x%x)", link, inst.Address+8))
		}
		add(delayCode)
		add(fmt.Sprintf("ctx.PC = ps2rt.GPRU32(ctx, %d)", inst.Rs))
		add("return")

	case inst.IsBranch:
		cond := branchCondition(inst)
		target := inst.BranchTarget()
		action := g.targetAction(target, internal, true)

		if inst.Opcode == r5900.OpRegimm && regimmLinks(inst.Rt) {
			add(fmt.Sprintf("ps2rt.SetGPRU32(ctx, 31, 0x%x)", inst.Address+8))
		}

		if inst.IsLikely() {
			// Likely semantics: the delay slot runs only when taken.
			add(fmt.Sprintf("if %s {", cond))
			if delayCode != "" {
				for _, l := range strings.Split(delayCode, "\n") {
					lines = append(lines, "\t"+l)
				}
			}
			for _, l := range strings.Split(action, "\n") {
				lines = append(lines, "\t"+l)
			}
			add("}")
		} else {
			add(delayCode)
			add(fmt.Sprintf("if %s {", cond))
			for _, l := range strings.Split(action, "\n") {
				lines = append(lines, "\t"+l)
			}
			add("}")
		}

	default:
		add(g.translate(inst))
		add(delayCode)
	}

	return strings.Join(lines, "\n")
}
