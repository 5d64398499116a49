package codegen

import (
	"fmt"
	"strings"

	"ps2xrecomp/internal/r5900"
)

// JumpTableEntry maps a switch index to a guest target address.
type JumpTableEntry struct {
	Index  uint32
	Target uint32
}

// GenerateJumpTableSwitch renders an indirect JR through a known jump
// table as a switch over the index register. Unknown targets fall back
// to a PC-synchronous exit.
func (g *Generator) GenerateJumpTableSwitch(inst r5900.Instruction, entries []JumpTableEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "switch ps2rt.GPRU32(ctx, %d) {\n", inst.Rs)
	for _, e := range entries {
		fmt.Fprintf(&b, "case %d:\n", e.Index)
		if name := g.FunctionName(e.Target); name != "" {
			fmt.Fprintf(&b, "\t%s(rdram, ctx, rt)\n", name)
		} else {
			fmt.Fprintf(&b, "\tctx.PC = 0x%x\n", e.Target)
		}
		b.WriteString("\treturn\n")
	}
	b.WriteString("default:\n")
	fmt.Fprintf(&b, "\tctx.PC = ps2rt.GPRU32(ctx, %d)\n", inst.Rs)
	b.WriteString("\treturn\n}")
	return b.String()
}
