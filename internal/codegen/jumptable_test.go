package codegen

import (
	"strings"
	"testing"

	"ps2xrecomp/internal/r5900"
)

func TestGenerateJumpTableSwitch(t *testing.T) {
	g := newTestGenerator(map[uint32]string{0x2000: "handler_a"})
	jr := r5900.Decode(0x1000, rType(0, 8, 0, 0, 0, 8)) // JR $8
	code := g.GenerateJumpTableSwitch(jr, []JumpTableEntry{
		{Index: 0, Target: 0x2000},
		{Index: 1, Target: 0x9000},
	})

	for _, want := range []string{
		"switch ps2rt.GPRU32(ctx, 8) {",
		"case 0:",
		"handler_a(rdram, ctx, rt)",
		"case 1:",
		"ctx.PC = 0x9000",
		"default:",
		"ctx.PC = ps2rt.GPRU32(ctx, 8)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("jump table missing %q:\n%s", want, code)
		}
	}
}
