package codegen

import (
	"fmt"
	"strings"
)

// GenerateBootstrap emits the entry trampoline: zero BSS with strided
// 128/32/8-bit writes, seed $gp and $sp, and tail into the guest entry
// function. Returns "" when no valid entry point was reported.
func (g *Generator) GenerateBootstrap(standalone bool) (string, error) {
	if !g.boot.Valid {
		return "", nil
	}
	if g.boot.EntryName == "" {
		return "", fmt.Errorf("codegen: no entry function name for bootstrap")
	}

	var b strings.Builder
	if standalone {
		b.WriteString(fileHeader())
	}

	b.WriteString("// Auto-generated bootstrap for the ELF entry point.\n")
	fmt.Fprintf(&b, "func entry_%x(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime) {\n", g.boot.Entry)

	if g.boot.BSSEnd > g.boot.BSSStart {
		fmt.Fprintf(&b, "\tconst bssStart = 0x%x\n", g.boot.BSSStart)
		fmt.Fprintf(&b, "\tconst bssEnd = 0x%x\n", g.boot.BSSEnd)
		b.WriteString("\taddr := uint32(bssStart)\n")
		b.WriteString("\tfor ; bssEnd-addr >= 16; addr += 16 {\n")
		b.WriteString("\t\tps2rt.Write128(rdram, addr, ps2rt.U128{})\n")
		b.WriteString("\t}\n")
		b.WriteString("\tfor ; bssEnd-addr >= 4; addr += 4 {\n")
		b.WriteString("\t\tps2rt.Write32(rdram, addr, 0)\n")
		b.WriteString("\t}\n")
		b.WriteString("\tfor ; addr < bssEnd; addr++ {\n")
		b.WriteString("\t\tps2rt.Write8(rdram, addr, 0)\n")
		b.WriteString("\t}\n\n")
	}
	if g.boot.GP != 0 {
		fmt.Fprintf(&b, "\tps2rt.SetGPRU32(ctx, 28, 0x%x)\n", g.boot.GP)
	}
	if g.boot.BSSEnd > g.boot.BSSStart {
		b.WriteString("\tps2rt.SetGPRU32(ctx, 29, bssEnd)\n")
	}
	fmt.Fprintf(&b, "\t%s(rdram, ctx, rt)\n", g.boot.EntryName)
	b.WriteString("}\n")
	return b.String(), nil
}
