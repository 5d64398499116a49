// Package codegen translates decoded EE functions into Go source built
// against the ps2rt runtime contract.
package codegen

import (
	"fmt"
	"strings"

	"ps2xrecomp/internal/elfx"
	"ps2xrecomp/internal/r5900"
	"ps2xrecomp/ps2rt"
)

// BootstrapInfo drives emission of the entry trampoline.
type BootstrapInfo struct {
	Valid     bool
	Entry     uint32
	BSSStart  uint32
	BSSEnd    uint32
	GP        uint32
	EntryName string
}

// Generator emits one Go function per guest function. It resolves
// target names through the rename map populated after all functions are
// classified, falling back to sanitized symbol names.
type Generator struct {
	symbols map[uint32]elfx.Symbol
	renames map[uint32]string
	boot    BootstrapInfo
}

// NewGenerator indexes the symbol table for target-name resolution.
func NewGenerator(symbols []elfx.Symbol) *Generator {
	g := &Generator{
		symbols: make(map[uint32]elfx.Symbol, len(symbols)),
		renames: make(map[uint32]string),
	}
	for _, s := range symbols {
		if old, ok := g.symbols[s.Address]; ok && old.IsFunction && !s.IsFunction {
			continue
		}
		g.symbols[s.Address] = s
	}
	return g
}

// SetRenamedFunctions installs the globally deduplicated name map.
func (g *Generator) SetRenamedFunctions(renames map[uint32]string) {
	g.renames = renames
}

// SetBootstrapInfo installs the entry/BSS/gp description.
func (g *Generator) SetBootstrapInfo(info BootstrapInfo) {
	g.boot = info
}

// FunctionName returns the final identifier for a guest address, or ""
// when the address is not a known function start.
func (g *Generator) FunctionName(addr uint32) string {
	if n, ok := g.renames[addr]; ok {
		return n
	}
	if s, ok := g.symbols[addr]; ok && s.IsFunction {
		return SanitizeName(s.Name)
	}
	return ""
}

// collectInternalTargets gathers every direct-transfer destination that
// lands inside the function's own range. Indirect JR/JALR transfers
// contribute nothing.
func collectInternalTargets(fn *elfx.Function, insts []r5900.Instruction) map[uint32]bool {
	targets := make(map[uint32]bool)
	for _, inst := range insts {
		t, ok := inst.StaticTarget()
		if !ok {
			continue
		}
		if t >= fn.Start && t < fn.End {
			targets[t] = true
		}
	}
	return targets
}

// fileHeader opens a generated source file.
func fileHeader() string {
	return "// Code generated by ps2xrecomp. DO NOT EDIT.\n\n" +
		"package ps2gen\n\n" +
		"import \"ps2xrecomp/ps2rt\"\n\n"
}

// GenerateFunction emits the Go function for one recompiled guest
// function. With standalone set, the output is a complete source file.
func (g *Generator) GenerateFunction(fn *elfx.Function, insts []r5900.Instruction, standalone bool) (string, error) {
	var b strings.Builder

	if standalone {
		b.WriteString(fileHeader())
	}

	if ps2rt.IsSyscallName(fn.Name) {
		fmt.Fprintf(&b, "// System call wrapper for %s\n", fn.Name)
		fmt.Fprintf(&b, "func %s(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime) {\n", SanitizeName(fn.Name))
		fmt.Fprintf(&b, "\trt.Syscalls.Call(%q, rdram, ctx, rt)\n", fn.Name)
		b.WriteString("}\n")
		return b.String(), nil
	}

	internal := collectInternalTargets(fn, insts)

	name := g.FunctionName(fn.Start)
	if name == "" {
		return "", fmt.Errorf("codegen: no name for function at 0x%08x", fn.Start)
	}

	fmt.Fprintf(&b, "// Function: %s\n", fn.Name)
	fmt.Fprintf(&b, "// Address: 0x%x - 0x%x\n", fn.Start, fn.End)
	fmt.Fprintf(&b, "func %s(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime) {\n", name)

	// A label must be followed by a statement; track whether the last
	// emitted label still needs one so the function can close legally.
	labelPending := false
	emit := func(code string) {
		for _, line := range strings.Split(code, "\n") {
			if line == "" {
				continue
			}
			b.WriteString("\t")
			b.WriteString(line)
			b.WriteString("\n")
			if !strings.HasPrefix(strings.TrimSpace(line), "//") {
				labelPending = false
			}
		}
	}
	label := func(addr uint32) {
		fmt.Fprintf(&b, "label_%x:\n", addr)
		labelPending = true
	}

	for i := 0; i < len(insts); i++ {
		inst := insts[i]

		if internal[inst.Address] {
			label(inst.Address)
		}
		emit(fmt.Sprintf("// 0x%x: 0x%08x", inst.Address, inst.Raw))

		if inst.HasDelaySlot {
			var delay *r5900.Instruction
			if i+1 < len(insts) {
				d := insts[i+1]
				if internal[d.Address] {
					label(d.Address)
				}
				delay = &d
				i++
			}
			emit(g.translateBranch(inst, delay, internal))
			continue
		}

		emit(g.translate(inst))
	}

	if labelPending {
		emit("return")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// GenerateStub emits the one-line body for a stub function: syscall
// table if the name is a recognized kernel entry, stub table if the
// runtime carries a replacement, TODO otherwise.
func (g *Generator) GenerateStub(fn *elfx.Function) string {
	name := g.FunctionName(fn.Start)
	if name == "" {
		name = SanitizeName(fn.Name)
	}
	var body string
	switch {
	case ps2rt.IsSyscallName(fn.Name):
		body = fmt.Sprintf("rt.Syscalls.Call(%q, rdram, ctx, rt)", fn.Name)
	case ps2rt.IsStubName(fn.Name):
		body = fmt.Sprintf("rt.Stubs.Call(%q, rdram, ctx, rt)", fn.Name)
	default:
		body = "rt.Stubs.TODO(rdram, ctx, rt)"
	}
	return fmt.Sprintf("func %s(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime) { %s }\n", name, body)
}
