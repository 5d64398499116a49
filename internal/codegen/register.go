package codegen

import (
	"fmt"
	"sort"
	"strings"

	"ps2xrecomp/internal/elfx"
)

// GenerateRegistration emits register_functions.go: one function that
// binds every recompiled and stub function, plus the bootstrap, into a
// runtime's dispatch table under its guest start address.
func (g *Generator) GenerateRegistration(functions []elfx.Function) string {
	var b strings.Builder
	b.WriteString(fileHeader())
	b.WriteString("// RegisterAllFunctions binds every generated function to its guest address.\n")
	b.WriteString("func RegisterAllFunctions(rt *ps2rt.Runtime) {\n")

	if g.boot.Valid {
		b.WriteString("\t// ELF entry bootstrap\n")
		fmt.Fprintf(&b, "\trt.RegisterFunction(0x%x, entry_%x)\n\n", g.boot.Entry, g.boot.Entry)
	}

	var normal, stubs []elfx.Function
	for _, fn := range functions {
		switch {
		case fn.IsStub:
			stubs = append(stubs, fn)
		case fn.IsRecompiled:
			normal = append(normal, fn)
		}
	}

	b.WriteString("\t// Recompiled functions\n")
	for _, fn := range normal {
		fmt.Fprintf(&b, "\trt.RegisterFunction(0x%x, %s)\n", fn.Start, g.FunctionName(fn.Start))
	}
	b.WriteString("\n\t// Stub functions\n")
	for _, fn := range stubs {
		fmt.Fprintf(&b, "\trt.RegisterFunction(0x%x, %s)\n", fn.Start, g.FunctionName(fn.Start))
	}

	b.WriteString("}\n")
	return b.String()
}

// GenerateManifest emits the complete inventory of generated functions
// as an address-to-identifier table. It plays the role a declarations
// header would in a language that has one.
func (g *Generator) GenerateManifest(functions []elfx.Function) string {
	var b strings.Builder
	b.WriteString(fileHeader())
	b.WriteString("// RecompiledFunctions lists every emitted function by guest address.\n")
	b.WriteString("var RecompiledFunctions = map[uint32]string{\n")

	var emitted []elfx.Function
	for _, fn := range functions {
		if fn.IsRecompiled || fn.IsStub {
			emitted = append(emitted, fn)
		}
	}
	sort.Slice(emitted, func(i, j int) bool { return emitted[i].Start < emitted[j].Start })
	for _, fn := range emitted {
		fmt.Fprintf(&b, "\t0x%x: %q,\n", fn.Start, g.FunctionName(fn.Start))
	}
	if g.boot.Valid {
		fmt.Fprintf(&b, "\t0x%x: \"entry_%x\",\n", g.boot.Entry, g.boot.Entry)
	}
	b.WriteString("}\n")
	return b.String()
}

// GenerateStubsInterface emits ps2_recompiled_stubs.go: the set of stub
// names the runtime must supply, as an interface a custom stub provider
// can be checked against.
func (g *Generator) GenerateStubsInterface(stubNames []string) string {
	names := append([]string(nil), stubNames...)
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(fileHeader())
	b.WriteString("// RequiredStubs names every stub the runtime must supply.\n")
	b.WriteString("type RequiredStubs interface {\n")
	seen := make(map[string]bool)
	for _, n := range names {
		id := SanitizeName(n)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		fmt.Fprintf(&b, "\t%s(rdram []byte, ctx *ps2rt.R5900Context, rt *ps2rt.Runtime)\n", id)
	}
	b.WriteString("}\n")
	return b.String()
}
