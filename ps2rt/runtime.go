package ps2rt

import (
	"fmt"

	"github.com/apex/log"
)

// RecompiledFunc is the signature every generated function, stub and
// syscall handler shares.
type RecompiledFunc func(rdram []byte, ctx *R5900Context, rt *Runtime)

// LoadedModule records a guest module placed into RDRAM.
type LoadedModule struct {
	Name        string
	BaseAddress uint32
	Size        uint32
	Active      bool
}

// Runtime hosts the dispatch table, guest memory and the stub/syscall
// tables recompiled code calls into.
type Runtime struct {
	Mem *Memory
	CPU *R5900Context

	// CheckOverflow gates the trapping behavior of ADD/SUB: when false
	// they degrade to their U variants.
	CheckOverflow bool

	Stubs    *StubTable
	Syscalls *SyscallTable

	funcs   map[uint32]RecompiledFunc
	modules []LoadedModule
}

// NewRuntime builds a runtime with fresh memory, a reset CPU context and
// the default stub and syscall tables.
func NewRuntime() *Runtime {
	rt := &Runtime{
		Mem:   NewMemory(),
		CPU:   NewContext(),
		funcs: make(map[uint32]RecompiledFunc),
	}
	rt.Stubs = NewStubTable()
	rt.Syscalls = NewSyscallTable()
	return rt
}

// RegisterFunction binds a generated function to its guest start address.
func (rt *Runtime) RegisterFunction(addr uint32, fn RecompiledFunc) {
	rt.funcs[addr] = fn
}

// HasFunction reports whether addr has a registered function.
func (rt *Runtime) HasFunction(addr uint32) bool {
	_, ok := rt.funcs[addr]
	return ok
}

// LookupFunction resolves a guest address. Unknown addresses resolve to
// a default stub that logs, stores the -1 sentinel in $v0 and simulates
// a return so the dispatcher keeps making progress; generated code
// cannot detect the substitution.
func (rt *Runtime) LookupFunction(addr uint32) RecompiledFunc {
	if fn, ok := rt.funcs[addr]; ok {
		return fn
	}
	return func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		log.WithField("addr", fmt.Sprintf("0x%08x", addr)).
			Warn("call to unregistered guest address")
		SetReturnS32(ctx, -1)
		ctx.PC = GPRU32(ctx, 31)
	}
}

// RegisterModule records a loaded guest module.
func (rt *Runtime) RegisterModule(m LoadedModule) {
	rt.modules = append(rt.modules, m)
}

// Modules lists the loaded guest modules.
func (rt *Runtime) Modules() []LoadedModule {
	return rt.modules
}

// NewThreadContext copies the CPU context for a simulated guest thread.
// RDRAM is shared between thread contexts without synchronization.
func (rt *Runtime) NewThreadContext() *R5900Context {
	return rt.CPU.Clone()
}

// SignalException records an exception in COP0 state and redirects the
// PC to the default exception handler.
func (rt *Runtime) SignalException(ctx *R5900Context, kind Exception) {
	log.WithFields(log.Fields{
		"kind": uint32(kind),
		"pc":   fmt.Sprintf("0x%08x", ctx.PC),
	}).Error("guest exception")
	ctx.Cop0EPC = ctx.PC
	ctx.Cop0Cause |= uint32(kind) << 2
	ctx.PC = 0x80000000
}

// HandleSyscall services the SYSCALL instruction. The syscall number is
// in $v1 per the EE kernel convention.
func (rt *Runtime) HandleSyscall(rdram []byte, ctx *R5900Context) {
	log.WithField("num", GPRU32(ctx, 3)).Debug("SYSCALL")
}

// HandleBreak services the BREAK instruction.
func (rt *Runtime) HandleBreak(rdram []byte, ctx *R5900Context) {
	log.WithField("pc", fmt.Sprintf("0x%08x", ctx.PC)).Warn("BREAK")
}

// HandleTrap services a T* instruction whose condition held. Not fatal.
func (rt *Runtime) HandleTrap(rdram []byte, ctx *R5900Context) {
	log.WithField("pc", fmt.Sprintf("0x%08x", ctx.PC)).Warn("trap taken")
}

// HandleTLBR, HandleTLBWI, HandleTLBWR and HandleTLBP log the TLB
// maintenance ops; the memory model is flat so there is nothing to do.
func (rt *Runtime) HandleTLBR(rdram []byte, ctx *R5900Context)  { log.Debug("TLBR") }
func (rt *Runtime) HandleTLBWI(rdram []byte, ctx *R5900Context) { log.Debug("TLBWI") }
func (rt *Runtime) HandleTLBWR(rdram []byte, ctx *R5900Context) { log.Debug("TLBWR") }
func (rt *Runtime) HandleTLBP(rdram []byte, ctx *R5900Context)  { log.Debug("TLBP") }

// ClearLLBit clears the load-linked bit after ERET.
func (rt *Runtime) ClearLLBit(ctx *R5900Context) {
	ctx.Cop0Status &^= 0x00000002
}

// ExecuteVU0Microprogram is the VCALLMS entry. Contract stub: a faithful
// deployment links in a VU interpreter; this one records the start and
// returns.
func (rt *Runtime) ExecuteVU0Microprogram(rdram []byte, ctx *R5900Context, addr uint32) {
	log.WithField("addr", fmt.Sprintf("0x%04x", addr)).Warn("VU0 microprogram not interpreted")
	ctx.VU0TPC = addr
}

// VU0StartMicroProgram is the VCALLMSR entry.
func (rt *Runtime) VU0StartMicroProgram(rdram []byte, ctx *R5900Context, addr uint32) {
	rt.ExecuteVU0Microprogram(rdram, ctx, addr)
}

// Run dispatches from the current PC until the guest stops making
// progress: each iteration resolves PC to a registered function and
// calls it; a function that returns without moving PC ends the run.
func (rt *Runtime) Run(entry uint32) {
	ctx := rt.CPU
	ctx.PC = entry

	// argc/argv cleared, stack at top of RAM, matching guest boot state.
	SetGPRU32(ctx, 4, 0)
	SetGPRU32(ctx, 5, 0)
	SetGPRU32(ctx, 29, 0x02000000)

	log.WithField("entry", fmt.Sprintf("0x%08x", entry)).Info("starting execution")

	for {
		pc := ctx.PC
		fn := rt.LookupFunction(pc)
		fn(rt.Mem.RDRAM, ctx, rt)
		if ctx.PC == pc {
			log.WithField("pc", fmt.Sprintf("0x%08x", pc)).Info("execution stopped")
			return
		}
	}
}
