package ps2rt

import "testing"

func TestRegisterLookup(t *testing.T) {
	rt := NewRuntime()
	called := false
	fn := func(rdram []byte, ctx *R5900Context, rt *Runtime) { called = true }

	rt.RegisterFunction(0x100000, fn)
	if !rt.HasFunction(0x100000) {
		t.Fatal("HasFunction after register")
	}
	rt.LookupFunction(0x100000)(rt.Mem.RDRAM, rt.CPU, rt)
	if !called {
		t.Fatal("lookup did not return the registered function")
	}
}

func TestLookupUnknownReturnsSentinelStub(t *testing.T) {
	rt := NewRuntime()
	ctx := rt.CPU
	SetGPRU32(ctx, 31, 0x00222200)
	rt.LookupFunction(0xDEAD0000)(rt.Mem.RDRAM, ctx, rt)
	if GPRS32(ctx, 2) != -1 {
		t.Errorf("$v0 = %d, want -1 sentinel", GPRS32(ctx, 2))
	}
	if ctx.PC != 0x00222200 {
		t.Errorf("PC = 0x%x, want return to $ra", ctx.PC)
	}
}

func TestSignalException(t *testing.T) {
	rt := NewRuntime()
	ctx := rt.CPU
	ctx.PC = 0x00123450
	rt.SignalException(ctx, ExceptionIntegerOverflow)
	if ctx.Cop0EPC != 0x00123450 {
		t.Errorf("EPC = 0x%x", ctx.Cop0EPC)
	}
	if ctx.Cop0Cause&(uint32(ExceptionIntegerOverflow)<<2) == 0 {
		t.Error("CAUSE does not carry the exception code")
	}
	if ctx.PC != 0x80000000 {
		t.Errorf("PC = 0x%x, want exception handler", ctx.PC)
	}
}

func TestClearLLBit(t *testing.T) {
	rt := NewRuntime()
	ctx := rt.CPU
	ctx.Cop0Status |= 0x2
	rt.ClearLLBit(ctx)
	if ctx.Cop0Status&0x2 != 0 {
		t.Error("LL bit still set")
	}
}

func TestNewThreadContextCopies(t *testing.T) {
	rt := NewRuntime()
	SetGPRU32(rt.CPU, 4, 99)
	thr := rt.NewThreadContext()
	SetGPRU32(thr, 4, 1)
	if GPRU32(rt.CPU, 4) != 99 {
		t.Error("thread context shares register file with main context")
	}
}

func TestRunDispatchesUntilStopped(t *testing.T) {
	rt := NewRuntime()
	var order []uint32

	rt.RegisterFunction(0x1000, func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		order = append(order, 0x1000)
		ctx.PC = 0x2000
	})
	rt.RegisterFunction(0x2000, func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		order = append(order, 0x2000)
		// PC unchanged: the dispatcher stops here.
	})

	rt.Run(0x1000)
	if len(order) != 2 || order[0] != 0x1000 || order[1] != 0x2000 {
		t.Errorf("dispatch order = %v", order)
	}
	if GPRU32(rt.CPU, 29) != 0x02000000 {
		t.Errorf("$sp = 0x%x, want top of RAM", GPRU32(rt.CPU, 29))
	}
}

func TestExecuteVU0MicroprogramRecordsTPC(t *testing.T) {
	rt := NewRuntime()
	rt.ExecuteVU0Microprogram(rt.Mem.RDRAM, rt.CPU, 0x220)
	if rt.CPU.VU0TPC != 0x220 {
		t.Errorf("TPC = 0x%x", rt.CPU.VU0TPC)
	}
}
