package ps2rt

import (
	"github.com/apex/log"
)

// syscallNames are the EE kernel entry points recognized by well-known
// name. A guest function carrying one of these names is stubbed into the
// syscall table instead of being recompiled.
var syscallNames = map[string]bool{
	"FlushCache": true, "ResetEE": true, "SetMemoryMode": true,
	"CreateThread": true, "DeleteThread": true, "StartThread": true,
	"ExitThread": true, "ExitDeleteThread": true, "TerminateThread": true,
	"SuspendThread": true, "ResumeThread": true, "GetThreadId": true,
	"ReferThreadStatus": true, "SleepThread": true, "WakeupThread": true,
	"iWakeupThread": true, "ChangeThreadPriority": true,
	"RotateThreadReadyQueue": true, "ReleaseWaitThread": true,
	"iReleaseWaitThread": true,
	"CreateSema":         true, "DeleteSema": true, "SignalSema": true,
	"iSignalSema": true, "WaitSema": true, "PollSema": true,
	"iPollSema": true, "ReferSemaStatus": true, "iReferSemaStatus": true,
	"CreateEventFlag": true, "DeleteEventFlag": true, "SetEventFlag": true,
	"iSetEventFlag": true, "ClearEventFlag": true, "iClearEventFlag": true,
	"WaitEventFlag": true, "PollEventFlag": true, "iPollEventFlag": true,
	"ReferEventFlagStatus": true, "iReferEventFlagStatus": true,
	"SetAlarm": true, "iSetAlarm": true, "CancelAlarm": true,
	"iCancelAlarm": true, "EnableIntc": true, "DisableIntc": true,
	"EnableDmac": true, "DisableDmac": true,
	"SifStopModule": true, "SifLoadModule": true, "SifInitRpc": true,
	"SifBindRpc": true, "SifCallRpc": true, "SifRegisterRpc": true,
	"SifCheckStatRpc": true, "SifSetRpcQueue": true,
	"SifRemoveRpcQueue": true, "SifRemoveRpc": true, "SifSetDChain": true,
	"fioOpen": true, "fioClose": true, "fioRead": true, "fioWrite": true,
	"fioLseek": true, "fioMkdir": true, "fioChdir": true, "fioRmdir": true,
	"fioGetstat": true, "fioRemove": true,
	"GsSetCrt": true, "GsGetIMR": true, "GsPutIMR": true,
	"GsSetVideoMode": true, "GetOsdConfigParam": true,
	"SetOsdConfigParam": true, "GetRomName": true,
	"sceSifLoadModule": true,
}

// IsSyscallName reports whether name is a recognized kernel entry point.
func IsSyscallName(name string) bool {
	return syscallNames[name]
}

// SyscallTable maps kernel entry names to handlers. Unlisted or
// unregistered names fall back to a logging default returning zero.
type SyscallTable struct {
	fns map[string]RecompiledFunc

	nextThreadID uint32
	nextSemaID   uint32
}

// NewSyscallTable builds the table with the default handlers.
func NewSyscallTable() *SyscallTable {
	t := &SyscallTable{
		fns:          make(map[string]RecompiledFunc),
		nextThreadID: 1,
		nextSemaID:   1,
	}
	t.registerDefaults()
	return t
}

// Register adds or replaces a syscall handler.
func (t *SyscallTable) Register(name string, fn RecompiledFunc) {
	t.fns[name] = fn
}

// Call invokes the named syscall. Unknown names log and return zero in
// $v0 so kernel probes read success.
func (t *SyscallTable) Call(name string, rdram []byte, ctx *R5900Context, rt *Runtime) {
	if fn, ok := t.fns[name]; ok {
		fn(rdram, ctx, rt)
		return
	}
	log.WithField("name", name).Debug("default syscall handler")
	SetReturnU32(ctx, 0)
}

func (t *SyscallTable) registerDefaults() {
	// Cache and machine control are no-ops under static translation.
	t.Register("FlushCache", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		SetReturnU32(ctx, 0)
	})
	t.Register("ResetEE", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		SetReturnU32(ctx, 0)
	})
	t.Register("GetThreadId", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		SetReturnU32(ctx, 1)
	})
	t.Register("CreateThread", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		t.nextThreadID++
		SetReturnU32(ctx, t.nextThreadID)
	})
	t.Register("CreateSema", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		t.nextSemaID++
		SetReturnU32(ctx, t.nextSemaID)
	})
	t.Register("ExitThread", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		log.Info("guest thread exited")
		SetReturnU32(ctx, 0)
	})
	t.Register("SleepThread", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		log.Debug("SleepThread")
		SetReturnU32(ctx, 0)
	})
	t.Register("SifInitRpc", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		SetReturnU32(ctx, 0)
	})
	t.Register("GsSetCrt", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		log.WithFields(log.Fields{
			"interlace": GPRU32(ctx, 4),
			"mode":      GPRU32(ctx, 5),
			"field":     GPRU32(ctx, 6),
		}).Info("GsSetCrt")
		SetReturnU32(ctx, 0)
	})
	t.Register("fioWrite", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		fd, buf, n := GPRU32(ctx, 4), GPRU32(ctx, 5), GPRU32(ctx, 6)
		if fd == 1 || fd == 2 {
			end := (buf & RAMMask) + n
			log.WithField("out", string(rdram[buf&RAMMask:end])).Info("guest fio write")
		}
		SetReturnU32(ctx, n)
	})
}
