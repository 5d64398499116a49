package ps2rt

// Vec4 is a VU0 four-lane float vector (x, y, z, w).
type Vec4 [4]float32

// Exception kinds signalled by recompiled code.
type Exception uint32

const (
	ExceptionIntegerOverflow Exception = 0x0C
)

// R5900Context is the EE CPU context. One copy per guest thread; recompiled
// code mutates it through the GPR/FPU operators and by direct assignment to
// the named special registers, mirroring how the generator emits access.
type R5900Context struct {
	// General purpose registers. R[0] is constant zero; the SetGPR
	// operators discard writes to index 0.
	R [32]U128

	PC        uint32
	InsnCount uint64

	// HI/LO multiplier accumulator halves, plus the secondary pair used
	// by the *1 MMI variants.
	HI, LO   uint32
	HI1, LO1 uint32
	SA       uint32

	// FPU (COP1), single precision only. F[31] doubles as the implicit
	// MAC accumulator for ADDA/MADD and friends.
	F     [32]float32
	FCR31 uint32

	// VU0 macro-mode state.
	VF            [32]Vec4
	VI            [16]uint16
	VU0Q          float32
	VU0P          float32
	VU0I          float32
	VU0R          Vec4
	VU0ACC        Vec4
	VU0Status     uint32
	VU0MACFlags   uint32
	VU0ClipFlags  uint32
	VU0ClipFlags2 uint32
	VU0CMSAR0     uint32
	VU0CMSAR1     uint32
	VU0CMSAR2     uint32
	VU0CMSAR3     uint32
	VU0VPUStat    uint32
	VU0VPUStat2   uint32
	VU0VPUStat3   uint32
	VU0VPUStat4   uint32
	VU0TPC        uint32
	VU0TPC2       uint32
	VU0FBRST      uint32
	VU0FBRST2     uint32
	VU0FBRST3     uint32
	VU0FBRST4     uint32
	VU0ITOP       uint32
	VU0XITOP      uint32
	VU0Info       uint32
	VU0PC         uint32

	// COP0 system control registers.
	Cop0Index    uint32
	Cop0Random   uint32
	Cop0EntryLo0 uint32
	Cop0EntryLo1 uint32
	Cop0Context  uint32
	Cop0PageMask uint32
	Cop0Wired    uint32
	Cop0BadVAddr uint32
	Cop0Count    uint32
	Cop0EntryHi  uint32
	Cop0Compare  uint32
	Cop0Status   uint32
	Cop0Cause    uint32
	Cop0EPC      uint32
	Cop0PRId     uint32
	Cop0Config   uint32
	Cop0BadPAddr uint32
	Cop0Debug    uint32
	Cop0Perf     uint32
	Cop0TagLo    uint32
	Cop0TagHi    uint32
	Cop0ErrorEPC uint32
}

// NewContext returns a context in the post-reset state: Q register 1.0,
// BEV set in STATUS, the R5900 PRId, RANDOM at its maximum.
func NewContext() *R5900Context {
	ctx := &R5900Context{}
	ctx.VU0Q = 1.0
	ctx.Cop0Status = 0x400000
	ctx.Cop0PRId = 0x00002e20
	ctx.Cop0Random = 47
	return ctx
}

// Clone copies the full CPU context. Each simulated guest thread owns a
// copy; RDRAM stays shared and unsynchronized.
func (ctx *R5900Context) Clone() *R5900Context {
	dup := *ctx
	return &dup
}

// GPRU32 returns the low 32 bits of register i, zero-interpreted.
func GPRU32(ctx *R5900Context, i int) uint32 {
	if i == 0 {
		return 0
	}
	return uint32(ctx.R[i].Lo)
}

// GPRS32 returns the low 32 bits of register i, sign-interpreted.
func GPRS32(ctx *R5900Context, i int) int32 {
	if i == 0 {
		return 0
	}
	return int32(uint32(ctx.R[i].Lo))
}

// GPRU64 returns the low 64 bits of register i.
func GPRU64(ctx *R5900Context, i int) uint64 {
	if i == 0 {
		return 0
	}
	return ctx.R[i].Lo
}

// GPRS64 returns the low 64 bits of register i, sign-interpreted.
func GPRS64(ctx *R5900Context, i int) int64 {
	if i == 0 {
		return 0
	}
	return int64(ctx.R[i].Lo)
}

// GPRVec returns the full 128-bit value of register i.
func GPRVec(ctx *R5900Context, i int) U128 {
	if i == 0 {
		return U128{}
	}
	return ctx.R[i]
}

// SetGPRU32 places v in the low 32 bits of register i and zeroes the
// upper 96. Writes to register 0 are discarded.
func SetGPRU32(ctx *R5900Context, i int, v uint32) {
	if i != 0 {
		ctx.R[i] = U128{Lo: uint64(v)}
	}
}

// SetGPRS32 places v in the low 32 bits of register i and zeroes the
// upper 96.
func SetGPRS32(ctx *R5900Context, i int, v int32) {
	if i != 0 {
		ctx.R[i] = U128{Lo: uint64(uint32(v))}
	}
}

// SetGPRU64 places v in the low 64 bits of register i and zeroes the
// upper 64.
func SetGPRU64(ctx *R5900Context, i int, v uint64) {
	if i != 0 {
		ctx.R[i] = U128{Lo: v}
	}
}

// SetGPRS64 places v in the low 64 bits of register i and zeroes the
// upper 64.
func SetGPRS64(ctx *R5900Context, i int, v int64) {
	if i != 0 {
		ctx.R[i] = U128{Lo: uint64(v)}
	}
}

// SetGPRVec writes all 128 bits of register i.
func SetGPRVec(ctx *R5900Context, i int, v U128) {
	if i != 0 {
		ctx.R[i] = v
	}
}

// SetReturnU32 stores a syscall/stub result in $v0.
func SetReturnU32(ctx *R5900Context, v uint32) {
	SetGPRU32(ctx, 2, v)
}

// SetReturnS32 stores a signed syscall/stub result in $v0.
func SetReturnS32(ctx *R5900Context, v int32) {
	SetGPRS32(ctx, 2, v)
}

// SetReturnU64 stores a 64-bit result in the $v0/$v1 pair.
func SetReturnU64(ctx *R5900Context, v uint64) {
	SetGPRU32(ctx, 2, uint32(v))
	SetGPRU32(ctx, 3, uint32(v>>32))
}
