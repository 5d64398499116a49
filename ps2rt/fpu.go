package ps2rt

import "math"

// FCR31 bits touched by recompiled code.
const (
	FCR31CondBit = 1 << 23 // compare result, tested by BC1F/BC1T
	FCR31DZFlag  = 1 << 20 // divide-by-zero sticky flag
	FCR31Mask    = 0x0183FFFF
)

// FPUBits returns the raw bit pattern of FPU register i.
func FPUBits(ctx *R5900Context, i int) uint32 {
	return math.Float32bits(ctx.F[i])
}

// SetFPUBits stores a raw bit pattern into FPU register i.
func SetFPUBits(ctx *R5900Context, i int, v uint32) {
	ctx.F[i] = math.Float32frombits(v)
}

// FPUWord reads FPU register i as a 32-bit integer pattern (W format).
func FPUWord(ctx *R5900Context, i int) int32 {
	return int32(math.Float32bits(ctx.F[i]))
}

// SetFPUWord stores a 32-bit integer pattern into FPU register i.
func SetFPUWord(ctx *R5900Context, i int, v int32) {
	ctx.F[i] = math.Float32frombits(uint32(v))
}

// SetFPUCond sets or clears the FCR31 condition bit.
func SetFPUCond(ctx *R5900Context, cond bool) {
	if cond {
		ctx.FCR31 |= FCR31CondBit
	} else {
		ctx.FCR31 &^= FCR31CondBit
	}
}

// FPUCond reports the FCR31 condition bit.
func FPUCond(ctx *R5900Context) bool {
	return ctx.FCR31&FCR31CondBit != 0
}

// FPUDivS divides with the EE's divide-by-zero behavior: set the DZ flag
// and return an infinity carrying the sign of the quotient.
func FPUDivS(ctx *R5900Context, a, b float32) float32 {
	if b == 0 {
		ctx.FCR31 |= FCR31DZFlag
		sign := math.Signbit(float64(a)) != math.Signbit(float64(b))
		if sign {
			return float32(math.Inf(-1))
		}
		return float32(math.Inf(1))
	}
	return a / b
}

// FPUSqrtS is the single-precision square root.
func FPUSqrtS(a float32) float32 {
	return float32(math.Sqrt(float64(a)))
}

// FPURsqrtS is the reciprocal square root.
func FPURsqrtS(a float32) float32 {
	return float32(1 / math.Sqrt(float64(a)))
}

// FPUAbsS clears the sign bit.
func FPUAbsS(a float32) float32 {
	return float32(math.Abs(float64(a)))
}

// FPUMaxS returns the larger operand.
func FPUMaxS(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// FPUMinS returns the smaller operand.
func FPUMinS(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// RoundW rounds to nearest, ties to even.
func RoundW(a float32) int32 {
	return int32(math.RoundToEven(float64(a)))
}

// TruncW truncates toward zero.
func TruncW(a float32) int32 {
	return int32(a)
}

// CeilW rounds toward positive infinity.
func CeilW(a float32) int32 {
	return int32(math.Ceil(float64(a)))
}

// FloorW rounds toward negative infinity.
func FloorW(a float32) int32 {
	return int32(math.Floor(float64(a)))
}

// CvtSW converts a 32-bit integer pattern to single precision.
func CvtSW(a int32) float32 {
	return float32(a)
}

func isNaN32(f float32) bool {
	return f != f
}

// C.cond.S predicates. Ordered forms are false on NaN operands;
// unordered forms are true.

func CUnS(a, b float32) bool   { return isNaN32(a) || isNaN32(b) }
func CEqS(a, b float32) bool   { return a == b }
func CUeqS(a, b float32) bool  { return a == b || isNaN32(a) || isNaN32(b) }
func COltS(a, b float32) bool  { return a < b }
func CUltS(a, b float32) bool  { return a < b || isNaN32(a) || isNaN32(b) }
func COleS(a, b float32) bool  { return a <= b }
func CUleS(a, b float32) bool  { return a <= b || isNaN32(a) || isNaN32(b) }
func CNgleS(a, b float32) bool { return isNaN32(a) || isNaN32(b) }
func CSeqS(a, b float32) bool  { return a == b }
func CNglS(a, b float32) bool  { return a == b || isNaN32(a) || isNaN32(b) }
func CLtS(a, b float32) bool   { return a < b }
func CNgeS(a, b float32) bool  { return a < b || isNaN32(a) || isNaN32(b) }
func CLeS(a, b float32) bool   { return a <= b }
func CNgtS(a, b float32) bool  { return a <= b || isNaN32(a) || isNaN32(b) }
