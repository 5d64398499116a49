package ps2rt

import (
	"math"
	"testing"
)

func TestFPUCondBit(t *testing.T) {
	ctx := NewContext()
	SetFPUCond(ctx, true)
	if ctx.FCR31&FCR31CondBit == 0 {
		t.Fatal("cond bit not set")
	}
	if !FPUCond(ctx) {
		t.Fatal("FPUCond readback")
	}
	SetFPUCond(ctx, false)
	if FPUCond(ctx) {
		t.Fatal("cond bit not cleared")
	}
}

func TestFPUDivS_ByZero(t *testing.T) {
	ctx := NewContext()
	r := FPUDivS(ctx, 3, 0)
	if ctx.FCR31&FCR31DZFlag == 0 {
		t.Fatal("DZ flag not set")
	}
	if !math.IsInf(float64(r), 1) {
		t.Errorf("3/0 = %v, want +Inf", r)
	}
	r = FPUDivS(ctx, -3, 0)
	if !math.IsInf(float64(r), -1) {
		t.Errorf("-3/0 = %v, want -Inf", r)
	}
}

func TestFPUDivS_Normal(t *testing.T) {
	ctx := NewContext()
	if r := FPUDivS(ctx, 6, 2); r != 3 {
		t.Errorf("6/2 = %v", r)
	}
	if ctx.FCR31&FCR31DZFlag != 0 {
		t.Error("DZ flag set on normal divide")
	}
}

func TestComparePredicates(t *testing.T) {
	nan := float32(math.NaN())
	if !CEqS(1, 1) || CEqS(1, 2) {
		t.Error("CEqS")
	}
	if CEqS(nan, nan) {
		t.Error("ordered equal is false on NaN")
	}
	if !CUeqS(nan, 1) {
		t.Error("unordered equal is true on NaN")
	}
	if !COltS(1, 2) || COltS(nan, 2) {
		t.Error("COltS")
	}
	if !CUltS(nan, 2) {
		t.Error("CUltS with NaN")
	}
	if !CUnS(nan, 1) || CUnS(1, 2) {
		t.Error("CUnS")
	}
	if !CLeS(2, 2) {
		t.Error("CLeS")
	}
}

func TestConversions(t *testing.T) {
	if RoundW(2.5) != 2 {
		t.Error("RoundW ties to even")
	}
	if RoundW(3.5) != 4 {
		t.Error("RoundW ties to even (up)")
	}
	if TruncW(-2.9) != -2 {
		t.Error("TruncW toward zero")
	}
	if CeilW(2.1) != 3 {
		t.Error("CeilW")
	}
	if FloorW(-2.1) != -3 {
		t.Error("FloorW")
	}
	if CvtSW(-7) != -7.0 {
		t.Error("CvtSW")
	}
}

func TestFPUWordBits(t *testing.T) {
	ctx := NewContext()
	SetFPUWord(ctx, 4, -123)
	if FPUWord(ctx, 4) != -123 {
		t.Error("integer pattern round trip")
	}
	SetFPUBits(ctx, 5, math.Float32bits(1.5))
	if ctx.F[5] != 1.5 {
		t.Error("bit pattern store")
	}
	if FPUBits(ctx, 5) != math.Float32bits(1.5) {
		t.Error("bit pattern load")
	}
}

func TestFPUMinMaxAbs(t *testing.T) {
	if FPUMaxS(1, 2) != 2 || FPUMinS(1, 2) != 1 {
		t.Error("min/max")
	}
	if FPUAbsS(-3.5) != 3.5 {
		t.Error("abs")
	}
}
