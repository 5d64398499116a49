package ps2rt

import "testing"

func TestPAddW_Wraps(t *testing.T) {
	a := FromWords(0xFFFFFFFF, 1, 2, 3)
	b := FromWords(1, 1, 1, 1)
	r := PAddW(a, b)
	if r.W(0) != 0 {
		t.Errorf("lane 0 = 0x%x, want wraparound to 0", r.W(0))
	}
	if r.W(3) != 4 {
		t.Errorf("lane 3 = %d, want 4", r.W(3))
	}
}

func TestPAddsH_Saturates(t *testing.T) {
	var a, b U128
	a = a.SetH(0, 0x7FFF)
	b = b.SetH(0, 1)
	a = a.SetH(7, 0x8000) // -32768
	b = b.SetH(7, 0xFFFF) // -1
	r := PAddsH(a, b)
	if r.H(0) != 0x7FFF {
		t.Errorf("positive lane = 0x%x, want 0x7FFF", r.H(0))
	}
	if r.H(7) != 0x8000 {
		t.Errorf("negative lane = 0x%x, want 0x8000", r.H(7))
	}
}

func TestPAddUB_Saturates(t *testing.T) {
	var a, b U128
	a = a.SetB(0, 0xF0)
	b = b.SetB(0, 0x20)
	r := PAddUB(a, b)
	if r.B(0) != 0xFF {
		t.Errorf("lane 0 = 0x%x, want 0xFF", r.B(0))
	}
}

func TestPSubUB_FloorsAtZero(t *testing.T) {
	var a, b U128
	a = a.SetB(3, 1)
	b = b.SetB(3, 2)
	if r := PSubUB(a, b); r.B(3) != 0 {
		t.Errorf("lane 3 = 0x%x, want 0", r.B(3))
	}
}

func TestPExtlW_Interleaves(t *testing.T) {
	rs := FromWords(0xA0, 0xA1, 0xA2, 0xA3)
	rt := FromWords(0xB0, 0xB1, 0xB2, 0xB3)
	r := PExtlW(rs, rt)
	want := FromWords(0xB0, 0xA0, 0xB1, 0xA1)
	if r != want {
		t.Errorf("PExtlW = %#v, want %#v", r, want)
	}
}

func TestPExtuW_Interleaves(t *testing.T) {
	rs := FromWords(0xA0, 0xA1, 0xA2, 0xA3)
	rt := FromWords(0xB0, 0xB1, 0xB2, 0xB3)
	r := PExtuW(rs, rt)
	want := FromWords(0xB2, 0xA2, 0xB3, 0xA3)
	if r != want {
		t.Errorf("PExtuW = %#v, want %#v", r, want)
	}
}

func TestPPacW_Saturates(t *testing.T) {
	rs := FromWords(0x12345678, 2, 3, 4)
	rt := FromWords(0xFFFFFFFF, 1, 0x8000, 0)
	r := PPacW(rs, rt)
	if int16(r.H(0)) != -1 {
		t.Errorf("h0 = %d, want -1", int16(r.H(0)))
	}
	if r.H(2) != 0x7FFF {
		t.Errorf("h2 = 0x%x, want saturated 0x7FFF", r.H(2))
	}
	if r.H(4) != 0x7FFF {
		t.Errorf("h4 = 0x%x, want saturated rs lane", r.H(4))
	}
}

func TestPCgtW(t *testing.T) {
	a := FromWords(5, 0, 0xFFFFFFFF, 1)
	b := FromWords(4, 0, 0, 2)
	r := PCgtW(a, b)
	if r.W(0) != 0xFFFFFFFF {
		t.Error("5 > 4 lane should be all-ones")
	}
	if r.W(1) != 0 {
		t.Error("equal lane should be zero")
	}
	if r.W(2) != 0 {
		t.Error("-1 > 0 is false signed")
	}
}

func TestPCpyLDUD(t *testing.T) {
	rs := U128{Lo: 0xAAAA, Hi: 0xBBBB}
	rt := U128{Lo: 0xCCCC, Hi: 0xDDDD}
	if r := PCpyLD(rs, rt); r.Lo != 0xAAAA || r.Hi != 0xCCCC {
		t.Errorf("PCpyLD = %#v", r)
	}
	if r := PCpyUD(rs, rt); r.Lo != 0xBBBB || r.Hi != 0xDDDD {
		t.Errorf("PCpyUD = %#v", r)
	}
}

func TestPRevH(t *testing.T) {
	var v U128
	for i := 0; i < 8; i++ {
		v = v.SetH(i, uint16(i))
	}
	r := PRevH(v)
	for i := 0; i < 8; i++ {
		if r.H(i) != uint16(7-i) {
			t.Fatalf("h%d = %d, want %d", i, r.H(i), 7-i)
		}
	}
}

func TestQFSRV(t *testing.T) {
	rs := U128{Lo: 0x1111111111111111, Hi: 0x2222222222222222}
	rt := U128{Lo: 0x3333333333333333, Hi: 0x4444444444444444}

	if r := QFSRV(rs, rt, 0); r != rs {
		t.Errorf("shift 0 = %#v, want rs", r)
	}
	if r := QFSRV(rs, rt, 64); (r != U128{Lo: rs.Hi, Hi: rt.Lo}) {
		t.Errorf("shift 64 = %#v", r)
	}
	r := QFSRV(rs, rt, 8)
	wantLo := rs.Lo>>8 | rs.Hi<<56
	wantHi := rs.Hi>>8 | rt.Lo<<56
	if r.Lo != wantLo || r.Hi != wantHi {
		t.Errorf("shift 8 = %#v", r)
	}
}

func TestPMaddH_AccumulatesIntoHILO(t *testing.T) {
	ctx := NewContext()
	ctx.HI, ctx.LO = 0, 10
	var a, b U128
	a = a.SetH(0, 3)
	b = b.SetH(0, 4)
	a = a.SetH(5, 0xFFFF) // -1
	b = b.SetH(5, 2)
	rd := PMaddH(ctx, a, b)
	// 10 + 3*4 + (-1)*2 = 20
	if ctx.LO != 20 || ctx.HI != 0 {
		t.Errorf("HI:LO = %d:%d, want 0:20", ctx.HI, ctx.LO)
	}
	if rd.Lo != 20 {
		t.Errorf("rd = %d, want 20", rd.Lo)
	}
}

func TestPDivW_ByZero(t *testing.T) {
	ctx := NewContext()
	a := FromWords(9, 0, 0, 0)
	b := FromWords(0, 0, 0, 0)
	PDivW(ctx, a, b)
	if ctx.LO != 0xFFFFFFFF || ctx.HI != 9 {
		t.Errorf("HI:LO = 0x%x:0x%x", ctx.HI, ctx.LO)
	}
}

func TestPMfhlLW(t *testing.T) {
	ctx := NewContext()
	ctx.LO, ctx.HI, ctx.LO1, ctx.HI1 = 1, 2, 3, 4
	if got := PMfhlLW(ctx); got != FromWords(1, 2, 3, 4) {
		t.Errorf("PMfhlLW = %#v", got)
	}
}

func TestPShifts(t *testing.T) {
	var v U128
	v = v.SetH(0, 0x8000)
	if r := PSraH(v, 15); r.H(0) != 0xFFFF {
		t.Errorf("PSraH sign fill = 0x%x", r.H(0))
	}
	if r := PSllH(v, 1); r.H(0) != 0 {
		t.Errorf("PSllH shift out = 0x%x", r.H(0))
	}
	w := FromWords(0x80000000, 0, 0, 0)
	if r := PSraW(w, 31); r.W(0) != 0xFFFFFFFF {
		t.Errorf("PSraW sign fill = 0x%x", r.W(0))
	}
}
