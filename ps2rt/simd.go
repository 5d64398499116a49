package ps2rt

// Packed 128-bit MMI operators. Lane arithmetic is modular unless the
// mnemonic is a saturating form. Implemented lane-wise in portable
// scalar code; the contracts are the lane semantics, not any particular
// host SIMD instruction set.

// PAddW adds four 32-bit lanes with wraparound.
func PAddW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetW(i, a.W(i)+b.W(i))
	}
	return r
}

// PSubW subtracts four 32-bit lanes with wraparound.
func PSubW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetW(i, a.W(i)-b.W(i))
	}
	return r
}

// PAddH adds eight 16-bit lanes with wraparound.
func PAddH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetH(i, a.H(i)+b.H(i))
	}
	return r
}

// PSubH subtracts eight 16-bit lanes with wraparound.
func PSubH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetH(i, a.H(i)-b.H(i))
	}
	return r
}

// PAddB adds sixteen byte lanes with wraparound.
func PAddB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		r = r.SetB(i, a.B(i)+b.B(i))
	}
	return r
}

// PSubB subtracts sixteen byte lanes with wraparound.
func PSubB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		r = r.SetB(i, a.B(i)-b.B(i))
	}
	return r
}

// PAddsW adds 32-bit lanes with signed saturation.
func PAddsW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetW(i, uint32(Sat32(int64(int32(a.W(i)))+int64(int32(b.W(i))))))
	}
	return r
}

// PSubsW subtracts 32-bit lanes with signed saturation.
func PSubsW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetW(i, uint32(Sat32(int64(int32(a.W(i)))-int64(int32(b.W(i))))))
	}
	return r
}

// PAddsH adds 16-bit lanes with signed saturation.
func PAddsH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetH(i, uint16(Sat16(int32(int16(a.H(i)))+int32(int16(b.H(i))))))
	}
	return r
}

// PSubsH subtracts 16-bit lanes with signed saturation.
func PSubsH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetH(i, uint16(Sat16(int32(int16(a.H(i)))-int32(int16(b.H(i))))))
	}
	return r
}

// PAddsB adds byte lanes with signed saturation.
func PAddsB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		r = r.SetB(i, uint8(Sat8(int16(int8(a.B(i)))+int16(int8(b.B(i))))))
	}
	return r
}

// PSubsB subtracts byte lanes with signed saturation.
func PSubsB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		r = r.SetB(i, uint8(Sat8(int16(int8(a.B(i)))-int16(int8(b.B(i))))))
	}
	return r
}

// PAddUB adds byte lanes with unsigned saturation.
func PAddUB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		s := uint16(a.B(i)) + uint16(b.B(i))
		if s > 0xFF {
			s = 0xFF
		}
		r = r.SetB(i, uint8(s))
	}
	return r
}

// PSubUB subtracts byte lanes with unsigned saturation (floor zero).
func PSubUB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		x, y := a.B(i), b.B(i)
		if y > x {
			r = r.SetB(i, 0)
		} else {
			r = r.SetB(i, x-y)
		}
	}
	return r
}

// PCgtW compares 32-bit lanes signed greater-than, producing all-ones masks.
func PCgtW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		if int32(a.W(i)) > int32(b.W(i)) {
			r = r.SetW(i, 0xFFFFFFFF)
		}
	}
	return r
}

// PCgtH compares 16-bit lanes signed greater-than.
func PCgtH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		if int16(a.H(i)) > int16(b.H(i)) {
			r = r.SetH(i, 0xFFFF)
		}
	}
	return r
}

// PCgtB compares byte lanes signed greater-than.
func PCgtB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		if int8(a.B(i)) > int8(b.B(i)) {
			r = r.SetB(i, 0xFF)
		}
	}
	return r
}

// PCeqW compares 32-bit lanes for equality.
func PCeqW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		if a.W(i) == b.W(i) {
			r = r.SetW(i, 0xFFFFFFFF)
		}
	}
	return r
}

// PCeqH compares 16-bit lanes for equality.
func PCeqH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		if a.H(i) == b.H(i) {
			r = r.SetH(i, 0xFFFF)
		}
	}
	return r
}

// PCeqB compares byte lanes for equality.
func PCeqB(a, b U128) U128 {
	var r U128
	for i := 0; i < 16; i++ {
		if a.B(i) == b.B(i) {
			r = r.SetB(i, 0xFF)
		}
	}
	return r
}

// PMaxW takes the signed lane-wise maximum of 32-bit lanes.
func PMaxW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		x, y := int32(a.W(i)), int32(b.W(i))
		if x < y {
			x = y
		}
		r = r.SetW(i, uint32(x))
	}
	return r
}

// PMinW takes the signed lane-wise minimum of 32-bit lanes.
func PMinW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		x, y := int32(a.W(i)), int32(b.W(i))
		if x > y {
			x = y
		}
		r = r.SetW(i, uint32(x))
	}
	return r
}

// PMaxH takes the signed lane-wise maximum of 16-bit lanes.
func PMaxH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		x, y := int16(a.H(i)), int16(b.H(i))
		if x < y {
			x = y
		}
		r = r.SetH(i, uint16(x))
	}
	return r
}

// PMinH takes the signed lane-wise minimum of 16-bit lanes.
func PMinH(a, b U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		x, y := int16(a.H(i)), int16(b.H(i))
		if x > y {
			x = y
		}
		r = r.SetH(i, uint16(x))
	}
	return r
}

// PAbsW takes the lane-wise absolute value of 32-bit lanes.
func PAbsW(a U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		v := int32(a.W(i))
		if v < 0 {
			v = -v
		}
		r = r.SetW(i, uint32(v))
	}
	return r
}

// PAbsH takes the lane-wise absolute value of 16-bit lanes.
func PAbsH(a U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		v := int16(a.H(i))
		if v < 0 {
			v = -v
		}
		r = r.SetH(i, uint16(v))
	}
	return r
}

// PExtlW interleaves the low 32-bit lanes: {rt0, rs0, rt1, rs1}.
func PExtlW(rs, rt U128) U128 {
	return FromWords(rt.W(0), rs.W(0), rt.W(1), rs.W(1))
}

// PExtuW interleaves the upper 32-bit lanes: {rt2, rs2, rt3, rs3}.
func PExtuW(rs, rt U128) U128 {
	return FromWords(rt.W(2), rs.W(2), rt.W(3), rs.W(3))
}

// PExtlH interleaves the low 16-bit lanes of rt and rs.
func PExtlH(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetH(2*i, rt.H(i))
		r = r.SetH(2*i+1, rs.H(i))
	}
	return r
}

// PExtuH interleaves the upper 16-bit lanes of rt and rs.
func PExtuH(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetH(2*i, rt.H(i+4))
		r = r.SetH(2*i+1, rs.H(i+4))
	}
	return r
}

// PExtlB interleaves the low byte lanes of rt and rs.
func PExtlB(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetB(2*i, rt.B(i))
		r = r.SetB(2*i+1, rs.B(i))
	}
	return r
}

// PExtuB interleaves the upper byte lanes of rt and rs.
func PExtuB(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetB(2*i, rt.B(i+8))
		r = r.SetB(2*i+1, rs.B(i+8))
	}
	return r
}

// PPacW packs 32-bit lanes into 16-bit lanes with signed saturation,
// rt lanes in the low half, rs lanes in the high half.
func PPacW(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetH(i, uint16(Sat16(int32(rt.W(i)))))
		r = r.SetH(i+4, uint16(Sat16(int32(rs.W(i)))))
	}
	return r
}

// PPacH packs 16-bit lanes into bytes with signed saturation.
func PPacH(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetB(i, uint8(Sat8(int16(rt.H(i)))))
		r = r.SetB(i+8, uint8(Sat8(int16(rs.H(i)))))
	}
	return r
}

// PPacB packs 32-bit lanes through 16 bits into unsigned-saturated bytes
// in the low half of the result.
func PPacB(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetB(i, SatU8(Sat16(int32(rt.W(i)))))
		r = r.SetB(i+4, SatU8(Sat16(int32(rs.W(i)))))
	}
	return r
}

// PInth interleaves the low 16-bit lanes pairwise: {rt0, rs0, rt1, rs1, ...}.
func PInth(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetH(2*i, rt.H(i))
		r = r.SetH(2*i+1, rs.H(i))
	}
	return r
}

// PInteh interleaves the even 16-bit lanes of rt and rs.
func PInteh(rs, rt U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetH(2*i, rt.H(2*i))
		r = r.SetH(2*i+1, rs.H(2*i))
	}
	return r
}

// PAnd is the 128-bit bitwise AND.
func PAnd(a, b U128) U128 {
	return U128{Lo: a.Lo & b.Lo, Hi: a.Hi & b.Hi}
}

// POr is the 128-bit bitwise OR.
func POr(a, b U128) U128 {
	return U128{Lo: a.Lo | b.Lo, Hi: a.Hi | b.Hi}
}

// PXor is the 128-bit bitwise XOR.
func PXor(a, b U128) U128 {
	return U128{Lo: a.Lo ^ b.Lo, Hi: a.Hi ^ b.Hi}
}

// PNor is the 128-bit bitwise NOR.
func PNor(a, b U128) U128 {
	return U128{Lo: ^(a.Lo | b.Lo), Hi: ^(a.Hi | b.Hi)}
}

// PCpyLD copies the low doublewords: rd.lo = rs.lo, rd.hi = rt.lo.
func PCpyLD(rs, rt U128) U128 {
	return U128{Lo: rs.Lo, Hi: rt.Lo}
}

// PCpyUD copies the upper doublewords: rd.lo = rs.hi, rd.hi = rt.hi.
func PCpyUD(rs, rt U128) U128 {
	return U128{Lo: rs.Hi, Hi: rt.Hi}
}

// PCpyH broadcasts halfword 0 across the low doubleword and halfword 4
// across the upper doubleword.
func PCpyH(rs U128) U128 {
	var r U128
	l, h := rs.H(0), rs.H(4)
	for i := 0; i < 4; i++ {
		r = r.SetH(i, l)
		r = r.SetH(i+4, h)
	}
	return r
}

// PExeH swaps adjacent halfword pairs within each doubleword.
func PExeH(rs U128) U128 {
	var r U128
	for i := 0; i < 8; i += 2 {
		r = r.SetH(i, rs.H(i+1))
		r = r.SetH(i+1, rs.H(i))
	}
	return r
}

// PExeW swaps 32-bit lanes 0<->2 and 1<->3.
func PExeW(rs U128) U128 {
	return FromWords(rs.W(2), rs.W(3), rs.W(0), rs.W(1))
}

// PRevH reverses the order of the eight 16-bit lanes.
func PRevH(rs U128) U128 {
	var r U128
	for i := 0; i < 8; i++ {
		r = r.SetH(i, rs.H(7-i))
	}
	return r
}

// PRot3W rotates the 32-bit lanes left by three: {w1, w2, w3, w0}.
func PRot3W(rs U128) U128 {
	return FromWords(rs.W(1), rs.W(2), rs.W(3), rs.W(0))
}

// PSllH shifts 16-bit lanes left; amounts of 16 or more clear the lane.
func PSllH(a U128, sa uint32) U128 {
	var r U128
	if sa >= 16 {
		return r
	}
	for i := 0; i < 8; i++ {
		r = r.SetH(i, a.H(i)<<sa)
	}
	return r
}

// PSrlH shifts 16-bit lanes right logically.
func PSrlH(a U128, sa uint32) U128 {
	var r U128
	if sa >= 16 {
		return r
	}
	for i := 0; i < 8; i++ {
		r = r.SetH(i, a.H(i)>>sa)
	}
	return r
}

// PSraH shifts 16-bit lanes right arithmetically.
func PSraH(a U128, sa uint32) U128 {
	var r U128
	if sa >= 16 {
		sa = 15
	}
	for i := 0; i < 8; i++ {
		r = r.SetH(i, uint16(int16(a.H(i))>>sa))
	}
	return r
}

// PSllW shifts 32-bit lanes left.
func PSllW(a U128, sa uint32) U128 {
	var r U128
	if sa >= 32 {
		return r
	}
	for i := 0; i < 4; i++ {
		r = r.SetW(i, a.W(i)<<sa)
	}
	return r
}

// PSrlW shifts 32-bit lanes right logically.
func PSrlW(a U128, sa uint32) U128 {
	var r U128
	if sa >= 32 {
		return r
	}
	for i := 0; i < 4; i++ {
		r = r.SetW(i, a.W(i)>>sa)
	}
	return r
}

// PSraW shifts 32-bit lanes right arithmetically.
func PSraW(a U128, sa uint32) U128 {
	var r U128
	if sa >= 32 {
		sa = 31
	}
	for i := 0; i < 4; i++ {
		r = r.SetW(i, uint32(int32(a.W(i))>>sa))
	}
	return r
}

// PSllVW shifts each 32-bit lane of a left by the matching lane of b,
// masked to 5 bits.
func PSllVW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetW(i, a.W(i)<<(b.W(i)&0x1F))
	}
	return r
}

// PSrlVW shifts each 32-bit lane of a right logically by the matching
// lane of b, masked to 5 bits.
func PSrlVW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetW(i, a.W(i)>>(b.W(i)&0x1F))
	}
	return r
}

// PSravW shifts each 32-bit lane of a right arithmetically by the
// matching lane of b, masked to 5 bits.
func PSravW(a, b U128) U128 {
	var r U128
	for i := 0; i < 4; i++ {
		r = r.SetW(i, uint32(int32(a.W(i))>>(b.W(i)&0x1F)))
	}
	return r
}

// QFSRV funnel-shifts the 256-bit concatenation rt:rs right by the SA
// register amount in bits (low 7 bits, quadword-aligned on hardware).
func QFSRV(rs, rt U128, sa uint32) U128 {
	shift := sa & 0x7F
	switch {
	case shift == 0:
		return rs
	case shift < 64:
		return U128{
			Lo: rs.Lo>>shift | rs.Hi<<(64-shift),
			Hi: rs.Hi>>shift | rt.Lo<<(64-shift),
		}
	case shift == 64:
		return U128{Lo: rs.Hi, Hi: rt.Lo}
	default:
		sub := shift - 64
		return U128{
			Lo: rs.Hi>>sub | rt.Lo<<(64-sub),
			Hi: rt.Lo>>sub | rt.Hi<<(64-sub),
		}
	}
}

// PMaddW multiplies the even 32-bit lanes signed, accumulates the
// products into HI:LO and returns the accumulator value for rd.
func PMaddW(ctx *R5900Context, a, b U128) U128 {
	acc := int64(ctx.HI)<<32 | int64(uint32(ctx.LO))
	acc += int64(int32(a.W(0))) * int64(int32(b.W(0)))
	acc += int64(int32(a.W(2))) * int64(int32(b.W(2)))
	ctx.LO = uint32(acc)
	ctx.HI = uint32(acc >> 32)
	return FromU64(uint64(acc))
}

// PMaddH multiplies 16-bit lane pairs, sums all products into HI:LO and
// returns the accumulator value for rd.
func PMaddH(ctx *R5900Context, a, b U128) U128 {
	acc := int64(ctx.HI)<<32 | int64(uint32(ctx.LO))
	for i := 0; i < 8; i++ {
		acc += int64(int16(a.H(i))) * int64(int16(b.H(i)))
	}
	ctx.LO = uint32(acc)
	ctx.HI = uint32(acc >> 32)
	return FromU64(uint64(acc))
}

// PHmadH horizontally multiply-adds adjacent 16-bit lane pairs, sums the
// pair results into HI:LO and returns the accumulator value for rd.
func PHmadH(ctx *R5900Context, a, b U128) U128 {
	acc := int64(ctx.HI)<<32 | int64(uint32(ctx.LO))
	for i := 0; i < 4; i++ {
		p := int32(int16(a.H(2*i)))*int32(int16(b.H(2*i))) +
			int32(int16(a.H(2*i+1)))*int32(int16(b.H(2*i+1)))
		acc += int64(p)
	}
	ctx.LO = uint32(acc)
	ctx.HI = uint32(acc >> 32)
	return FromU64(uint64(acc))
}

// PMultH multiplies 16-bit lane pairs, sums the products into HI:LO
// without accumulation and returns the sum for rd.
func PMultH(ctx *R5900Context, a, b U128) U128 {
	var sum int64
	for i := 0; i < 8; i++ {
		sum += int64(int16(a.H(i))) * int64(int16(b.H(i)))
	}
	ctx.LO = uint32(sum)
	ctx.HI = uint32(sum >> 32)
	return FromU64(uint64(sum))
}

// PMultUW multiplies the even 32-bit lanes unsigned; HI:LO take the
// first product, rd takes both products' halves lane-wise.
func PMultUW(ctx *R5900Context, a, b U128) U128 {
	p0 := uint64(a.W(0)) * uint64(b.W(0))
	p1 := uint64(a.W(2)) * uint64(b.W(2))
	ctx.LO = uint32(p0)
	ctx.HI = uint32(p0 >> 32)
	return FromWords(uint32(p0), uint32(p0>>32), uint32(p1), uint32(p1>>32))
}

// PDivW divides the first 32-bit lanes signed; quotient to LO and rd,
// remainder to HI, with the standard divide-by-zero fill.
func PDivW(ctx *R5900Context, a, b U128) U128 {
	lo, hi := Div32(int32(a.W(0)), int32(b.W(0)))
	ctx.LO = lo
	ctx.HI = hi
	return FromU64(uint64(lo))
}

// PDivUW divides the first 32-bit lanes unsigned.
func PDivUW(ctx *R5900Context, a, b U128) U128 {
	lo, hi := DivU32(a.W(0), b.W(0))
	ctx.LO = lo
	ctx.HI = hi
	return FromU64(uint64(lo))
}

// PDivBW divides every 32-bit lane of rs by the first lane of rt; HI:LO
// take the first lane's quotient and remainder.
func PDivBW(ctx *R5900Context, a, b U128) U128 {
	div := int32(b.W(0))
	var r U128
	if div == 0 {
		r0 := int32(a.W(0))
		if r0 < 0 {
			ctx.LO = 1
		} else {
			ctx.LO = 0xFFFFFFFF
		}
		ctx.HI = uint32(r0)
		return r
	}
	for i := 0; i < 4; i++ {
		q := int32(a.W(i)) / div
		r = r.SetW(i, uint32(q))
		if i == 0 {
			ctx.LO = uint32(q)
			ctx.HI = uint32(int32(a.W(0)) % div)
		}
	}
	return r
}

// PMFHL lane layouts shuttle HI/LO (and the secondary pair) into a GPR.
// The accumulators are modeled as 32-bit halves, so the layouts below
// spread {LO, HI, LO1, HI1} across the quadword.

// PMfhlLW gathers {LO, HI, LO1, HI1} as 32-bit lanes.
func PMfhlLW(ctx *R5900Context) U128 {
	return FromWords(ctx.LO, ctx.HI, ctx.LO1, ctx.HI1)
}

// PMfhlUW gathers the HI halves into the even lanes.
func PMfhlUW(ctx *R5900Context) U128 {
	return FromWords(ctx.HI, 0, ctx.HI1, 0)
}

// PMfhlSLW saturates the two accumulators into 32-bit lanes with sign
// fill in the odd lanes.
func PMfhlSLW(ctx *R5900Context) U128 {
	v0 := Sat32(int64(ctx.HI)<<32 | int64(uint32(ctx.LO)))
	v1 := Sat32(int64(ctx.HI1)<<32 | int64(uint32(ctx.LO1)))
	return FromWords(uint32(v0), uint32(int32(v0)>>31), uint32(v1), uint32(int32(v1)>>31))
}

// PMfhlLH packs the 16-bit halves of the accumulator words.
func PMfhlLH(ctx *R5900Context) U128 {
	var r U128
	r = r.SetH(0, uint16(ctx.LO))
	r = r.SetH(1, uint16(ctx.LO>>16))
	r = r.SetH(2, uint16(ctx.HI))
	r = r.SetH(3, uint16(ctx.HI>>16))
	r = r.SetH(4, uint16(ctx.LO1))
	r = r.SetH(5, uint16(ctx.LO1>>16))
	r = r.SetH(6, uint16(ctx.HI1))
	r = r.SetH(7, uint16(ctx.HI1>>16))
	return r
}

// PMfhlSH saturates the accumulator words into 16-bit lanes.
func PMfhlSH(ctx *R5900Context) U128 {
	var r U128
	r = r.SetH(0, uint16(Sat16(int32(ctx.LO))))
	r = r.SetH(1, uint16(Sat16(int32(ctx.HI))))
	r = r.SetH(2, uint16(Sat16(int32(ctx.LO1))))
	r = r.SetH(3, uint16(Sat16(int32(ctx.HI1))))
	return r
}
