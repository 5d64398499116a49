package ps2rt

import "math/bits"

// Add32Ov adds two words, reporting signed 32-bit overflow. Trapping
// arithmetic commits the result only when ov is false.
func Add32Ov(a, b uint32) (result uint32, ov bool) {
	sa, sb := int32(a), int32(b)
	r := sa + sb
	return uint32(r), (sa^sb) >= 0 && (sa^r) < 0
}

// Sub32Ov subtracts b from a, reporting signed 32-bit overflow.
func Sub32Ov(a, b uint32) (result uint32, ov bool) {
	sa, sb := int32(a), int32(b)
	r := sa - sb
	return uint32(r), (sa^sb) < 0 && (sa^r) < 0
}

// Add64Ov adds two doublewords, reporting signed 64-bit overflow.
func Add64Ov(a, b int64) (result int64, ov bool) {
	r := a + b
	return r, (a^b) >= 0 && (a^r) < 0
}

// Sub64Ov subtracts b from a, reporting signed 64-bit overflow.
func Sub64Ov(a, b int64) (result int64, ov bool) {
	r := a - b
	return r, (a^b) < 0 && (a^r) < 0
}

// Clz32 counts leading zero bits; 32 for zero input.
func Clz32(v uint32) uint32 {
	return uint32(bits.LeadingZeros32(v))
}

// SLT32 is the signed set-on-less-than predicate as a 0/1 word.
func SLT32(a, b int32) uint32 {
	if a < b {
		return 1
	}
	return 0
}

// SLTU32 is the unsigned set-on-less-than predicate as a 0/1 word.
func SLTU32(a, b uint32) uint32 {
	if a < b {
		return 1
	}
	return 0
}

// Div32 performs the signed 32-bit divide, producing the MIPS
// divide-by-zero fill when rt is zero: quotient -1 (or 1 for a negative
// dividend), remainder = dividend.
func Div32(rs, rt int32) (lo, hi uint32) {
	if rt == 0 {
		if rs < 0 {
			return 1, uint32(rs)
		}
		return 0xFFFFFFFF, uint32(rs)
	}
	if rs == -0x80000000 && rt == -1 {
		// Quotient overflows; hardware stores the dividend unchanged.
		return uint32(rs), 0
	}
	return uint32(rs / rt), uint32(rs % rt)
}

// DivU32 performs the unsigned 32-bit divide with the divide-by-zero
// fill: quotient all-ones, remainder = dividend.
func DivU32(rs, rt uint32) (lo, hi uint32) {
	if rt == 0 {
		return 0xFFFFFFFF, rs
	}
	return rs / rt, rs % rt
}

// Sat32 clamps a 64-bit value into signed 32-bit range.
func Sat32(v int64) int32 {
	if v > 0x7FFFFFFF {
		return 0x7FFFFFFF
	}
	if v < -0x80000000 {
		return -0x80000000
	}
	return int32(v)
}

// Sat16 clamps a 32-bit value into signed 16-bit range.
func Sat16(v int32) int16 {
	if v > 0x7FFF {
		return 0x7FFF
	}
	if v < -0x8000 {
		return -0x8000
	}
	return int16(v)
}

// Sat8 clamps a 16-bit value into signed 8-bit range.
func Sat8(v int16) int8 {
	if v > 0x7F {
		return 0x7F
	}
	if v < -0x80 {
		return -0x80
	}
	return int8(v)
}

// SatU8 clamps a signed 16-bit value into unsigned 8-bit range.
func SatU8(v int16) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
