package ps2rt

import "math"

// VU0 macro-mode helpers. Destination masks select lanes with bit 0 = x
// through bit 3 = w; VBlend merges a result into an existing register
// under such a mask.

// VBlend replaces the lanes of dst selected by mask with res.
func VBlend(dst, res Vec4, mask uint8) Vec4 {
	for i := 0; i < 4; i++ {
		if mask&(1<<uint(i)) != 0 {
			dst[i] = res[i]
		}
	}
	return dst
}

// VBroadcast shuffles a single named lane into all four.
func VBroadcast(v Vec4, lane int) Vec4 {
	f := v[lane&3]
	return Vec4{f, f, f, f}
}

// VSplat builds a vector with all lanes equal to f.
func VSplat(f float32) Vec4 {
	return Vec4{f, f, f, f}
}

// VAdd adds lane-wise.
func VAdd(a, b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

// VSub subtracts lane-wise.
func VSub(a, b Vec4) Vec4 {
	return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

// VMul multiplies lane-wise.
func VMul(a, b Vec4) Vec4 {
	return Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// VMax takes the lane-wise maximum.
func VMax(a, b Vec4) Vec4 {
	var r Vec4
	for i := 0; i < 4; i++ {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// VMin takes the lane-wise minimum.
func VMin(a, b Vec4) Vec4 {
	var r Vec4
	for i := 0; i < 4; i++ {
		if a[i] < b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// VAbs clears the sign bit of every lane.
func VAbs(a Vec4) Vec4 {
	var r Vec4
	for i := 0; i < 4; i++ {
		r[i] = float32(math.Abs(float64(a[i])))
	}
	return r
}

// VMr32 rotates the lanes right: {y, z, w, x}.
func VMr32(a Vec4) Vec4 {
	return Vec4{a[1], a[2], a[3], a[0]}
}

// VFBits reinterprets a vector register as a 128-bit integer value.
func VFBits(v Vec4) U128 {
	return FromWords(
		math.Float32bits(v[0]),
		math.Float32bits(v[1]),
		math.Float32bits(v[2]),
		math.Float32bits(v[3]),
	)
}

// VFFromBits reinterprets a 128-bit integer value as a vector register.
func VFFromBits(u U128) Vec4 {
	return Vec4{
		math.Float32frombits(u.W(0)),
		math.Float32frombits(u.W(1)),
		math.Float32frombits(u.W(2)),
		math.Float32frombits(u.W(3)),
	}
}

// VU0Div computes the Q register quotient; a zero divisor yields zero.
func VU0Div(fs, ft float32) float32 {
	if ft == 0 {
		return 0
	}
	return fs / ft
}

// VU0Sqrt computes the Q register square root, clamping negatives to zero.
func VU0Sqrt(ft float32) float32 {
	if ft < 0 {
		ft = 0
	}
	return float32(math.Sqrt(float64(ft)))
}

// VU0Rsqrt computes the Q register reciprocal square root; non-positive
// inputs yield zero.
func VU0Rsqrt(ft float32) float32 {
	if ft <= 0 {
		return 0
	}
	return float32(1 / math.Sqrt(float64(ft)))
}

// VRNext steps the R register LFSR.
func VRNext(r Vec4) Vec4 {
	w0 := math.Float32bits(r[0])
	w1 := math.Float32bits(r[1])
	w2 := math.Float32bits(r[2])
	w3 := math.Float32bits(r[3])
	feedback := w0 ^ (w0 << 13) ^ (w1 >> 19) ^ (w2 << 7)
	return Vec4{
		math.Float32frombits(w1),
		math.Float32frombits(w2),
		math.Float32frombits(w3),
		math.Float32frombits(feedback),
	}
}

// VRInit seeds the R register from a lane bit pattern using the EE's
// LCG constants.
func VRInit(seed uint32) Vec4 {
	if seed == 0 {
		seed = 1
	}
	r0 := seed
	r1 := r0*0x41C64E6D + 0x3039
	r2 := r1*0x41C64E6D + 0x3039
	r3 := r2*0x41C64E6D + 0x3039
	return Vec4{
		math.Float32frombits(r0),
		math.Float32frombits(r1),
		math.Float32frombits(r2),
		math.Float32frombits(r3),
	}
}

// VRXor mixes a lane bit pattern into the R register.
func VRXor(r Vec4, fs Vec4) Vec4 {
	var out Vec4
	for i := 0; i < 4; i++ {
		x := math.Float32bits(r[i]) ^ math.Float32bits(fs[i])
		x ^= x << 7
		x ^= x >> 9
		out[i] = math.Float32frombits(x)
	}
	return out
}
