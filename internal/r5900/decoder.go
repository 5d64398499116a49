package r5900

// VectorInfo carries the COP2-specific sub-fields of an instruction:
// the destination mask (bit 0 = x through bit 3 = w), the fsf/ftf lane
// selectors, and the broadcast field index.
type VectorInfo struct {
	DestMask uint8
	Fsf      uint8
	Ftf      uint8
	BC       uint8
}

// Instruction is one decoded EE instruction word.
type Instruction struct {
	Address uint32
	Raw     uint32

	Opcode   uint8
	Rs       uint8
	Rt       uint8
	Rd       uint8
	Sa       uint8
	Function uint8

	Immediate  uint16 // zero-extended 16-bit field
	SImmediate int16  // sign-interpreted 16-bit field
	Target     uint32 // 26-bit jump field

	IsBranch     bool
	HasDelaySlot bool
	IsMMI        bool

	Vector VectorInfo
}

// Decode classifies one 32-bit word at the given address. It is a pure
// function of (addr, raw) and never fails: unknown encodings come back
// as records the generator renders as commented placeholders.
func Decode(addr, raw uint32) Instruction {
	inst := Instruction{
		Address:    addr,
		Raw:        raw,
		Opcode:     uint8(raw >> 26),
		Rs:         uint8(raw >> 21 & 0x1F),
		Rt:         uint8(raw >> 16 & 0x1F),
		Rd:         uint8(raw >> 11 & 0x1F),
		Sa:         uint8(raw >> 6 & 0x1F),
		Function:   uint8(raw & 0x3F),
		Immediate:  uint16(raw),
		SImmediate: int16(raw),
		Target:     raw & 0x03FFFFFF,
	}

	switch inst.Opcode {
	case OpJ, OpJAL:
		inst.IsBranch = true
		inst.HasDelaySlot = true
	case OpSpecial:
		if inst.Function == SpJR || inst.Function == SpJALR {
			inst.IsBranch = true
			inst.HasDelaySlot = true
		}
	case OpBEQ, OpBNE, OpBLEZ, OpBGTZ, OpBEQL, OpBNEL, OpBLEZL, OpBGTZL:
		inst.IsBranch = true
		inst.HasDelaySlot = true
	case OpRegimm:
		switch inst.Rt {
		case RiBLTZ, RiBGEZ, RiBLTZL, RiBGEZL,
			RiBLTZAL, RiBGEZAL, RiBLTZALL, RiBGEZALL:
			inst.IsBranch = true
			inst.HasDelaySlot = true
		}
	case OpCOP1:
		if inst.Rs == CopBC {
			inst.IsBranch = true
			inst.HasDelaySlot = true
		}
	case OpCOP2:
		// BC2 conditions branch; VCALLMS/VCALLMSR transfer to the VU and
		// are not MIPS branches.
		if inst.Rs == CopBC {
			inst.IsBranch = true
			inst.HasDelaySlot = true
		}
		inst.Vector = VectorInfo{
			DestMask: uint8(raw>>24&1) | uint8(raw>>23&1)<<1 |
				uint8(raw>>22&1)<<2 | uint8(raw>>21&1)<<3,
			Fsf: uint8(raw >> 21 & 0x3),
			Ftf: uint8(raw >> 23 & 0x3),
			BC:  uint8(raw & 0x3),
		}
	case OpMMI:
		inst.IsMMI = true
	}

	return inst
}

// IsLikely reports whether the instruction is a likely branch, whose
// delay slot executes only on a taken branch.
func (i Instruction) IsLikely() bool {
	switch i.Opcode {
	case OpBEQL, OpBNEL, OpBLEZL, OpBGTZL:
		return true
	case OpRegimm:
		switch i.Rt {
		case RiBLTZL, RiBGEZL, RiBLTZALL, RiBGEZALL:
			return true
		}
	case OpCOP1, OpCOP2:
		if i.Rs == CopBC && (i.Rt == BcFL || i.Rt == BcTL) {
			return true
		}
	}
	return false
}

// AbsTarget computes the destination of an absolute J/JAL at addr:
// the upper nibble of the delay-slot PC joined with the shifted
// 26-bit field.
func AbsTarget(addr, target uint32) uint32 {
	return (addr+4)&0xF0000000 | target<<2
}

// BranchTarget computes the destination of a PC-relative branch.
func (i Instruction) BranchTarget() uint32 {
	return i.Address + 4 + uint32(int32(i.SImmediate)<<2)
}

// StaticTarget returns the destination of a direct transfer (J, JAL, or
// a PC-relative branch). Indirect JR/JALR transfers have none.
func (i Instruction) StaticTarget() (uint32, bool) {
	switch {
	case i.Opcode == OpJ || i.Opcode == OpJAL:
		return AbsTarget(i.Address, i.Target), true
	case i.Opcode == OpSpecial:
		return 0, false
	case i.IsBranch:
		return i.BranchTarget(), true
	}
	return 0, false
}
