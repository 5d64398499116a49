package ps2rt

import (
	"encoding/binary"

	"github.com/apex/log"
)

// Guest physical memory geometry.
const (
	RAMSize        = 32 * 1024 * 1024
	RAMMask        = RAMSize - 1
	RAMBase        = 0x00000000
	ScratchpadBase = 0x70000000
	ScratchpadSize = 16 * 1024
	GSVRAMSize     = 4 * 1024 * 1024
	VU0CodeBase    = 0x11000000
	VU0DataBase    = 0x11004000
	VU0CodeSize    = 4 * 1024
	VU0DataSize    = 4 * 1024
)

// Read8 loads a byte from RDRAM. Every accessor applies the 32 MiB
// mirror mask; the address translation is the identity modulo that mask.
func Read8(rdram []byte, addr uint32) uint8 {
	return rdram[addr&RAMMask]
}

// Read16 loads a little-endian halfword from RDRAM.
func Read16(rdram []byte, addr uint32) uint16 {
	a := addr & RAMMask
	return binary.LittleEndian.Uint16(rdram[a : a+2])
}

// Read32 loads a little-endian word from RDRAM.
func Read32(rdram []byte, addr uint32) uint32 {
	a := addr & RAMMask
	return binary.LittleEndian.Uint32(rdram[a : a+4])
}

// Read64 loads a little-endian doubleword from RDRAM.
func Read64(rdram []byte, addr uint32) uint64 {
	a := addr & RAMMask
	return binary.LittleEndian.Uint64(rdram[a : a+8])
}

// Read128 loads a quadword from RDRAM.
func Read128(rdram []byte, addr uint32) U128 {
	a := addr & RAMMask
	return U128{
		Lo: binary.LittleEndian.Uint64(rdram[a : a+8]),
		Hi: binary.LittleEndian.Uint64(rdram[a+8 : a+16]),
	}
}

// Write8 stores a byte to RDRAM.
func Write8(rdram []byte, addr uint32, v uint8) {
	rdram[addr&RAMMask] = v
}

// Write16 stores a little-endian halfword to RDRAM.
func Write16(rdram []byte, addr uint32, v uint16) {
	a := addr & RAMMask
	binary.LittleEndian.PutUint16(rdram[a:a+2], v)
}

// Write32 stores a little-endian word to RDRAM.
func Write32(rdram []byte, addr uint32, v uint32) {
	a := addr & RAMMask
	binary.LittleEndian.PutUint32(rdram[a:a+4], v)
}

// Write64 stores a little-endian doubleword to RDRAM.
func Write64(rdram []byte, addr uint32, v uint64) {
	a := addr & RAMMask
	binary.LittleEndian.PutUint64(rdram[a:a+8], v)
}

// Write128 stores a quadword to RDRAM.
func Write128(rdram []byte, addr uint32, v U128) {
	a := addr & RAMMask
	binary.LittleEndian.PutUint64(rdram[a:a+8], v.Lo)
	binary.LittleEndian.PutUint64(rdram[a+8:a+16], v.Hi)
}

type codeRegion struct {
	start, end uint32
	modified   []bool // one flag per 4-byte block
}

// Memory owns the guest memory buffers hosted by the runtime: main RDRAM,
// the scratchpad, and GS VRAM. Recompiled code receives the RDRAM slice
// directly; the struct-level accessors exist for the runtime side.
type Memory struct {
	RDRAM      []byte
	Scratchpad []byte
	GSVRAM     []byte

	codeRegions []codeRegion
}

// NewMemory allocates the guest memory buffers.
func NewMemory() *Memory {
	return &Memory{
		RDRAM:      make([]byte, RAMSize),
		Scratchpad: make([]byte, ScratchpadSize),
		GSVRAM:     make([]byte, GSVRAMSize),
	}
}

// RegisterCodeRegion records a statically translated code range so writes
// into it can be flagged. Best-effort diagnostic: static translation
// cannot honor self-modifying code.
func (m *Memory) RegisterCodeRegion(start, end uint32) {
	if end <= start {
		return
	}
	m.codeRegions = append(m.codeRegions, codeRegion{
		start:    start,
		end:      end,
		modified: make([]bool, (end-start+3)/4),
	})
}

// MarkModified flags the 4-byte blocks covering [addr, addr+size) in any
// registered code region.
func (m *Memory) MarkModified(addr, size uint32) {
	for i := range m.codeRegions {
		r := &m.codeRegions[i]
		if addr+size <= r.start || addr >= r.end {
			continue
		}
		lo, hi := addr, addr+size
		if lo < r.start {
			lo = r.start
		}
		if hi > r.end {
			hi = r.end
		}
		for a := lo &^ 3; a < hi; a += 4 {
			r.modified[(a-r.start)/4] = true
		}
		log.WithField("addr", addr).Warn("write into translated code region")
	}
}

// IsCodeModified reports whether any block in [addr, addr+size) of a
// registered code region has been written.
func (m *Memory) IsCodeModified(addr, size uint32) bool {
	for i := range m.codeRegions {
		r := &m.codeRegions[i]
		if addr+size <= r.start || addr >= r.end {
			continue
		}
		lo, hi := addr, addr+size
		if lo < r.start {
			lo = r.start
		}
		if hi > r.end {
			hi = r.end
		}
		for a := lo &^ 3; a < hi; a += 4 {
			if r.modified[(a-r.start)/4] {
				return true
			}
		}
	}
	return false
}

// ClearModifiedFlag resets the modification flags for [addr, addr+size).
func (m *Memory) ClearModifiedFlag(addr, size uint32) {
	for i := range m.codeRegions {
		r := &m.codeRegions[i]
		if addr+size <= r.start || addr >= r.end {
			continue
		}
		lo, hi := addr, addr+size
		if lo < r.start {
			lo = r.start
		}
		if hi > r.end {
			hi = r.end
		}
		for a := lo &^ 3; a < hi; a += 4 {
			r.modified[(a-r.start)/4] = false
		}
	}
}
