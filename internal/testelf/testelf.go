// Package testelf builds minimal MIPS ELF executables for tests.
package testelf

import "encoding/binary"

// Sym describes one symbol to place in the test image.
type Sym struct {
	Name   string
	Value  uint32
	Size   uint32
	IsFunc bool
	Abs    bool // SHN_ABS symbol (e.g. _gp)
}

// Params describes the image to build.
type Params struct {
	Entry    uint32
	TextAddr uint32
	Text     []byte
	BSSAddr  uint32
	BSSSize  uint32
	Syms     []Sym
}

const (
	ehsize  = 52
	shsize  = 40
	symsize = 16
)

// Build assembles a little-endian ELF32 MIPS executable with .text,
// .bss, .symtab, .strtab and .shstrtab sections.
func Build(p Params) []byte {
	le := binary.LittleEndian

	// String tables.
	strtab := []byte{0}
	nameOff := make([]uint32, len(p.Syms))
	for i, s := range p.Syms {
		nameOff[i] = uint32(len(strtab))
		strtab = append(strtab, []byte(s.Name)...)
		strtab = append(strtab, 0)
	}

	shstrtab := []byte{0}
	secName := func(n string) uint32 {
		off := uint32(len(shstrtab))
		shstrtab = append(shstrtab, []byte(n)...)
		shstrtab = append(shstrtab, 0)
		return off
	}
	nText := secName(".text")
	nBSS := secName(".bss")
	nSymtab := secName(".symtab")
	nStrtab := secName(".strtab")
	nShstrtab := secName(".shstrtab")

	// Symbol table: null entry plus one per symbol.
	symtab := make([]byte, symsize*(1+len(p.Syms)))
	for i, s := range p.Syms {
		off := symsize * (i + 1)
		le.PutUint32(symtab[off:], nameOff[i])
		le.PutUint32(symtab[off+4:], s.Value)
		le.PutUint32(symtab[off+8:], s.Size)
		info := byte(0x11) // GLOBAL | OBJECT
		if s.IsFunc {
			info = 0x12 // GLOBAL | FUNC
		}
		symtab[off+12] = info
		shndx := uint16(1) // .text
		if s.Abs {
			shndx = 0xFFF1 // SHN_ABS
		}
		le.PutUint16(symtab[off+14:], shndx)
	}

	// Layout: ehdr, text, symtab, strtab, shstrtab, shdrs.
	align16 := func(n int) int { return (n + 15) &^ 15 }
	textOff := align16(ehsize)
	symtabOff := align16(textOff + len(p.Text))
	strtabOff := symtabOff + len(symtab)
	shstrtabOff := strtabOff + len(strtab)
	shoff := align16(shstrtabOff + len(shstrtab))

	img := make([]byte, shoff+6*shsize)

	// ELF header.
	copy(img, []byte{0x7F, 'E', 'L', 'F', 1, 1, 1})
	le.PutUint16(img[16:], 2) // ET_EXEC
	le.PutUint16(img[18:], 8) // EM_MIPS
	le.PutUint32(img[20:], 1)
	le.PutUint32(img[24:], p.Entry)
	le.PutUint32(img[28:], 0)             // phoff
	le.PutUint32(img[32:], uint32(shoff)) // shoff
	le.PutUint32(img[36:], 0)             // flags
	le.PutUint16(img[40:], ehsize)
	le.PutUint16(img[42:], 32) // phentsize
	le.PutUint16(img[44:], 0)  // phnum
	le.PutUint16(img[46:], shsize)
	le.PutUint16(img[48:], 6) // shnum
	le.PutUint16(img[50:], 5) // shstrndx

	copy(img[textOff:], p.Text)
	copy(img[symtabOff:], symtab)
	copy(img[strtabOff:], strtab)
	copy(img[shstrtabOff:], shstrtab)

	shdr := func(idx int, name, typ, flags, addr, off, size, link, info, entsize uint32) {
		base := shoff + idx*shsize
		le.PutUint32(img[base:], name)
		le.PutUint32(img[base+4:], typ)
		le.PutUint32(img[base+8:], flags)
		le.PutUint32(img[base+12:], addr)
		le.PutUint32(img[base+16:], off)
		le.PutUint32(img[base+20:], size)
		le.PutUint32(img[base+24:], link)
		le.PutUint32(img[base+28:], info)
		le.PutUint32(img[base+32:], 4) // addralign
		le.PutUint32(img[base+36:], entsize)
	}

	// 0: null section (all zeros already).
	shdr(1, nText, 1, 0x6, p.TextAddr, uint32(textOff), uint32(len(p.Text)), 0, 0, 0)
	shdr(2, nBSS, 8, 0x3, p.BSSAddr, uint32(shstrtabOff+len(shstrtab)), p.BSSSize, 0, 0, 0)
	shdr(3, nSymtab, 2, 0, 0, uint32(symtabOff), uint32(len(symtab)), 4, 1, symsize)
	shdr(4, nStrtab, 3, 0, 0, uint32(strtabOff), uint32(len(strtab)), 0, 0, 0)
	shdr(5, nShstrtab, 3, 0, 0, uint32(shstrtabOff), uint32(len(shstrtab)), 0, 0, 0)

	return img
}
