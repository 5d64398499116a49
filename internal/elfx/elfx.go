// Package elfx loads PS2 EE executables and exposes the section, symbol
// and function views the recompiler works from.
package elfx

import (
	"bufio"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrNotELF         = errors.New("elfx: not an ELF file")
	ErrNotMIPS        = errors.New("elfx: not MIPS (EM_MIPS)")
	ErrNotExec        = errors.New("elfx: not an executable")
	ErrInvalidAddress = errors.New("elfx: invalid address")
)

// Section is one loadable section of the guest image. Data is nil for BSS.
type Section struct {
	Name         string
	Address      uint32
	Size         uint32
	Data         []byte
	IsBSS        bool
	IsExecutable bool
}

// Symbol is one guest symbol. Multiple symbols may share an address;
// function symbols take precedence for naming.
type Symbol struct {
	Address    uint32
	Name       string
	Size       uint32
	IsFunction bool
}

// Relocation is preserved opaquely for later output stages.
type Relocation struct {
	Address uint32
	Kind    uint32
	Symbol  string
}

// Function is a guest function range. The half-open [Start, End) lies
// within an executable section.
type Function struct {
	Start        uint32
	End          uint32
	Name         string
	IsRecompiled bool
	IsStub       bool
}

// File is a parsed guest executable.
type File struct {
	path        string
	entry       uint32
	sections    []Section
	symbols     []Symbol
	relocations []Relocation
}

// Open parses and validates a PS2 EE executable: machine MIPS, type
// executable. The ELF byte order is not checked; section data is read
// as little-endian.
func Open(path string) (*File, error) {
	ef, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotELF, err)
	}
	defer ef.Close()

	if ef.Machine != elf.EM_MIPS {
		return nil, ErrNotMIPS
	}
	if ef.Type != elf.ET_EXEC {
		return nil, ErrNotExec
	}

	f := &File{path: path, entry: uint32(ef.Entry)}

	for _, s := range ef.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 || s.Size == 0 {
			continue
		}
		sec := Section{
			Name:         s.Name,
			Address:      uint32(s.Addr),
			Size:         uint32(s.Size),
			IsBSS:        s.Type == elf.SHT_NOBITS,
			IsExecutable: s.Flags&elf.SHF_EXECINSTR != 0,
		}
		if !sec.IsBSS {
			data, err := s.Data()
			if err != nil {
				return nil, fmt.Errorf("elfx: section %s: %w", s.Name, err)
			}
			sec.Data = data
		}
		f.sections = append(f.sections, sec)
	}

	syms, err := ef.Symbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, fmt.Errorf("elfx: symtab: %w", err)
	}
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		f.symbols = append(f.symbols, Symbol{
			Address:    uint32(s.Value),
			Name:       s.Name,
			Size:       uint32(s.Size),
			IsFunction: elf.ST_TYPE(s.Info) == elf.STT_FUNC,
		})
	}

	f.relocations = readRelocations(ef, syms)

	return f, nil
}

// readRelocations walks SHT_REL sections; MIPS executables use Elf32_Rel
// entries (offset, info) with the type in the low byte.
func readRelocations(ef *elf.File, syms []elf.Symbol) []Relocation {
	var relocs []Relocation
	for _, s := range ef.Sections {
		if s.Type != elf.SHT_REL {
			continue
		}
		data, err := s.Data()
		if err != nil {
			continue
		}
		for off := 0; off+8 <= len(data); off += 8 {
			addr := binary.LittleEndian.Uint32(data[off:])
			info := binary.LittleEndian.Uint32(data[off+4:])
			r := Relocation{Address: addr, Kind: info & 0xFF}
			if idx := info >> 8; idx > 0 && int(idx) <= len(syms) {
				r.Symbol = syms[idx-1].Name
			}
			relocs = append(relocs, r)
		}
	}
	return relocs
}

// EntryPoint returns the guest entry address.
func (f *File) EntryPoint() uint32 { return f.entry }

// Sections returns the enumerated loadable sections.
func (f *File) Sections() []Section { return f.sections }

// Symbols returns the parsed symbols, external map merges included.
func (f *File) Symbols() []Symbol { return f.symbols }

// Relocations returns the preserved relocation entries.
func (f *File) Relocations() []Relocation { return f.relocations }

// Path returns the input path the file was opened from.
func (f *File) Path() string { return f.path }

// IsValid reports whether addr lies within any enumerated section.
func (f *File) IsValid(addr uint32) bool {
	return f.sectionAt(addr) != nil
}

func (f *File) sectionAt(addr uint32) *Section {
	for i := range f.sections {
		s := &f.sections[i]
		if addr >= s.Address && addr < s.Address+s.Size {
			return s
		}
	}
	return nil
}

// ReadWord loads the little-endian word at a 4-byte-aligned address.
// BSS reads yield zero.
func (f *File) ReadWord(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, fmt.Errorf("%w: 0x%08x misaligned", ErrInvalidAddress, addr)
	}
	s := f.sectionAt(addr)
	if s == nil {
		return 0, fmt.Errorf("%w: 0x%08x", ErrInvalidAddress, addr)
	}
	off := addr - s.Address
	if s.IsBSS || off+4 > uint32(len(s.Data)) {
		return 0, nil
	}
	return binary.LittleEndian.Uint32(s.Data[off : off+4]), nil
}

// ExtractFunctions derives initial function ranges from function symbol
// spans, sorted by start. A function ends where the next function starts
// or at its section's end.
func (f *File) ExtractFunctions() []Function {
	var starts []Symbol
	for _, s := range f.symbols {
		if !s.IsFunction {
			continue
		}
		sec := f.sectionAt(s.Address)
		if sec == nil || !sec.IsExecutable {
			continue
		}
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Address < starts[j].Address })

	var funcs []Function
	for i, s := range starts {
		if i > 0 && starts[i-1].Address == s.Address {
			// Duplicate symbol at the same address; the first wins.
			continue
		}
		sec := f.sectionAt(s.Address)
		end := sec.Address + sec.Size
		next := i + 1
		for next < len(starts) && starts[next].Address == s.Address {
			next++
		}
		if next < len(starts) && starts[next].Address < end {
			end = starts[next].Address
		}
		if end <= s.Address {
			continue
		}
		funcs = append(funcs, Function{
			Start: s.Address,
			End:   end,
			Name:  s.Name,
		})
	}
	return funcs
}

// LoadGhidraFunctionMap merges an externally produced symbol map. Lines
// are "<name> <address> [size]"; names override parsed symbols at the
// same address but never change ranges.
func (f *File) LoadGhidraFunctionMap(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("elfx: symbol map: %w", err)
	}
	defer fh.Close()

	byAddr := make(map[uint32]int)
	for i, s := range f.symbols {
		if s.IsFunction {
			byAddr[s.Address] = i
		}
	}

	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		addr64, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 32)
		if err != nil {
			continue
		}
		addr := uint32(addr64)
		var size uint32
		if len(fields) >= 3 {
			if s64, err := strconv.ParseUint(fields[2], 0, 32); err == nil {
				size = uint32(s64)
			}
		}
		if idx, ok := byAddr[addr]; ok {
			f.symbols[idx].Name = fields[0]
			continue
		}
		f.symbols = append(f.symbols, Symbol{
			Address:    addr,
			Name:       fields[0],
			Size:       size,
			IsFunction: true,
		})
		byAddr[addr] = len(f.symbols) - 1
	}
	return sc.Err()
}
