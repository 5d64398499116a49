// Package analysis decodes function bodies and discovers additional
// entry points reachable inside already-decoded functions.
package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/apex/log"

	"ps2xrecomp/internal/elfx"
	"ps2xrecomp/internal/r5900"
)

// ErrEmptyFunction is returned when a function yields no decodable
// instructions at all; such functions are skipped.
var ErrEmptyFunction = errors.New("analysis: no decodable instructions")

// WordReader is the slice of the loader the analyzer needs.
type WordReader interface {
	ReadWord(addr uint32) (uint32, error)
	IsValid(addr uint32) bool
}

// DecodeFunction linearly decodes [fn.Start, fn.End) in 4-byte steps,
// applying patches. A failed read truncates the function at the last
// decoded instruction and updates fn.End; the partial list is kept.
func DecodeFunction(rd WordReader, fn *elfx.Function, patches map[uint32]uint32) ([]r5900.Instruction, error) {
	var insts []r5900.Instruction
	truncated := false

	for addr := fn.Start; addr < fn.End; addr += 4 {
		if !rd.IsValid(addr) {
			log.WithFields(log.Fields{
				"addr": fmt.Sprintf("0x%08x", addr),
				"func": fn.Name,
			}).Error("invalid address, truncating decode")
			truncated = true
			break
		}
		raw, err := rd.ReadWord(addr)
		if err != nil {
			log.WithFields(log.Fields{
				"addr": fmt.Sprintf("0x%08x", addr),
				"func": fn.Name,
			}).WithError(err).Error("read failed, truncating decode")
			truncated = true
			break
		}
		if patched, ok := patches[addr]; ok {
			log.WithField("addr", fmt.Sprintf("0x%08x", addr)).Info("applied patch")
			raw = patched
		}
		insts = append(insts, r5900.Decode(addr, raw))
	}

	if len(insts) == 0 {
		return nil, fmt.Errorf("%w: %s (0x%08x)", ErrEmptyFunction, fn.Name, fn.Start)
	}
	if truncated {
		fn.End = insts[len(insts)-1].Address + 4
	}
	return insts, nil
}

// ResolveNames builds the address-to-name map over the symbol list.
// Function symbols beat data symbols; among equals the later entry wins,
// which lets an external map override parsed names.
func ResolveNames(symbols []elfx.Symbol) map[uint32]string {
	names := make(map[uint32]string)
	isFunc := make(map[uint32]bool)
	for _, s := range symbols {
		if isFunc[s.Address] && !s.IsFunction {
			continue
		}
		names[s.Address] = s.Name
		if s.IsFunction {
			isFunc[s.Address] = true
		}
	}
	return names
}

// FunctionName names a function from the symbol at its start, falling
// back to func_<hex>.
func FunctionName(names map[uint32]string, start uint32) string {
	if n, ok := names[start]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("func_%x", start)
}

// DiscoverEntryPoints sweeps every decoded function for direct transfers
// landing strictly inside another recompiled function at an address that
// is not already a function start. Each such target becomes an aliasing
// entry_<hex> function whose instruction list is a copy of the
// containing function's tail. Returns the number of entries added.
func DiscoverEntryPoints(rd WordReader, functions *[]elfx.Function, decoded map[uint32][]r5900.Instruction) int {
	funcs := *functions

	existing := make(map[uint32]bool, len(funcs))
	for _, fn := range funcs {
		existing[fn.Start] = true
	}

	containing := func(addr uint32) *elfx.Function {
		for i := range funcs {
			if addr >= funcs[i].Start && addr < funcs[i].End {
				return &funcs[i]
			}
		}
		return nil
	}

	var added []elfx.Function
	for _, fn := range funcs {
		if !fn.IsRecompiled || fn.IsStub {
			continue
		}
		insts, ok := decoded[fn.Start]
		if !ok {
			continue
		}
		for _, inst := range insts {
			target, ok := inst.StaticTarget()
			if !ok {
				continue
			}
			if target%4 != 0 || !rd.IsValid(target) || existing[target] {
				continue
			}
			owner := containing(target)
			if owner == nil || owner.IsStub || !owner.IsRecompiled {
				continue
			}
			ownerInsts, ok := decoded[owner.Start]
			if !ok {
				continue
			}
			k := -1
			for i, oi := range ownerInsts {
				if oi.Address == target {
					k = i
					break
				}
			}
			if k < 0 {
				continue
			}

			// Copy on insert so the alias owns its slice.
			tail := make([]r5900.Instruction, len(ownerInsts)-k)
			copy(tail, ownerInsts[k:])
			decoded[target] = tail

			added = append(added, elfx.Function{
				Start:        target,
				End:          owner.End,
				Name:         fmt.Sprintf("entry_%x", target),
				IsRecompiled: true,
			})
			existing[target] = true
		}
	}

	if len(added) > 0 {
		funcs = append(funcs, added...)
		sort.Slice(funcs, func(i, j int) bool { return funcs[i].Start < funcs[j].Start })
		*functions = funcs
		log.WithField("count", len(added)).Info("discovered additional entry points")
	}
	return len(added)
}
