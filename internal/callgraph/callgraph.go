// Package callgraph builds call and control-flow graphs over decoded
// guest functions.
package callgraph

import (
	"fmt"

	"github.com/zboralski/lattice"

	"ps2xrecomp/internal/r5900"
)

// FuncInfo holds what the graph builders need for one guest function.
type FuncInfo struct {
	Name  string
	Start uint32
	End   uint32
	Insts []r5900.Instruction
}

// NameResolver maps a guest address to a function name. Returns ("",
// false) for unknown addresses.
type NameResolver func(addr uint32) (string, bool)

// BuildCallGraph constructs a lattice.Graph: one node per function, one
// edge per static JAL call site. Unresolved targets become sub_<hex>
// placeholder callees.
func BuildCallGraph(funcs []FuncInfo, resolve NameResolver) *lattice.Graph {
	g := &lattice.Graph{}
	for _, f := range funcs {
		g.Nodes = append(g.Nodes, f.Name)
		for _, inst := range f.Insts {
			if inst.Opcode != r5900.OpJAL {
				continue
			}
			target := r5900.AbsTarget(inst.Address, inst.Target)
			callee, ok := resolve(target)
			if !ok {
				callee = fmt.Sprintf("sub_%x", target)
			}
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: f.Name,
				Callee: callee,
			})
		}
	}
	g.Dedup()
	return g
}

// block is an in-progress basic block over instruction indices.
type block struct {
	start, end int // [start, end) instruction indices
	term       bool
}

// BuildFuncCFG splits one function into basic blocks and converts them
// to a lattice.FuncCFG. Branch instructions absorb their delay slot;
// leaders are branch targets and post-branch fallthroughs.
func BuildFuncCFG(f FuncInfo) *lattice.FuncCFG {
	n := len(f.Insts)
	if n == 0 {
		return &lattice.FuncCFG{Name: f.Name}
	}

	indexOf := make(map[uint32]int, n)
	for i, inst := range f.Insts {
		indexOf[inst.Address] = i
	}

	leader := make([]bool, n)
	leader[0] = true
	for i := 0; i < n; i++ {
		inst := f.Insts[i]
		if !inst.HasDelaySlot {
			continue
		}
		if t, ok := inst.StaticTarget(); ok {
			if k, in := indexOf[t]; in {
				leader[k] = true
			}
		}
		// The instruction after the delay slot starts a new block.
		if i+2 < n {
			leader[i+2] = true
		}
	}

	var blocks []block
	for i := 0; i < n; {
		j := i + 1
		for j < n && !leader[j] {
			j++
		}
		term := false
		for k := i; k < j; k++ {
			if f.Insts[k].HasDelaySlot {
				term = true
			}
		}
		blocks = append(blocks, block{start: i, end: j, term: term})
		i = j
	}

	blockAt := func(idx int) int {
		for bi, b := range blocks {
			if idx >= b.start && idx < b.end {
				return bi
			}
		}
		return -1
	}

	cfg := &lattice.FuncCFG{Name: f.Name}
	for bi, b := range blocks {
		lb := &lattice.BasicBlock{
			ID:    bi,
			Start: b.start,
			End:   b.end,
			Term:  b.term,
		}
		// Find the block's transfer instruction, if any.
		var br *r5900.Instruction
		for k := b.start; k < b.end; k++ {
			if f.Insts[k].HasDelaySlot {
				br = &f.Insts[k]
				break
			}
		}

		switch {
		case br == nil:
			if bi+1 < len(blocks) {
				lb.Succs = append(lb.Succs, lattice.Successor{BlockID: bi + 1})
			}
		case br.Opcode == r5900.OpJ || br.Opcode == r5900.OpJAL:
			t := r5900.AbsTarget(br.Address, br.Target)
			if k, ok := indexOf[t]; ok {
				lb.Succs = append(lb.Succs, lattice.Successor{BlockID: blockAt(k)})
			}
			if br.Opcode == r5900.OpJAL && bi+1 < len(blocks) {
				lb.Succs = append(lb.Succs, lattice.Successor{BlockID: bi + 1})
			}
		case br.Opcode == r5900.OpSpecial:
			// JR/JALR leave the function; no intra-function successor.
		default:
			if t, ok := br.StaticTarget(); ok {
				if k, in := indexOf[t]; in {
					lb.Succs = append(lb.Succs, lattice.Successor{BlockID: blockAt(k), Cond: "T"})
				}
			}
			if bi+1 < len(blocks) {
				lb.Succs = append(lb.Succs, lattice.Successor{BlockID: bi + 1, Cond: "F"})
			}
		}

		cfg.Blocks = append(cfg.Blocks, lb)
	}
	return cfg
}
