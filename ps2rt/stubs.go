package ps2rt

import (
	"fmt"

	"github.com/apex/log"
)

// guest heap used by the malloc family; grows upward from the top half
// of RDRAM, well clear of typical load addresses.
const (
	heapBase = 0x01800000
	heapTop  = RAMSize - 0x10000
)

// StubTable maps guest library function names to runtime replacements.
// Every entry shares the recompiled calling convention: arguments in
// $a0-$a3, result in $v0.
type StubTable struct {
	fns map[string]RecompiledFunc

	heapNext uint32
	allocs   map[uint32]uint32 // addr -> size
}

// NewStubTable builds the table with the default libc-style stubs.
func NewStubTable() *StubTable {
	t := &StubTable{
		fns:      make(map[string]RecompiledFunc),
		heapNext: heapBase,
		allocs:   make(map[uint32]uint32),
	}
	t.registerDefaults()
	return t
}

// Register adds or replaces a stub implementation.
func (t *StubTable) Register(name string, fn RecompiledFunc) {
	t.fns[name] = fn
}

// Has reports whether name has a stub implementation.
func (t *StubTable) Has(name string) bool {
	_, ok := t.fns[name]
	return ok
}

// Call invokes the named stub, falling back to TODO.
func (t *StubTable) Call(name string, rdram []byte, ctx *R5900Context, rt *Runtime) {
	if fn, ok := t.fns[name]; ok {
		fn(rdram, ctx, rt)
		return
	}
	t.TODO(rdram, ctx, rt)
}

// TODO is the default stub: log the call and return the -1 sentinel.
func (t *StubTable) TODO(rdram []byte, ctx *R5900Context, rt *Runtime) {
	log.WithField("ra", fmt.Sprintf("0x%08x", GPRU32(ctx, 31))).
		Warn("unimplemented stub called")
	SetReturnS32(ctx, -1)
}

// guestString reads a NUL-terminated string from RDRAM.
func guestString(rdram []byte, addr uint32) string {
	var b []byte
	for {
		c := Read8(rdram, addr)
		if c == 0 {
			return string(b)
		}
		b = append(b, c)
		addr++
	}
}

func (t *StubTable) alloc(size uint32) uint32 {
	if size == 0 {
		size = 1
	}
	size = (size + 15) &^ 15
	if t.heapNext+size > heapTop {
		return 0
	}
	addr := t.heapNext
	t.heapNext += size
	t.allocs[addr] = size
	return addr
}

func (t *StubTable) registerDefaults() {
	t.Register("memcpy", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		dst, src, n := GPRU32(ctx, 4), GPRU32(ctx, 5), GPRU32(ctx, 6)
		copy(rdram[dst&RAMMask:(dst&RAMMask)+n], rdram[src&RAMMask:(src&RAMMask)+n])
		SetReturnU32(ctx, dst)
	})
	t.Register("memmove", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		dst, src, n := GPRU32(ctx, 4), GPRU32(ctx, 5), GPRU32(ctx, 6)
		copy(rdram[dst&RAMMask:(dst&RAMMask)+n], rdram[src&RAMMask:(src&RAMMask)+n])
		SetReturnU32(ctx, dst)
	})
	t.Register("memset", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		dst, c, n := GPRU32(ctx, 4), uint8(GPRU32(ctx, 5)), GPRU32(ctx, 6)
		for i := uint32(0); i < n; i++ {
			Write8(rdram, dst+i, c)
		}
		SetReturnU32(ctx, dst)
	})
	t.Register("memcmp", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		p1, p2, n := GPRU32(ctx, 4), GPRU32(ctx, 5), GPRU32(ctx, 6)
		for i := uint32(0); i < n; i++ {
			a, b := Read8(rdram, p1+i), Read8(rdram, p2+i)
			if a != b {
				SetReturnS32(ctx, int32(a)-int32(b))
				return
			}
		}
		SetReturnS32(ctx, 0)
	})
	t.Register("strlen", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		SetReturnU32(ctx, uint32(len(guestString(rdram, GPRU32(ctx, 4)))))
	})
	t.Register("strcpy", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		dst, src := GPRU32(ctx, 4), GPRU32(ctx, 5)
		s := guestString(rdram, src)
		for i := 0; i < len(s); i++ {
			Write8(rdram, dst+uint32(i), s[i])
		}
		Write8(rdram, dst+uint32(len(s)), 0)
		SetReturnU32(ctx, dst)
	})
	t.Register("strncpy", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		dst, src, n := GPRU32(ctx, 4), GPRU32(ctx, 5), GPRU32(ctx, 6)
		s := guestString(rdram, src)
		for i := uint32(0); i < n; i++ {
			if i < uint32(len(s)) {
				Write8(rdram, dst+i, s[i])
			} else {
				Write8(rdram, dst+i, 0)
			}
		}
		SetReturnU32(ctx, dst)
	})
	t.Register("strcmp", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		a := guestString(rdram, GPRU32(ctx, 4))
		b := guestString(rdram, GPRU32(ctx, 5))
		switch {
		case a < b:
			SetReturnS32(ctx, -1)
		case a > b:
			SetReturnS32(ctx, 1)
		default:
			SetReturnS32(ctx, 0)
		}
	})
	t.Register("strncmp", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		n := GPRU32(ctx, 6)
		a := guestString(rdram, GPRU32(ctx, 4))
		b := guestString(rdram, GPRU32(ctx, 5))
		if uint32(len(a)) > n {
			a = a[:n]
		}
		if uint32(len(b)) > n {
			b = b[:n]
		}
		switch {
		case a < b:
			SetReturnS32(ctx, -1)
		case a > b:
			SetReturnS32(ctx, 1)
		default:
			SetReturnS32(ctx, 0)
		}
	})
	t.Register("strcat", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		dst, src := GPRU32(ctx, 4), GPRU32(ctx, 5)
		base := dst + uint32(len(guestString(rdram, dst)))
		s := guestString(rdram, src)
		for i := 0; i < len(s); i++ {
			Write8(rdram, base+uint32(i), s[i])
		}
		Write8(rdram, base+uint32(len(s)), 0)
		SetReturnU32(ctx, dst)
	})
	t.Register("printf", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		s := guestString(rdram, GPRU32(ctx, 4))
		log.WithField("fmt", s).Info("guest printf")
		SetReturnU32(ctx, uint32(len(s)))
	})
	t.Register("puts", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		log.WithField("s", guestString(rdram, GPRU32(ctx, 4))).Info("guest puts")
		SetReturnU32(ctx, 1)
	})
	t.Register("putchar", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		SetReturnU32(ctx, GPRU32(ctx, 4))
	})
	t.Register("malloc", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		SetReturnU32(ctx, t.alloc(GPRU32(ctx, 4)))
	})
	t.Register("calloc", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		n := GPRU32(ctx, 4) * GPRU32(ctx, 5)
		addr := t.alloc(n)
		for i := uint32(0); i < n; i++ {
			Write8(rdram, addr+i, 0)
		}
		SetReturnU32(ctx, addr)
	})
	t.Register("realloc", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		old, size := GPRU32(ctx, 4), GPRU32(ctx, 5)
		addr := t.alloc(size)
		if old != 0 && addr != 0 {
			n := t.allocs[old]
			if n > size {
				n = size
			}
			copy(rdram[addr&RAMMask:(addr&RAMMask)+n], rdram[old&RAMMask:(old&RAMMask)+n])
		}
		SetReturnU32(ctx, addr)
	})
	t.Register("free", func(rdram []byte, ctx *R5900Context, rt *Runtime) {
		delete(t.allocs, GPRU32(ctx, 4))
		SetReturnU32(ctx, 0)
	})
}

// IsStubName reports whether the default stub table replaces name.
func IsStubName(name string) bool {
	return defaultStubNames[name]
}

var defaultStubNames = map[string]bool{
	"memcpy": true, "memmove": true, "memset": true, "memcmp": true,
	"strlen": true, "strcpy": true, "strncpy": true, "strcmp": true,
	"strncmp": true, "strcat": true, "printf": true, "puts": true,
	"putchar": true, "malloc": true, "calloc": true, "realloc": true,
	"free": true,
}
