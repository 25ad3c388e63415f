package symtab

import (
	"github.com/npillmayer/cee/intern"
)

// frameState is the lifecycle state of a scope frame.
type frameState int8

const (
	frameCreated     frameState = iota // capacity reserved, no table built
	frameDirty                         // table holds stale entries from a previous pop
	frameInitialized                   // table is live
)

// frame is the lookup index of one lexical block. Frames live at a fixed
// depth and are retained across pops up to the namespace's watermark, so
// a later push at the same depth reuses the table capacity.
type frame struct {
	state frameState
	depth int
	table map[intern.Name]*Symbol
}

// initialCapacity seeds a frame's table by depth, reflecting the
// empirical distribution of declarations in C code: file scope is large,
// parameter lists are small, blocks shrink with nesting.
func initialCapacity(depth int) int {
	switch depth {
	case 0:
		return 256
	case 1:
		return 16
	case 2:
		return 128
	case 3:
		return 64
	case 4:
		return 32
	case 5:
		return 16
	}
	return 8
}

// insert makes a symbol visible in the frame, building or clearing the
// table lazily on the first insert after a push.
func (f *frame) insert(sym *Symbol) {
	switch f.state {
	case frameCreated:
		f.table = make(map[intern.Name]*Symbol, initialCapacity(f.depth))
	case frameDirty:
		for k := range f.table {
			delete(f.table, k)
		}
	}
	f.state = frameInitialized
	f.table[sym.Name] = sym
}

// lookup probes the frame. Frames not in the initialized state hold no
// live entries.
func (f *frame) lookup(name intern.Name) *Symbol {
	if f.state != frameInitialized {
		return nil
	}
	return f.table[name]
}

// destroy releases the table. Used during namespace teardown only.
func (f *frame) destroy() {
	f.table = nil
	f.state = frameCreated
}
