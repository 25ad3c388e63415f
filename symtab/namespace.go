package symtab

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/cee/intern"
)

// Namespace is a stack of scope frames plus an append-only list of every
// symbol ever created in it. C keeps three: ordinary identifiers, labels
// and struct/union/enum tags. Namespaces are created by NewTable and
// accessed through the table; they share no state with each other.
type Namespace struct {
	name    string
	frames  []*frame // frames by depth, retained up to the watermark
	active  int      // number of live frames; current depth is active-1
	symbols *arraylist.List
	cursor  int // iteration state for YieldDeclaration
}

func newNamespace(name string) *Namespace {
	return &Namespace{
		name:    name,
		symbols: arraylist.New(),
	}
}

// Name returns the namespace's name, for tracing and dumps.
func (ns *Namespace) Name() string {
	return ns.name
}

// CurrentDepth returns the depth of the innermost live scope, 0 being
// file scope. Panics when no scope has been pushed.
func (ns *Namespace) CurrentDepth() int {
	if ns.active == 0 {
		panic("symtab: no open scope in namespace " + ns.name)
	}
	return ns.active - 1
}

// Watermark returns the number of retained scope frames: one more than the
// deepest depth the scope stack reached since the namespace was last torn
// down, and 0 after a teardown.
func (ns *Namespace) Watermark() int {
	return len(ns.frames)
}

// Size counts the symbols ever created in the namespace.
func (ns *Namespace) Size() int {
	return ns.symbols.Size()
}

// SymbolAt returns the symbol at a position of the append-only list.
func (ns *Namespace) SymbolAt(i int) *Symbol {
	v, ok := ns.symbols.Get(i)
	if !ok {
		return nil
	}
	return v.(*Symbol)
}

// Lookup scans scope frames from deepest to shallowest and returns the
// first symbol with the given name, marking it as referenced. Returns nil
// on a miss.
func (ns *Namespace) Lookup(name intern.Name) *Symbol {
	for d := ns.active - 1; d >= 0; d-- {
		if sym := ns.frames[d].lookup(name); sym != nil {
			sym.Referenced = true
			return sym
		}
	}
	return nil
}

// current returns the innermost live frame.
func (ns *Namespace) current() *frame {
	return ns.frames[ns.CurrentDepth()]
}

// register appends a symbol to the append-only list. Once registered, a
// symbol keeps its position for the life of the namespace.
func (ns *Namespace) register(sym *Symbol) {
	sym.index = ns.symbols.Size()
	ns.symbols.Add(sym)
}

// Each iterates the append-only list in creation order.
func (ns *Namespace) Each(f func(*Symbol)) {
	it := ns.symbols.Iterator()
	for it.Next() {
		f(it.Value().(*Symbol))
	}
}
