package symtab

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/cee/diag"
	"github.com/npillmayer/cee/intern"
)

// Table is the symbol table of one translation unit. It bundles the three
// namespaces, the cross-scope function registry, the recycling pool for
// temporaries and labels, and the monotonic counters behind synthetic
// names. Create one per translation unit with NewTable and thread it
// through the front-end; tables are not safe for concurrent use.
type Table struct {
	Idents *Namespace // ordinary identifiers
	Labels *Namespace // goto labels, one scope per function body
	Tags   *Namespace // struct/union/enum tags

	// DeclMemcpy caches the first symbol declared as 'memcpy'. The IR
	// emitter calls it for structure copies, which keeps the declaration
	// alive even when the program never references it.
	DeclMemcpy *Symbol

	names    *intern.Pool
	reporter diag.Reporter

	// registry unifies function declarations across scopes. It is not a
	// second scope: it is consulted only when a lexical lookup misses.
	registry map[intern.Name]*Symbol

	// pool recycles discarded temporaries and popped labels across
	// function bodies. Drained exactly once, at end of translation unit.
	pool        *arraystack.Stack
	freshAllocs int

	memcpyName intern.Name

	// Counters behind synthetic names and block-scope static suffixes.
	nTemp, nAnon, nConst, nString, nLabel, svc int
}

// NewTable creates the symbol table for one translation unit. Both
// collaborators are required: names produce the interned handles symbols
// are keyed by, and rep receives semantic diagnostics.
func NewTable(names *intern.Pool, rep diag.Reporter) *Table {
	t := &Table{
		Idents:     newNamespace("identifiers"),
		Labels:     newNamespace("labels"),
		Tags:       newNamespace("tags"),
		names:      names,
		reporter:   rep,
		registry:   make(map[intern.Name]*Symbol, 64),
		pool:       arraystack.New(),
		memcpyName: names.InternString("memcpy"),
	}
	return t
}

// Names returns the interning pool the table was created with.
func (t *Table) Names() *intern.Pool {
	return t.names
}

// Allocations counts the symbol records allocated fresh, as opposed to
// taken from the recycling pool.
func (t *Table) Allocations() int {
	return t.freshAllocs
}

// alloc produces a zeroed symbol record, preferring the recycling pool.
func (t *Table) alloc() *Symbol {
	if v, ok := t.pool.Pop(); ok {
		sym := v.(*Symbol)
		*sym = Symbol{VLAAddress: -1}
		return sym
	}
	t.freshAllocs++
	return &Symbol{VLAAddress: -1}
}

// PushScope opens a new lexical block in a namespace. When the stack has
// previously reached this depth, the retained frame is reused and marked
// dirty; its table is cleared lazily on the first insert.
func (t *Table) PushScope(ns *Namespace) {
	d := ns.active
	if d < len(ns.frames) {
		f := ns.frames[d]
		if f.state == frameInitialized {
			f.state = frameDirty
		}
	} else {
		ns.frames = append(ns.frames, &frame{state: frameCreated, depth: d})
	}
	ns.active++
	tracer().P("ns", ns.name).Debugf("pushing scope at depth %d", d)
}

// PopScope closes the innermost lexical block of a namespace. Popping the
// outermost scope tears the namespace down: all frames and symbols are
// released, and — for the identifier namespace — the recycling pool is
// drained. Popping the outermost label scope first reports every label
// that was referenced but never defined, and recycles the label records.
// Push and pop must be balanced; popping an empty stack panics.
func (t *Table) PopScope(ns *Namespace) error {
	if ns.active == 0 {
		panic("symtab: unbalanced pop in namespace " + ns.name)
	}
	ns.active--
	tracer().P("ns", ns.name).Debugf("popping scope at depth %d", ns.active)
	if ns.active > 0 {
		return nil
	}
	return t.teardown(ns)
}

// teardown destroys a namespace after its outermost scope was popped.
func (t *Table) teardown(ns *Namespace) error {
	var err error
	if ns == t.Labels {
		ns.Each(func(sym *Symbol) {
			if sym.Kind == Tentative {
				err = t.reporter.Errorf("Undefined label '%s'", sym.Name.Raw())
			}
		})
		// Label records are recycled across function bodies.
		ns.Each(func(sym *Symbol) {
			t.pool.Push(sym)
		})
	}
	for _, f := range ns.frames {
		f.destroy()
	}
	ns.frames = ns.frames[:0]
	ns.symbols.Clear()
	ns.cursor = 0
	if ns == t.Idents {
		t.pool.Clear()
		t.registry = make(map[intern.Name]*Symbol, 64)
		t.DeclMemcpy = nil
	}
	tracer().P("ns", ns.name).Debugf("namespace torn down")
	return err
}
