package symtab

import (
	"github.com/npillmayer/cee/ctype"
	"github.com/npillmayer/cee/intern"
)

// Synthetic symbols are created directly, without lookup or merge: the
// front-end invents them and already holds the only reference.

// CreateTemporary produces a compiler temporary of the given type.
// Temporaries are not attached to any scope; when a function body is done
// with one, Discard returns it to the recycling pool.
func (t *Table) CreateTemporary(typ ctype.Type) *Symbol {
	sym := t.alloc()
	t.nTemp++
	sym.Name = t.names.InternString(PrefixTemporary)
	sym.N = t.nTemp
	sym.Type = typ
	sym.Kind = Definition
	sym.Linkage = LinkNone
	sym.Depth = t.Idents.CurrentDepth()
	return sym
}

// Discard returns a temporary to the recycling pool. The record is zeroed
// on reuse; the caller must drop every reference to it.
func (t *Table) Discard(sym *Symbol) {
	t.pool.Push(sym)
}

// CreateAnonymous produces a symbol for an unnamed aggregate, e.g. an
// anonymous struct or a compound literal. At file scope it receives
// internal linkage so the back-end can emit it.
func (t *Table) CreateAnonymous(typ ctype.Type) *Symbol {
	sym := t.alloc()
	t.nAnon++
	sym.Name = t.names.InternString(PrefixAnonymous)
	sym.N = t.nAnon
	sym.Type = typ
	sym.Kind = Definition
	sym.Depth = t.Idents.CurrentDepth()
	if sym.Depth == 0 {
		sym.Linkage = LinkIntern
	} else {
		sym.Linkage = LinkNone
	}
	t.Idents.register(sym)
	return sym
}

// CreateConstant produces a symbol carrying a numeric constant. The
// back-end inlines integer constants and emits floating ones from the
// identifier namespace's list.
func (t *Table) CreateConstant(typ ctype.Type, val ctype.Value) *Symbol {
	sym := t.alloc()
	t.nConst++
	sym.Name = t.names.InternString(PrefixConstant)
	sym.N = t.nConst
	sym.Type = typ
	sym.Kind = Constant
	sym.Linkage = LinkIntern
	sym.Depth = t.Idents.CurrentDepth()
	sym.Constant = val
	t.Idents.register(sym)
	return sym
}

// CreateString produces a symbol for a string literal. The type is array
// of char, sized for the bytes plus the terminating null.
func (t *Table) CreateString(bytes []byte) *Symbol {
	sym := t.alloc()
	t.nString++
	sym.Name = t.names.InternString(PrefixString)
	sym.N = t.nString
	sym.Type = ctype.Array(ctype.Char(), len(bytes)+1)
	sym.Kind = StringValue
	sym.Linkage = LinkIntern
	sym.Depth = t.Idents.CurrentDepth()
	sym.String = t.names.Intern(bytes)
	t.Idents.register(sym)
	return sym
}

// CreateLabel produces an internal jump target for the IR emitter.
func (t *Table) CreateLabel() *Symbol {
	sym := t.alloc()
	t.nLabel++
	sym.Name = t.names.InternString(PrefixLabel)
	sym.N = t.nLabel
	sym.Type = ctype.Void()
	sym.Kind = Label
	sym.Linkage = LinkIntern
	sym.Depth = t.Labels.CurrentDepth()
	t.Labels.register(sym)
	return sym
}

// LabelRef resolves a goto target. A label not yet defined is created
// tentatively; if no definition arrives before the function's label scope
// is popped, that is an undefined-label error.
func (t *Table) LabelRef(name intern.Name) (*Symbol, error) {
	if sym := t.Labels.Lookup(name); sym != nil {
		return sym, nil
	}
	return t.Declare(t.Labels, name, ctype.Void(), Tentative, LinkIntern)
}

// LabelDef defines a label at its 'name:' statement. Defining the same
// label twice in one function is an error.
func (t *Table) LabelDef(name intern.Name) (*Symbol, error) {
	if sym := t.Labels.Lookup(name); sym != nil && sym.Kind == Definition {
		return nil, t.reporter.Errorf("Duplicate label '%s'", name.Raw())
	}
	return t.Declare(t.Labels, name, ctype.Void(), Definition, LinkIntern)
}

// BindVLASize links a variably-modified array symbol to the symbol
// holding its runtime length. The link is stored as a position in the
// identifier namespace's append-only list, which is stable.
func (t *Table) BindVLASize(array, size *Symbol) {
	array.VLAAddress = size.index
}
