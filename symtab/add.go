package symtab

import (
	"github.com/npillmayer/cee/ctype"
	"github.com/npillmayer/cee/intern"
)

// Declare registers a declaration in a namespace, or merges it with a
// previous declaration of the same name. This implements C's rules for
// redeclaration: tentative definitions upgrade to definitions, extern
// redeclarations collapse onto the existing symbol, block-scope
// declarations shadow outer ones, and function declarations unify across
// scopes through the registry. Refer to ISO 9899:1999, 6.2.2 and 6.9.2.
//
// kind must not be Label — labels go through LabelRef/LabelDef — and
// TagName declarations belong in the tag namespace.
//
// Semantic conflicts (incompatible types, mismatched linkage, duplicate
// block-scope definitions) are reported to the diagnostics collaborator
// and returned; in C they are fatal for the translation unit.
func (t *Table) Declare(ns *Namespace, name intern.Name, typ ctype.Type,
	kind SymKind, linkage Linkage) (*Symbol, error) {
	//
	if kind == Label {
		panic("symtab: labels have a dedicated constructor")
	}
	if kind == TagName && ns != t.Tags {
		panic("symtab: tag declared outside the tag namespace")
	}
	sym := ns.Lookup(name)
	if sym == nil && typ.IsFunction() && ns == t.Idents {
		// An inner-block declaration of a function refers to the same
		// entity as its file-scope declaration, wherever that was seen.
		if reg := t.registry[name]; reg != nil {
			if err := t.applyType(reg, typ); err != nil {
				return nil, err
			}
			d := ns.CurrentDepth()
			ns.current().insert(reg)
			if d < reg.Depth {
				reg.Depth = d
			}
			if kind == Definition && reg.Kind != Definition {
				reg.Kind = Definition
			}
			tracer().Debugf("registry hit for function '%s', now at depth %d", name, reg.Depth)
			return reg, nil
		}
	}
	if sym != nil {
		merged, err := t.merge(ns, sym, name, typ, kind, linkage)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			return merged, nil
		}
		// Different depth: the new declaration shadows the old symbol.
	}
	return t.create(ns, name, typ, kind, linkage)
}

// merge reconciles a new declaration with an existing symbol. Returns
// (nil, nil) when the declaration lives at a different depth and must
// shadow instead.
func (t *Table) merge(ns *Namespace, sym *Symbol, name intern.Name,
	typ ctype.Type, kind SymKind, linkage Linkage) (*Symbol, error) {
	//
	// An extern declaration of an entity that is already tentatively or
	// fully defined, or already declared with external linkage, refers to
	// the existing entity, at any depth.
	if linkage == LinkExtern && kind == Declaration &&
		(sym.Kind == Tentative || sym.Kind == Definition ||
			(sym.Kind == Declaration && sym.Linkage == LinkExtern)) {
		if err := t.applyType(sym, typ); err != nil {
			return nil, err
		}
		return sym, nil
	}
	depth := ns.CurrentDepth()
	if sym.Depth != depth {
		return nil, nil // shadow
	}
	if depth > 0 {
		return nil, t.reporter.Errorf("Duplicate definition of '%s'", name.Raw())
	}
	// File scope. The rows below fire in order.
	switch {
	case sym.Linkage == linkage &&
		(((sym.Kind == Tentative || sym.Kind == Declaration) && kind == Definition) ||
			(sym.Kind == Definition && kind == Tentative)):
		if err := t.applyType(sym, typ); err != nil {
			return nil, err
		}
		sym.Kind = Definition
	case sym.Linkage == linkage && sym.Kind == Declaration && kind == Tentative:
		if err := t.applyType(sym, typ); err != nil {
			return nil, err
		}
		sym.Kind = Tentative
	case sym.Linkage == linkage && sym.Kind == Definition && kind == Declaration:
		if !ctype.Equal(sym.Type, typ) {
			return nil, t.reporter.Errorf(
				"Incompatible declaration of '%s', have %t, saw %t",
				name.Raw(), sym.Type, typ)
		}
	case sym.Linkage != linkage || sym.Kind != kind:
		return nil, t.reporter.Errorf(
			"Declaration of '%s' does not match prior declaration", name.Raw())
	default:
		if err := t.applyType(sym, typ); err != nil {
			return nil, err
		}
	}
	return sym, nil
}

// create allocates a fresh symbol for a declaration and makes it visible
// in the current scope.
func (t *Table) create(ns *Namespace, name intern.Name, typ ctype.Type,
	kind SymKind, linkage Linkage) (*Symbol, error) {
	//
	sym := t.alloc()
	sym.Name = name
	sym.Type = typ
	sym.Kind = kind
	sym.Linkage = linkage
	sym.Depth = ns.CurrentDepth()
	if linkage == LinkIntern && sym.Depth > 0 {
		// Block-scope statics share one flat segment in the object file;
		// a suffix keeps their emitted names apart.
		t.svc++
		sym.N = t.svc
	}
	if name == t.memcpyName && t.DeclMemcpy == nil {
		t.DeclMemcpy = sym
	}
	if kind == TagName || kind == Typedef {
		typ.SetTag(sym)
	}
	ns.register(sym)
	ns.current().insert(sym)
	if typ.IsFunction() && ns == t.Idents {
		t.registry[name] = sym
	}
	tracer().P("ns", ns.name).Debugf("created %s '%s' : %s at depth %d",
		kind, sym.EffectiveName(), typ, sym.Depth)
	return sym, nil
}

// applyType reconciles a symbol's type with a newly-seen declaration of
// it. Function declarations may refine earlier knowledge (a parameter
// list completing an old-style declaration) and array lengths may be
// completed; everything else must match.
func (t *Table) applyType(sym *Symbol, typ ctype.Type) error {
	if ctype.Equal(sym.Type, typ) &&
		(!sym.Type.IsFunction() || sym.Kind == Definition) {
		return nil
	}
	conflict := func() error {
		return t.reporter.Errorf("Incompatible declaration of '%s', have %t, saw %t",
			sym.Name.Raw(), sym.Type, typ)
	}
	switch {
	case sym.Type.IsFunction() && typ.IsFunction():
		if !ctype.Equal(sym.Type.Next(), typ.Next()) {
			return conflict()
		}
		if sym.Type.HasProto() != typ.HasProto() ||
			sym.Type.Nmembers() == typ.Nmembers() {
			sym.Type = typ
			return nil
		}
		return conflict()
	case sym.Type.IsArray() && typ.IsArray():
		if !ctype.Equal(sym.Type.Next(), typ.Next()) {
			return conflict()
		}
		if sym.Type.ArrayLen() < 0 {
			if n := typ.ArrayLen(); n >= 0 {
				sym.Type.SetArrayLength(n)
			}
			return nil
		}
		if n := typ.ArrayLen(); n < 0 || n == sym.Type.ArrayLen() {
			return nil
		}
		return conflict()
	}
	return conflict()
}
