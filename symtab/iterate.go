package symtab

// YieldDeclaration advances a namespace's cursor to the next symbol the
// back-end must emit, and returns it. Returns nil when the list is
// exhausted; calling again after new symbols arrived resumes where the
// cursor left off.
//
// What is worth emitting:
//
//   ▪ tentative definitions and string literals, always;
//   ▪ floating-point constants — integer constants are inlined by the
//     back-end and need no symbol;
//   ▪ extern declarations that were actually referenced, plus the cached
//     memcpy declaration, which the IR emitter may call behind the
//     program's back;
//   ▪ definitions, always.
//
// Typedefs, tags and labels produce no storage and are skipped.
func (t *Table) YieldDeclaration(ns *Namespace) *Symbol {
	for ns.cursor < ns.symbols.Size() {
		sym := ns.SymbolAt(ns.cursor)
		ns.cursor++
		switch sym.Kind {
		case Tentative, StringValue:
			return sym
		case Constant:
			if sym.Type.IsFloat() {
				return sym
			}
		case Declaration:
			if sym.Linkage == LinkExtern && (sym.Referenced || sym == t.DeclMemcpy) {
				return sym
			}
		case Definition:
			return sym
		}
	}
	return nil
}
