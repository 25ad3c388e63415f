package symtab

import (
	"fmt"
	"io"
	"strings"

	"github.com/cnf/structhash"
)

// Dump writes a textual rendering of a namespace, one symbol per line in
// creation order, indented by scope depth. The format is informational
// only; nothing downstream parses it.
func (t *Table) Dump(ns *Namespace, w io.Writer) {
	fmt.Fprintf(w, "namespace %s (%d symbols)\n", ns.name, ns.Size())
	ns.Each(func(sym *Symbol) {
		indent := strings.Repeat(" ", sym.Depth*2)
		fmt.Fprintf(w, "%s%-6s %-11s %-16s :: %s", indent,
			sym.Linkage, sym.Kind, sym.EffectiveName(), sym.Type)
		fmt.Fprintf(w, ", size=%d, offset=%d", sym.Type.SizeOf(), sym.StackOffset)
		switch sym.Kind {
		case Constant:
			fmt.Fprintf(w, ", value=%s", sym.Constant.String(sym.Type))
		case StringValue:
			fmt.Fprintf(w, ", value=%q", sym.String.Raw())
		}
		fmt.Fprintln(w)
	})
}

// signature is the record shape fingerprinted by Checksum. Only stable
// facts take part; Referenced and StackOffset mutate behind the table's
// back.
type signature struct {
	Name  string
	N     int
	Kind  int
	Depth int
}

// Checksum fingerprints a namespace's append-only list. Two runs over the
// same input produce the same checksum, which makes it a cheap regression
// probe for dump comparisons.
func (ns *Namespace) Checksum() string {
	sigs := make([]signature, 0, ns.Size())
	ns.Each(func(sym *Symbol) {
		sigs = append(sigs, signature{
			Name:  sym.EffectiveName(),
			N:     sym.N,
			Kind:  int(sym.Kind),
			Depth: sym.Depth,
		})
	})
	hash, err := structhash.Hash(struct {
		Ns   string
		Syms []signature
	}{ns.name, sigs}, 1)
	if err != nil {
		return "<unhashable>"
	}
	return hash
}

// CheckConsistency verifies the namespace invariants a debugger wants to
// rely on: every live frame entry carries the name it is filed under, and
// every symbol sits at its registered position of the append-only list.
// Violations are traced and counted.
func (ns *Namespace) CheckConsistency() int {
	violations := 0
	for d := 0; d < ns.active; d++ {
		f := ns.frames[d]
		if f.state != frameInitialized {
			continue
		}
		for name, sym := range f.table {
			if sym.Name != name {
				tracer().Errorf("frame %d files '%s' under '%s'", d, sym.Name, name)
				violations++
			}
		}
	}
	for i := 0; i < ns.Size(); i++ {
		if sym := ns.SymbolAt(i); sym.index != i {
			tracer().Errorf("symbol '%s' registered at %d, found at %d",
				sym.EffectiveName(), sym.index, i)
			violations++
		}
	}
	if violations == 0 {
		tracer().Debugf("namespace %s is consistent", ns.name)
	}
	return violations
}
