/*
Package symtab implements the symbol table core of a C front-end.

The table tracks every named entity of one translation unit: ordinary
identifiers, labels and struct/union/enum tags, each in a namespace of its
own, plus the compiler-generated symbols produced during semantic analysis
(temporaries, anonymous aggregates, numeric constants, string literals and
internal labels).

Namespaces

A namespace is a stack of lexical scope frames together with an
append-only list of every symbol ever created in it. Scope frames are
retained up to the deepest depth the stack ever reached (the watermark),
so that the repeated push/pop pattern of C function bodies reuses frame
capacity instead of reallocating it.

Declaration merging

Declare is the heart of the package. C allows the same name to be
declared many times — forward declarations, tentative definitions,
extern redeclarations, block-scope declarations of file-scope functions —
and all of them must resolve to one symbol with one reconciled type.
Refer to ISO 9899:1999, 6.2.2 (linkage) and 6.9.2 (tentative
definitions).

Iteration

The back-end drains each namespace through a cursor over the append-only
list, receiving exactly the symbols worth emitting, in creation order.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package symtab

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cee.symtab'.
func tracer() tracing.Trace {
	return tracing.Select("cee.symtab")
}
