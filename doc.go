/*
Package cee is the symbol table core of a C89/C99 compiler front-end.

cee keeps track of every named entity a translation unit mentions —
ordinary identifiers, labels and struct/union/enum tags — together with
the compiler-generated symbols (temporaries, anonymous aggregates,
constants, string literals, internal labels) produced during semantic
analysis. Package structure is as follows:

■ symtab: Package symtab implements the core: lexical scoping, linkage
resolution, tentative-definition merging and cross-scope function
unification, plus the synthetic-symbol constructors and the append-only
iteration the back-end uses to emit globals.

■ intern: Package intern implements the string interner which produces the
opaque name handles symbols are keyed by.

■ ctype: Package ctype implements the compile-time representation of C
types, as far as declaration merging needs it.

■ diag: Package diag collects semantic diagnostics, with a '%t' verb for
types.

■ cdecl: Package cdecl reads a miniature C declaration language and drives
the symbol table with it; used by the CLIs and by integration tests.

The base package contains the token and span types which the declaration
reader in cdecl builds on.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cee
