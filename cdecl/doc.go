/*
Package cdecl reads a miniature C declaration language and drives a
symbol table with it.

The language covers exactly what the symbol table cares about:
declarations with storage class, type specifier and declarators
(pointers, arrays, function parameter lists), nested blocks, enum
member lists, goto statements and label definitions, and initializers of
a single literal token. An initializer turns a declaration into a
definition; a numeric literal initializing a const-qualified arithmetic
object makes it a constant carrying that value, and a string literal
becomes a string literal symbol. Nothing else of an initializer is
evaluated. It is a driver for the table, not a C
parser: no expressions, no preprocessing, no statements beyond the ones
named above.

The scanner runs on lexmachine; the reader is a small recursive-descent
declarator parser which translates every construct into symbol table
calls.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cdecl

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cee.cdecl'.
func tracer() tracing.Trace {
	return tracing.Select("cee.cdecl")
}
