/*
Package ctype implements the compile-time representation of C types, as
far as declaration processing needs it.

Types are immutable in structure but carry two late-bound attributes:
an array length, which a later declaration may complete, and a tag
back-reference which the symbol table sets for struct/union/enum tags and
typedefs. Aggregate types compare by identity, everything else compares
structurally, following C's compatibility rules as the declaration merge
needs them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ctype

import (
	"bytes"
	"fmt"
)

// Kind enumerates the type constructors of the C type system.
type Kind int8

// Type kinds. Basic types first, derived types after.
const (
	KVoid Kind = iota
	KChar
	KShort
	KInt
	KLong
	KFloat
	KDouble
	KPointer
	KArray
	KFunction
	KStruct
	KUnion
	KEnum
)

var kindNames = map[Kind]string{
	KVoid: "void", KChar: "char", KShort: "short", KInt: "int",
	KLong: "long", KFloat: "float", KDouble: "double", KPointer: "*",
	KArray: "[]", KFunction: "()", KStruct: "struct", KUnion: "union",
	KEnum: "enum",
}

// Type is an opaque handle for a C type. The zero Type is the absent type.
// Handles are small and copied freely; the underlying representation is
// shared, so completing an array length through one handle is visible
// through every other handle for the same type.
type Type struct {
	info *info
}

type info struct {
	kind     Kind
	unsigned bool
	next     Type   // pointee, element or return type
	params   []Type // function parameters
	proto    bool   // function was declared with a prototype
	length   int    // array length, -1 while unknown
	vla      bool   // array length is a runtime value
	size     int    // aggregate size in bytes, 0 while incomplete
	tag      interface{}
}

// IsNil is true for the absent type.
func (t Type) IsNil() bool {
	return t.info == nil
}

// --- Constructors ----------------------------------------------------------

func basic(k Kind) Type {
	return Type{info: &info{kind: k, length: -1}}
}

// Void returns the void type.
func Void() Type { return basic(KVoid) }

// Char returns the (signed) char type.
func Char() Type { return basic(KChar) }

// Short returns the short int type.
func Short() Type { return basic(KShort) }

// Int returns the int type.
func Int() Type { return basic(KInt) }

// Long returns the long int type.
func Long() Type { return basic(KLong) }

// Float returns the float type.
func Float() Type { return basic(KFloat) }

// Double returns the double type.
func Double() Type { return basic(KDouble) }

// Unsigned derives the unsigned variant of an integer type.
func Unsigned(t Type) Type {
	u := *t.info
	u.unsigned = true
	return Type{info: &u}
}

// Pointer returns a pointer type with pointee to.
func Pointer(to Type) Type {
	return Type{info: &info{kind: KPointer, next: to, length: -1}}
}

// Array returns an array type with a known length.
func Array(elem Type, length int) Type {
	return Type{info: &info{kind: KArray, next: elem, length: length}}
}

// IncompleteArray returns an array type whose length is not yet known.
func IncompleteArray(elem Type) Type {
	return Type{info: &info{kind: KArray, next: elem, length: -1}}
}

// VLArray returns an array type whose length is a runtime value.
func VLArray(elem Type) Type {
	return Type{info: &info{kind: KArray, next: elem, length: -1, vla: true}}
}

// Function returns a function type. proto records whether the declaration
// carried a parameter list; params must be empty when it did not.
func Function(ret Type, proto bool, params ...Type) Type {
	return Type{info: &info{kind: KFunction, next: ret, params: params, proto: proto, length: -1}}
}

// Struct returns a fresh, incomplete structure type. Aggregates compare
// by identity.
func Struct() Type { return Type{info: &info{kind: KStruct, length: -1}} }

// Union returns a fresh, incomplete union type.
func Union() Type { return Type{info: &info{kind: KUnion, length: -1}} }

// Enum returns a fresh enumeration type.
func Enum() Type { return Type{info: &info{kind: KEnum, length: -1, size: 4}} }

// --- Predicates and accessors ----------------------------------------------

// Kind returns the type constructor of t.
func (t Type) Kind() Kind {
	if t.info == nil {
		return KVoid
	}
	return t.info.kind
}

// IsFunction is true for function types.
func (t Type) IsFunction() bool { return t.info != nil && t.info.kind == KFunction }

// IsArray is true for array types.
func (t Type) IsArray() bool { return t.info != nil && t.info.kind == KArray }

// IsPointer is true for pointer types.
func (t Type) IsPointer() bool { return t.info != nil && t.info.kind == KPointer }

// IsStruct is true for structure types.
func (t Type) IsStruct() bool { return t.info != nil && t.info.kind == KStruct }

// IsUnion is true for union types.
func (t Type) IsUnion() bool { return t.info != nil && t.info.kind == KUnion }

// IsVoid is true for the void type.
func (t Type) IsVoid() bool { return t.info != nil && t.info.kind == KVoid }

// IsInteger is true for char, short, int, long and enum types.
func (t Type) IsInteger() bool {
	switch t.Kind() {
	case KChar, KShort, KInt, KLong, KEnum:
		return t.info != nil
	}
	return false
}

// IsFloat is true for the real floating types.
func (t Type) IsFloat() bool {
	k := t.Kind()
	return t.info != nil && (k == KFloat || k == KDouble)
}

// IsSigned is true for signed integer types.
func (t Type) IsSigned() bool {
	return t.IsInteger() && !t.info.unsigned
}

// IsVLA is true for arrays whose length is a runtime value.
func (t Type) IsVLA() bool {
	return t.IsArray() && t.info.vla
}

// Next returns the pointee, element or return type of a derived type.
func (t Type) Next() Type {
	if t.info == nil {
		return Type{}
	}
	return t.info.next
}

// Nmembers returns the parameter count of a function type; zero otherwise.
func (t Type) Nmembers() int {
	if t.IsFunction() {
		return len(t.info.params)
	}
	return 0
}

// HasProto is true for functions declared with a parameter list.
func (t Type) HasProto() bool {
	return t.IsFunction() && t.info.proto
}

// Param returns the i-th parameter type of a function type.
func (t Type) Param(i int) Type {
	return t.info.params[i]
}

// ArrayLen returns the length of an array type, or -1 while unknown.
func (t Type) ArrayLen() int {
	if !t.IsArray() {
		return -1
	}
	return t.info.length
}

// SetArrayLength completes an array type with its length. Visible through
// every handle for the type.
func (t Type) SetArrayLength(n int) {
	if !t.IsArray() {
		panic("ctype: SetArrayLength on non-array type")
	}
	t.info.length = n
}

// SetTag attaches a tag or typedef symbol to an aggregate or aliased type.
// The symbol table calls this; ctype stores the reference opaquely to avoid
// a dependency on symbol representation.
func (t Type) SetTag(sym interface{}) {
	if t.info != nil {
		t.info.tag = sym
	}
}

// Tag returns the symbol attached with SetTag, or nil.
func (t Type) Tag() interface{} {
	if t.info == nil {
		return nil
	}
	return t.info.tag
}

// SizeOf returns the storage size of a type in bytes, 0 while incomplete.
func (t Type) SizeOf() int {
	if t.info == nil {
		return 0
	}
	switch t.info.kind {
	case KChar:
		return 1
	case KShort:
		return 2
	case KInt, KFloat, KEnum:
		return 4
	case KLong, KDouble, KPointer:
		return 8
	case KArray:
		if t.info.length < 0 {
			return 0
		}
		return t.info.length * t.info.next.SizeOf()
	case KStruct, KUnion:
		return t.info.size
	}
	return 0
}

// --- Compatibility ----------------------------------------------------------

// Equal decides type compatibility as the declaration merge needs it.
// Aggregates and enums compare by identity, derived types structurally.
func Equal(a, b Type) bool {
	if a.info == b.info {
		return true
	}
	if a.info == nil || b.info == nil {
		return false
	}
	if a.info.kind != b.info.kind || a.info.unsigned != b.info.unsigned {
		return false
	}
	switch a.info.kind {
	case KStruct, KUnion, KEnum:
		return false // not identical, see above
	case KPointer:
		return Equal(a.info.next, b.info.next)
	case KArray:
		return a.info.length == b.info.length && Equal(a.info.next, b.info.next)
	case KFunction:
		if !Equal(a.info.next, b.info.next) || a.info.proto != b.info.proto {
			return false
		}
		if len(a.info.params) != len(b.info.params) {
			return false
		}
		for i := range a.info.params {
			if !Equal(a.info.params[i], b.info.params[i]) {
				return false
			}
		}
		return true
	}
	return true // same basic kind, same signedness
}

// --- Printing ---------------------------------------------------------------

// String renders a type in C-ish surface syntax, e.g. "unsigned int",
// "int *", "char [4]", "int (int, int)".
func (t Type) String() string {
	if t.info == nil {
		return "<no type>"
	}
	switch t.info.kind {
	case KPointer:
		return t.info.next.String() + " *"
	case KArray:
		if t.info.vla {
			return t.info.next.String() + " [*]"
		}
		if t.info.length < 0 {
			return t.info.next.String() + " []"
		}
		return fmt.Sprintf("%s [%d]", t.info.next, t.info.length)
	case KFunction:
		var b bytes.Buffer
		b.WriteString(t.info.next.String())
		b.WriteString(" (")
		for i, p := range t.info.params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteString(")")
		return b.String()
	case KStruct, KUnion, KEnum:
		if s, ok := t.info.tag.(fmt.Stringer); ok {
			return kindNames[t.info.kind] + " " + s.String()
		}
		return kindNames[t.info.kind]
	}
	if t.info.unsigned {
		return "unsigned " + kindNames[t.info.kind]
	}
	return kindNames[t.info.kind]
}

// --- Constant values ---------------------------------------------------------

// Value holds the bits of a compile-time constant. Which field is live is
// decided by the type of the symbol carrying the value.
type Value struct {
	Int   int64
	Float float64
}

// String renders a value for a given carrying type.
func (v Value) String(t Type) string {
	if t.IsFloat() {
		return fmt.Sprintf("%g", v.Float)
	}
	if t.IsInteger() && !t.IsSigned() {
		return fmt.Sprintf("%d", uint64(v.Int))
	}
	return fmt.Sprintf("%d", v.Int)
}
