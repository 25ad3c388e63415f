package symtab

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cee/ctype"
	"github.com/npillmayer/cee/intern"
)

// SymKind classifies what a symbol stands for.
type SymKind int8

// Symbol kinds. A name moves through Declaration, Tentative and Definition
// as the translation unit reveals more about it; the remaining kinds are
// terminal.
const (
	Declaration SymKind = iota
	Tentative
	Definition
	Typedef
	TagName
	Label
	Constant
	StringValue
)

var kindNames = [...]string{"declaration", "tentative", "definition",
	"typedef", "tag", "label", "constant", "string"}

func (k SymKind) String() string {
	return kindNames[k]
}

// Linkage is the C linkage of a symbol.
type Linkage int8

// Linkage values. LinkNone is block-scope non-static.
const (
	LinkNone Linkage = iota
	LinkIntern
	LinkExtern
)

var linkageNames = [...]string{"none", "intern", "extern"}

func (l Linkage) String() string {
	return linkageNames[l]
}

// Synthetic name prefixes. The emitted-name format derived from them is a
// wire-level contract with the back-end.
const (
	PrefixTemporary = ".t"
	PrefixAnonymous = ".u"
	PrefixConstant  = ".C"
	PrefixString    = ".LC"
	PrefixLabel     = ".L"
)

// Symbol carries all compile-time facts about one named entity. Symbols
// are allocated by the table and stay at a stable address for the life of
// their namespace; types and IR operands hold plain pointers to them.
type Symbol struct {
	Name       intern.Name // interned spelling, or a synthetic prefix
	N          int         // disambiguation number, 0 when the spelling suffices
	Type       ctype.Type
	Kind       SymKind
	Linkage    Linkage
	Depth      int  // scope depth the symbol was introduced at, 0 = file scope
	Referenced bool // set once a lookup returned this symbol

	// Variant payload.
	Constant   ctype.Value // value bits for Constant symbols
	String     intern.Name // interned bytes for StringValue symbols
	VLAAddress int         // list index of the runtime-length symbol, -1 if none

	// StackOffset is assigned by a later pass; the core never touches it.
	StackOffset int

	index int // position in the owning namespace's append-only list
}

// ListIndex returns the symbol's position in its namespace's append-only
// list. Positions are stable for the life of the namespace.
func (s *Symbol) ListIndex() int {
	return s.index
}

// EffectiveName renders the spelling used by the back-end: the interned
// name verbatim when N is zero, '<prefix><n>' for synthetic names and
// '<spelling>.<n>' otherwise. The format must be preserved bit-for-bit.
func (s *Symbol) EffectiveName() string {
	if s.N == 0 {
		return s.Name.Raw()
	}
	if strings.HasPrefix(s.Name.Raw(), ".") {
		return fmt.Sprintf("%s%d", s.Name.Raw(), s.N)
	}
	return fmt.Sprintf("%s.%d", s.Name.Raw(), s.N)
}

// IsSynthetic is true for compiler-generated symbols.
func (s *Symbol) IsSynthetic() bool {
	return strings.HasPrefix(s.Name.Raw(), ".")
}

// String is a debug Stringer for symbols.
func (s *Symbol) String() string {
	return s.EffectiveName()
}
