package cdecl

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/cee"
	"github.com/npillmayer/cee/ctype"
	"github.com/npillmayer/cee/symtab"
)

// Reader translates declaration-language input into symbol table calls.
// A reader spans one translation unit: Open pushes the file scopes,
// ReadString may be called any number of times, Close pops the file
// scopes and thereby tears the table down.
type Reader struct {
	table  *symtab.Table
	toks   []Token
	pos    int
	infunc bool
	// Parameter names of the most recently parsed parameter list, kept
	// for the declarator's function body, if one follows.
	paramNames []string
}

// NewReader creates a reader feeding the given table.
func NewReader(t *symtab.Table) *Reader {
	return &Reader{table: t}
}

// Table returns the symbol table the reader feeds.
func (r *Reader) Table() *symtab.Table {
	return r.table
}

// Open starts the translation unit by pushing the file scopes of the
// identifier and tag namespaces.
func (r *Reader) Open() {
	r.table.PushScope(r.table.Idents)
	r.table.PushScope(r.table.Tags)
}

// Close ends the translation unit. The file scopes are popped, which
// tears down both namespaces and drains the recycling pool.
func (r *Reader) Close() error {
	if err := r.table.PopScope(r.table.Tags); err != nil {
		return err
	}
	return r.table.PopScope(r.table.Idents)
}

// ReadString scans and interprets a chunk of declaration input.
func (r *Reader) ReadString(input string) error {
	toks, err := Tokenize(input)
	if err != nil {
		return err
	}
	r.toks, r.pos = toks, 0
	return r.items(false)
}

// --- Token helpers ----------------------------------------------------------

func (r *Reader) cur() Token {
	return r.toks[r.pos]
}

func (r *Reader) peek() Token {
	if r.pos+1 >= len(r.toks) {
		return Token{id: EOF}
	}
	return r.toks[r.pos+1]
}

func (r *Reader) advance() Token {
	t := r.toks[r.pos]
	if r.pos < len(r.toks)-1 {
		r.pos++
	}
	return t
}

func (r *Reader) accept(id int) bool {
	if r.cur().id == id {
		r.advance()
		return true
	}
	return false
}

func (r *Reader) expect(id int) (Token, error) {
	if r.cur().id != id {
		return Token{}, r.errUnexpected()
	}
	return r.advance(), nil
}

// errUnexpected complains about the current token. The EOF token carries
// the null span, which has no useful position to print.
func (r *Reader) errUnexpected() error {
	if r.cur().span.IsNull() {
		return fmt.Errorf("cdecl: unexpected end of input")
	}
	return fmt.Errorf("cdecl: unexpected '%s' at %s", r.cur(), r.cur().span)
}

// spanFrom widens a span across all tokens consumed since a start
// position, for diagnostics covering a whole construct.
func (r *Reader) spanFrom(start int) cee.Span {
	span := r.toks[start].span
	if start < r.pos {
		span = span.Extend(r.toks[r.pos-1].span)
	}
	return span
}

// --- Item level -------------------------------------------------------------

// items interprets a run of declarations, blocks and label statements.
// With inBlock set, a closing brace ends the run.
func (r *Reader) items(inBlock bool) error {
	for {
		switch r.cur().id {
		case EOF:
			if inBlock {
				return fmt.Errorf("cdecl: missing '}'")
			}
			return nil
		case '}':
			if !inBlock {
				return fmt.Errorf("cdecl: unbalanced '}' at %s", r.cur().span)
			}
			r.advance()
			return nil
		case '{':
			r.advance()
			r.table.PushScope(r.table.Idents)
			r.table.PushScope(r.table.Tags)
			err := r.items(true)
			if err != nil {
				return err
			}
			if err := r.table.PopScope(r.table.Tags); err != nil {
				return err
			}
			if err := r.table.PopScope(r.table.Idents); err != nil {
				return err
			}
		case ';': // empty statement
			r.advance()
		case KwGoto:
			if err := r.gotoStmt(); err != nil {
				return err
			}
		case Ident:
			if r.peek().id == ':' {
				if err := r.labelStmt(); err != nil {
					return err
				}
				continue
			}
			return r.errUnexpected()
		default:
			if err := r.declaration(); err != nil {
				return err
			}
		}
	}
}

func (r *Reader) gotoStmt() error {
	r.advance() // goto
	if !r.infunc {
		return fmt.Errorf("cdecl: goto outside of function body")
	}
	name, err := r.expect(Ident)
	if err != nil {
		return err
	}
	if _, err := r.table.LabelRef(r.table.Names().InternString(name.lexeme)); err != nil {
		return err
	}
	_, err = r.expect(';')
	return err
}

func (r *Reader) labelStmt() error {
	name := r.advance()
	r.advance() // ':'
	if !r.infunc {
		return fmt.Errorf("cdecl: label outside of function body")
	}
	_, err := r.table.LabelDef(r.table.Names().InternString(name.lexeme))
	return err
}

// --- Declarations -----------------------------------------------------------

type storageClass int8

const (
	scNone storageClass = iota
	scExtern
	scStatic
	scTypedef
)

// declaration interprets one declaration, possibly with several
// declarators, an initializer, or a function body.
func (r *Reader) declaration() error {
	storage := scNone
	constQual := false
	for {
		switch r.cur().id {
		case KwExtern:
			storage = scExtern
		case KwStatic:
			storage = scStatic
		case KwTypedef:
			storage = scTypedef
		case KwConst:
			constQual = true
		default:
			goto specifier
		}
		r.advance()
	}
specifier:
	base, err := r.typeSpecifier()
	if err != nil {
		return err
	}
	if r.accept(';') {
		return nil // tag declaration without declarators
	}
	for {
		start := r.pos
		name, typ, err := r.declarator(base)
		if err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("cdecl: declarator without a name at %s", r.spanFrom(start))
		}
		done, err := r.declare(name, typ, storage, constQual)
		if err != nil {
			return err
		}
		if done { // function definition consumed the body
			return nil
		}
		if r.accept(',') {
			continue
		}
		_, err = r.expect(';')
		return err
	}
}

// typeSpecifier interprets a type specifier: an optionally unsigned basic
// type, or a struct/union/enum with an optional tag and member list.
func (r *Reader) typeSpecifier() (ctype.Type, error) {
	unsigned := false
	if r.accept(KwUnsigned) {
		unsigned = true
	}
	var typ ctype.Type
	switch r.cur().id {
	case KwVoid:
		typ = ctype.Void()
	case KwChar:
		typ = ctype.Char()
	case KwShort:
		typ = ctype.Short()
	case KwInt:
		typ = ctype.Int()
	case KwLong:
		typ = ctype.Long()
	case KwFloat:
		typ = ctype.Float()
	case KwDouble:
		typ = ctype.Double()
	case KwStruct, KwUnion, KwEnum:
		if unsigned {
			return ctype.Type{}, fmt.Errorf("cdecl: unsigned aggregate at %s", r.cur().span)
		}
		return r.tagSpecifier()
	default:
		if unsigned { // plain 'unsigned' means unsigned int
			return ctype.Unsigned(ctype.Int()), nil
		}
		return ctype.Type{}, fmt.Errorf("cdecl: expected type specifier, found '%s' at %s",
			r.cur(), r.cur().span)
	}
	r.advance()
	if unsigned {
		return ctype.Unsigned(typ), nil
	}
	return typ, nil
}

// tagSpecifier interprets struct/union/enum specifiers. A named tag is
// declared in the tag namespace on first sight and resolved afterwards;
// enum member lists declare their members as constants in the identifier
// namespace.
func (r *Reader) tagSpecifier() (ctype.Type, error) {
	kw := r.advance().id
	tagname := ""
	if r.cur().id == Ident {
		tagname = r.advance().lexeme
	}
	var typ ctype.Type
	if tagname != "" {
		if sym := r.table.Tags.Lookup(r.table.Names().InternString(tagname)); sym != nil {
			typ = sym.Type
		} else {
			switch kw {
			case KwStruct:
				typ = ctype.Struct()
			case KwUnion:
				typ = ctype.Union()
			default:
				typ = ctype.Enum()
			}
			name := r.table.Names().InternString(tagname)
			if _, err := r.table.Declare(r.table.Tags, name, typ,
				symtab.TagName, symtab.LinkNone); err != nil {
				return ctype.Type{}, err
			}
		}
	} else {
		switch kw {
		case KwStruct:
			typ = ctype.Struct()
		case KwUnion:
			typ = ctype.Union()
		default:
			typ = ctype.Enum()
		}
	}
	if r.cur().id == '{' {
		if kw == KwEnum {
			if err := r.enumMembers(typ); err != nil {
				return ctype.Type{}, err
			}
		} else if err := r.skipBraces(); err != nil {
			return ctype.Type{}, err
		}
	}
	return typ, nil
}

// enumMembers interprets an enum member list, declaring each member as an
// integer constant of the enumeration type.
func (r *Reader) enumMembers(typ ctype.Type) error {
	r.advance() // '{'
	next := int64(0)
	for r.cur().id != '}' {
		name, err := r.expect(Ident)
		if err != nil {
			return err
		}
		if r.accept('=') {
			num, err := r.expect(Number)
			if err != nil {
				return err
			}
			next, _ = strconv.ParseInt(num.lexeme, 10, 64)
		}
		sym, err := r.table.Declare(r.table.Idents,
			r.table.Names().InternString(name.lexeme), typ,
			symtab.Constant, symtab.LinkNone)
		if err != nil {
			return err
		}
		sym.Constant = ctype.Value{Int: next}
		next++
		if !r.accept(',') {
			break
		}
	}
	_, err := r.expect('}')
	return err
}

// skipBraces consumes a balanced brace block without interpreting it.
// Struct and union member lists do not concern the symbol table core.
func (r *Reader) skipBraces() error {
	if _, err := r.expect('{'); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		switch r.advance().id {
		case '{':
			depth++
		case '}':
			depth--
		case EOF:
			return fmt.Errorf("cdecl: missing '}'")
		}
	}
	return nil
}

// declarator interprets pointers, a name, and array or parameter-list
// suffixes. Parenthesized declarators are not supported.
func (r *Reader) declarator(base ctype.Type) (string, ctype.Type, error) {
	typ := base
	for r.accept('*') {
		typ = ctype.Pointer(typ)
	}
	name := ""
	if r.cur().id == Ident {
		name = r.advance().lexeme
	}
	// Array dimensions nest outside-in: x[2][3] is an array of 2 arrays
	// of 3 elements.
	var dims []int
	for {
		if r.accept('[') {
			dim := -1
			if r.cur().id == Number {
				n, _ := strconv.Atoi(r.advance().lexeme)
				dim = n
			}
			if _, err := r.expect(']'); err != nil {
				return "", ctype.Type{}, err
			}
			dims = append(dims, dim)
			continue
		}
		if r.cur().id == '(' {
			ret, err := r.paramList(typ)
			if err != nil {
				return "", ctype.Type{}, err
			}
			typ = ret
			continue
		}
		break
	}
	for i := len(dims) - 1; i >= 0; i-- {
		if dims[i] < 0 {
			typ = ctype.IncompleteArray(typ)
		} else {
			typ = ctype.Array(typ, dims[i])
		}
	}
	return name, typ, nil
}

// paramList interprets a function parameter list, yielding the function
// type. '()' declares without a prototype, '(void)' with an empty one.
func (r *Reader) paramList(ret ctype.Type) (ctype.Type, error) {
	r.advance() // '('
	r.paramNames = nil
	if r.accept(')') {
		return ctype.Function(ret, false), nil
	}
	if r.cur().id == KwVoid && r.peek().id == ')' {
		r.advance()
		r.advance()
		return ctype.Function(ret, true), nil
	}
	var params []ctype.Type
	var names []string
	for {
		base, err := r.typeSpecifier()
		if err != nil {
			return ctype.Type{}, err
		}
		pname, ptyp, err := r.declarator(base)
		if err != nil {
			return ctype.Type{}, err
		}
		params = append(params, ptyp)
		names = append(names, pname)
		if !r.accept(',') {
			break
		}
	}
	if _, err := r.expect(')'); err != nil {
		return ctype.Type{}, err
	}
	r.paramNames = names
	return ctype.Function(ret, true, params...), nil
}

// declare maps one parsed declarator onto a symbol table operation.
// Returns true when a function body was consumed.
func (r *Reader) declare(name string, typ ctype.Type,
	storage storageClass, constQual bool) (bool, error) {
	//
	table := r.table
	handle := table.Names().InternString(name)
	depth := table.Idents.CurrentDepth()
	//
	if storage == scTypedef {
		_, err := table.Declare(table.Idents, handle, typ, symtab.Typedef, symtab.LinkNone)
		return false, err
	}
	if typ.IsFunction() {
		linkage := symtab.LinkExtern
		if storage == scStatic {
			linkage = symtab.LinkIntern
		}
		if r.cur().id == '{' {
			sym, err := table.Declare(table.Idents, handle, typ,
				symtab.Definition, linkage)
			if err != nil {
				return false, err
			}
			return true, r.functionBody(sym)
		}
		_, err := table.Declare(table.Idents, handle, typ, symtab.Declaration, linkage)
		return false, err
	}
	hasInit := false
	var init Token
	if r.accept('=') {
		hasInit = true
		init = r.advance()
	}
	// A const-qualified arithmetic object with a constant initializer is
	// recorded as a constant, so the back-end can inline or emit it.
	if constQual && hasInit && (init.id == Number || init.id == FloatNumber) &&
		(typ.IsInteger() || typ.IsFloat()) {
		sym, err := table.Declare(table.Idents, handle, typ, symtab.Constant, symtab.LinkNone)
		if err != nil {
			return false, err
		}
		// The symbol's type decides which value field is live.
		switch {
		case typ.IsFloat():
			f, _ := strconv.ParseFloat(init.lexeme, 64)
			sym.Constant = ctype.Value{Float: f}
		case init.id == Number:
			n, _ := strconv.ParseInt(init.lexeme, 10, 64)
			sym.Constant = ctype.Value{Int: n}
		default:
			f, _ := strconv.ParseFloat(init.lexeme, 64)
			sym.Constant = ctype.Value{Int: int64(f)}
		}
		return false, nil
	}
	kind, linkage := objectKind(storage, hasInit, depth)
	sym, err := table.Declare(table.Idents, handle, typ, kind, linkage)
	if err != nil {
		return false, err
	}
	if hasInit && init.id == StringLit {
		lit := table.CreateString([]byte(init.lexeme[1 : len(init.lexeme)-1]))
		if sym.Type.IsArray() && sym.Type.ArrayLen() < 0 {
			sym.Type.SetArrayLength(lit.Type.ArrayLen())
		}
	}
	return false, nil
}

// objectKind decides symbol kind and linkage for a non-function object
// declaration. At file scope an uninitialized object is a tentative
// definition unless it is declared 'extern'; in a block every object
// except an 'extern' one is a definition right away. 'extern' objects
// without an initializer are declarations.
func objectKind(storage storageClass, hasInit bool, depth int) (symtab.SymKind, symtab.Linkage) {
	if depth == 0 {
		linkage := symtab.LinkExtern
		if storage == scStatic {
			linkage = symtab.LinkIntern
		}
		switch {
		case hasInit:
			return symtab.Definition, linkage
		case storage == scExtern:
			return symtab.Declaration, linkage
		default:
			return symtab.Tentative, linkage
		}
	}
	switch storage {
	case scExtern:
		return symtab.Declaration, symtab.LinkExtern
	case scStatic:
		return symtab.Definition, symtab.LinkIntern
	}
	return symtab.Definition, symtab.LinkNone
}

// functionBody interprets a function definition's body: parameters and
// block items live in a fresh scope, labels in the function's label
// scope.
func (r *Reader) functionBody(fn *symtab.Symbol) error {
	table := r.table
	r.advance() // '{'
	table.PushScope(table.Idents)
	table.PushScope(table.Tags)
	table.PushScope(table.Labels)
	var err error
	for i, pname := range r.paramNames {
		if pname == "" || i >= fn.Type.Nmembers() {
			continue
		}
		_, err = table.Declare(table.Idents, table.Names().InternString(pname),
			fn.Type.Param(i), symtab.Definition, symtab.LinkNone)
		if err != nil {
			break
		}
	}
	wasInFunc := r.infunc
	r.infunc = true
	if err == nil {
		err = r.items(true)
	}
	r.infunc = wasInFunc
	if lerr := table.PopScope(table.Labels); err == nil {
		err = lerr
	}
	if terr := table.PopScope(table.Tags); err == nil {
		err = terr
	}
	if ierr := table.PopScope(table.Idents); err == nil {
		err = ierr
	}
	return err
}
