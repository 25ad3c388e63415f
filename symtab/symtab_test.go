package symtab

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/cee/ctype"
	"github.com/npillmayer/cee/diag"
	"github.com/npillmayer/cee/intern"
)

func newTestTable() (*symTable, *diag.Collector) {
	rep := diag.NewCollector()
	t := NewTable(intern.NewPool(), rep)
	return &symTable{t}, rep
}

// symTable wraps Table with test conveniences.
type symTable struct {
	*Table
}

func (t *symTable) name(s string) intern.Name {
	return t.Names().InternString(s)
}

func (t *symTable) declare(s string, typ ctype.Type, kind SymKind, linkage Linkage) (*Symbol, error) {
	return t.Declare(t.Idents, t.name(s), typ, kind, linkage)
}

func TestNewTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	if tab.Idents == nil || tab.Labels == nil || tab.Tags == nil {
		t.Error("expected three namespaces to exist")
	}
	if tab.Idents.Size() != 0 {
		t.Errorf("fresh identifier namespace should be empty, has %d symbols", tab.Idents.Size())
	}
}

func TestLookupSetsReferenced(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	sym, err := tab.declare("x", ctype.Int(), Tentative, LinkExtern)
	if err != nil {
		t.Fatal(err)
	}
	if sym.Referenced {
		t.Error("symbol should not be referenced before any lookup")
	}
	if found := tab.Idents.Lookup(tab.name("x")); found != sym {
		t.Error("lookup did not return the declared symbol")
	}
	if !sym.Referenced {
		t.Error("lookup should mark the symbol as referenced")
	}
	if tab.Idents.Lookup(tab.name("y")) != nil {
		t.Error("lookup of undeclared name should miss")
	}
}

// Scenario: x declared, tentatively defined and defined at file scope
// collapses onto one symbol ending as a definition.
func TestTentativeUpgrade(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	s1, _ := tab.declare("x", ctype.Int(), Declaration, LinkExtern)
	s2, _ := tab.declare("x", ctype.Int(), Tentative, LinkExtern)
	s3, err := tab.declare("x", ctype.Int(), Definition, LinkExtern)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 || s2 != s3 {
		t.Error("redeclarations of x should merge onto one symbol")
	}
	if s3.Kind != Definition {
		t.Errorf("x should end as a definition, is %s", s3.Kind)
	}
	if s3.Linkage != LinkExtern || s3.Depth != 0 || s3.N != 0 {
		t.Errorf("x has wrong facts: linkage=%s depth=%d n=%d", s3.Linkage, s3.Depth, s3.N)
	}
	if tab.Idents.Size() != 1 {
		t.Errorf("expected 1 symbol in namespace, have %d", tab.Idents.Size())
	}
}

func TestExternDeclarationIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	fn := ctype.Function(ctype.Int(), true, ctype.Int())
	s1, _ := tab.declare("f", fn, Declaration, LinkExtern)
	s2, err := tab.declare("f", fn, Declaration, LinkExtern)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Error("second extern prototype should merge with the first")
	}
	if s1.Kind != Declaration {
		t.Errorf("kind should stay declaration, is %s", s1.Kind)
	}
}

// Scenario: a function declared at file scope, redeclared in a block and
// finally defined at file scope is a single entity.
func TestFunctionUnifiedAcrossScopes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	fn := ctype.Function(ctype.Int(), true, ctype.Int())
	s1, _ := tab.declare("f", fn, Declaration, LinkExtern)
	tab.PushScope(tab.Idents)
	s2, err := tab.declare("f", fn, Declaration, LinkExtern)
	if err != nil {
		t.Fatal(err)
	}
	if err := tab.PopScope(tab.Idents); err != nil {
		t.Fatal(err)
	}
	s3, err := tab.declare("f", fn, Definition, LinkExtern)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 || s2 != s3 {
		t.Error("f should be one entity across scopes")
	}
	if s3.Depth != 0 {
		t.Errorf("f should live at file scope, depth is %d", s3.Depth)
	}
	if s3.Kind != Definition {
		t.Errorf("f should end as a definition, is %s", s3.Kind)
	}
	if tab.Idents.Size() != 1 {
		t.Errorf("expected 1 symbol, have %d", tab.Idents.Size())
	}
}

// Scenario: a function first declared inside a block unifies with its
// later file-scope definition through the registry, and its depth drops.
func TestFunctionRegistryAfterScopePop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.PushScope(tab.Idents)
	fn := ctype.Function(ctype.Int(), true, ctype.Int())
	inner, _ := tab.declare("f", fn, Declaration, LinkExtern)
	if inner.Depth != 1 {
		t.Fatalf("inner declaration should be at depth 1, is %d", inner.Depth)
	}
	if err := tab.PopScope(tab.Idents); err != nil {
		t.Fatal(err)
	}
	if tab.Idents.Lookup(tab.name("f")) != nil {
		t.Error("f should not be lexically visible after its scope popped")
	}
	outer, err := tab.declare("f", fn, Definition, LinkExtern)
	if err != nil {
		t.Fatal(err)
	}
	if outer != inner {
		t.Error("file-scope definition should reuse the block-scope entity")
	}
	if outer.Depth != 0 {
		t.Errorf("depth should be lowered to 0, is %d", outer.Depth)
	}
	if tab.Idents.Lookup(tab.name("f")) != outer {
		t.Error("f should be lexically visible at file scope now")
	}
}

func TestDuplicateDefinitionInBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, rep := newTestTable()
	tab.PushScope(tab.Idents)
	tab.PushScope(tab.Idents)
	tab.declare("x", ctype.Int(), Definition, LinkNone)
	_, err := tab.declare("x", ctype.Int(), Definition, LinkNone)
	if err == nil {
		t.Fatal("duplicate block-scope definition should be an error")
	}
	if !strings.Contains(err.Error(), "Duplicate definition") {
		t.Errorf("unexpected diagnostic: %v", err)
	}
	if rep.ErrorCount() != 1 {
		t.Errorf("expected 1 diagnostic, have %d", rep.ErrorCount())
	}
}

func TestIncompatibleRedefinition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.declare("x", ctype.Int(), Definition, LinkExtern)
	_, err := tab.declare("x", ctype.Float(), Definition, LinkExtern)
	if err == nil {
		t.Fatal("redefinition with different type should be an error")
	}
	if !strings.Contains(err.Error(), "Incompatible declaration") {
		t.Errorf("unexpected diagnostic: %v", err)
	}
}

func TestLinkageMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.declare("x", ctype.Int(), Tentative, LinkIntern)
	_, err := tab.declare("x", ctype.Int(), Tentative, LinkExtern)
	if err == nil {
		t.Fatal("tentative redeclaration with different linkage should be an error")
	}
	if !strings.Contains(err.Error(), "does not match prior declaration") {
		t.Errorf("unexpected diagnostic: %v", err)
	}
}

func TestShadowingInInnerBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	outer, _ := tab.declare("x", ctype.Int(), Tentative, LinkExtern)
	tab.PushScope(tab.Idents)
	inner, err := tab.declare("x", ctype.Double(), Definition, LinkNone)
	if err != nil {
		t.Fatal(err)
	}
	if inner == outer {
		t.Error("block-scope x should shadow, not merge")
	}
	if got := tab.Idents.Lookup(tab.name("x")); got != inner {
		t.Error("lookup should find the shadowing symbol")
	}
	if err := tab.PopScope(tab.Idents); err != nil {
		t.Fatal(err)
	}
	if got := tab.Idents.Lookup(tab.name("x")); got != outer {
		t.Error("after pop, lookup should find the outer symbol again")
	}
}

// Block-scope statics in two different functions stay distinct symbols
// with distinct name suffixes, and both reach the back-end.
func TestBlockScopeStatics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.PushScope(tab.Idents) // first function body
	s1, _ := tab.declare("x", ctype.Int(), Definition, LinkIntern)
	tab.PopScope(tab.Idents)
	tab.PushScope(tab.Idents) // second function body
	s2, _ := tab.declare("x", ctype.Int(), Definition, LinkIntern)
	tab.PopScope(tab.Idents)
	if s1 == s2 {
		t.Fatal("statics in different functions must be distinct symbols")
	}
	if s1.N == 0 || s2.N == 0 || s1.N == s2.N {
		t.Errorf("statics need distinct nonzero suffixes, have %d and %d", s1.N, s2.N)
	}
	if s1.EffectiveName() == s2.EffectiveName() {
		t.Error("emitted names must differ")
	}
	if !strings.Contains(s1.EffectiveName(), "x.") {
		t.Errorf("emitted name should be 'x.<n>', is '%s'", s1.EffectiveName())
	}
	emitted := 0
	for sym := tab.YieldDeclaration(tab.Idents); sym != nil; sym = tab.YieldDeclaration(tab.Idents) {
		emitted++
	}
	if emitted != 2 {
		t.Errorf("both statics should be emitted, got %d", emitted)
	}
}

func TestScopeFrameReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	for i := 0; i < 3; i++ {
		tab.PushScope(tab.Idents)
		sym, err := tab.declare("local", ctype.Int(), Definition, LinkNone)
		if err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		if got := tab.Idents.Lookup(tab.name("local")); got != sym {
			t.Fatalf("round %d: lookup should find this round's symbol", i)
		}
		tab.PopScope(tab.Idents)
	}
	if w := tab.Idents.Watermark(); w != 2 {
		t.Errorf("watermark should be 2 after repeated push/pop, is %d", w)
	}
	if tab.Idents.Lookup(tab.name("local")) != nil {
		t.Error("stale entries of a dirty frame must be invisible")
	}
}

func TestTemporaryPoolReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	temps := make([]*Symbol, 1000)
	for i := range temps {
		temps[i] = tab.CreateTemporary(ctype.Int())
	}
	for _, tmp := range temps {
		tab.Discard(tmp)
	}
	for i := range temps {
		tmp := tab.CreateTemporary(ctype.Long())
		if tmp.Kind != Definition || tmp.Linkage != LinkNone {
			t.Fatalf("recycled temporary %d has wrong facts", i)
		}
		if tmp.N == 0 {
			t.Fatal("temporaries need a nonzero suffix")
		}
	}
	if tab.Allocations() > 1000 {
		t.Errorf("pool should bound allocations at 1000, have %d", tab.Allocations())
	}
}

func TestSyntheticNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.PushScope(tab.Labels)
	tmp := tab.CreateTemporary(ctype.Int())
	if tmp.EffectiveName() != ".t1" {
		t.Errorf("first temporary should be '.t1', is '%s'", tmp.EffectiveName())
	}
	lbl := tab.CreateLabel()
	if lbl.EffectiveName() != ".L1" {
		t.Errorf("first label should be '.L1', is '%s'", lbl.EffectiveName())
	}
	if !lbl.Type.IsVoid() || lbl.Kind != Label {
		t.Error("labels are void-typed label symbols")
	}
	c := tab.CreateConstant(ctype.Double(), ctype.Value{Float: 3.14})
	if c.EffectiveName() != ".C1" || c.Kind != Constant {
		t.Errorf("first constant should be '.C1', is '%s' (%s)", c.EffectiveName(), c.Kind)
	}
	anon := tab.CreateAnonymous(ctype.Struct())
	if anon.EffectiveName() != ".u1" {
		t.Errorf("first anonymous should be '.u1', is '%s'", anon.EffectiveName())
	}
	if anon.Linkage != LinkIntern {
		t.Errorf("file-scope anonymous should have internal linkage, has %s", anon.Linkage)
	}
	if strings.Contains(tmp.EffectiveName(), ".t.") {
		t.Error("synthetic names have no separator before the number")
	}
}

func TestStringLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	lit := tab.CreateString([]byte("abc"))
	if lit.EffectiveName() != ".LC1" {
		t.Errorf("first string should be '.LC1', is '%s'", lit.EffectiveName())
	}
	if !lit.Type.IsArray() || lit.Type.ArrayLen() != 4 {
		t.Errorf("\"abc\" should have type char[4], has %s", lit.Type)
	}
	if lit.Type.SizeOf() != 4 {
		t.Errorf("\"abc\" should have size 4, has %d", lit.Type.SizeOf())
	}
	if lit.String.Raw() != "abc" {
		t.Errorf("string payload should be the literal bytes, is %q", lit.String.Raw())
	}
}

// Scenario: only referenced extern declarations and floating constants
// reach the back-end, besides definitions and strings.
func TestYieldSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.declare("unused", ctype.Int(), Declaration, LinkExtern)
	tab.declare("used", ctype.Int(), Declaration, LinkExtern)
	tab.Idents.Lookup(tab.name("used"))
	k, _ := tab.declare("K", ctype.Double(), Constant, LinkNone)
	k.Constant = ctype.Value{Float: 3.14}
	n, _ := tab.declare("N", ctype.Int(), Constant, LinkNone)
	n.Constant = ctype.Value{Int: 42}
	var emitted []string
	for sym := tab.YieldDeclaration(tab.Idents); sym != nil; sym = tab.YieldDeclaration(tab.Idents) {
		emitted = append(emitted, sym.EffectiveName())
	}
	if len(emitted) != 2 || emitted[0] != "used" || emitted[1] != "K" {
		t.Errorf("expected [used K], got %v", emitted)
	}
	if sym := tab.YieldDeclaration(tab.Idents); sym != nil {
		t.Error("exhausted cursor should keep returning nil")
	}
}

func TestYieldMemcpy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	fn := ctype.Function(ctype.Pointer(ctype.Void()), true,
		ctype.Pointer(ctype.Void()), ctype.Pointer(ctype.Void()), ctype.Unsigned(ctype.Long()))
	sym, _ := tab.declare("memcpy", fn, Declaration, LinkExtern)
	if tab.DeclMemcpy != sym {
		t.Fatal("memcpy declaration should be cached")
	}
	if got := tab.YieldDeclaration(tab.Idents); got != sym {
		t.Error("memcpy is emitted even when never referenced")
	}
}

func TestUndefinedLabel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.PushScope(tab.Labels)
	if _, err := tab.LabelRef(tab.name("L")); err != nil {
		t.Fatal(err)
	}
	err := tab.PopScope(tab.Labels)
	if err == nil {
		t.Fatal("popping the label scope with an undefined label should report it")
	}
	if !strings.Contains(err.Error(), "Undefined label 'L'") {
		t.Errorf("unexpected diagnostic: %v", err)
	}
}

func TestLabelLifecycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.PushScope(tab.Labels)
	ref, err := tab.LabelRef(tab.name("out"))
	if err != nil {
		t.Fatal(err)
	}
	if ref.Kind != Tentative {
		t.Errorf("referenced-only label should be tentative, is %s", ref.Kind)
	}
	def, err := tab.LabelDef(tab.name("out"))
	if err != nil {
		t.Fatal(err)
	}
	if def != ref {
		t.Error("label definition should upgrade the referenced label")
	}
	if def.Kind != Definition {
		t.Errorf("defined label should be a definition, is %s", def.Kind)
	}
	if _, err := tab.LabelDef(tab.name("out")); err == nil {
		t.Error("defining a label twice should be an error")
	}
	if err := tab.PopScope(tab.Labels); err != nil {
		t.Errorf("popping with all labels defined should be clean, got %v", err)
	}
}

func TestVLABackReference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.PushScope(tab.Idents)
	size, _ := tab.declare("n", ctype.Unsigned(ctype.Long()), Definition, LinkNone)
	arr, _ := tab.declare("a", ctype.VLArray(ctype.Int()), Definition, LinkNone)
	if arr.VLAAddress != -1 {
		t.Error("VLA back-reference should start absent")
	}
	tab.BindVLASize(arr, size)
	if got := tab.Idents.SymbolAt(arr.VLAAddress); got != size {
		t.Error("VLA back-reference should index the size symbol")
	}
}

func TestAppendOnlyPositionsStable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	var syms []*Symbol
	for _, n := range []string{"a", "b", "c", "d"} {
		s, _ := tab.declare(n, ctype.Int(), Tentative, LinkExtern)
		syms = append(syms, s)
	}
	tab.PushScope(tab.Idents)
	tab.declare("e", ctype.Int(), Definition, LinkNone)
	tab.PopScope(tab.Idents)
	for i, s := range syms {
		if tab.Idents.SymbolAt(i) != s {
			t.Errorf("symbol %d moved in the append-only list", i)
		}
		if s.ListIndex() != i {
			t.Errorf("symbol %d reports position %d", i, s.ListIndex())
		}
	}
	if v := tab.Idents.CheckConsistency(); v != 0 {
		t.Errorf("namespace should be consistent, %d violations", v)
	}
}

func TestTeardownDrainsEverything(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.declare("x", ctype.Int(), Tentative, LinkExtern)
	tmp := tab.CreateTemporary(ctype.Int())
	tab.Discard(tmp)
	if err := tab.PopScope(tab.Idents); err != nil {
		t.Fatal(err)
	}
	if tab.Idents.Size() != 0 {
		t.Error("teardown should release all symbols")
	}
	if tab.Idents.Watermark() != 0 {
		t.Error("teardown should release all frames")
	}
	// The pool was drained: fresh records are allocated again.
	before := tab.Allocations()
	tab.PushScope(tab.Idents)
	tab.CreateTemporary(ctype.Int())
	if tab.Allocations() != before+1 {
		t.Error("pool should be empty after teardown")
	}
}

func TestDumpFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cee.symtab")
	defer teardown()
	//
	tab, _ := newTestTable()
	tab.PushScope(tab.Idents)
	tab.declare("x", ctype.Int(), Tentative, LinkExtern)
	tab.PushScope(tab.Idents)
	tab.declare("y", ctype.Double(), Definition, LinkNone)
	var buf bytes.Buffer
	tab.Dump(tab.Idents, &buf)
	out := buf.String()
	if !strings.Contains(out, "x") || !strings.Contains(out, "y") {
		t.Errorf("dump misses symbols:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 { // header + 2 symbols
		t.Fatalf("expected 3 dump lines, have %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "  ") {
		t.Errorf("block-scope symbol should be indented:\n%s", out)
	}
	if tab.Idents.Checksum() == "" {
		t.Error("checksum should not be empty")
	}
}
