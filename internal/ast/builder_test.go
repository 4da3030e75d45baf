package ast

import (
	"testing"

	"keel/internal/source"
	"keel/internal/types"
)

func testBuilder() (*Builder, *source.Interner) {
	return NewBuilder(Hints{}), source.NewInterner()
}

func TestNewFuncBindsNameAndBody(t *testing.T) {
	b, strs := testBuilder()
	parent := b.NewBlock(BlockClass, source.NoFileID, source.Span{})
	name := strs.Intern("destroy")
	fn := b.NewFunc(parent, FuncDestructor, FuncGenerated, LinkageModule, name, source.Span{})

	f := b.Funcs.Get(fn)
	if f.Parent != parent {
		t.Fatalf("parent = %d, want %d", f.Parent, parent)
	}
	if !f.Block.IsValid() {
		t.Fatalf("function has no body block")
	}
	body := b.Blocks.Get(f.Block)
	if body.Owner != fn {
		t.Fatalf("body owner = %d, want %d", body.Owner, fn)
	}
	if got := b.Blocks.Get(parent).Funcs; len(got) != 1 || got[0] != fn {
		t.Fatalf("parent func list = %v, want [%d]", got, fn)
	}
	ident := b.LookupIdent(parent, name)
	if !ident.IsValid() {
		t.Fatalf("function name not bound in parent block")
	}
	info := b.Idents.Get(ident)
	if info.Kind != IdentFunc || info.Func != fn || info.Alias {
		t.Fatalf("unexpected ident binding: %+v", info)
	}
}

func TestNewVarKeepsDeclarationOrder(t *testing.T) {
	b, strs := testBuilder()
	tin := types.NewInterner()
	blk := b.NewBlock(BlockClass, source.NoFileID, source.Span{})
	a := b.NewVar(blk, VarLocal, 0, strs.Intern("a"), tin.Intern(types.MakeUint(types.Width32)), NoExprID, source.Span{})
	c := b.NewVar(blk, VarLocal, 0, strs.Intern("c"), tin.Builtins().String, NoExprID, source.Span{})
	d := b.NewVar(blk, VarLocal, VarGenerated, strs.Intern("d"), tin.Builtins().Bool, NoExprID, source.Span{})

	got := b.Blocks.Get(blk).Vars
	want := []VarID{a, c, d}
	if len(got) != len(want) {
		t.Fatalf("var count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("var order mismatch at %d: got %d, want %d", i, got[i], want[i])
		}
	}
	ident := b.LookupIdent(blk, strs.Intern("c"))
	if info := b.Idents.Get(ident); info == nil || info.Kind != IdentVar || info.Var != c {
		t.Fatalf("variable name not bound: %+v", info)
	}
}

func TestBindAliasMarksAlias(t *testing.T) {
	b, strs := testBuilder()
	home := b.NewBlock(BlockClass, source.NoFileID, source.Span{})
	other := b.NewBlock(BlockClass, source.NoFileID, source.Span{})
	name := strs.Intern("toString")
	fn := b.NewFunc(home, FuncPlain, 0, LinkageModule, name, source.Span{})

	alias := b.BindAlias(other, fn)
	info := b.Idents.Get(alias)
	if !info.Alias {
		t.Fatalf("alias bit not set")
	}
	if info.Kind != IdentFunc || info.Func != fn {
		t.Fatalf("alias resolves to %d, want %d", info.Func, fn)
	}
	if funcs := b.Blocks.Get(other).Funcs; len(funcs) != 0 {
		t.Fatalf("alias must not move function ownership, got %v", funcs)
	}
}

func TestDuplicateBindPanics(t *testing.T) {
	b, strs := testBuilder()
	blk := b.NewBlock(BlockClass, source.NoFileID, source.Span{})
	name := strs.Intern("x")
	b.NewVar(blk, VarLocal, 0, name, types.NoTypeID, NoExprID, source.Span{})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate binding")
		}
	}()
	b.NewVar(blk, VarLocal, 0, name, types.NoTypeID, NoExprID, source.Span{})
}

func TestParamsStopAtFirstLocal(t *testing.T) {
	b, strs := testBuilder()
	tin := types.NewInterner()
	parent := b.NewBlock(BlockClass, source.NoFileID, source.Span{})
	fn := b.NewFunc(parent, FuncConstructor, 0, LinkageModule, strs.Intern("Foo"), source.Span{})
	body := b.Funcs.Get(fn).Block
	p1 := b.NewVar(body, VarParam, VarConst, strs.Intern("self"), types.NoTypeID, NoExprID, source.Span{})
	p2 := b.NewVar(body, VarParam, VarInSignature, strs.Intern("a"), tin.Builtins().Int, NoExprID, source.Span{})
	b.NewVar(body, VarLocal, 0, strs.Intern("tmp"), tin.Builtins().Int, NoExprID, source.Span{})

	params := b.Params(fn)
	if len(params) != 2 || params[0] != p1 || params[1] != p2 {
		t.Fatalf("params = %v, want [%d %d]", params, p1, p2)
	}
}
