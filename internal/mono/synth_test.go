package mono

import (
	"testing"

	"keel/internal/ast"
	"keel/internal/source"
	"keel/internal/types"
)

func TestTemplateSynthesizesDestructor(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	_, ctor := e.declareTemplate(t, "Res", types.Width32,
		testParam{name: "handle", typ: bi.Uint, sig: true},
	)
	body := e.build.Funcs.Get(ctor).Block
	identID := e.build.LookupIdent(body, e.strings.Intern("destroy"))
	if !identID.IsValid() {
		t.Fatalf("destroy not bound next to the constructor")
	}
	info := e.build.Idents.Get(identID)
	if info.Kind != ast.IdentFunc {
		t.Fatalf("destroy bound as %d, want a function", info.Kind)
	}
	fn := e.build.Funcs.Get(info.Func)
	if fn.Kind != ast.FuncDestructor {
		t.Fatalf("destroy kind %v, want destructor", fn.Kind)
	}
	if !fn.Flags.Has(ast.FuncGenerated) {
		t.Fatalf("destroy must be marked generated")
	}
	if fn.Linkage != ast.LinkageModule {
		t.Fatalf("destroy linkage %v, want the constructor's", fn.Linkage)
	}
	params := e.build.Params(info.Func)
	if len(params) != 1 {
		t.Fatalf("destroy has %d parameters, want 1", len(params))
	}
	self := e.build.Vars.Get(params[0])
	if got := e.strings.MustLookup(self.Name); got != "self" {
		t.Fatalf("destroy parameter named %q, want self", got)
	}
	if !self.Flags.Has(ast.VarConst) {
		t.Fatalf("self must be const")
	}
}

func TestDestructorCopiesConstructorLinkage(t *testing.T) {
	e := newTestEnv(t)
	ctor := e.build.NewFunc(e.root, ast.FuncConstructor, 0, ast.LinkageExtern,
		e.strings.Intern("Handle"), source.Span{File: e.file})
	e.ctx.NewTemplate(ctor, types.Width32, source.Span{File: e.file})
	identID := e.build.LookupIdent(e.build.Funcs.Get(ctor).Block, e.strings.Intern("destroy"))
	fn := e.build.Funcs.Get(e.build.Idents.Get(identID).Func)
	if fn.Linkage != ast.LinkageExtern {
		t.Fatalf("destroy linkage %v, want extern", fn.Linkage)
	}
}

func TestBuiltinConstructorGetsNoDestructor(t *testing.T) {
	e := newTestEnv(t)
	ctor := e.build.NewFunc(e.root, ast.FuncConstructor, ast.FuncBuiltin, ast.LinkageModule,
		e.strings.Intern("Intrinsic"), source.Span{File: e.file})
	e.ctx.NewTemplate(ctor, types.Width32, source.Span{File: e.file})
	if id := e.build.LookupIdent(e.build.Funcs.Get(ctor).Block, e.strings.Intern("destroy")); id.IsValid() {
		t.Fatalf("builtin constructor must not get a synthesized destructor")
	}
}

func TestDefaultToStringShape(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	tid, ctor := e.declareTemplate(t, "Rec", types.Width32,
		testParam{name: "a", typ: bi.Int, sig: true},
	)
	sig := e.ctx.NewSignature(ctor, []types.TypeID{bi.Int})
	cid := e.ctx.GetOrCreate(tid, sig)
	e.addMember(t, cid, "a", bi.Int)
	e.addMember(t, cid, "b", bi.String)

	fn := e.ctx.GenerateDefaultToString(cid)
	f := e.build.Funcs.Get(fn)
	if f.Kind != ast.FuncPlain || !f.Flags.Has(ast.FuncGenerated) {
		t.Fatalf("toString kind %v flags %b, want generated plain", f.Kind, f.Flags)
	}
	params := e.build.Params(fn)
	if len(params) != 1 || e.strings.MustLookup(e.build.Vars.Get(params[0]).Name) != "self" {
		t.Fatalf("toString must take a single self parameter")
	}

	ret, ok := e.build.Stmts.Return(e.singleStmt(t, f.Block))
	if !ok {
		t.Fatalf("toString body must be a single return")
	}
	mod, ok := e.build.Exprs.Binary(ret.Value)
	if !ok || mod.Op != ast.ExprBinaryMod {
		t.Fatalf("toString must return a format substitution")
	}
	lit, ok := e.build.Exprs.StringLit(mod.Left)
	if !ok {
		t.Fatalf("left side of the substitution must be the format literal")
	}
	if got := e.strings.MustLookup(lit.Value); got != "{a = %i, b = %s}" {
		t.Fatalf("format literal %q, want {a = %%i, b = %%s}", got)
	}
	tuple, ok := e.build.Exprs.Tuple(mod.Right)
	if !ok {
		t.Fatalf("right side of the substitution must be the member tuple")
	}
	if len(tuple.Elements) != 2 {
		t.Fatalf("member tuple has %d elements, want 2", len(tuple.Elements))
	}
	for i, want := range []string{"a", "b"} {
		member, ok := e.build.Exprs.Member(tuple.Elements[i])
		if !ok {
			t.Fatalf("tuple element %d is not a member access", i)
		}
		if got := e.strings.MustLookup(member.Field); got != want {
			t.Fatalf("tuple element %d accesses %q, want %q", i, got, want)
		}
		target, ok := e.build.Exprs.Ident(member.Target)
		if !ok || e.strings.MustLookup(target.Name) != "self" {
			t.Fatalf("tuple element %d must access through self", i)
		}
	}
	if want := e.types.RegisterTuple([]types.TypeID{bi.Int, bi.String}); e.build.Exprs.Get(mod.Right).Type != want {
		t.Fatalf("member tuple typed %d, want %d", e.build.Exprs.Get(mod.Right).Type, want)
	}
}

func TestDefaultToStringSkipsHiddenMembers(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	tid, ctor := e.declareTemplate(t, "Filtered", types.Width32,
		testParam{name: "a", typ: bi.Int, sig: true},
	)
	sig := e.ctx.NewSignature(ctor, []types.TypeID{bi.Int})
	cid := e.ctx.GetOrCreate(tid, sig)
	blk := e.ctx.Class(cid).Block
	e.addMember(t, cid, "a", bi.Int)
	e.build.NewVar(blk, ast.VarLocal, ast.VarInstantiated|ast.VarIsType,
		e.strings.Intern("Shape"), bi.Uint, ast.NoExprID, source.Span{File: e.file})
	e.build.NewVar(blk, ast.VarLocal, 0,
		e.strings.Intern("unbound"), bi.Uint, ast.NoExprID, source.Span{File: e.file})

	fn := e.ctx.GenerateDefaultToString(cid)
	ret, _ := e.build.Stmts.Return(e.singleStmt(t, e.build.Funcs.Get(fn).Block))
	mod, _ := e.build.Exprs.Binary(ret.Value)
	lit, _ := e.build.Exprs.StringLit(mod.Left)
	if got := e.strings.MustLookup(lit.Value); got != "{a = %i}" {
		t.Fatalf("format literal %q, want only the instantiated data member", got)
	}
	tuple, _ := e.build.Exprs.Tuple(mod.Right)
	if len(tuple.Elements) != 1 {
		t.Fatalf("member tuple has %d elements, want 1", len(tuple.Elements))
	}
}

func TestDefaultToStringEncodesClassMembersAsRefs(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		name       string
		childWidth types.Width
		wantWidth  types.Width
		wantFormat string
	}{
		{"narrow child stays u32", types.Width16, types.Width32, "{kid = %u}"},
		{"wide child keeps its width", types.Width64, types.Width64, "{kid = %u}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			childT, _ := e.declareTemplate(t, "Child"+tt.name[:1], tt.childWidth)
			childCl := e.ctx.GetOrCreateDefault(childT)
			childDT := e.ctx.Class(childCl).Datatype

			bi := e.types.Builtins()
			parentT, parentCtor := e.declareTemplate(t, "Parent"+tt.name[:1], types.Width32,
				testParam{name: "x", typ: bi.Int, sig: true},
			)
			sig := e.ctx.NewSignature(parentCtor, []types.TypeID{bi.Int})
			cid := e.ctx.GetOrCreate(parentT, sig)
			e.addMember(t, cid, "kid", childDT)

			fn := e.ctx.GenerateDefaultToString(cid)
			ret, _ := e.build.Stmts.Return(e.singleStmt(t, e.build.Funcs.Get(fn).Block))
			mod, _ := e.build.Exprs.Binary(ret.Value)
			lit, _ := e.build.Exprs.StringLit(mod.Left)
			if got := e.strings.MustLookup(lit.Value); got != tt.wantFormat {
				t.Fatalf("format literal %q, want %q", got, tt.wantFormat)
			}
			tuple, _ := e.build.Exprs.Tuple(mod.Right)
			cast, ok := e.build.Exprs.Cast(tuple.Elements[0])
			if !ok {
				t.Fatalf("class-typed member must be cast, not recursed into")
			}
			wantType := e.types.Intern(types.MakeUint(tt.wantWidth))
			if got := e.build.Exprs.Get(tuple.Elements[0]).Type; got != wantType {
				t.Fatalf("cast target type %d, want u%d (%d)", got, tt.wantWidth, wantType)
			}
			member, ok := e.build.Exprs.Member(cast.Value)
			if !ok || e.strings.MustLookup(member.Field) != "kid" {
				t.Fatalf("cast must wrap the member access")
			}
		})
	}
}

func TestDefaultToStringFormatsTupleMembers(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	pairDT := e.types.RegisterTuple([]types.TypeID{
		e.types.Intern(types.MakeUint(types.Width32)),
		bi.String,
	})
	tid, ctor := e.declareTemplate(t, "Spot", types.Width32,
		testParam{name: "x", typ: bi.Int, sig: true},
	)
	sig := e.ctx.NewSignature(ctor, []types.TypeID{bi.Int})
	cid := e.ctx.GetOrCreate(tid, sig)
	e.addMember(t, cid, "pos", pairDT)

	fn := e.ctx.GenerateDefaultToString(cid)
	ret, _ := e.build.Stmts.Return(e.singleStmt(t, e.build.Funcs.Get(fn).Block))
	mod, _ := e.build.Exprs.Binary(ret.Value)
	lit, _ := e.build.Exprs.StringLit(mod.Left)
	if got := e.strings.MustLookup(lit.Value); got != "{pos = (%u, %s)}" {
		t.Fatalf("format literal %q, want {pos = (%%u, %%s)}", got)
	}
}

func TestDefaultDumpBody(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	tid, ctor := e.declareTemplate(t, "Logd", types.Width32,
		testParam{name: "a", typ: bi.Int, sig: true},
	)
	sig := e.ctx.NewSignature(ctor, []types.TypeID{bi.Int})
	cid := e.ctx.GetOrCreate(tid, sig)
	e.addMember(t, cid, "a", bi.Int)
	e.ctx.GenerateDefaultToString(cid)

	fn := e.ctx.GenerateDefaultDump(cid)
	f := e.build.Funcs.Get(fn)
	if f.Kind != ast.FuncPlain || !f.Flags.Has(ast.FuncGenerated) {
		t.Fatalf("dump kind %v flags %b, want generated plain", f.Kind, f.Flags)
	}
	pr, ok := e.build.Stmts.Print(e.singleStmt(t, f.Block))
	if !ok {
		t.Fatalf("dump body must be a single print")
	}
	if len(pr.Args) != 2 {
		t.Fatalf("dump prints %d arguments, want 2", len(pr.Args))
	}
	call, ok := e.build.Exprs.Call(pr.Args[0])
	if !ok || len(call.Args) != 0 {
		t.Fatalf("first print argument must be a no-arg call")
	}
	access, ok := e.build.Exprs.Member(call.Target)
	if !ok || e.strings.MustLookup(access.Field) != "toString" {
		t.Fatalf("dump must call toString through self")
	}
	target, ok := e.build.Exprs.Ident(access.Target)
	if !ok || e.strings.MustLookup(target.Name) != "self" {
		t.Fatalf("toString receiver must be self")
	}
	nl, ok := e.build.Exprs.StringLit(pr.Args[1])
	if !ok || e.strings.MustLookup(nl.Value) != "\n" {
		t.Fatalf("second print argument must be the newline literal")
	}
}

func TestFindMethod(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	tid, ctor := e.declareTemplate(t, "Probe", types.Width32,
		testParam{name: "a", typ: bi.Int, sig: true},
	)
	sig := e.ctx.NewSignature(ctor, []types.TypeID{bi.Int})
	cid := e.ctx.GetOrCreate(tid, sig)
	e.addMember(t, cid, "field", bi.Int)

	if got := e.ctx.FindMethod(cid, e.strings.Intern("toString")); got != ast.NoFuncID {
		t.Fatalf("found toString %d before synthesis", got)
	}
	fn := e.ctx.GenerateDefaultToString(cid)
	if got := e.ctx.FindMethod(cid, e.strings.Intern("toString")); got != fn {
		t.Fatalf("FindMethod returned %d, want %d", got, fn)
	}
	if got := e.ctx.FindMethod(cid, e.strings.Intern("field")); got != ast.NoFuncID {
		t.Fatalf("a data member must not count as a method, got %d", got)
	}
	if got := e.ctx.FindMethod(cid, e.strings.Intern("missing")); got != ast.NoFuncID {
		t.Fatalf("an unbound name must not resolve, got %d", got)
	}
}
