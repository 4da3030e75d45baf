package mono

import (
	"testing"

	"keel/internal/ast"
	"keel/internal/source"
	"keel/internal/types"
)

func TestDatatypesCompatible(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	listT, listCtor := e.declareTemplate(t, "List", types.Width32, testParam{name: "head", sig: true})
	otherT, _ := e.declareTemplate(t, "Other", types.Width32, testParam{name: "x", sig: true})

	listPH := e.ctx.Template(listT).Datatype
	otherPH := e.ctx.Template(otherT).Datatype
	sig := e.ctx.NewSignature(listCtor, []types.TypeID{listPH})
	concrete := e.ctx.Class(e.ctx.GetOrCreate(listT, sig)).Datatype

	tests := []struct {
		name string
		a, b types.TypeID
		want bool
	}{
		{"identical builtin", bi.Int, bi.Int, true},
		{"different builtins", bi.Int, bi.Uint, false},
		{"placeholder against own variant", listPH, concrete, true},
		{"variant against own placeholder", concrete, listPH, true},
		{"foreign placeholder against variant", otherPH, concrete, false},
		{"two placeholders", listPH, otherPH, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ctx.datatypesCompatible(tt.a, tt.b); got != tt.want {
				t.Fatalf("datatypesCompatible(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSignaturesMatchComparesOnlyMarkedPositions(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	_, ctor := e.declareTemplate(t, "Pair", types.Width32,
		testParam{name: "key", typ: bi.Int, sig: true},
		testParam{name: "val", typ: bi.String, sig: false},
	)
	id1 := e.ctx.NewSignature(ctor, []types.TypeID{bi.Int, bi.String})
	id2 := e.ctx.NewSignature(ctor, []types.TypeID{bi.Int, bi.Bool})
	id3 := e.ctx.NewSignature(ctor, []types.TypeID{bi.Uint, bi.String})

	if !e.ctx.signaturesMatch(e.ctx.Signature(id1), e.ctx.Signature(id2)) {
		t.Fatalf("signatures differing only on an unmarked position must match")
	}
	if e.ctx.signaturesMatch(e.ctx.Signature(id1), e.ctx.Signature(id3)) {
		t.Fatalf("signatures differing on a marked position must not match")
	}
}

func TestSignaturesMatchStopsAtFirstLocal(t *testing.T) {
	e := newTestEnv(t)
	bi := e.types.Builtins()
	_, ctor := e.declareTemplate(t, "Buf", types.Width32, testParam{name: "size", typ: bi.Uint, sig: true})
	body := e.build.Funcs.Get(ctor).Block
	e.build.NewVar(body, ast.VarLocal, 0, e.strings.Intern("scratch"),
		bi.Int, ast.NoExprID, source.Span{File: e.file})
	e.build.NewVar(body, ast.VarParam, ast.VarInSignature, e.strings.Intern("late"),
		types.NoTypeID, ast.NoExprID, source.Span{File: e.file})

	id1 := e.ctx.NewSignature(ctor, []types.TypeID{bi.Uint, bi.Int})
	id2 := e.ctx.NewSignature(ctor, []types.TypeID{bi.Uint, bi.Float})
	if !e.ctx.signaturesMatch(e.ctx.Signature(id1), e.ctx.Signature(id2)) {
		t.Fatalf("comparison must stop at the first non-parameter variable")
	}
}
