package mono

import (
	"testing"

	"keel/internal/ast"
	"keel/internal/source"
	"keel/internal/types"
)

// testParam describes one constructor parameter for fixture templates.
type testParam struct {
	name string
	typ  types.TypeID
	sig  bool
}

type testEnv struct {
	strings *source.Interner
	types   *types.Interner
	build   *ast.Builder
	ctx     *Context
	root    ast.BlockID
	file    source.FileID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	strs := source.NewInterner()
	tin := types.NewInterner()
	files := source.NewFileSet()
	file := files.AddVirtual("fixture.kl", []byte("class fixtures\n"))
	build := ast.NewBuilder(ast.Hints{})
	root := build.NewBlock(ast.BlockModule, file, source.Span{File: file, End: 14})
	return &testEnv{
		strings: strs,
		types:   tin,
		build:   build,
		ctx:     NewContext(strs, tin, build),
		root:    root,
		file:    file,
	}
}

// declareTemplate declares a constructor with the given parameters in the
// module root and registers a template for it.
func (e *testEnv) declareTemplate(t *testing.T, name string, width types.Width, params ...testParam) (TemplateID, ast.FuncID) {
	t.Helper()
	ctor := e.build.NewFunc(e.root, ast.FuncConstructor, 0, ast.LinkageModule,
		e.strings.Intern(name), source.Span{File: e.file})
	body := e.build.Funcs.Get(ctor).Block
	for _, p := range params {
		var flags ast.VarFlags
		if p.sig {
			flags |= ast.VarInSignature
		}
		e.build.NewVar(body, ast.VarParam, flags, e.strings.Intern(p.name),
			p.typ, ast.NoExprID, source.Span{File: e.file})
	}
	return e.ctx.NewTemplate(ctor, width, source.Span{File: e.file}), ctor
}

// addMember adds an instantiated data member to a variant's block, the way
// binding populates variants after resolution.
func (e *testEnv) addMember(t *testing.T, cid ClassID, name string, typ types.TypeID) ast.VarID {
	t.Helper()
	return e.build.NewVar(e.ctx.Class(cid).Block, ast.VarLocal, ast.VarInstantiated,
		e.strings.Intern(name), typ, ast.NoExprID, source.Span{File: e.file})
}

// singleStmt asserts a block holds exactly one statement and returns it.
func (e *testEnv) singleStmt(t *testing.T, block ast.BlockID) ast.StmtID {
	t.Helper()
	stmts := e.build.Blocks.Get(block).Stmts
	if len(stmts) != 1 {
		t.Fatalf("block %d has %d statements, want 1", block, len(stmts))
	}
	return stmts[0]
}
