package ast

import (
	"fmt"

	"keel/internal/source"
	"keel/internal/types"
)

type Hints struct{ Blocks, Funcs, Vars, Idents, Stmts, Exprs uint }

// Builder aggregates the arenas of one bound declaration graph and performs
// the cross-arena wiring: a function gets its body block and name binding in
// one call, a variable lands in its block's ordered member list.
type Builder struct {
	Blocks *Blocks
	Funcs  *Funcs
	Vars   *Vars
	Idents *Idents
	Stmts  *Stmts
	Exprs  *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Blocks == 0 {
		hints.Blocks = 1 << 5
	}
	if hints.Funcs == 0 {
		hints.Funcs = 1 << 5
	}
	if hints.Vars == 0 {
		hints.Vars = 1 << 6
	}
	if hints.Idents == 0 {
		hints.Idents = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 6
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 7
	}
	return &Builder{
		Blocks: NewBlocks(hints.Blocks),
		Funcs:  NewFuncs(hints.Funcs),
		Vars:   NewVars(hints.Vars),
		Idents: NewIdents(hints.Idents),
		Stmts:  NewStmts(hints.Stmts),
		Exprs:  NewExprs(hints.Exprs),
	}
}

// NewBlock allocates a free-standing block.
func (b *Builder) NewBlock(kind BlockKind, file source.FileID, span source.Span) BlockID {
	return b.Blocks.New(kind, file, span)
}

// NewFunc declares a function in parent: allocates the function and its body
// block, appends it to the parent's function list and binds its name there.
// The body block inherits the parent's file.
func (b *Builder) NewFunc(parent BlockID, kind FuncKind, flags FuncFlags, linkage Linkage, name source.StringID, span source.Span) FuncID {
	parentBlk := b.Blocks.Get(parent)
	if parentBlk == nil {
		panic("ast: function declared outside any block")
	}
	file := parentBlk.File
	fn := b.Funcs.New(kind, flags, linkage, name, span)
	body := b.Blocks.New(BlockFunc, file, span)
	f := b.Funcs.Get(fn)
	f.Parent = parent
	f.Block = body
	b.Blocks.Get(body).Owner = fn
	// Re-fetch: allocating the body may have moved the blocks arena.
	parentBlk = b.Blocks.Get(parent)
	parentBlk.Funcs = append(parentBlk.Funcs, fn)
	b.bind(parent, Ident{Kind: IdentFunc, Name: name, Func: fn})
	return fn
}

// NewVar declares a variable in block, appending it to the ordered member
// list and binding its name.
func (b *Builder) NewVar(block BlockID, kind VarKind, flags VarFlags, name source.StringID, typ types.TypeID, def ExprID, span source.Span) VarID {
	if b.Blocks.Get(block) == nil {
		panic("ast: variable declared outside any block")
	}
	v := b.Vars.New(kind, flags, name, typ, def, span)
	b.Vars.Get(v).Block = block
	blk := b.Blocks.Get(block)
	blk.Vars = append(blk.Vars, v)
	b.bind(block, Ident{Kind: IdentVar, Name: name, Var: v})
	return v
}

// BindAlias binds fn's name in block as an alias: the name resolves to a
// function that stays owned by its original block.
func (b *Builder) BindAlias(block BlockID, fn FuncID) IdentID {
	f := b.Funcs.Get(fn)
	if f == nil {
		panic("ast: alias to invalid function")
	}
	return b.bind(block, Ident{Kind: IdentFunc, Alias: true, Name: f.Name, Func: fn})
}

// LookupIdent resolves name in block's own symbol table. No parent-scope
// walk: the class engine only ever asks about a block's own bindings.
func (b *Builder) LookupIdent(block BlockID, name source.StringID) IdentID {
	blk := b.Blocks.Get(block)
	if blk == nil {
		return NoIdentID
	}
	return blk.names[name]
}

// PushStmt appends a statement to block's body.
func (b *Builder) PushStmt(block BlockID, stmt StmtID) {
	blk := b.Blocks.Get(block)
	if blk == nil {
		panic("ast: statement pushed outside any block")
	}
	blk.Stmts = append(blk.Stmts, stmt)
}

// Params returns the leading parameter variables of a function's body block.
// Parameters always precede locals in declaration order.
func (b *Builder) Params(fn FuncID) []VarID {
	f := b.Funcs.Get(fn)
	if f == nil {
		return nil
	}
	blk := b.Blocks.Get(f.Block)
	if blk == nil {
		return nil
	}
	end := 0
	for _, v := range blk.Vars {
		if b.Vars.Get(v).Kind != VarParam {
			break
		}
		end++
	}
	return blk.Vars[:end]
}

func (b *Builder) bind(block BlockID, ident Ident) IdentID {
	blk := b.Blocks.Get(block)
	if blk == nil {
		panic("ast: bind into invalid block")
	}
	if _, exists := blk.names[ident.Name]; exists {
		panic(fmt.Sprintf("ast: duplicate identifier (string %d) in block %d", ident.Name, block))
	}
	ident.Block = block
	id := b.Idents.New(ident)
	blk.Idents = append(blk.Idents, id)
	blk.names[ident.Name] = id
	return id
}
