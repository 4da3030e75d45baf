package ast

import (
	"keel/internal/source"
)

// BlockKind says what a block backs: a module scope, a function body or a
// class member list.
type BlockKind uint8

const (
	// BlockModule is the root scope of one compiled module.
	BlockModule BlockKind = iota
	// BlockFunc is the body of a function.
	BlockFunc
	// BlockClass holds the data members and method bindings of one class.
	BlockClass
)

// Block is one scope of the bound declaration graph. Vars keeps declaration
// order, which is the member-introspection contract the class engine relies
// on. Idents is the block's symbol table in binding order; names indexes it.
type Block struct {
	Kind   BlockKind
	Owner  FuncID // body owner, NoFuncID for class blocks
	File   source.FileID
	Span   source.Span
	Vars   []VarID
	Funcs  []FuncID
	Stmts  []StmtID
	Idents []IdentID

	names map[source.StringID]IdentID
}

// Blocks manages allocation of blocks.
type Blocks struct {
	Arena *Arena[Block]
}

func NewBlocks(capHint uint) *Blocks {
	return &Blocks{
		Arena: NewArena[Block](capHint),
	}
}

func (b *Blocks) New(kind BlockKind, file source.FileID, span source.Span) BlockID {
	return BlockID(b.Arena.Allocate(Block{
		Kind:  kind,
		File:  file,
		Span:  span,
		names: make(map[source.StringID]IdentID),
	}))
}

func (b *Blocks) Get(id BlockID) *Block {
	return b.Arena.Get(uint32(id))
}
