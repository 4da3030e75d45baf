package ast

import (
	"keel/internal/source"
)

// IdentKind says what object an identifier resolves to.
type IdentKind uint8

const (
	IdentFunc IdentKind = iota
	IdentVar
)

// Ident binds a name inside one block to a function or a variable. Alias
// marks bindings that resolve to a function owned by another block, the way
// a default class variant shares its template's methods instead of copying
// them.
type Ident struct {
	Kind  IdentKind
	Alias bool
	Name  source.StringID
	Block BlockID
	Func  FuncID // when Kind == IdentFunc
	Var   VarID  // when Kind == IdentVar
}

// Idents manages allocation of identifiers.
type Idents struct {
	Arena *Arena[Ident]
}

func NewIdents(capHint uint) *Idents {
	return &Idents{
		Arena: NewArena[Ident](capHint),
	}
}

func (i *Idents) New(ident Ident) IdentID {
	return IdentID(i.Arena.Allocate(ident))
}

func (i *Idents) Get(id IdentID) *Ident {
	return i.Arena.Get(uint32(id))
}
