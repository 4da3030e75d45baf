package ast

import (
	"keel/internal/source"
	"keel/internal/types"
)

// VarKind separates declared parameters from locals. Class data members are
// locals of the class block.
type VarKind uint8

const (
	VarParam VarKind = iota
	VarLocal
)

// VarFlags carries the per-variable bits the class engine inspects.
type VarFlags uint8

const (
	// VarConst marks read-only variables (the self parameter).
	VarConst VarFlags = 1 << iota
	// VarGenerated marks compiler-made variables, excluded from printed
	// representations.
	VarGenerated
	// VarInstantiated marks variables that occupy storage in an instance.
	VarInstantiated
	// VarIsType marks layout-only variables that never become a field.
	VarIsType
	// VarInSignature marks constructor parameters whose datatype selects
	// the class variant.
	VarInSignature
)

func (f VarFlags) Has(flag VarFlags) bool { return f&flag != 0 }

// Var is one declared variable: a constructor parameter, a local, or a class
// data member.
type Var struct {
	Kind    VarKind
	Flags   VarFlags
	Name    source.StringID
	Block   BlockID
	Type    types.TypeID
	Default ExprID
	Span    source.Span
}

// Vars manages allocation of variables.
type Vars struct {
	Arena *Arena[Var]
}

func NewVars(capHint uint) *Vars {
	return &Vars{
		Arena: NewArena[Var](capHint),
	}
}

func (v *Vars) New(kind VarKind, flags VarFlags, name source.StringID, typ types.TypeID, def ExprID, span source.Span) VarID {
	return VarID(v.Arena.Allocate(Var{
		Kind:    kind,
		Flags:   flags,
		Name:    name,
		Type:    typ,
		Default: def,
		Span:    span,
	}))
}

func (v *Vars) Get(id VarID) *Var {
	return v.Arena.Get(uint32(id))
}
