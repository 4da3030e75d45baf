package ast

import (
	"keel/internal/source"
)

// FuncKind enumerates the function roles the class engine distinguishes.
type FuncKind uint8

const (
	FuncPlain FuncKind = iota
	FuncConstructor
	FuncDestructor
)

func (k FuncKind) String() string {
	switch k {
	case FuncPlain:
		return "plain"
	case FuncConstructor:
		return "constructor"
	case FuncDestructor:
		return "destructor"
	default:
		return "?"
	}
}

// FuncFlags carries per-function bits.
type FuncFlags uint8

const (
	// FuncBuiltin marks intrinsic functions; templates bound to them get no
	// synthesized destructor.
	FuncBuiltin FuncFlags = 1 << iota
	// FuncGenerated marks compiler-made functions (destroy, default
	// toString/dump).
	FuncGenerated
)

func (f FuncFlags) Has(flag FuncFlags) bool { return f&flag != 0 }

// Linkage says how a function is reachable outside its declaring unit.
type Linkage uint8

const (
	LinkageModule Linkage = iota
	LinkagePackage
	LinkageExtern
)

func (l Linkage) String() string {
	switch l {
	case LinkageModule:
		return "module"
	case LinkagePackage:
		return "package"
	case LinkageExtern:
		return "extern"
	default:
		return "?"
	}
}

// Func is one function declaration. Parent is the block that declares it;
// Block is its body. Both are refers-to edges, ownership lives in the arenas.
type Func struct {
	Kind    FuncKind
	Flags   FuncFlags
	Linkage Linkage
	Name    source.StringID
	Parent  BlockID
	Block   BlockID
	Span    source.Span
}

// Funcs manages allocation of functions.
type Funcs struct {
	Arena *Arena[Func]
}

func NewFuncs(capHint uint) *Funcs {
	return &Funcs{
		Arena: NewArena[Func](capHint),
	}
}

func (f *Funcs) New(kind FuncKind, flags FuncFlags, linkage Linkage, name source.StringID, span source.Span) FuncID {
	return FuncID(f.Arena.Allocate(Func{
		Kind:    kind,
		Flags:   flags,
		Linkage: linkage,
		Name:    name,
		Span:    span,
	}))
}

func (f *Funcs) Get(id FuncID) *Func {
	return f.Arena.Get(uint32(id))
}
