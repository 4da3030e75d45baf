package ast

import (
	"keel/internal/source"
	"keel/internal/types"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents an identifier expression.
	ExprIdent ExprKind = iota
	// ExprString represents a string literal expression.
	ExprString
	// ExprMember represents a member access expression.
	ExprMember
	// ExprTuple represents a tuple expression.
	ExprTuple
	// ExprCast represents a cast expression.
	ExprCast
	// ExprCall represents a function call expression.
	ExprCall
	// ExprBinary represents a binary expression.
	ExprBinary
)

// Expr represents an expression node with its bound datatype. The graph here
// is already typed; Type is filled in at construction.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Type    types.TypeID
	Payload PayloadID
}

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	// ExprBinaryMod doubles as the format-substitution operator when the
	// left operand is a string.
	ExprBinaryMod
)

// String returns the symbol representation of a binary operator.
func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryMod:
		return "%"
	default:
		return "?"
	}
}

// ExprIdentData holds identifier expression details.
type ExprIdentData struct {
	Name source.StringID
}

// ExprStringData holds string literal expression details.
type ExprStringData struct {
	Value source.StringID
}

// ExprMemberData holds member access expression details.
type ExprMemberData struct {
	Target ExprID
	Field  source.StringID
}

// ExprTupleData holds tuple expression details.
type ExprTupleData struct {
	Elements []ExprID
}

// ExprCastData holds cast expression details; the cast target is the
// expression's bound type.
type ExprCastData struct {
	Value ExprID
}

// ExprCallData holds function call expression details.
type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

// ExprBinaryData holds binary operation expression details.
type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Strings  *Arena[ExprStringData]
	Members  *Arena[ExprMemberData]
	Tuples   *Arena[ExprTupleData]
	Casts    *Arena[ExprCastData]
	Calls    *Arena[ExprCallData]
	Binaries *Arena[ExprBinaryData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated to capHint.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Strings:  NewArena[ExprStringData](capHint),
		Members:  NewArena[ExprMemberData](capHint),
		Tuples:   NewArena[ExprTupleData](capHint),
		Casts:    NewArena[ExprCastData](capHint),
		Calls:    NewArena[ExprCallData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, typ types.TypeID, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Type:    typ,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID, typ types.TypeID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, typ, PayloadID(payload))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

// NewString creates a new string literal expression.
func (e *Exprs) NewString(span source.Span, value source.StringID, typ types.TypeID) ExprID {
	payload := e.Strings.Allocate(ExprStringData{Value: value})
	return e.new(ExprString, span, typ, PayloadID(payload))
}

// StringLit returns the string literal data for the given expression ID.
func (e *Exprs) StringLit(id ExprID) (*ExprStringData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprString {
		return nil, false
	}
	return e.Strings.Get(uint32(expr.Payload)), true
}

// NewMember creates a new member access expression.
func (e *Exprs) NewMember(span source.Span, target ExprID, field source.StringID, typ types.TypeID) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Target: target, Field: field})
	return e.new(ExprMember, span, typ, PayloadID(payload))
}

// Member returns the member data for the given expression ID.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMember {
		return nil, false
	}
	return e.Members.Get(uint32(expr.Payload)), true
}

// NewTuple creates a new tuple expression.
func (e *Exprs) NewTuple(span source.Span, elements []ExprID, typ types.TypeID) ExprID {
	payload := e.Tuples.Allocate(ExprTupleData{
		Elements: append([]ExprID(nil), elements...),
	})
	return e.new(ExprTuple, span, typ, PayloadID(payload))
}

// Tuple returns the tuple data for the given expression ID.
func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprTuple {
		return nil, false
	}
	return e.Tuples.Get(uint32(expr.Payload)), true
}

// NewCast creates a new cast expression converting value to the given type.
func (e *Exprs) NewCast(span source.Span, value ExprID, to types.TypeID) ExprID {
	payload := e.Casts.Allocate(ExprCastData{Value: value})
	return e.new(ExprCast, span, to, PayloadID(payload))
}

// Cast returns the cast data for the given expression ID.
func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(expr.Payload)), true
}

// NewCall creates a new function call expression.
func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID, typ types.TypeID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{
		Target: target,
		Args:   append([]ExprID(nil), args...),
	})
	return e.new(ExprCall, span, typ, PayloadID(payload))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID, typ types.TypeID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, typ, PayloadID(payload))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}
