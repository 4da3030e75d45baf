package ast

import (
	"keel/internal/source"
)

// StmtKind enumerates the statement kinds the class engine splices.
type StmtKind uint8

const (
	// StmtReturn returns one expression.
	StmtReturn StmtKind = iota
	// StmtPrint prints its arguments in order.
	StmtPrint
	// StmtExpr evaluates an expression for its effect.
	StmtExpr
)

// Stmt is a statement node. Payload indexes the per-kind data arena.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// StmtReturnData holds return statement details.
type StmtReturnData struct {
	Value ExprID
}

// StmtPrintData holds print statement details.
type StmtPrintData struct {
	Args []ExprID
}

// StmtExprData holds expression statement details.
type StmtExprData struct {
	Expr ExprID
}

// Stmts manages allocation of statements.
type Stmts struct {
	Arena   *Arena[Stmt]
	Returns *Arena[StmtReturnData]
	Prints  *Arena[StmtPrintData]
	ExprSts *Arena[StmtExprData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Returns: NewArena[StmtReturnData](capHint),
		Prints:  NewArena[StmtPrintData](capHint),
		ExprSts: NewArena[StmtExprData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the statement with the given ID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// NewReturn creates a new return statement.
func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := s.Returns.Allocate(StmtReturnData{Value: value})
	return s.new(StmtReturn, span, PayloadID(payload))
}

// Return returns the return data for the given statement ID.
func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(stmt.Payload)), true
}

// NewPrint creates a new print statement.
func (s *Stmts) NewPrint(span source.Span, args []ExprID) StmtID {
	payload := s.Prints.Allocate(StmtPrintData{
		Args: append([]ExprID(nil), args...),
	})
	return s.new(StmtPrint, span, PayloadID(payload))
}

// Print returns the print data for the given statement ID.
func (s *Stmts) Print(id StmtID) (*StmtPrintData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtPrint {
		return nil, false
	}
	return s.Prints.Get(uint32(stmt.Payload)), true
}

// NewExpr creates a new expression statement.
func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.ExprSts.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

// Expr returns the expression data for the given statement ID.
func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtExpr {
		return nil, false
	}
	return s.ExprSts.Get(uint32(stmt.Payload)), true
}
