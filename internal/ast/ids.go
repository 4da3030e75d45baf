package ast

type (
	// главные сущности
	BlockID uint32
	FuncID  uint32
	VarID   uint32
	IdentID uint32
	StmtID  uint32
	ExprID  uint32
	// подсущности
	PayloadID uint32
)

const (
	NoBlockID   BlockID   = 0
	NoFuncID    FuncID    = 0
	NoVarID     VarID     = 0
	NoIdentID   IdentID   = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoPayloadID PayloadID = 0
)

func (id BlockID) IsValid() bool   { return id != NoBlockID }
func (id FuncID) IsValid() bool    { return id != NoFuncID }
func (id VarID) IsValid() bool     { return id != NoVarID }
func (id IdentID) IsValid() bool   { return id != NoIdentID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
