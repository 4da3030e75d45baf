package mono

import (
	"slices"

	"keel/internal/ast"
	"keel/internal/types"
)

// Signature records the positional argument types of one constructor call
// site. Resolution memoizes the chosen variant in Class, so repeated calls
// through the same signature are a single map-free lookup.
type Signature struct {
	Func   ast.FuncID // constructor being called
	Params []types.TypeID
	Class  ClassID
}

// NewSignature registers a call-site signature for a constructor. Params are
// positional and aligned with the constructor's declared parameters; the
// slice is cloned.
func (c *Context) NewSignature(constructor ast.FuncID, params []types.TypeID) SignatureID {
	if c.AST.Funcs.Get(constructor) == nil {
		panic("mono: signature requires a constructor")
	}
	return c.allocSignature(Signature{
		Func:   constructor,
		Params: slices.Clone(params),
	})
}
