package mono

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/types"
)

// datatypesCompatible reports whether two bound types agree at a
// signature-affecting position. Identical types match. Beyond that, a
// template's placeholder datatype is compatible with any concrete variant of
// the same template, on either side: a signature recorded before
// self-reference resolution still matches concrete instantiations later, and
// a placeholder-carrying call site resolves to the variant that already
// exists.
func (c *Context) datatypesCompatible(a, b types.TypeID) bool {
	if a == b {
		return true
	}
	return c.placeholderCovers(a, b) || c.placeholderCovers(b, a)
}

// placeholderCovers reports whether ph is a template placeholder and concrete
// is a variant of that template.
func (c *Context) placeholderCovers(ph, concrete types.TypeID) bool {
	pt := c.Types.MustLookup(ph)
	ct := c.Types.MustLookup(concrete)
	if pt.Kind != types.KindTemplate || ct.Kind != types.KindClass {
		return false
	}
	return c.Class(ClassID(ct.Payload)).Template == TemplateID(pt.Payload)
}

// signaturesMatch compares two call-site signatures of the same constructor
// position by position. Only parameters marked signature-affecting are
// compared; the walk follows the constructor's declared variables and stops
// at the first non-parameter, treating everything seen so far as a match.
func (c *Context) signaturesMatch(newSig, oldSig *Signature) bool {
	body := c.AST.Funcs.Get(newSig.Func).Block
	xParam := 0
	for _, v := range c.AST.Blocks.Get(body).Vars {
		vv := c.AST.Vars.Get(v)
		if vv.Kind != ast.VarParam {
			return true
		}
		if vv.Flags.Has(ast.VarInSignature) {
			if xParam >= len(newSig.Params) || xParam >= len(oldSig.Params) {
				panic(fmt.Sprintf("mono: signature shorter than parameter list of constructor %d", newSig.Func))
			}
			if !c.datatypesCompatible(newSig.Params[xParam], oldSig.Params[xParam]) {
				return false
			}
		}
		xParam++
	}
	return true
}

// findExistingClass scans the template's variants for one whose first bound
// signature matches. A variant with no bound signature is the canonical
// default and matches anything, but may only exist on a template whose
// default flag is set.
func (c *Context) findExistingClass(sig SignatureID) ClassID {
	s := c.Signature(sig)
	tid, ok := c.TemplateByFunc(s.Func)
	if !ok {
		panic(fmt.Sprintf("mono: constructor %d has no template", s.Func))
	}
	t := c.Template(tid)
	for _, cid := range t.Classes {
		first := c.Class(cid).FirstSignature()
		if !first.IsValid() {
			if !t.HasDefault {
				panic(fmt.Sprintf("mono: template %d holds an unbound variant without a default", tid))
			}
			return cid
		}
		if c.signaturesMatch(s, c.Signature(first)) {
			return cid
		}
	}
	return NoClassID
}
