package mono

import (
	"fmt"

	"fortio.org/safecast"

	"keel/internal/ast"
	"keel/internal/source"
	"keel/internal/types"
)

// GetOrCreate resolves a call-site signature to a concrete variant, minting
// one if no existing variant matches. Resolution is memoized on the
// signature, and the returned variant records the signature so later
// candidates can match against it.
func (c *Context) GetOrCreate(tid TemplateID, sig SignatureID) ClassID {
	s := c.Signature(sig)
	t := c.Template(tid)
	if t.Func != s.Func {
		panic(fmt.Sprintf("mono: signature %d bound to constructor %d, not template %d", sig, s.Func, tid))
	}
	if s.Class.IsValid() {
		return s.Class
	}
	cid := c.findExistingClass(sig)
	if !cid.IsValid() {
		cid = c.classCreate(tid)
	}
	c.bindSignature(sig, cid)
	return cid
}

func (c *Context) bindSignature(sig SignatureID, cid ClassID) {
	c.Signature(sig).Class = cid
	cl := c.Class(cid)
	cl.Sigs = append(cl.Sigs, sig)
}

// classCreate mints the next variant of a template. The variant block lives
// in the same source unit as the constructor, and the hidden free-list
// member is typed as uint(refWidth).
func (c *Context) classCreate(tid TemplateID) ClassID {
	t := c.Template(tid)
	number, err := safecast.Conv[uint32](len(t.Classes) + 1)
	if err != nil {
		panic(fmt.Errorf("variant number overflow: %w", err))
	}
	ctorBody := c.AST.Funcs.Get(t.Func).Block
	file := c.AST.Blocks.Get(ctorBody).File
	blk := c.AST.NewBlock(ast.BlockClass, file, t.Span)
	cid := c.allocClass(Class{
		Template: tid,
		Number:   number,
		RefWidth: t.RefWidth,
		Block:    blk,
	})
	t.Classes = append(t.Classes, cid)
	cl := c.Class(cid)
	cl.Datatype = c.Types.Intern(types.MakeClass(uint32(cid)))
	c.AST.NewVar(blk, ast.VarLocal, ast.VarGenerated|ast.VarInstantiated,
		c.Strings.Intern("nextFree"), c.Types.Intern(types.MakeUint(t.RefWidth)), ast.NoExprID, source.Span{})
	return cid
}

// GetOrCreateDefault resolves the template's canonical default variant,
// creating it when the template has none. Templates with signature-affecting
// parameters have no default; the zero handle is returned for those. Once
// set, the default flag is never cleared.
func (c *Context) GetOrCreateDefault(tid TemplateID) ClassID {
	t := c.Template(tid)
	if !t.HasDefault {
		if c.hasSignatureParams(tid) {
			return NoClassID
		}
		if len(t.Classes) == 0 {
			c.defaultClassCreate(tid)
		}
		t.HasDefault = true
	}
	return t.Classes[0]
}

// defaultClassCreate mints the canonical default variant. Unlike signature
// minting, the variant block has no owning source unit, the free-list member
// is typed as the variant's own datatype, and the template's methods are
// re-exposed in the variant block as alias identifiers.
func (c *Context) defaultClassCreate(tid TemplateID) ClassID {
	t := c.Template(tid)
	number, err := safecast.Conv[uint32](len(t.Classes) + 1)
	if err != nil {
		panic(fmt.Errorf("variant number overflow: %w", err))
	}
	blk := c.AST.NewBlock(ast.BlockClass, source.NoFileID, t.Span)
	cid := c.allocClass(Class{
		Template: tid,
		Number:   number,
		RefWidth: t.RefWidth,
		Block:    blk,
	})
	t.Classes = append(t.Classes, cid)
	cl := c.Class(cid)
	cl.Datatype = c.Types.Intern(types.MakeClass(uint32(cid)))
	c.AST.NewVar(blk, ast.VarLocal, ast.VarGenerated|ast.VarInstantiated,
		c.Strings.Intern("nextFree"), cl.Datatype, ast.NoExprID, source.Span{})
	ctorBody := c.AST.Funcs.Get(t.Func).Block
	for _, fn := range c.AST.Blocks.Get(ctorBody).Funcs {
		c.AST.BindAlias(blk, fn)
	}
	return cid
}
