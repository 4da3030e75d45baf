package mono

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/source"
	"keel/internal/types"
)

// Template is a class declaration before specialization. It is bound to the
// constructor function that declared it and owns the concrete variants minted
// from it, in creation order.
type Template struct {
	Name     source.StringID
	Func     ast.FuncID // constructor that declared the class
	RefWidth types.Width
	Datatype types.TypeID // placeholder datatype, compatible with every variant
	Span     source.Span

	// HasDefault is set once GetOrCreateDefault succeeds and never cleared.
	HasDefault bool

	Classes []ClassID
}

// NewTemplate registers a class template for a constructor. The placeholder
// datatype is interned immediately so that declarations referring to the
// class by name resolve before any variant exists. Unless the constructor is
// builtin, a destructor is synthesized next to it.
func (c *Context) NewTemplate(constructor ast.FuncID, refWidth types.Width, span source.Span) TemplateID {
	fn := c.AST.Funcs.Get(constructor)
	if fn == nil {
		panic("mono: template requires a constructor")
	}
	if _, ok := c.templateByFunc[constructor]; ok {
		panic(fmt.Sprintf("mono: constructor %d already owns a template", constructor))
	}
	id := c.allocTemplate(Template{
		Name:     fn.Name,
		Func:     constructor,
		RefWidth: refWidth,
		Span:     span,
	})
	c.Template(id).Datatype = c.Types.Intern(types.MakeTemplate(uint32(id)))
	c.templateByFunc[constructor] = id
	if !fn.Flags.Has(ast.FuncBuiltin) {
		c.synthesizeDestructor(id)
	}
	return id
}

// CopyTemplate re-registers a template under another constructor, keeping the
// reference width and declaration site. Variants are not copied; the copy
// mints its own.
func (c *Context) CopyTemplate(id TemplateID, constructor ast.FuncID) TemplateID {
	t := c.Template(id)
	if t == nil {
		panic("mono: copy of invalid template")
	}
	return c.NewTemplate(constructor, t.RefWidth, t.Span)
}

// hasSignatureParams reports whether any constructor parameter participates
// in variant selection.
func (c *Context) hasSignatureParams(id TemplateID) bool {
	t := c.Template(id)
	body := c.AST.Funcs.Get(t.Func).Block
	for _, v := range c.AST.Blocks.Get(body).Vars {
		if c.AST.Vars.Get(v).Flags.Has(ast.VarInSignature) {
			return true
		}
	}
	return false
}
