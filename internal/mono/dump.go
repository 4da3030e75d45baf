package mono

import (
	"fmt"
	"io"
	"strings"

	"keel/internal/ast"
	"keel/internal/types"
)

// Printer returns a block printer over the context's AST with class and
// template datatypes rendered by name.
func (c *Context) Printer(w io.Writer) *ast.Printer {
	return ast.NewPrinterWithOptions(w, c.AST, c.Strings, c.Types, ast.PrintOptions{
		TypeName: c.typeName,
	})
}

// PrintTemplate writes the template's diagnostic dump through a shared
// printer. The indent level is bumped around the block contents and restored
// before returning, so nested dumps stay balanced.
func (c *Context) PrintTemplate(p *ast.Printer, id TemplateID) {
	t := c.Template(id)
	p.PrintIndent()
	p.Printf("class %s (0x%x) {\n", c.Strings.MustLookup(t.Name), id)
	p.Indent()
	p.PrintBlock(c.AST.Funcs.Get(t.Func).Block)
	p.Outdent()
	p.PrintIndent()
	p.Printf("}\n")
}

// PrintClass writes one variant's diagnostic dump through a shared printer.
// The header carries the template name, the variant ordinal and the variant
// handle.
func (c *Context) PrintClass(p *ast.Printer, id ClassID) {
	cl := c.Class(id)
	name := c.Strings.MustLookup(c.Template(cl.Template).Name)
	p.PrintIndent()
	p.Printf("class %s#%d (0x%x) {\n", name, cl.Number, id)
	p.Indent()
	p.PrintBlock(cl.Block)
	p.Outdent()
	p.PrintIndent()
	p.Printf("}\n")
}

// DumpTemplate dumps one template to w.
func (c *Context) DumpTemplate(w io.Writer, id TemplateID) {
	c.PrintTemplate(c.Printer(w), id)
}

// DumpTemplateString renders the template dump as a string.
func (c *Context) DumpTemplateString(id TemplateID) string {
	var sb strings.Builder
	c.DumpTemplate(&sb, id)
	return sb.String()
}

// DumpClass dumps one variant to w.
func (c *Context) DumpClass(w io.Writer, id ClassID) {
	c.PrintClass(c.Printer(w), id)
}

// DumpClassString renders the variant dump as a string.
func (c *Context) DumpClassString(id ClassID) string {
	var sb strings.Builder
	c.DumpClass(&sb, id)
	return sb.String()
}

// typeName names template and class datatypes after their declarations.
// Variants print as the bare class name, the way the declaring source reads;
// the variant ordinal shows up in dump headers instead. Everything else
// falls back to the structural label.
func (c *Context) typeName(id types.TypeID) string {
	tt, ok := c.Types.Lookup(id)
	if !ok {
		return ""
	}
	switch tt.Kind {
	case types.KindTemplate:
		t := c.Template(TemplateID(tt.Payload))
		if t == nil {
			return ""
		}
		return c.Strings.MustLookup(t.Name)
	case types.KindClass:
		cl := c.Class(ClassID(tt.Payload))
		if cl == nil {
			return ""
		}
		return c.Strings.MustLookup(c.Template(cl.Template).Name)
	default:
		return ""
	}
}

// TypeLabel spells a datatype the way dumps read it: declared names for
// template and variant datatypes, structural labels for everything else.
func (c *Context) TypeLabel(id types.TypeID) string {
	if name := c.typeName(id); name != "" {
		return name
	}
	return types.Label(c.Types, id)
}

// Summarize returns a one-line description of a template for list output:
// name, variant count and reference width.
func (c *Context) Summarize(id TemplateID) string {
	t := c.Template(id)
	return fmt.Sprintf("%s: %d variant(s), ref u%d, default=%v",
		c.Strings.MustLookup(t.Name), len(t.Classes), t.RefWidth, t.HasDefault)
}
