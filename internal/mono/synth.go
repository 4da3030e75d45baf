package mono

import (
	"fmt"
	"strings"

	"keel/internal/ast"
	"keel/internal/source"
	"keel/internal/types"
)

// synthesizeDestructor declares "destroy" next to the constructor, with a
// single const self parameter and the constructor's linkage. The body stays
// empty; later passes fill in reclamation. Declared on the template, it is
// shared by every variant.
func (c *Context) synthesizeDestructor(tid TemplateID) ast.FuncID {
	t := c.Template(tid)
	ctor := c.AST.Funcs.Get(t.Func)
	classBlock := ctor.Block
	span := c.AST.Blocks.Get(classBlock).Span
	fn := c.AST.NewFunc(classBlock, ast.FuncDestructor, ast.FuncGenerated, ctor.Linkage,
		c.Strings.Intern("destroy"), span)
	body := c.AST.Funcs.Get(fn).Block
	c.AST.NewVar(body, ast.VarParam, ast.VarConst, c.Strings.Intern("self"),
		types.NoTypeID, ast.NoExprID, span)
	return fn
}

// GenerateDefaultToString synthesizes the fallback toString method for a
// variant: a single statement formatting the instantiated members against a
// "{name = value, ...}" template. Callers must check FindMethod first; a
// user-supplied toString wins and a second synthesis would collide on the
// name.
func (c *Context) GenerateDefaultToString(cid ClassID) ast.FuncID {
	cl := c.Class(cid)
	classBlock := c.AST.Blocks.Get(cl.Block)
	span := classBlock.Span
	linkage := c.AST.Funcs.Get(c.Template(cl.Template).Func).Linkage
	fn := c.AST.NewFunc(cl.Block, ast.FuncPlain, ast.FuncGenerated, linkage,
		c.Strings.Intern("toString"), span)
	body := c.AST.Funcs.Get(fn).Block
	selfName := c.Strings.Intern("self")
	c.AST.NewVar(body, ast.VarParam, ast.VarConst, selfName, types.NoTypeID, ast.NoExprID, span)

	tuple, format := c.buildMemberTuple(cid, selfName, span)
	formatExpr := c.AST.Exprs.NewString(span, c.Strings.Intern(format), c.Types.Builtins().String)
	modExpr := c.AST.Exprs.NewBinary(span, ast.ExprBinaryMod, formatExpr, tuple, c.Types.Builtins().String)
	c.AST.PushStmt(body, c.AST.Stmts.NewReturn(span, modExpr))
	return fn
}

// buildMemberTuple assembles the member-access tuple and its format string,
// walking the variant block's variables in declaration order. Type aliases
// and hidden members are skipped. Members whose datatype is itself a class
// are encoded as a fixed-width reference instead of being recursed into,
// which keeps cyclic object graphs printable.
func (c *Context) buildMemberTuple(cid ClassID, selfName source.StringID, span source.Span) (ast.ExprID, string) {
	cl := c.Class(cid)
	var elems []ast.ExprID
	var elemTypes []types.TypeID
	var format strings.Builder
	format.WriteString("{")
	for _, v := range c.AST.Blocks.Get(cl.Block).Vars {
		vv := c.AST.Vars.Get(v)
		if !vv.Flags.Has(ast.VarInstantiated) || vv.Flags.Has(ast.VarIsType) || vv.Flags.Has(ast.VarGenerated) {
			continue
		}
		dt := vv.Type
		selfExpr := c.AST.Exprs.NewIdent(span, selfName, cl.Datatype)
		elem := c.AST.Exprs.NewMember(vv.Span, selfExpr, vv.Name, dt)
		elemType := dt
		if c.Types.MustLookup(dt).Kind == types.KindClass {
			elemType = c.Types.Intern(types.MakeUint(c.refEncodingWidth(dt)))
			elem = c.AST.Exprs.NewCast(vv.Span, elem, elemType)
		}
		if len(elems) > 0 {
			format.WriteString(", ")
		}
		format.WriteString(c.Strings.MustLookup(vv.Name))
		format.WriteString(" = ")
		c.appendFormatElement(&format, elemType)
		elems = append(elems, elem)
		elemTypes = append(elemTypes, elemType)
	}
	format.WriteString("}")
	tupleType := c.Types.RegisterTuple(elemTypes)
	return c.AST.Exprs.NewTuple(span, elems, tupleType), format.String()
}

// refEncodingWidth picks the width class-typed members are encoded at in
// toString output. 32 bits covers the common case; a class whose reference
// width is wider keeps its full width so the encoding never truncates.
func (c *Context) refEncodingWidth(dt types.TypeID) types.Width {
	tt := c.Types.MustLookup(dt)
	cl := c.Class(ClassID(tt.Payload))
	if cl.RefWidth > types.Width32 {
		return cl.RefWidth
	}
	return types.Width32
}

func (c *Context) appendFormatElement(sb *strings.Builder, dt types.TypeID) {
	tt := c.Types.MustLookup(dt)
	switch tt.Kind {
	case types.KindBool:
		sb.WriteString("%b")
	case types.KindString:
		sb.WriteString("%s")
	case types.KindInt:
		sb.WriteString("%i")
	case types.KindUint:
		sb.WriteString("%u")
	case types.KindFloat:
		sb.WriteString("%f")
	case types.KindTuple:
		info, ok := c.Types.TupleInfo(dt)
		if !ok {
			panic("mono: tuple member without element info")
		}
		sb.WriteString("(")
		for i, elem := range info.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.appendFormatElement(sb, elem)
		}
		sb.WriteString(")")
	default:
		panic(fmt.Sprintf("mono: no print format for %v member", tt.Kind))
	}
}

// GenerateDefaultDump synthesizes the fallback dump method: a single
// statement printing self.toString() and a newline. toString must already be
// bound on the variant, synthesized or user-supplied.
func (c *Context) GenerateDefaultDump(cid ClassID) ast.FuncID {
	cl := c.Class(cid)
	span := c.AST.Blocks.Get(cl.Block).Span
	linkage := c.AST.Funcs.Get(c.Template(cl.Template).Func).Linkage
	fn := c.AST.NewFunc(cl.Block, ast.FuncPlain, ast.FuncGenerated, linkage,
		c.Strings.Intern("dump"), span)
	body := c.AST.Funcs.Get(fn).Block
	c.AST.NewVar(body, ast.VarParam, ast.VarConst, c.Strings.Intern("self"),
		types.NoTypeID, ast.NoExprID, span)

	selfExpr := c.AST.Exprs.NewIdent(span, c.Strings.Intern("self"), cl.Datatype)
	access := c.AST.Exprs.NewMember(span, selfExpr, c.Strings.Intern("toString"), types.NoTypeID)
	call := c.AST.Exprs.NewCall(span, access, nil, c.Types.Builtins().String)
	newline := c.AST.Exprs.NewString(span, c.Strings.Intern("\n"), c.Types.Builtins().String)
	c.AST.PushStmt(body, c.AST.Stmts.NewPrint(span, []ast.ExprID{call, newline}))
	return fn
}

// FindMethod reports the function bound to name in the variant's own block,
// or the zero handle when the name is unbound or names something that is not
// a function. Alias bindings count.
func (c *Context) FindMethod(cid ClassID, name source.StringID) ast.FuncID {
	cl := c.Class(cid)
	ident := c.AST.LookupIdent(cl.Block, name)
	if !ident.IsValid() {
		return ast.NoFuncID
	}
	info := c.AST.Idents.Get(ident)
	if info.Kind != ast.IdentFunc {
		return ast.NoFuncID
	}
	return info.Func
}
