package ast

import (
	"fmt"
	"io"

	"keel/internal/source"
	"keel/internal/types"
)

// TypeNameFunc resolves a datatype to a display name. Used to substitute
// declared class names for the raw handles types.Label falls back to.
type TypeNameFunc func(types.TypeID) string

// PrintOptions configures block printing.
type PrintOptions struct {
	TypeName TypeNameFunc
}

// Printer renders blocks, functions, statements and expressions as source-like
// text for diagnostics. The indent level is carried by the printer and shared
// by every nested print, so callers that wrap output around a block must
// increment before and decrement after.
type Printer struct {
	w       io.Writer
	b       *Builder
	strings *source.Interner
	typesIn *types.Interner
	opts    PrintOptions
	indent  int
}

// NewPrinter creates a block printer.
func NewPrinter(w io.Writer, b *Builder, stringsIn *source.Interner, typesIn *types.Interner) *Printer {
	return NewPrinterWithOptions(w, b, stringsIn, typesIn, PrintOptions{})
}

// NewPrinterWithOptions creates a block printer with the given options.
func NewPrinterWithOptions(w io.Writer, b *Builder, stringsIn *source.Interner, typesIn *types.Interner, opts PrintOptions) *Printer {
	return &Printer{w: w, b: b, strings: stringsIn, typesIn: typesIn, opts: opts}
}

// Indent increases the shared indent level.
func (p *Printer) Indent() { p.indent++ }

// Outdent decreases the shared indent level.
func (p *Printer) Outdent() { p.indent-- }

// PrintIndent writes the current indentation.
func (p *Printer) PrintIndent() {
	for i := 0; i < p.indent; i++ {
		p.Printf("  ")
	}
}

// Printf writes formatted text to the printer's writer.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// PrintBlock prints a block's contents: variables in declaration order,
// functions, then statements.
func (p *Printer) PrintBlock(id BlockID) {
	p.printBlockContents(id, true)
}

// printBlockContents renders a block; function bodies pass includeParams
// false because PrintFunc already showed the parameters on the signature
// line.
func (p *Printer) printBlockContents(id BlockID, includeParams bool) {
	blk := p.b.Blocks.Get(id)
	if blk == nil {
		return
	}
	for _, v := range blk.Vars {
		if !includeParams && p.b.Vars.Get(v).Kind == VarParam {
			continue
		}
		p.printVar(v)
	}
	for _, fn := range blk.Funcs {
		p.PrintFunc(fn)
	}
	for _, st := range blk.Stmts {
		p.printStmt(st)
	}
}

// PrintFunc prints a function declaration with its body.
func (p *Printer) PrintFunc(id FuncID) {
	f := p.b.Funcs.Get(id)
	if f == nil {
		return
	}
	p.PrintIndent()
	if f.Flags.Has(FuncGenerated) {
		p.Printf("@generated ")
	}
	if f.Flags.Has(FuncBuiltin) {
		p.Printf("@builtin ")
	}
	switch f.Kind {
	case FuncConstructor:
		p.Printf("@constructor ")
	case FuncDestructor:
		p.Printf("@destructor ")
	}
	p.Printf("fn %s(", p.name(f.Name))
	for i, param := range p.b.Params(id) {
		if i > 0 {
			p.Printf(", ")
		}
		p.printParam(param)
	}
	p.Printf(") {\n")
	p.Indent()
	p.printBlockContents(f.Block, false)
	p.Outdent()
	p.PrintIndent()
	p.Printf("}\n")
}

func (p *Printer) printParam(id VarID) {
	v := p.b.Vars.Get(id)
	p.Printf("%s", p.name(v.Name))
	if v.Type.IsValid() {
		p.Printf(": %s", p.typeStr(v.Type))
	}
	if v.Default.IsValid() {
		p.Printf(" = ")
		p.printExpr(v.Default)
	}
	p.printVarFlags(v.Flags)
}

func (p *Printer) printVar(id VarID) {
	v := p.b.Vars.Get(id)
	p.PrintIndent()
	if v.Kind == VarParam {
		p.Printf("param %s", p.name(v.Name))
	} else {
		p.Printf("let %s", p.name(v.Name))
	}
	if v.Type.IsValid() {
		p.Printf(": %s", p.typeStr(v.Type))
	}
	if v.Default.IsValid() {
		p.Printf(" = ")
		p.printExpr(v.Default)
	}
	p.printVarFlags(v.Flags)
	p.Printf("\n")
}

func (p *Printer) printVarFlags(flags VarFlags) {
	if flags.Has(VarConst) {
		p.Printf(" [const]")
	}
	if flags.Has(VarIsType) {
		p.Printf(" [type]")
	}
	if flags.Has(VarInSignature) {
		p.Printf(" [sig]")
	}
	if flags.Has(VarGenerated) {
		p.Printf(" [gen]")
	}
}

func (p *Printer) printStmt(id StmtID) {
	st := p.b.Stmts.Get(id)
	if st == nil {
		return
	}
	p.PrintIndent()
	switch st.Kind {
	case StmtReturn:
		data, _ := p.b.Stmts.Return(id)
		p.Printf("return")
		if data != nil && data.Value.IsValid() {
			p.Printf(" ")
			p.printExpr(data.Value)
		}
		p.Printf("\n")
	case StmtPrint:
		data, _ := p.b.Stmts.Print(id)
		p.Printf("print(")
		if data != nil {
			for i, arg := range data.Args {
				if i > 0 {
					p.Printf(", ")
				}
				p.printExpr(arg)
			}
		}
		p.Printf(")\n")
	case StmtExpr:
		data, _ := p.b.Stmts.Expr(id)
		if data != nil {
			p.printExpr(data.Expr)
		}
		p.Printf("\n")
	default:
		p.Printf("<stmt#%d>\n", id)
	}
}

func (p *Printer) printExpr(id ExprID) {
	e := p.b.Exprs.Get(id)
	if e == nil {
		p.Printf("<nil>")
		return
	}
	switch e.Kind {
	case ExprIdent:
		data, _ := p.b.Exprs.Ident(id)
		p.Printf("%s", p.name(data.Name))
	case ExprString:
		data, _ := p.b.Exprs.StringLit(id)
		value, _ := p.strings.Lookup(data.Value)
		p.Printf("%q", value)
	case ExprMember:
		data, _ := p.b.Exprs.Member(id)
		p.printExpr(data.Target)
		p.Printf(".%s", p.name(data.Field))
	case ExprTuple:
		data, _ := p.b.Exprs.Tuple(id)
		p.Printf("(")
		for i, elem := range data.Elements {
			if i > 0 {
				p.Printf(", ")
			}
			p.printExpr(elem)
		}
		p.Printf(")")
	case ExprCast:
		data, _ := p.b.Exprs.Cast(id)
		p.Printf("<%s>", p.typeStr(e.Type))
		p.printExpr(data.Value)
	case ExprCall:
		data, _ := p.b.Exprs.Call(id)
		p.printExpr(data.Target)
		p.Printf("(")
		for i, arg := range data.Args {
			if i > 0 {
				p.Printf(", ")
			}
			p.printExpr(arg)
		}
		p.Printf(")")
	case ExprBinary:
		data, _ := p.b.Exprs.Binary(id)
		p.printExpr(data.Left)
		p.Printf(" %s ", data.Op)
		p.printExpr(data.Right)
	default:
		p.Printf("<expr#%d>", id)
	}
}

func (p *Printer) typeStr(id types.TypeID) string {
	if p.opts.TypeName != nil {
		if s := p.opts.TypeName(id); s != "" {
			return s
		}
	}
	return types.Label(p.typesIn, id)
}

func (p *Printer) name(id source.StringID) string {
	s, ok := p.strings.Lookup(id)
	if !ok || s == "" {
		return "?"
	}
	return s
}
