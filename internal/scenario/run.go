package scenario

import (
	"fmt"

	"fortio.org/safecast"

	"keel/internal/ast"
	"keel/internal/mono"
	"keel/internal/source"
	"keel/internal/types"
)

// CallResult records how one constructor call resolved.
type CallResult struct {
	Call      int // 1-based index into Manifest.Calls
	Template  mono.TemplateID
	Class     mono.ClassID
	Signature mono.SignatureID // zero for default calls
	Fresh     bool             // true when this resolution minted the variant
}

// Build is the outcome of running a manifest: the populated engine plus the
// per-call resolutions, in call order (repeats expanded).
type Build struct {
	Manifest *Manifest
	Files    *source.FileSet
	File     source.FileID
	Root     ast.BlockID
	Ctx      *mono.Context
	Results  []CallResult

	templates map[string]mono.TemplateID
	decls     map[string]*TemplateDecl
	methods   map[string][]ast.FuncID
	seen      map[mono.ClassID]bool
}

// Template returns the engine handle for a declared template name.
func (b *Build) Template(name string) (mono.TemplateID, bool) {
	tid, ok := b.templates[name]
	return tid, ok
}

// Run drives the engine through a manifest: every template is declared
// first, so datatype expressions can refer to any of them, then the calls
// resolve in order. Freshly minted variants get their declared members
// bound, the template's methods aliased in, and, when the manifest asks for
// it, default toString/dump synthesized.
func Run(m *Manifest) (*Build, error) {
	b := &Build{
		Manifest:  m,
		Files:     source.NewFileSet(),
		templates: make(map[string]mono.TemplateID, len(m.Templates)),
		decls:     make(map[string]*TemplateDecl, len(m.Templates)),
		methods:   make(map[string][]ast.FuncID),
		seen:      make(map[mono.ClassID]bool),
	}
	b.Ctx = mono.NewContext(source.NewInterner(), types.NewInterner(), ast.NewBuilder(ast.Hints{}))
	b.File = b.Files.AddVirtual(m.path, m.raw)
	end, err := safecast.Conv[uint32](len(m.raw))
	if err != nil {
		return nil, fmt.Errorf("%s: manifest too large: %w", m.path, err)
	}
	b.Root = b.Ctx.AST.NewBlock(ast.BlockModule, b.File, source.Span{File: b.File, End: end})

	for i := range m.Templates {
		if err := b.declareTemplate(&m.Templates[i]); err != nil {
			return nil, err
		}
	}
	for i := range m.Templates {
		if err := b.populateTemplate(&m.Templates[i]); err != nil {
			return nil, err
		}
	}
	for i := range m.Calls {
		if err := b.runCall(i, &m.Calls[i]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// declareTemplate mints the constructor and its template. Parameters and
// methods come later, once every placeholder datatype exists.
func (b *Build) declareTemplate(decl *TemplateDecl) error {
	var flags ast.FuncFlags
	if decl.Builtin {
		flags |= ast.FuncBuiltin
	}
	link, ok := parseLinkage(decl.Linkage)
	if !ok {
		return fmt.Errorf("%s: template %q: unknown linkage %q", b.Manifest.path, decl.Name, decl.Linkage)
	}
	ctor := b.Ctx.AST.NewFunc(b.Root, ast.FuncConstructor, flags, link,
		b.Ctx.Strings.Intern(decl.Name), source.Span{File: b.File})
	width := types.Width32
	if decl.RefWidth != 0 {
		raw, err := safecast.Conv[uint16](decl.RefWidth)
		if err != nil {
			return fmt.Errorf("%s: template %q: ref_width %d out of range: %w",
				b.Manifest.path, decl.Name, decl.RefWidth, err)
		}
		width = types.Width(raw)
	}
	tid := b.Ctx.NewTemplate(ctor, width, source.Span{File: b.File})
	b.templates[decl.Name] = tid
	b.decls[decl.Name] = decl
	return nil
}

// populateTemplate binds the declared parameters and method stubs into the
// constructor's body block.
func (b *Build) populateTemplate(decl *TemplateDecl) error {
	ctor := b.Ctx.Template(b.templates[decl.Name]).Func
	body := b.Ctx.AST.Funcs.Get(ctor).Block
	for _, p := range decl.Params {
		typ := types.NoTypeID
		if p.Type != "" {
			var err error
			typ, err = b.ParseType(p.Type)
			if err != nil {
				return err
			}
		}
		var flags ast.VarFlags
		if p.AffectsSignature {
			flags |= ast.VarInSignature
		}
		b.Ctx.AST.NewVar(body, ast.VarParam, flags, b.Ctx.Strings.Intern(p.Name),
			typ, ast.NoExprID, source.Span{File: b.File})
	}
	link := b.Ctx.AST.Funcs.Get(ctor).Linkage
	for _, md := range decl.Methods {
		name := b.Ctx.Strings.Intern(md.Name)
		if b.Ctx.AST.LookupIdent(body, name).IsValid() {
			return fmt.Errorf("%s: template %q: method %q collides with an existing binding",
				b.Manifest.path, decl.Name, md.Name)
		}
		fn := b.Ctx.AST.NewFunc(body, ast.FuncPlain, 0, link, name, source.Span{File: b.File})
		fnBody := b.Ctx.AST.Funcs.Get(fn).Block
		b.Ctx.AST.NewVar(fnBody, ast.VarParam, ast.VarConst, b.Ctx.Strings.Intern("self"),
			types.NoTypeID, ast.NoExprID, source.Span{File: b.File})
		b.methods[decl.Name] = append(b.methods[decl.Name], fn)
	}
	return nil
}

// runCall resolves one call declaration, replaying it Repeat times.
func (b *Build) runCall(idx int, call *CallDecl) error {
	tid := b.templates[call.Template]
	n := call.Repeat
	if n == 0 {
		n = 1
	}
	for rep := 0; rep < n; rep++ {
		res := CallResult{Call: idx + 1, Template: tid}
		if call.Default {
			cid := b.Ctx.GetOrCreateDefault(tid)
			if !cid.IsValid() {
				return fmt.Errorf("%s: call #%d: template %q has signature parameters and no default variant",
					b.Manifest.path, idx+1, call.Template)
			}
			res.Class = cid
		} else {
			ctor := b.Ctx.Template(tid).Func
			if want := len(b.Ctx.AST.Params(ctor)); len(call.Args) != want {
				return fmt.Errorf("%s: call #%d: template %q takes %d argument(s), got %d",
					b.Manifest.path, idx+1, call.Template, want, len(call.Args))
			}
			params := make([]types.TypeID, 0, len(call.Args))
			for _, a := range call.Args {
				id, err := b.ParseType(a)
				if err != nil {
					return err
				}
				params = append(params, id)
			}
			res.Signature = b.Ctx.NewSignature(ctor, params)
			res.Class = b.Ctx.GetOrCreate(tid, res.Signature)
		}
		if !b.seen[res.Class] {
			b.seen[res.Class] = true
			res.Fresh = true
			if err := b.furnish(call.Template, res.Class); err != nil {
				return err
			}
		}
		b.Results = append(b.Results, res)
	}
	return nil
}

// furnish populates a freshly minted variant: declared members, method
// aliases, then the default methods for whatever is still missing. The
// default variant path aliases the template's functions on its own, so
// existing bindings are left alone.
func (b *Build) furnish(name string, cid mono.ClassID) error {
	decl := b.decls[name]
	cl := b.Ctx.Class(cid)
	for _, md := range decl.Members {
		typ, err := b.ParseType(md.Type)
		if err != nil {
			return err
		}
		mname := b.Ctx.Strings.Intern(md.Name)
		if b.Ctx.AST.LookupIdent(cl.Block, mname).IsValid() {
			return fmt.Errorf("%s: template %q: member %q collides with an existing binding",
				b.Manifest.path, name, md.Name)
		}
		b.Ctx.AST.NewVar(cl.Block, ast.VarLocal, ast.VarInstantiated, mname,
			typ, ast.NoExprID, source.Span{File: b.File})
	}
	for _, fn := range b.methods[name] {
		if b.Ctx.AST.LookupIdent(cl.Block, b.Ctx.AST.Funcs.Get(fn).Name).IsValid() {
			continue
		}
		b.Ctx.AST.BindAlias(cl.Block, fn)
	}
	if b.Manifest.Synthesize {
		if b.Ctx.FindMethod(cid, b.Ctx.Strings.Intern("toString")) == ast.NoFuncID {
			b.Ctx.GenerateDefaultToString(cid)
		}
		if b.Ctx.FindMethod(cid, b.Ctx.Strings.Intern("dump")) == ast.NoFuncID {
			b.Ctx.GenerateDefaultDump(cid)
		}
	}
	return nil
}

func parseLinkage(s string) (ast.Linkage, bool) {
	switch s {
	case "", "module":
		return ast.LinkageModule, true
	case "package":
		return ast.LinkagePackage, true
	case "extern":
		return ast.LinkageExtern, true
	}
	return ast.LinkageModule, false
}
