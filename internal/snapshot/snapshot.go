// Package snapshot serializes a resolved class registry. The keel tool
// writes one per scenario run so later invocations can inspect the outcome
// without replaying the manifest.
package snapshot

import (
	"fmt"

	"fortio.org/safecast"

	"keel/internal/ast"
	"keel/internal/mono"
)

// Current schema version - increment when the payload format changes.
const SchemaVersion uint16 = 1

// Payload captures one registry: every template and every minted variant,
// in registry order, so slice index i holds handle i+1.
type Payload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16
	Module string

	Templates []Template
	Classes   []Class
}

// Template is the serialized form of one class template.
type Template struct {
	Name       string
	RefWidth   uint16
	Builtin    bool
	HasDefault bool
}

// Class is the serialized form of one minted variant.
type Class struct {
	Template   uint32 // registry handle of the owning template
	Number     uint32 // per-template ordinal
	RefWidth   uint16
	Signatures uint32 // bound constructor signatures

	Members []Member
	Methods []string // bound names, aliases included
}

// Member records one visible data member and its datatype label.
type Member struct {
	Name string
	Type string
}

// Capture walks the registry into a payload. Member types come out the way
// dumps spell them, so captured labels stay valid manifest type expressions.
func Capture(ctx *mono.Context, module string) *Payload {
	p := &Payload{
		Schema:    SchemaVersion,
		Module:    module,
		Templates: make([]Template, 0, ctx.NumTemplates()),
		Classes:   make([]Class, 0, ctx.NumClasses()),
	}
	for id := mono.TemplateID(1); int(id) <= ctx.NumTemplates(); id++ {
		t := ctx.Template(id)
		p.Templates = append(p.Templates, Template{
			Name:       ctx.Strings.MustLookup(t.Name),
			RefWidth:   uint16(t.RefWidth),
			Builtin:    ctx.AST.Funcs.Get(t.Func).Flags.Has(ast.FuncBuiltin),
			HasDefault: t.HasDefault,
		})
	}
	for id := mono.ClassID(1); int(id) <= ctx.NumClasses(); id++ {
		p.Classes = append(p.Classes, captureClass(ctx, id))
	}
	return p
}

func captureClass(ctx *mono.Context, id mono.ClassID) Class {
	cl := ctx.Class(id)
	sigs, err := safecast.Conv[uint32](len(cl.Sigs))
	if err != nil {
		panic(fmt.Errorf("variant %d signature count overflow: %w", id, err))
	}
	out := Class{
		Template:   uint32(cl.Template),
		Number:     cl.Number,
		RefWidth:   uint16(cl.RefWidth),
		Signatures: sigs,
	}
	blk := ctx.AST.Blocks.Get(cl.Block)
	for _, v := range blk.Vars {
		vv := ctx.AST.Vars.Get(v)
		if !vv.Flags.Has(ast.VarInstantiated) || vv.Flags.Has(ast.VarIsType) || vv.Flags.Has(ast.VarGenerated) {
			continue
		}
		out.Members = append(out.Members, Member{
			Name: ctx.Strings.MustLookup(vv.Name),
			Type: ctx.TypeLabel(vv.Type),
		})
	}
	for _, iid := range blk.Idents {
		ident := ctx.AST.Idents.Get(iid)
		if ident.Kind != ast.IdentFunc {
			continue
		}
		out.Methods = append(out.Methods, ctx.Strings.MustLookup(ident.Name))
	}
	return out
}
