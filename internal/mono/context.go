package mono

import (
	"fmt"

	"fortio.org/safecast"

	"keel/internal/ast"
	"keel/internal/source"
	"keel/internal/types"
)

// Context is the monomorphization registry. It owns every template, class
// variant and constructor signature, and borrows the interners and the AST
// builder the variants are materialized into. All engine state lives here;
// there is no package-level registry, so independent compilations never
// share variants.
type Context struct {
	Strings *source.Interner
	Types   *types.Interner
	AST     *ast.Builder

	templates  []Template
	classes    []Class
	signatures []Signature

	// Обратная ссылка: конструктор -> его шаблон.
	templateByFunc map[ast.FuncID]TemplateID
}

func NewContext(strings *source.Interner, typesIn *types.Interner, builder *ast.Builder) *Context {
	return &Context{
		Strings: strings,
		Types:   typesIn,
		AST:     builder,

		templates:  make([]Template, 1),
		classes:    make([]Class, 1),
		signatures: make([]Signature, 1),

		templateByFunc: make(map[ast.FuncID]TemplateID),
	}
}

// Template returns the template record, or nil for the zero handle.
func (c *Context) Template(id TemplateID) *Template {
	if id == NoTemplateID || int(id) >= len(c.templates) {
		return nil
	}
	return &c.templates[id]
}

// Class returns the class record, or nil for the zero handle.
func (c *Context) Class(id ClassID) *Class {
	if id == NoClassID || int(id) >= len(c.classes) {
		return nil
	}
	return &c.classes[id]
}

// Signature returns the signature record, or nil for the zero handle.
func (c *Context) Signature(id SignatureID) *Signature {
	if id == NoSignatureID || int(id) >= len(c.signatures) {
		return nil
	}
	return &c.signatures[id]
}

func (c *Context) NumTemplates() int  { return len(c.templates) - 1 }
func (c *Context) NumClasses() int    { return len(c.classes) - 1 }
func (c *Context) NumSignatures() int { return len(c.signatures) - 1 }

// TemplateByFunc resolves the template owned by a constructor function.
func (c *Context) TemplateByFunc(fn ast.FuncID) (TemplateID, bool) {
	id, ok := c.templateByFunc[fn]
	return id, ok
}

func (c *Context) allocTemplate(t Template) TemplateID {
	c.templates = append(c.templates, t)
	id, err := safecast.Conv[uint32](len(c.templates) - 1)
	if err != nil {
		panic(fmt.Errorf("templates arena overflow: %w", err))
	}
	return TemplateID(id)
}

func (c *Context) allocClass(cl Class) ClassID {
	c.classes = append(c.classes, cl)
	id, err := safecast.Conv[uint32](len(c.classes) - 1)
	if err != nil {
		panic(fmt.Errorf("classes arena overflow: %w", err))
	}
	return ClassID(id)
}

func (c *Context) allocSignature(s Signature) SignatureID {
	c.signatures = append(c.signatures, s)
	id, err := safecast.Conv[uint32](len(c.signatures) - 1)
	if err != nil {
		panic(fmt.Errorf("signatures arena overflow: %w", err))
	}
	return SignatureID(id)
}
