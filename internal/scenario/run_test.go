package scenario

import (
	"strings"
	"testing"

	"keel/internal/ast"
	"keel/internal/mono"
)

// runManifest parses and runs inline TOML, failing the test on any error.
func runManifest(t *testing.T, src string) *Build {
	t.Helper()
	m, err := Parse([]byte(src), "test.toml")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	b, err := Run(m)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return b
}

// runError expects Run (or Parse) to fail and returns the error message.
func runError(t *testing.T, src string) string {
	t.Helper()
	m, err := Parse([]byte(src), "test.toml")
	if err != nil {
		return err.Error()
	}
	if _, err := Run(m); err != nil {
		return err.Error()
	}
	t.Fatalf("expected error, got nil")
	return ""
}

func TestRunMintsAndReusesVariants(t *testing.T) {
	b := runManifest(t, `
[[template]]
name = "Box"
  [[template.param]]
  name = "v"
  affects_signature = true
[[call]]
template = "Box"
args = ["i64"]
[[call]]
template = "Box"
args = ["i64"]
[[call]]
template = "Box"
args = ["u32"]
`)
	if len(b.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(b.Results))
	}
	r0, r1, r2 := b.Results[0], b.Results[1], b.Results[2]
	if !r0.Fresh || r1.Fresh || !r2.Fresh {
		t.Fatalf("fresh flags = %v/%v/%v, want true/false/true", r0.Fresh, r1.Fresh, r2.Fresh)
	}
	if r0.Class != r1.Class {
		t.Fatalf("equivalent calls resolved to %d and %d", r0.Class, r1.Class)
	}
	if r0.Class == r2.Class {
		t.Fatalf("distinct signatures share variant %d", r0.Class)
	}
	if b.Ctx.NumClasses() != 2 {
		t.Fatalf("NumClasses = %d, want 2", b.Ctx.NumClasses())
	}
	if n := b.Ctx.Class(r0.Class).Number; n != 1 {
		t.Fatalf("first variant number = %d, want 1", n)
	}
	if n := b.Ctx.Class(r2.Class).Number; n != 2 {
		t.Fatalf("second variant number = %d, want 2", n)
	}
	if r0.Signature == r1.Signature {
		t.Fatalf("each call should record its own signature")
	}
}

func TestRunRepeatResolvesOnce(t *testing.T) {
	b := runManifest(t, `
[[template]]
name = "Box"
  [[template.param]]
  name = "v"
  affects_signature = true
[[call]]
template = "Box"
args = ["string"]
repeat = 3
`)
	if len(b.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(b.Results))
	}
	for i, r := range b.Results {
		if r.Class != b.Results[0].Class {
			t.Fatalf("repeat %d resolved to %d, want %d", i, r.Class, b.Results[0].Class)
		}
		if r.Fresh != (i == 0) {
			t.Fatalf("repeat %d fresh = %v", i, r.Fresh)
		}
		if r.Call != 1 {
			t.Fatalf("repeat %d call index = %d, want 1", i, r.Call)
		}
	}
}

func TestRunDefaultCall(t *testing.T) {
	b := runManifest(t, `
[[template]]
name = "Log"
[[call]]
template = "Log"
default = true
[[call]]
template = "Log"
default = true
`)
	if len(b.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(b.Results))
	}
	r0, r1 := b.Results[0], b.Results[1]
	if !r0.Fresh || r1.Fresh || r0.Class != r1.Class {
		t.Fatalf("default calls resolved %+v / %+v", r0, r1)
	}
	if r0.Signature != mono.NoSignatureID {
		t.Fatalf("default call recorded signature %d", r0.Signature)
	}
	tid, _ := b.Template("Log")
	if !b.Ctx.Template(tid).HasDefault {
		t.Fatalf("template did not keep its default flag")
	}
}

func TestRunDefaultNeedsSignatureFreeTemplate(t *testing.T) {
	msg := runError(t, `
[[template]]
name = "Box"
  [[template.param]]
  name = "v"
  affects_signature = true
[[call]]
template = "Box"
default = true
`)
	if !strings.Contains(msg, "signature parameters") {
		t.Fatalf("error = %q, want mention of signature parameters", msg)
	}
}

func TestRunArgCountMismatch(t *testing.T) {
	msg := runError(t, `
[[template]]
name = "Box"
  [[template.param]]
  name = "v"
  affects_signature = true
[[call]]
template = "Box"
args = ["i64", "u32"]
`)
	if !strings.Contains(msg, "takes 1 argument(s), got 2") {
		t.Fatalf("error = %q, want arity complaint", msg)
	}
}

func TestRunBindsMembersAndSynthesizes(t *testing.T) {
	b := runManifest(t, `
synthesize_defaults = true
[[template]]
name = "Rec"
  [[template.param]]
  name = "v"
  affects_signature = true
  [[template.member]]
  name = "a"
  type = "i64"
[[call]]
template = "Rec"
args = ["i64"]
`)
	cid := b.Results[0].Class
	cl := b.Ctx.Class(cid)
	vars := b.Ctx.AST.Blocks.Get(cl.Block).Vars
	if len(vars) != 2 {
		t.Fatalf("variant block has %d vars, want nextFree plus member", len(vars))
	}
	if fn := b.Ctx.FindMethod(cid, b.Ctx.Strings.Intern("toString")); fn == ast.NoFuncID {
		t.Fatalf("toString not synthesized")
	}
	if fn := b.Ctx.FindMethod(cid, b.Ctx.Strings.Intern("dump")); fn == ast.NoFuncID {
		t.Fatalf("dump not synthesized")
	}
	if dump := b.Ctx.DumpClassString(cid); !strings.Contains(dump, `"{a = %i}"`) {
		t.Fatalf("variant dump missing synthesized format:\n%s", dump)
	}
}

func TestRunDeclaredMethodSuppressesSynthesis(t *testing.T) {
	b := runManifest(t, `
synthesize_defaults = true
[[template]]
name = "Rec"
  [[template.param]]
  name = "v"
  affects_signature = true
  [[template.method]]
  name = "toString"
[[call]]
template = "Rec"
args = ["bool"]
`)
	cid := b.Results[0].Class
	fn := b.Ctx.FindMethod(cid, b.Ctx.Strings.Intern("toString"))
	if fn == ast.NoFuncID {
		t.Fatalf("declared toString not visible on variant")
	}
	if b.Ctx.AST.Funcs.Get(fn).Flags.Has(ast.FuncGenerated) {
		t.Fatalf("declared toString was replaced by a synthesized one")
	}
	dump := b.Ctx.FindMethod(cid, b.Ctx.Strings.Intern("dump"))
	if dump == ast.NoFuncID {
		t.Fatalf("dump should still be synthesized")
	}
	if !b.Ctx.AST.Funcs.Get(dump).Flags.Has(ast.FuncGenerated) {
		t.Fatalf("synthesized dump lost its generated flag")
	}
}

func TestRunMethodNamedDestroyCollides(t *testing.T) {
	msg := runError(t, `
[[template]]
name = "Rec"
  [[template.method]]
  name = "destroy"
`)
	if !strings.Contains(msg, "collides") {
		t.Fatalf("error = %q, want binding collision", msg)
	}
}

func TestRunPlaceholderArgUnifiesWithConcrete(t *testing.T) {
	b := runManifest(t, `
[[template]]
name = "Node"
  [[template.param]]
  name = "t"
  affects_signature = true
[[template]]
name = "List"
  [[template.param]]
  name = "elem"
  affects_signature = true
[[call]]
template = "Node"
args = ["i64"]
[[call]]
template = "List"
args = ["Node"]
[[call]]
template = "List"
args = ["Node#1"]
`)
	if len(b.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(b.Results))
	}
	lists := b.Results[1:]
	if lists[0].Class != lists[1].Class {
		t.Fatalf("placeholder and concrete element resolved to %d and %d",
			lists[0].Class, lists[1].Class)
	}
	if lists[1].Fresh {
		t.Fatalf("concrete call should reuse the placeholder variant")
	}
}

func TestRunNormalizesSpellings(t *testing.T) {
	b := runManifest(t,
		"[[template]]\nname = \"Café\"\n[[call]]\ntemplate = \"Café\"\ndefault = true\n")
	if _, ok := b.Template("Café"); !ok {
		t.Fatalf("composed spelling not registered")
	}
	if len(b.Results) != 1 || !b.Results[0].Fresh {
		t.Fatalf("decomposed call spelling did not resolve: %+v", b.Results)
	}
}

func TestRunPassesValidation(t *testing.T) {
	b := runManifest(t, sampleManifest)
	if err := b.Ctx.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if b.Ctx.NumTemplates() != 2 || b.Ctx.NumClasses() != 2 {
		t.Fatalf("registry counts = %d templates / %d classes, want 2/2",
			b.Ctx.NumTemplates(), b.Ctx.NumClasses())
	}
}
