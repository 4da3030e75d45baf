package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `
module = "demo"
synthesize_defaults = true

[[template]]
name = "Pair"
ref_width = 16

  [[template.param]]
  name = "a"
  type = "i64"
  affects_signature = true

  [[template.param]]
  name = "b"
  type = "string"

  [[template.member]]
  name = "count"
  type = "u32"

  [[template.method]]
  name = "swap"

[[template]]
name = "Log"
linkage = "extern"

[[call]]
template = "Pair"
args = ["i64", "string"]
repeat = 2

[[call]]
template = "Log"
default = true
`

func TestParseManifest(t *testing.T) {
	m, err := Parse([]byte(sampleManifest), "demo.toml")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if m.Module != "demo" {
		t.Fatalf("Module = %q, want %q", m.Module, "demo")
	}
	if !m.Synthesize {
		t.Fatalf("Synthesize = false, want true")
	}
	if len(m.Templates) != 2 {
		t.Fatalf("len(Templates) = %d, want 2", len(m.Templates))
	}
	pair := m.Templates[0]
	if pair.Name != "Pair" || pair.RefWidth != 16 {
		t.Fatalf("template[0] = %q/%d, want Pair/16", pair.Name, pair.RefWidth)
	}
	if len(pair.Params) != 2 || !pair.Params[0].AffectsSignature || pair.Params[1].AffectsSignature {
		t.Fatalf("Pair params decoded wrong: %+v", pair.Params)
	}
	if len(pair.Members) != 1 || pair.Members[0].Type != "u32" {
		t.Fatalf("Pair members decoded wrong: %+v", pair.Members)
	}
	if len(pair.Methods) != 1 || pair.Methods[0].Name != "swap" {
		t.Fatalf("Pair methods decoded wrong: %+v", pair.Methods)
	}
	if m.Templates[1].Linkage != "extern" {
		t.Fatalf("Log linkage = %q, want extern", m.Templates[1].Linkage)
	}
	if len(m.Calls) != 2 {
		t.Fatalf("len(Calls) = %d, want 2", len(m.Calls))
	}
	if m.Calls[0].Repeat != 2 || !m.Calls[1].Default {
		t.Fatalf("calls decoded wrong: %+v", m.Calls)
	}
}

func TestParseDefaultsModuleToName(t *testing.T) {
	m, err := Parse([]byte("[[template]]\nname = \"T\"\n"), "x.toml")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if m.Module != "x.toml" {
		t.Fatalf("Module = %q, want %q", m.Module, "x.toml")
	}
	if m.Path() != "x.toml" {
		t.Fatalf("Path = %q, want %q", m.Path(), "x.toml")
	}
}

func TestParseRejectsBadManifests(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "bad toml", src: "[[template]\nname = \"T\""},
		{name: "no templates", src: "module = \"m\""},
		{name: "unnamed template", src: "[[template]]\nref_width = 32"},
		{
			name: "duplicate template",
			src:  "[[template]]\nname = \"T\"\n[[template]]\nname = \"T\"",
		},
		{
			name: "nfc duplicate template",
			src:  "[[template]]\nname = \"Café\"\n[[template]]\nname = \"Café\"",
		},
		{
			name: "unknown linkage",
			src:  "[[template]]\nname = \"T\"\nlinkage = \"static\"",
		},
		{
			name: "duplicate param",
			src:  "[[template]]\nname = \"T\"\n[[template.param]]\nname = \"p\"\n[[template.param]]\nname = \"p\"",
		},
		{
			name: "member method clash",
			src:  "[[template]]\nname = \"T\"\n[[template.member]]\nname = \"x\"\ntype = \"i64\"\n[[template.method]]\nname = \"x\"",
		},
		{
			name: "call without template",
			src:  "[[template]]\nname = \"T\"\n[[call]]\nargs = [\"i64\"]",
		},
		{
			name: "call unknown template",
			src:  "[[template]]\nname = \"T\"\n[[call]]\ntemplate = \"U\"",
		},
		{
			name: "default call with args",
			src:  "[[template]]\nname = \"T\"\n[[call]]\ntemplate = \"T\"\ndefault = true\nargs = [\"i64\"]",
		},
		{
			name: "negative repeat",
			src:  "[[template]]\nname = \"T\"\n[[call]]\ntemplate = \"T\"\nrepeat = -1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src), "bad.toml"); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Path() != path {
		t.Fatalf("Path = %q, want %q", m.Path(), path)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}
