// Package scenario plays the binder for the class engine: a TOML manifest
// declares templates and constructor calls, and Run drives the engine through
// them. Used by the keel tool and as a fixture format in tests.
package scenario

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
)

// Manifest is one decoded scenario file.
type Manifest struct {
	// Module names the scenario in tool output. Defaults to the file name.
	Module string `toml:"module"`
	// Synthesize asks Run to synthesize default toString/dump on every
	// minted variant that lacks them.
	Synthesize bool `toml:"synthesize_defaults"`

	Templates []TemplateDecl `toml:"template"`
	Calls     []CallDecl     `toml:"call"`

	path string
	raw  []byte
}

// TemplateDecl declares one class template.
type TemplateDecl struct {
	Name     string `toml:"name"`
	RefWidth uint   `toml:"ref_width"` // bits, 0 means 32
	Builtin  bool   `toml:"builtin"`
	Linkage  string `toml:"linkage"` // module (default), package, extern

	Params  []ParamDecl  `toml:"param"`
	Members []MemberDecl `toml:"member"`
	Methods []MethodDecl `toml:"method"`
}

// ParamDecl declares one constructor parameter.
type ParamDecl struct {
	Name             string `toml:"name"`
	Type             string `toml:"type"`
	AffectsSignature bool   `toml:"affects_signature"`
}

// MemberDecl declares one data member bound into every minted variant.
type MemberDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// MethodDecl declares a user-supplied method stub. A declared toString or
// dump suppresses the matching default synthesis.
type MethodDecl struct {
	Name string `toml:"name"`
}

// CallDecl declares constructor call sites. Args are datatype expressions
// aligned with the constructor's parameters; Default requests the canonical
// default variant instead. Repeat replays the call, which must keep resolving
// to the same variant.
type CallDecl struct {
	Template string   `toml:"template"`
	Args     []string `toml:"args"`
	Default  bool     `toml:"default"`
	Repeat   int      `toml:"repeat"`
}

// Load reads and validates a scenario manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates manifest bytes. name stands in for the file
// path in errors and in the virtual source unit Run creates.
func Parse(data []byte, name string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	m.path = name
	m.raw = data
	if m.Module == "" {
		m.Module = name
	}
	m.normalize()
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// normalize folds every identifier and type expression to NFC, so visually
// identical spellings hit the same binding instead of coexisting.
func (m *Manifest) normalize() {
	for i := range m.Templates {
		t := &m.Templates[i]
		t.Name = norm.NFC.String(t.Name)
		for j := range t.Params {
			t.Params[j].Name = norm.NFC.String(t.Params[j].Name)
			t.Params[j].Type = norm.NFC.String(t.Params[j].Type)
		}
		for j := range t.Members {
			t.Members[j].Name = norm.NFC.String(t.Members[j].Name)
			t.Members[j].Type = norm.NFC.String(t.Members[j].Type)
		}
		for j := range t.Methods {
			t.Methods[j].Name = norm.NFC.String(t.Methods[j].Name)
		}
	}
	for i := range m.Calls {
		c := &m.Calls[i]
		c.Template = norm.NFC.String(c.Template)
		for j := range c.Args {
			c.Args[j] = norm.NFC.String(c.Args[j])
		}
	}
}

// Path returns the manifest's source path (or the name given to Parse).
func (m *Manifest) Path() string { return m.path }

func (m *Manifest) validate() error {
	if len(m.Templates) == 0 {
		return fmt.Errorf("%s: no [[template]] declared", m.path)
	}
	byName := make(map[string]bool, len(m.Templates))
	for i, t := range m.Templates {
		if t.Name == "" {
			return fmt.Errorf("%s: template #%d has no name", m.path, i+1)
		}
		if byName[t.Name] {
			return fmt.Errorf("%s: template %q declared twice", m.path, t.Name)
		}
		byName[t.Name] = true
		switch t.Linkage {
		case "", "module", "package", "extern":
		default:
			return fmt.Errorf("%s: template %q: unknown linkage %q", m.path, t.Name, t.Linkage)
		}
		if err := validateNames(m.path, t.Name, "param", paramNames(t.Params)); err != nil {
			return err
		}
		if err := validateNames(m.path, t.Name, "member", memberNames(t.Members)); err != nil {
			return err
		}
		if err := validateNames(m.path, t.Name, "method", methodNames(t.Methods)); err != nil {
			return err
		}
		members := make(map[string]bool, len(t.Members))
		for _, mm := range t.Members {
			members[mm.Name] = true
		}
		for _, mm := range t.Methods {
			if members[mm.Name] {
				return fmt.Errorf("%s: template %q: %q declared as both member and method", m.path, t.Name, mm.Name)
			}
		}
	}
	for i, c := range m.Calls {
		if c.Template == "" {
			return fmt.Errorf("%s: call #%d has no template", m.path, i+1)
		}
		if !byName[c.Template] {
			return fmt.Errorf("%s: call #%d: unknown template %q", m.path, i+1, c.Template)
		}
		if c.Default && len(c.Args) > 0 {
			return fmt.Errorf("%s: call #%d: default calls take no args", m.path, i+1)
		}
		if c.Repeat < 0 {
			return fmt.Errorf("%s: call #%d: negative repeat", m.path, i+1)
		}
	}
	return nil
}

func validateNames(path, tmpl, kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if n == "" {
			return fmt.Errorf("%s: template %q: %s #%d has no name", path, tmpl, kind, i+1)
		}
		if seen[n] {
			return fmt.Errorf("%s: template %q: %s %q declared twice", path, tmpl, kind, n)
		}
		seen[n] = true
	}
	return nil
}

func paramNames(ps []ParamDecl) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func memberNames(ms []MemberDecl) []string {
	out := make([]string, len(ms))
	for i, mm := range ms {
		out[i] = mm.Name
	}
	return out
}

func methodNames(ms []MethodDecl) []string {
	out := make([]string, len(ms))
	for i, mm := range ms {
		out[i] = mm.Name
	}
	return out
}
