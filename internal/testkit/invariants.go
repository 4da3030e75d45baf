// Package testkit carries invariant helpers shared by package tests and the
// keel --check path.
package testkit

import (
	"fmt"
	"strings"

	"keel/internal/mono"
)

// CheckRegistry runs a registry health sweep:
// 1) the structural validation pass is clean
// 2) every template and variant dump renders with balanced braces
// 3) dumps end in a closed block so goldens concatenate cleanly
func CheckRegistry(ctx *mono.Context) error {
	if ctx == nil {
		return fmt.Errorf("nil context")
	}
	if err := ctx.Validate(); err != nil {
		return err
	}
	for id := mono.TemplateID(1); int(id) <= ctx.NumTemplates(); id++ {
		if err := checkDump(ctx.DumpTemplateString(id)); err != nil {
			return fmt.Errorf("template %d dump: %w", id, err)
		}
	}
	for id := mono.ClassID(1); int(id) <= ctx.NumClasses(); id++ {
		if err := checkDump(ctx.DumpClassString(id)); err != nil {
			return fmt.Errorf("variant %d dump: %w", id, err)
		}
	}
	return nil
}

// checkDump verifies a rendered declaration: brace-balanced, ends with the
// closing line. Format strings inside bodies carry matched brace pairs, so
// counting stays sound.
func checkDump(s string) error {
	if !strings.HasSuffix(s, "}\n") {
		return fmt.Errorf("does not end with a closed block")
	}
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			return fmt.Errorf("unbalanced braces")
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced braces")
	}
	return nil
}
