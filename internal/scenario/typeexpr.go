package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"keel/internal/types"
)

// ParseType resolves a manifest datatype expression. The grammar covers the
// builtins ("bool", "string"), sized scalars ("i64", "u16", "f32"), tuples
// ("(u32, string)"), template names (the template's placeholder datatype) and
// minted variants ("Node#2").
func (b *Build) ParseType(expr string) (types.TypeID, error) {
	expr = norm.NFC.String(strings.TrimSpace(expr))
	if expr == "" {
		return types.NoTypeID, fmt.Errorf("%s: empty type expression", b.Manifest.path)
	}
	if strings.HasPrefix(expr, "(") {
		return b.parseTuple(expr)
	}
	switch expr {
	case "bool":
		return b.Ctx.Types.Builtins().Bool, nil
	case "string":
		return b.Ctx.Types.Builtins().String, nil
	}
	if id, ok, err := b.parseScalar(expr); err != nil || ok {
		return id, err
	}
	return b.parseNamed(expr)
}

// parseScalar handles iN, uN and fN. ok is false when expr does not look
// like a sized scalar at all.
func (b *Build) parseScalar(expr string) (types.TypeID, bool, error) {
	if len(expr) < 2 {
		return types.NoTypeID, false, nil
	}
	kind := expr[0]
	if kind != 'i' && kind != 'u' && kind != 'f' {
		return types.NoTypeID, false, nil
	}
	digits := expr[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return types.NoTypeID, false, nil
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return types.NoTypeID, true, fmt.Errorf("%s: bad width in type %q: %w", b.Manifest.path, expr, err)
	}
	raw, err := safecast.Conv[uint16](n)
	if err != nil {
		return types.NoTypeID, true, fmt.Errorf("%s: width in type %q out of range: %w", b.Manifest.path, expr, err)
	}
	w := types.Width(raw)
	if w == 0 {
		return types.NoTypeID, true, fmt.Errorf("%s: zero width in type %q", b.Manifest.path, expr)
	}
	switch kind {
	case 'i':
		return b.Ctx.Types.Intern(types.MakeInt(w)), true, nil
	case 'u':
		return b.Ctx.Types.Intern(types.MakeUint(w)), true, nil
	default:
		if w != types.Width32 && w != types.Width64 {
			return types.NoTypeID, true, fmt.Errorf("%s: float width must be 32 or 64 in type %q", b.Manifest.path, expr)
		}
		return b.Ctx.Types.Intern(types.MakeFloat(w)), true, nil
	}
}

// parseNamed resolves "Name" to a template placeholder and "Name#k" to the
// k-th minted variant of that template.
func (b *Build) parseNamed(expr string) (types.TypeID, error) {
	name, variant, hasVariant := strings.Cut(expr, "#")
	tid, ok := b.templates[name]
	if !ok {
		return types.NoTypeID, fmt.Errorf("%s: unknown type %q", b.Manifest.path, expr)
	}
	t := b.Ctx.Template(tid)
	if !hasVariant {
		return t.Datatype, nil
	}
	k, err := strconv.Atoi(variant)
	if err != nil || k < 1 {
		return types.NoTypeID, fmt.Errorf("%s: bad variant number in type %q", b.Manifest.path, expr)
	}
	if k > len(t.Classes) {
		return types.NoTypeID, fmt.Errorf("%s: type %q: template %q has only %d variant(s) so far",
			b.Manifest.path, expr, name, len(t.Classes))
	}
	return b.Ctx.Class(t.Classes[k-1]).Datatype, nil
}

// parseTuple handles "(a, b, ...)" with nested tuples.
func (b *Build) parseTuple(expr string) (types.TypeID, error) {
	if !strings.HasSuffix(expr, ")") {
		return types.NoTypeID, fmt.Errorf("%s: unterminated tuple type %q", b.Manifest.path, expr)
	}
	parts, err := splitTuple(expr[1 : len(expr)-1])
	if err != nil {
		return types.NoTypeID, fmt.Errorf("%s: bad tuple type %q: %w", b.Manifest.path, expr, err)
	}
	elems := make([]types.TypeID, 0, len(parts))
	for _, p := range parts {
		id, perr := b.ParseType(p)
		if perr != nil {
			return types.NoTypeID, perr
		}
		elems = append(elems, id)
	}
	return b.Ctx.Types.RegisterTuple(elems), nil
}

// splitTuple splits a tuple body on top-level commas.
func splitTuple(body string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	last := strings.TrimSpace(body[start:])
	if last == "" && len(parts) == 0 {
		return nil, fmt.Errorf("empty tuple")
	}
	if last == "" {
		return nil, fmt.Errorf("trailing comma")
	}
	parts = append(parts, last)
	return parts, nil
}
