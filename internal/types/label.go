package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly label for a TypeID, rendered in source
// syntax: "u32", "i64", "f32", "(u32, string)". Template and class types
// label by their raw handle; callers that know the declaration names
// substitute them at a higher level.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	if typesIn == nil {
		return "?"
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return formatNumeric("i", tt.Width)
	case KindUint:
		return formatNumeric("u", tt.Width)
	case KindFloat:
		return formatNumeric("f", tt.Width)
	case KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok || info == nil {
			return "(?)"
		}
		parts := make([]string, len(info.Elems))
		for i, elem := range info.Elems {
			parts[i] = labelDepth(typesIn, elem, depth+1)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindTemplate:
		return fmt.Sprintf("template#%d", tt.Payload)
	case KindClass:
		return fmt.Sprintf("class#%d", tt.Payload)
	default:
		return "?"
	}
}

func formatNumeric(prefix string, width Width) string {
	return fmt.Sprintf("%s%d", prefix, width)
}
