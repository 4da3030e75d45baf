package types

import "fmt"

// TypeID uniquely identifies a datatype inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a datatype (unbound).
const NoTypeID TypeID = 0

// IsValid reports whether the ID refers to an interned datatype.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates the datatype kinds the class engine works with.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindString
	KindInt
	KindUint
	KindFloat
	KindTuple
	// KindTemplate is the placeholder datatype of a template class whose
	// concrete variant is not resolved yet. Payload carries the template
	// handle.
	KindTemplate
	// KindClass is the datatype of one concrete variant. Payload carries
	// the class handle.
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindTuple:
		return "tuple"
	case KindTemplate:
		return "template"
	case KindClass:
		return "class"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width is a bit width. Keel integers are arbitrary-width, so any non-zero
// value is legal; the named constants cover the common machine widths.
type Width uint16

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact structural descriptor. Identical descriptors intern to
// the same TypeID. Payload is a side-table slot for tuples and the raw
// template/class handle for nominal kinds.
type Type struct {
	Kind    Kind
	Width   Width
	Payload uint32
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer of the given width.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point number of the given width.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeTemplate describes the placeholder datatype for a template handle.
// The handle is the mono-side template arena index.
func MakeTemplate(raw uint32) Type {
	return Type{Kind: KindTemplate, Payload: raw}
}

// MakeClass describes the datatype of a concrete variant. The handle is the
// mono-side class arena index.
func MakeClass(raw uint32) Type {
	return Type{Kind: KindClass, Payload: raw}
}
