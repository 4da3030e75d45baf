package mono

import (
	"keel/internal/ast"
	"keel/internal/types"
)

// Class is one concrete variant of a template. Its block holds the variant's
// members and methods; Sigs lists every call-site signature resolved to it,
// and the first entry is the one future candidates are matched against.
type Class struct {
	Template TemplateID
	Number   uint32 // dense per-template ordinal, starting at 1
	RefWidth types.Width
	Block    ast.BlockID
	Datatype types.TypeID

	Sigs []SignatureID
}

// FirstSignature returns the signature the variant was minted for, or the
// zero handle for a default variant created without one.
func (cl *Class) FirstSignature() SignatureID {
	if len(cl.Sigs) == 0 {
		return NoSignatureID
	}
	return cl.Sigs[0]
}
