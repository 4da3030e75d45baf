package source

type (
	// FileID uniquely identifies a source unit within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a source unit was acquired.
	FileFlags uint8
)

// NoFileID marks the absence of an owning source unit. Synthetic blocks
// (the canonical default variant of a template) carry it deliberately.
const NoFileID FileID = 0

// IsValid reports whether the ID refers to a registered source unit.
func (id FileID) IsValid() bool { return id != NoFileID }

const (
	// FileVirtual indicates the unit was added from memory (test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source unit.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position, both components 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}
