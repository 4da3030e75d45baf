package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileSet registers every source unit of a compilation and resolves spans
// back to human positions. Index 0 is reserved so FileID 0 stays the
// "no source unit" sentinel.
type FileSet struct {
	files []File
	index map[string]FileID // normalized path -> latest id
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1, 8),
		index: make(map[string]FileID),
	}
}

// Add stores normalized content, computes the line index and content hash,
// and returns a fresh FileID.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalized := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// AddVirtual registers an in-memory unit (tests, stdin, generated input).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads a unit from disk, normalizing BOM and CRLF before registering.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from the caller
	if err != nil {
		return NoFileID, err
	}
	content, hadBOM := stripBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// Get returns the file for the ID, or nil for the sentinel / out of range.
func (fs *FileSet) Get(id FileID) *File {
	if !id.IsValid() || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// GetByPath returns the latest unit registered under path.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Len reports the number of registered units, sentinel excluded.
func (fs *FileSet) Len() int { return len(fs.files) - 1 }

// Resolve converts a span into start and end line/column positions.
// Spans with an invalid file resolve to the zero LineCol.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // i < len(content) < 4GiB
		}
	}
	return out
}

// normalizeCRLF rewrites \r\n pairs to \n, leaving lone \r alone.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func stripBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// toLineCol maps a byte offset to a 1-based line/column. lineIdx holds the
// offsets of '\n' bytes; a newline belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Count newlines strictly before off via binary search.
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := lo // newlines before off; off sits on line line+1
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1} //nolint:gosec // bounded by file size
}
