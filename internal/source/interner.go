package source

// StringID is a stable handle for an interned name.
type StringID uint32

// NoStringID maps to the empty string.
const NoStringID StringID = 0

// IsValid reports whether the ID names a non-empty interned string.
func (id StringID) IsValid() bool { return id != NoStringID }

// Interner deduplicates names so the rest of the compiler can compare
// identifiers by ID instead of by content.
type Interner struct {
	byID  []string // byID[0] = "" for NoStringID
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the stable ID for s, allocating one on first sight.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// Copy so the interner never retains a caller's backing buffer.
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup resolves an ID back to its string.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup resolves an ID and panics on an invalid one.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: invalid StringID")
	}
	return s
}

// Len reports the number of interned strings, sentinel included.
func (i *Interner) Len() int {
	return len(i.byID)
}
