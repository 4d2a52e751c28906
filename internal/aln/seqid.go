package aln

import (
	"fmt"
	"strings"
)

const (
	// ProteinWidth is the base width of amino acid coordinates.
	ProteinWidth = 1

	// CodonWidth is the base width of nucleotide coordinates expressed in codons.
	CodonWidth = 3
)

// SeqID is a handle to one sequence. Handles are interned by an IDTable
// so two handles for the same sequence are the same pointer.
type SeqID struct {
	// canonical name of the sequence
	name string

	// scale of the sequence's coordinates (ProteinWidth or CodonWidth)
	baseWidth int

	// position in the table that interned it
	index int
}

// Name returns the canonical name of the sequence.
func (id *SeqID) Name() string {
	return id.name
}

// BaseWidth returns the coordinate scale of the sequence.
func (id *SeqID) BaseWidth() int {
	return id.baseWidth
}

// Less orders ids by the order they were interned.
func (id *SeqID) Less(other *SeqID) bool {
	return id.index < other.index
}

func (id *SeqID) String() string {
	if id == nil {
		return "<nil>"
	}
	return id.name
}

// Canonicalizer resolves sequence name synonyms to one canonical name.
type Canonicalizer interface {
	Canonical(name string) string
}

// SynonymMap is a Canonicalizer backed by a map from synonym to canonical name.
// Lookups are case insensitive.
type SynonymMap map[string]string

// NewSynonymMap builds a SynonymMap with upper-cased keys.
func NewSynonymMap(synonyms map[string]string) SynonymMap {
	m := make(SynonymMap, len(synonyms))
	for syn, canonical := range synonyms {
		m[strings.ToUpper(syn)] = canonical
	}
	return m
}

// Canonical returns the canonical name of the synonym or name unchanged.
func (m SynonymMap) Canonical(name string) string {
	if canonical, ok := m[strings.ToUpper(name)]; ok {
		return canonical
	}
	return name
}

// IDTable interns sequence ids.
type IDTable struct {
	canon Canonicalizer
	ids   map[string]*SeqID
	order []*SeqID
}

// NewIDTable returns an empty table. canon may be nil.
func NewIDTable(canon Canonicalizer) *IDTable {
	return &IDTable{
		canon: canon,
		ids:   make(map[string]*SeqID),
	}
}

// Intern returns the handle for name, creating it on first use.
func (t *IDTable) Intern(name string, baseWidth int) (*SeqID, error) {
	if baseWidth != ProteinWidth && baseWidth != CodonWidth {
		return nil, fmt.Errorf("%w: base width %d of %s is not %d or %d", ErrInvalidRequest, baseWidth, name, ProteinWidth, CodonWidth)
	}
	if t.canon != nil {
		name = t.canon.Canonical(name)
	}

	if id, ok := t.ids[name]; ok {
		if id.baseWidth != baseWidth {
			return nil, fmt.Errorf("%w: %s interned with base width %d, requested %d", ErrInvalidRequest, name, id.baseWidth, baseWidth)
		}
		return id, nil
	}

	id := &SeqID{name: name, baseWidth: baseWidth, index: len(t.order)}
	t.ids[name] = id
	t.order = append(t.order, id)
	return id, nil
}

// Lookup returns the handle for name if it was interned.
func (t *IDTable) Lookup(name string) (*SeqID, bool) {
	if t.canon != nil {
		name = t.canon.Canonical(name)
	}
	id, ok := t.ids[name]
	return id, ok
}

// Len is the number of distinct ids in the table.
func (t *IDTable) Len() int {
	return len(t.order)
}
