package aln

import (
	"errors"
	"testing"
)

func TestIDTable_Intern(t *testing.T) {
	table := NewIDTable(NewSynonymMap(map[string]string{"gi|42": "NC_000913.3"}))

	a, err := table.Intern("NC_000913.3", ProteinWidth)
	if err != nil {
		t.Fatal(err)
	}
	b, err := table.Intern("GI|42", ProteinWidth)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("synonym interned as %p, want %p", b, a)
	}

	c, err := table.Intern("NC_000964.3", ProteinWidth)
	if err != nil {
		t.Fatal(err)
	}
	if a == c || !a.Less(c) {
		t.Errorf("distinct ids %v and %v should differ and be ordered by intern order", a, c)
	}
	if table.Len() != 2 {
		t.Errorf("IDTable.Len() = %d, want 2", table.Len())
	}

	if _, err := table.Intern("NC_000913.3", CodonWidth); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("IDTable.Intern() with conflicting width error = %v, want ErrInvalidRequest", err)
	}
	if _, err := table.Intern("x", 2); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("IDTable.Intern() with width 2 error = %v, want ErrInvalidRequest", err)
	}

	if id, ok := table.Lookup("gi|42"); !ok || id != a {
		t.Errorf("IDTable.Lookup() = %v, %t, want %v, true", id, ok, a)
	}
}
