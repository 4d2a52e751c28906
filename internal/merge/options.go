// Package merge builds one anchored alignment out of many.
package merge

import (
	"fmt"
	"strings"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// Algo selects how rows of the input alignments are combined.
type Algo int

const (
	// MergeAll groups rows by sequence identity across all inputs
	MergeAll Algo = iota

	// QuerySeqOnly merges the anchor row and appends every other row
	QuerySeqOnly

	// PreserveRows merges row i of every input into output row i
	PreserveRows
)

var algoNames = map[Algo]string{
	MergeAll:     "merge-all",
	QuerySeqOnly: "query-only",
	PreserveRows: "preserve-rows",
}

func (a Algo) String() string {
	if name, ok := algoNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algo(%d)", int(a))
}

// ParseAlgo turns a name like "merge-all" into an Algo.
func ParseAlgo(name string) (Algo, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return MergeAll, nil
	}
	for algo, n := range algoNames {
		if n == name {
			return algo, nil
		}
	}
	return MergeAll, fmt.Errorf("%w: unknown merge algorithm %q (merge-all, query-only, preserve-rows)", aln.ErrInvalidRequest, name)
}

// Flags are the merge policy.
type Flags uint

const (
	// AllowMixedStrand lets one track hold both directions
	AllowMixedStrand Flags = 1 << iota

	// AllowTranslocation tolerates out of order ranges on the second sequence
	AllowTranslocation

	// TruncateOverlaps drops the parts of new ranges already covered
	TruncateOverlaps

	// SkipSortByScore keeps the input order instead of sorting by score
	SkipSortByScore
)

func (f Flags) String() string {
	var names []string
	for _, flag := range []struct {
		f    Flags
		name string
	}{
		{AllowMixedStrand, "mixed-strand"},
		{AllowTranslocation, "translocation"},
		{TruncateOverlaps, "truncate"},
		{SkipSortByScore, "skip-sort"},
	} {
		if f&flag.f != 0 {
			names = append(names, flag.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Options configure BuildAln.
type Options struct {
	Algo  Algo
	Flags Flags
}

// DefaultOptions merges all sequences and truncates overlaps.
func DefaultOptions() Options {
	return Options{Algo: MergeAll, Flags: TruncateOverlaps}
}
