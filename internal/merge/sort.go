package merge

import (
	"sort"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// SortByScore orders alignments by descending score. Equal scores keep
// their input order.
func SortByScore(alns []*aln.AnchoredAln) {
	sort.SliceStable(alns, func(i, j int) bool {
		return alns[i].Score() > alns[j].Score()
	})
}

// sorted returns a copy of alns, sorted by score unless the flags skip it.
func sorted(alns []*aln.AnchoredAln, flags Flags) []*aln.AnchoredAln {
	out := make([]*aln.AnchoredAln, len(alns))
	copy(out, alns)
	if flags&SkipSortByScore == 0 {
		SortByScore(out)
	}
	return out
}
