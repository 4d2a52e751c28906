package merge

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// BuildAln merges the input alignments into one anchored alignment. The
// inputs are not modified. The anchor of the result is its last row and its
// score is the sum of the input scores.
func BuildAln(in []*aln.AnchoredAln, opts Options) (*aln.AnchoredAln, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no alignments to merge", aln.ErrInvalidRequest)
	}

	log.Debugf("merging %d alignments with %v (%v)", len(in), opts.Algo, opts.Flags)
	switch opts.Algo {
	case QuerySeqOnly:
		return mergeQuerySeq(in)
	case PreserveRows:
		return mergePreserveRows(in, opts.Flags)
	case MergeAll:
		return mergeAllSeqs(in, opts.Flags)
	default:
		return nil, fmt.Errorf("%w: unknown merge algorithm %v", aln.ErrInvalidRequest, opts.Algo)
	}
}

// anchorFlags are used for the anchor row whatever the merge policy is:
// the anchor never gets overlapping coverage.
const anchorFlags = TruncateOverlaps

func totalScore(in []*aln.AnchoredAln) int {
	score := 0
	for _, a := range in {
		score += a.Score()
	}
	return score
}

// assemble lays out the rows of every accumulator, the anchor's last.
func assemble(others []*merged, anchor *merged, score int) (*aln.AnchoredAln, error) {
	var rows []*aln.PairwiseAln
	for _, m := range others {
		rows = append(rows, m.rows()...)
	}
	rows = append(rows, anchor.rows()...)
	return aln.NewAnchoredAln(rows, len(rows)-1, score)
}

// mergeAllSeqs groups rows by identity. Every input must share the anchor of
// the first (highest scoring) one.
func mergeAllSeqs(in []*aln.AnchoredAln, flags Flags) (*aln.AnchoredAln, error) {
	in = sorted(in, flags)

	anchorID := in[0].AnchorID()
	byID := make(map[*aln.SeqID]*merged)
	var others []*merged

	lookup := func(a *aln.AnchoredAln, row int) *merged {
		id := a.ID(row)
		if m, ok := byID[id]; ok {
			return m
		}
		var m *merged
		if id == anchorID {
			m = newMerged(a.Row(row).FirstID(), id, a.Row(row).Policy(), anchorFlags)
		} else {
			m = newMerged(a.Row(row).FirstID(), id, a.Row(row).Policy(), flags)
			others = append(others, m)
		}
		byID[id] = m
		return m
	}

	for n, a := range in {
		if a.AnchorID() != anchorID {
			return nil, fmt.Errorf("%w: alignment %d is anchored on %v, not %v", aln.ErrInvalidRequest, n, a.AnchorID(), anchorID)
		}

		anchor := lookup(a, a.AnchorRow())
		added, err := anchor.insert(a.Row(a.AnchorRow()))
		if err != nil {
			return nil, fmt.Errorf("merging anchor of alignment %d: %w", n, err)
		}

		// nothing new on the anchor, so nothing new for the other rows either
		covered := flags&TruncateOverlaps != 0 && added.Empty() && !a.Row(a.AnchorRow()).Empty()
		if covered {
			log.Debugf("alignment %d is covered by merged anchor content; skipping its rows", n)
		}

		for row := 0; row < a.Dim(); row++ {
			if row == a.AnchorRow() {
				continue
			}
			m := lookup(a, row)
			if covered {
				continue
			}
			log.Debugf("inserting alignment %d row %d: %v", n, row, a.Row(row))
			if _, err := m.insert(a.Row(row)); err != nil {
				return nil, fmt.Errorf("merging row %d of alignment %d: %w", row, n, err)
			}
		}
	}

	return assemble(others, byID[anchorID], totalScore(in))
}

// mergePreserveRows merges positionally. All inputs need the same dimension
// and anchor row.
func mergePreserveRows(in []*aln.AnchoredAln, flags Flags) (*aln.AnchoredAln, error) {
	first := in[0]
	for n, a := range in {
		if a.Dim() != first.Dim() {
			return nil, fmt.Errorf("%w: all input alignments need the same dimension when preserving rows: alignment %d has %d rows, not %d", aln.ErrInvalidRequest, n, a.Dim(), first.Dim())
		}
		if a.AnchorRow() != first.AnchorRow() {
			return nil, fmt.Errorf("%w: all input alignments need the same anchor row when preserving rows: alignment %d has anchor row %d, not %d", aln.ErrInvalidRequest, n, a.AnchorRow(), first.AnchorRow())
		}
	}

	in = sorted(in, flags)
	rows := make([]*merged, first.Dim())
	for row := range rows {
		rowFlags := flags
		if row == first.AnchorRow() {
			rowFlags = anchorFlags
		}
		rows[row] = newMerged(first.Row(row).FirstID(), first.ID(row), first.Row(row).Policy(), rowFlags)
	}

	for n, a := range in {
		for row := 0; row < a.Dim(); row++ {
			if _, err := rows[row].insert(a.Row(row)); err != nil {
				return nil, fmt.Errorf("merging row %d of alignment %d: %w", row, n, err)
			}
		}
	}

	others := make([]*merged, 0, len(rows)-1)
	for row, m := range rows {
		if row != first.AnchorRow() {
			others = append(others, m)
		}
	}
	return assemble(others, rows[first.AnchorRow()], totalScore(in))
}

// mergeQuerySeq merges only the anchor rows; every other row is added as is.
// Every input must have its anchor as the last row.
func mergeQuerySeq(in []*aln.AnchoredAln) (*aln.AnchoredAln, error) {
	anchorID := in[0].AnchorID()
	for n, a := range in {
		if a.AnchorRow() != a.Dim()-1 {
			return nil, fmt.Errorf("%w: alignment %d has anchor row %d, the anchor must be the last of %d rows", aln.ErrInvalidRequest, n, a.AnchorRow(), a.Dim())
		}
		if a.AnchorID() != anchorID {
			return nil, fmt.Errorf("%w: alignment %d is anchored on %v, not %v", aln.ErrInvalidRequest, n, a.AnchorID(), anchorID)
		}
	}

	out := in[0].Clone()
	rows := append([]*aln.PairwiseAln{}, out.Rows()[:out.Dim()-1]...)
	anchor := out.Row(out.AnchorRow())
	for n, a := range in[1:] {
		for row := 0; row < a.Dim(); row++ {
			if row == a.AnchorRow() {
				if err := MergePairwiseAlns(anchor, a.Row(row)); err != nil {
					return nil, fmt.Errorf("merging anchor of alignment %d: %w", n+1, err)
				}
				continue
			}
			rows = append(rows, a.Row(row).Clone())
		}
	}

	return aln.NewAnchoredAln(append(rows, anchor), len(rows), totalScore(in))
}
