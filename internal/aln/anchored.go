package aln

import (
	"fmt"
	"strings"
)

// AnchoredAln is a multi row alignment where every row is a PairwiseAln
// against the same anchor sequence. The anchor's own row is AnchorRow.
type AnchoredAln struct {
	rows      []*PairwiseAln
	anchorRow int
	score     int
}

// NewAnchoredAln checks that anchorRow indexes rows and that every row is
// expressed against the anchor row's first sequence.
func NewAnchoredAln(rows []*PairwiseAln, anchorRow, score int) (*AnchoredAln, error) {
	if anchorRow < 0 || anchorRow >= len(rows) {
		return nil, fmt.Errorf("%w: anchor row %d out of range for %d rows", ErrInvalidRequest, anchorRow, len(rows))
	}
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: row %d is nil", ErrInvalidRequest, i)
		}
	}

	anchor := rows[anchorRow].FirstID()
	for i, row := range rows {
		if row.FirstID() != anchor {
			return nil, fmt.Errorf("%w: row %d is aligned to %v, not anchor %v", ErrInvalidRequest, i, row.FirstID(), anchor)
		}
	}
	return &AnchoredAln{rows: rows, anchorRow: anchorRow, score: score}, nil
}

// Dim is the number of rows.
func (a *AnchoredAln) Dim() int { return len(a.rows) }

// Rows returns the rows. The slice must not be modified.
func (a *AnchoredAln) Rows() []*PairwiseAln { return a.rows }

// Row returns the pairwise alignment of row i against the anchor.
func (a *AnchoredAln) Row(i int) *PairwiseAln { return a.rows[i] }

// ID is the sequence of row i.
func (a *AnchoredAln) ID(i int) *SeqID { return a.rows[i].SecondID() }

// AnchorRow is the index of the anchor's row.
func (a *AnchoredAln) AnchorRow() int { return a.anchorRow }

// AnchorID is the anchor's sequence.
func (a *AnchoredAln) AnchorID() *SeqID { return a.ID(a.anchorRow) }

// Score is the total score of the alignment.
func (a *AnchoredAln) Score() int { return a.score }

// SetScore sets the total score of the alignment.
func (a *AnchoredAln) SetScore(score int) { a.score = score }

// Clone is deep on the rows so they can be modified.
func (a *AnchoredAln) Clone() *AnchoredAln {
	rows := make([]*PairwiseAln, len(a.rows))
	for i, row := range a.rows {
		rows[i] = row.Clone()
	}
	return &AnchoredAln{rows: rows, anchorRow: a.anchorRow, score: a.score}
}

// SplitStrands splits rows that hold both directions into a direct row
// followed by a reversed row. It returns true if any row was split.
func (a *AnchoredAln) SplitStrands() bool {
	var (
		rows   []*PairwiseAln
		anchor = a.anchorRow
		split  bool
	)

	for i, row := range a.rows {
		if !row.IsSet(Direct | Reversed) {
			rows = append(rows, row)
			continue
		}

		policy := row.Policy() &^ AllowMixedDir
		direct := NewPairwiseAln(row.FirstID(), row.SecondID(), policy)
		reversed := NewPairwiseAln(row.FirstID(), row.SecondID(), policy)
		for _, r := range row.ranges {
			if r.Direct {
				direct.ranges = append(direct.ranges, r)
			} else {
				reversed.ranges = append(reversed.ranges, r)
			}
		}
		direct.flags |= Direct
		reversed.flags |= Reversed

		rows = append(rows, direct, reversed)
		if i < a.anchorRow {
			anchor++
		}
		split = true
	}

	a.rows = rows
	a.anchorRow = anchor
	return split
}

func (a *AnchoredAln) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "AnchoredAln dim=%d anchor=%d score=%d\n", a.Dim(), a.anchorRow, a.score)
	for i, row := range a.rows {
		fmt.Fprintf(&b, "  %d: %v\n", i, row)
	}
	return b.String()
}
