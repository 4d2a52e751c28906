// Package output writes merged alignments for people and other programs.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// Range is one aligned block of a row. Coordinates are 0-based and closed.
type Range struct {
	FirstFrom  int  `json:"firstFrom"`
	FirstTo    int  `json:"firstTo"`
	SecondFrom int  `json:"secondFrom"`
	SecondTo   int  `json:"secondTo"`
	Direct     bool `json:"direct"`
}

// Row is one row of the alignment against the anchor.
type Row struct {
	// ID of the row's sequence
	ID string `json:"id"`

	// Track is the index of the row among the rows of the same sequence
	Track int `json:"track"`

	// Direct is false if any of the row's ranges is reversed
	Direct bool `json:"direct"`

	// Ranges are the aligned blocks, ordered along the anchor
	Ranges []Range `json:"ranges"`
}

// Output is a merged anchored alignment in the shape of a dense segment.
type Output struct {
	// Anchor's sequence id
	Anchor string `json:"anchor"`

	// AnchorRow is the index of the anchor in Rows
	AnchorRow int `json:"anchorRow"`

	// Score is the sum of the merged alignments' scores
	Score int `json:"score"`

	// Dim is the number of rows
	Dim int `json:"dim"`

	// Rows of the alignment, the anchor's included
	Rows []Row `json:"rows"`
}

// NewOutput lays out an anchored alignment for serialization.
func NewOutput(a *aln.AnchoredAln) Output {
	out := Output{
		Anchor:    a.AnchorID().Name(),
		AnchorRow: a.AnchorRow(),
		Score:     a.Score(),
		Dim:       a.Dim(),
		Rows:      []Row{},
	}

	tracks := make(map[*aln.SeqID]int)
	for i, p := range a.Rows() {
		id := a.ID(i)
		row := Row{
			ID:     id.Name(),
			Track:  tracks[id],
			Direct: !p.IsSet(aln.Reversed),
			Ranges: []Range{},
		}
		tracks[id]++

		for _, r := range p.Ranges() {
			row.Ranges = append(row.Ranges, Range{
				FirstFrom:  r.FirstFrom,
				FirstTo:    r.FirstTo(),
				SecondFrom: r.SecondFrom,
				SecondTo:   r.SecondTo(),
				Direct:     r.Direct,
			})
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// WriteJSON writes the alignment as indented JSON.
func WriteJSON(w io.Writer, a *aln.AnchoredAln) error {
	output, err := json.MarshalIndent(NewOutput(a), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize the alignment: %v", err)
	}
	if _, err = w.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write the alignment: %v", err)
	}
	return nil
}

// ReadJSON reads an alignment written by WriteJSON back, interning its ids
// in table with the given base widths.
func ReadJSON(r io.Reader, table *aln.IDTable, anchorWidth, rowWidth int) (*aln.AnchoredAln, error) {
	var out Output
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse the alignment: %v", err)
	}
	if out.AnchorRow < 0 || out.AnchorRow >= len(out.Rows) {
		return nil, fmt.Errorf("%w: anchor row %d of %d rows", aln.ErrInvalidRequest, out.AnchorRow, len(out.Rows))
	}

	anchor, err := table.Intern(out.Anchor, anchorWidth)
	if err != nil {
		return nil, err
	}

	var rows []*aln.PairwiseAln
	for i, row := range out.Rows {
		width := rowWidth
		if i == out.AnchorRow {
			width = anchorWidth
		}
		id, err := table.Intern(row.ID, width)
		if err != nil {
			return nil, err
		}

		policy := aln.DefaultPolicy
		if !row.Direct {
			policy = aln.AllowMixedDir
		}
		p := aln.NewPairwiseAln(anchor, id, policy)
		for _, r := range row.Ranges {
			rng, err := aln.NewRange(r.FirstFrom, r.FirstTo, r.SecondFrom, r.SecondTo, r.Direct)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			if err := p.Insert(rng); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
		rows = append(rows, p)
	}
	return aln.NewAnchoredAln(rows, out.AnchorRow, out.Score)
}
