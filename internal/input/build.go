package input

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// BuildOptions control how records become anchored alignments.
type BuildOptions struct {
	// Anchor keeps only the records whose first sequence has this name. Empty keeps all
	Anchor string

	// AnchorWidth is the base width of first sequence coordinates (1 protein, 3 nucleotide)
	AnchorWidth int

	// RowWidth is the base width of second sequence coordinates
	RowWidth int
}

func (o BuildOptions) widths() (anchor, row int) {
	anchor, row = o.AnchorWidth, o.RowWidth
	if anchor == 0 {
		anchor = aln.ProteinWidth
	}
	if row == 0 {
		row = aln.ProteinWidth
	}
	return
}

// Build turns each record into a two row anchored alignment: the record's
// second sequence and then the anchor, aligned to itself over the blocks.
// Ids are interned in table. Self alignments are skipped.
func Build(records []Record, table *aln.IDTable, opts BuildOptions) ([]*aln.AnchoredAln, error) {
	anchorWidth, rowWidth := opts.widths()
	firstScale, secondScale := aln.ScaleFactors(anchorWidth, rowWidth)

	var anchoredAlns []*aln.AnchoredAln
	for n, record := range records {
		anchor, err := table.Intern(record.FirstName, anchorWidth)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		if opts.Anchor != "" {
			if want, ok := table.Lookup(opts.Anchor); !ok || want != anchor {
				continue
			}
		}

		second, err := table.Intern(record.SecondName, rowWidth)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		if second == anchor {
			log.Debugf("skipping self alignment of %v", anchor)
			continue
		}

		row := aln.NewPairwiseAln(anchor, second, aln.DefaultPolicy)
		self := aln.NewPairwiseAln(anchor, anchor, aln.DefaultPolicy)
		for _, b := range record.Blocks {
			r, err := aln.NewRange(
				b.FirstFrom*firstScale, (b.FirstTo+1)*firstScale-1,
				b.SecondFrom*secondScale, (b.SecondTo+1)*secondScale-1,
				b.Direct,
			)
			if err != nil {
				return nil, fmt.Errorf("record %d (%v): %w", n, record, err)
			}
			if err := row.Insert(r); err != nil {
				return nil, fmt.Errorf("record %d (%v): %w", n, record, err)
			}
			identity := aln.Range{FirstFrom: r.FirstFrom, SecondFrom: r.FirstFrom, Len: r.Len, Direct: true}
			if err := self.Insert(identity); err != nil {
				return nil, fmt.Errorf("record %d (%v): %w", n, record, err)
			}
		}

		anchored, err := aln.NewAnchoredAln([]*aln.PairwiseAln{row, self}, 1, record.Score)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		anchoredAlns = append(anchoredAlns, anchored)
	}
	return anchoredAlns, nil
}
