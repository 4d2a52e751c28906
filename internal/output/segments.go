package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// segmentWriter returns a new tabwriter for segment tables.
func segmentWriter(w io.Writer) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	fmt.Fprintf(tw, "row\tid\ttype\tfirst\tsecond\tstrand\t\n")
	return tw
}

// WriteSegments writes the aligned and gap segments of every row within sel,
// a window on the anchor. A nil sel is each row's whole extent.
func WriteSegments(w io.Writer, a *aln.AnchoredAln, sel *aln.Interval) error {
	tw := segmentWriter(w)
	for i, row := range a.Rows() {
		it := row.Segments(sel)
		for it.Next() {
			seg := it.Segment()
			strand := "+"
			if !seg.Direct {
				strand = "-"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n", i, a.ID(i).Name(), seg.Type, seg.First, seg.Second, strand)
		}
	}
	return tw.Flush()
}
