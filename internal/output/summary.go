package output

import (
	"fmt"
	"io"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// Summary is the headline numbers of a merge.
type Summary struct {
	// Inputs is the number of alignments that were merged
	Inputs int

	// Rows is the dimension of the merged alignment
	Rows int

	// Sequences is the number of distinct sequences in the rows
	Sequences int

	// EmptyRows is the number of rows left without any range
	EmptyRows int

	// Ranges is the number of aligned blocks over all rows
	Ranges int

	// AnchorCoverage is the number of anchor positions covered
	AnchorCoverage int

	// Score is the merged alignment's score
	Score int

	// Elapsed is how long the merge took
	Elapsed time.Duration
}

// Summarize counts the rows and ranges of a merged alignment.
func Summarize(a *aln.AnchoredAln, inputs int, elapsed time.Duration) Summary {
	s := Summary{Inputs: inputs, Rows: a.Dim(), Score: a.Score(), Elapsed: elapsed}

	seen := make(map[*aln.SeqID]bool)
	for i, row := range a.Rows() {
		if !seen[a.ID(i)] {
			seen[a.ID(i)] = true
			s.Sequences++
		}
		if row.Empty() {
			s.EmptyRows++
		}
		s.Ranges += row.Len()
	}

	for _, r := range a.Row(a.AnchorRow()).Ranges() {
		s.AnchorCoverage += r.Len
	}
	return s
}

// Write prints the summary in a human readable form.
func (s Summary) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"merged %s alignments into %s rows (%s sequences, %s empty)\n%s ranges cover %s anchor positions, score %s, in %s\n",
		humanize.Comma(int64(s.Inputs)),
		humanize.Comma(int64(s.Rows)),
		humanize.Comma(int64(s.Sequences)),
		humanize.Comma(int64(s.EmptyRows)),
		humanize.Comma(int64(s.Ranges)),
		humanize.Comma(int64(s.AnchorCoverage)),
		humanize.Comma(int64(s.Score)),
		s.Elapsed.Round(time.Millisecond),
	)
	return err
}
