package aln

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
)

// span is a closed interval stored in an interval tree.
type span struct {
	r  interval.IntRange
	id uintptr
}

func (s span) Range() interval.IntRange { return s.r }
func (s span) ID() uintptr              { return s.id }
func (s span) Overlap(b interval.IntRange) bool {
	return b.End >= s.r.Start && b.Start <= s.r.End
}

// query is a closed interval used to search a tree.
type query interval.IntRange

func (q query) Overlap(b interval.IntRange) bool {
	return b.End >= q.Start && b.Start <= q.End
}

// coverage indexes the intervals covered by a pairwise alignment on one of
// its two sequences.
type coverage struct {
	tree interval.IntTree
}

func newCoverage(intervals []Interval) (*coverage, error) {
	c := &coverage{}
	for i, iv := range intervals {
		s := span{r: interval.IntRange{Start: iv.From, End: iv.To}, id: uintptr(i + 1)}
		if err := c.tree.Insert(s, true); err != nil {
			return nil, fmt.Errorf("%w: indexing %v: %v", ErrPrecondition, iv, err)
		}
	}
	if len(intervals) > 0 {
		c.tree.AdjustRanges()
	}
	return c, nil
}

// uncovered returns the parts of iv not covered by the index, in order.
func (c *coverage) uncovered(iv Interval) []Interval {
	hits := c.tree.Get(query{Start: iv.From, End: iv.To})
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Range().Start < hits[j].Range().Start
	})

	var rest []Interval
	cursor := iv.From
	for _, h := range hits {
		r := h.Range()
		if r.Start > cursor {
			rest = append(rest, Interval{From: cursor, To: min(r.Start-1, iv.To)})
		}
		cursor = max(cursor, r.End+1)
		if cursor > iv.To {
			break
		}
	}
	if cursor <= iv.To {
		rest = append(rest, Interval{From: cursor, To: iv.To})
	}
	return rest
}

func checkWidths(minuend, subtrahend *PairwiseAln) error {
	if minuend.FirstBaseWidth() != subtrahend.FirstBaseWidth() || minuend.SecondBaseWidth() != subtrahend.SecondBaseWidth() {
		return fmt.Errorf(
			"%w: base widths %d/%d of %v do not match %d/%d of %v",
			ErrPrecondition,
			minuend.FirstBaseWidth(), minuend.SecondBaseWidth(), minuend,
			subtrahend.FirstBaseWidth(), subtrahend.SecondBaseWidth(), subtrahend,
		)
	}
	return nil
}

// Subtract returns the parts of minuend's ranges that are not covered by any
// range of subtrahend on the first sequence. The second sequence of each
// residual is trimmed to match. The result has minuend's ids and policy.
func Subtract(minuend, subtrahend *PairwiseAln) (*PairwiseAln, error) {
	if err := checkWidths(minuend, subtrahend); err != nil {
		return nil, err
	}

	intervals := make([]Interval, 0, subtrahend.Len())
	for _, r := range subtrahend.ranges {
		intervals = append(intervals, r.FirstInterval())
	}
	cov, err := newCoverage(intervals)
	if err != nil {
		return nil, err
	}

	diff := NewPairwiseAln(minuend.FirstID(), minuend.SecondID(), minuend.Policy())
	for _, r := range minuend.ranges {
		for _, rest := range cov.uncovered(r.FirstInterval()) {
			if err := diff.Insert(r.IntersectFirst(rest.From, rest.To)); err != nil {
				return nil, err
			}
		}
	}
	return diff, nil
}

// SubtractOnSecond is Subtract on the second sequence: the first sequence of
// each residual is trimmed to match.
func SubtractOnSecond(minuend, subtrahend *PairwiseAln) (*PairwiseAln, error) {
	if err := checkWidths(minuend, subtrahend); err != nil {
		return nil, err
	}

	intervals := make([]Interval, 0, subtrahend.Len())
	for _, r := range subtrahend.ranges {
		intervals = append(intervals, r.SecondInterval())
	}
	cov, err := newCoverage(intervals)
	if err != nil {
		return nil, err
	}

	diff := NewPairwiseAln(minuend.FirstID(), minuend.SecondID(), minuend.Policy())
	for _, r := range minuend.ranges {
		for _, rest := range cov.uncovered(r.SecondInterval()) {
			if err := diff.Insert(r.IntersectSecond(rest.From, rest.To)); err != nil {
				return nil, err
			}
		}
	}
	return diff, nil
}

// Truncate removes from addition everything existing already covers, on the
// first sequence and then on the second.
func Truncate(addition, existing *PairwiseAln) (*PairwiseAln, error) {
	onFirst, err := Subtract(addition, existing)
	if err != nil {
		return nil, err
	}
	return SubtractOnSecond(onFirst, existing)
}
