package aln

import (
	"fmt"
	"sort"
	"strings"
)

// Flags are the policy and state flags of a PairwiseAln.
type Flags uint

const (
	// AllowMixedDir lets direct and reversed ranges share one collection
	AllowMixedDir Flags = 1 << iota

	// AllowOverlap lets ranges overlap on the first sequence
	AllowOverlap

	// KeepNormalized fuses colinear abutting ranges on insert
	KeepNormalized

	// Direct is set once the collection holds a direct range
	Direct

	// Reversed is set once the collection holds a reversed range
	Reversed
)

// DefaultPolicy is used when no policy is given.
const DefaultPolicy Flags = 0

const policyMask = AllowMixedDir | AllowOverlap | KeepNormalized

// PairwiseAln is a collection of ranges between a first (anchor side) and
// second (row) sequence, ordered by position on the first sequence.
type PairwiseAln struct {
	first  *SeqID
	second *SeqID
	flags  Flags
	ranges []Range
}

// NewPairwiseAln returns an empty pairwise alignment between first and second.
// Only policy bits of policy are kept.
func NewPairwiseAln(first, second *SeqID, policy Flags) *PairwiseAln {
	return &PairwiseAln{
		first:  first,
		second: second,
		flags:  policy & policyMask,
	}
}

// FirstID is the identity of the anchor side sequence.
func (p *PairwiseAln) FirstID() *SeqID { return p.first }

// SecondID is the identity of the row sequence.
func (p *PairwiseAln) SecondID() *SeqID { return p.second }

// FirstBaseWidth is the base width of the first sequence.
func (p *PairwiseAln) FirstBaseWidth() int { return p.first.BaseWidth() }

// SecondBaseWidth is the base width of the second sequence.
func (p *PairwiseAln) SecondBaseWidth() int { return p.second.BaseWidth() }

// Policy returns the policy flags the alignment was created with.
func (p *PairwiseAln) Policy() Flags { return p.flags & policyMask }

// IsSet is true if all of the flags in f are set.
func (p *PairwiseAln) IsSet(f Flags) bool { return p.flags&f == f }

// Len is the number of ranges.
func (p *PairwiseAln) Len() int { return len(p.ranges) }

// Empty is true if there are no ranges.
func (p *PairwiseAln) Empty() bool { return len(p.ranges) == 0 }

// At returns the i'th range.
func (p *PairwiseAln) At(i int) Range { return p.ranges[i] }

// Ranges returns a copy of the ranges in first sequence order.
func (p *PairwiseAln) Ranges() []Range {
	ranges := make([]Range, len(p.ranges))
	copy(ranges, p.ranges)
	return ranges
}

// LowerBound returns the index of the first range that starts at or after pos.
func (p *PairwiseAln) LowerBound(pos int) int {
	return sort.Search(len(p.ranges), func(i int) bool {
		return p.ranges[i].FirstFrom >= pos
	})
}

// Find returns the index of a range containing pos on the first sequence.
func (p *PairwiseAln) Find(pos int) (int, bool) {
	i := sort.Search(len(p.ranges), func(i int) bool {
		return p.ranges[i].FirstFrom > pos
	}) - 1

	for ; i >= 0; i-- {
		if p.ranges[i].FirstContains(pos) {
			return i, true
		}
		if !p.IsSet(AllowOverlap) {
			break
		}
	}
	return -1, false
}

// SecondPosByFirstPos maps a position on the first sequence to the second.
func (p *PairwiseAln) SecondPosByFirstPos(pos int) (int, bool) {
	i, ok := p.Find(pos)
	if !ok {
		return 0, false
	}
	return p.ranges[i].SecondPosByFirstPos(pos)
}

// FirstPosBySecondPos maps a position on the second sequence to the first.
func (p *PairwiseAln) FirstPosBySecondPos(pos int) (int, bool) {
	for _, r := range p.ranges {
		if first, ok := r.FirstPosBySecondPos(pos); ok {
			return first, true
		}
	}
	return 0, false
}

// FirstExtent is the closed interval spanned on the first sequence.
func (p *PairwiseAln) FirstExtent() (Interval, bool) {
	if p.Empty() {
		return emptyInterval, false
	}
	ext := Interval{From: p.ranges[0].FirstFrom, To: p.ranges[0].FirstTo()}
	for _, r := range p.ranges[1:] {
		ext.To = max(ext.To, r.FirstTo())
	}
	return ext, true
}

// SecondExtent is the closed interval spanned on the second sequence.
func (p *PairwiseAln) SecondExtent() (Interval, bool) {
	if p.Empty() {
		return emptyInterval, false
	}
	ext := p.ranges[0].SecondInterval()
	for _, r := range p.ranges[1:] {
		ext.From = min(ext.From, r.SecondFrom)
		ext.To = max(ext.To, r.SecondTo())
	}
	return ext, true
}

// Insert adds r to the collection. Empty ranges are ignored. A range that
// overlaps existing content on the first sequence (without AllowOverlap), or
// whose direction differs from existing content (without AllowMixedDir), is
// rejected with ErrOrderingViolation and the collection is left unchanged.
func (p *PairwiseAln) Insert(r Range) error {
	if r.Empty() {
		return nil
	}

	i := p.LowerBound(r.FirstFrom)
	if !p.IsSet(AllowOverlap) {
		if i > 0 && p.ranges[i-1].FirstToOpen() > r.FirstFrom {
			return fmt.Errorf("%w: %v overlaps %v in %v", ErrOrderingViolation, r, p.ranges[i-1], p)
		}
		if i < len(p.ranges) && r.FirstToOpen() > p.ranges[i].FirstFrom {
			return fmt.Errorf("%w: %v overlaps %v in %v", ErrOrderingViolation, r, p.ranges[i], p)
		}
	}

	dir := Direct
	if !r.Direct {
		dir = Reversed
	}
	if !p.IsSet(AllowMixedDir) && !p.Empty() && !p.IsSet(dir) {
		return fmt.Errorf("%w: %v differs in direction from %v", ErrOrderingViolation, r, p)
	}
	p.flags |= dir

	if p.IsSet(KeepNormalized) {
		if i > 0 && p.ranges[i-1].colinear(r) {
			left := p.ranges[i-1]
			if !r.Direct {
				left.SecondFrom = r.SecondFrom
			}
			left.Len += r.Len
			p.ranges[i-1] = left
			p.fuseRight(i - 1)
			return nil
		}
		if i < len(p.ranges) && r.colinear(p.ranges[i]) {
			right := p.ranges[i]
			if r.Direct {
				right.SecondFrom = r.SecondFrom
			}
			right.FirstFrom = r.FirstFrom
			right.Len += r.Len
			p.ranges[i] = right
			return nil
		}
	}

	p.ranges = append(p.ranges, Range{})
	copy(p.ranges[i+1:], p.ranges[i:])
	p.ranges[i] = r
	return nil
}

// fuseRight merges the range at i with its right neighbour when colinear.
func (p *PairwiseAln) fuseRight(i int) {
	if i+1 >= len(p.ranges) || !p.ranges[i].colinear(p.ranges[i+1]) {
		return
	}
	left, right := p.ranges[i], p.ranges[i+1]
	if !left.Direct {
		left.SecondFrom = right.SecondFrom
	}
	left.Len += right.Len
	p.ranges[i] = left
	p.ranges = append(p.ranges[:i+1], p.ranges[i+2:]...)
}

// Clone returns a deep copy.
func (p *PairwiseAln) Clone() *PairwiseAln {
	return &PairwiseAln{
		first:  p.first,
		second: p.second,
		flags:  p.flags,
		ranges: p.Ranges(),
	}
}

// Equal is true if both alignments have the same ids and ranges.
func (p *PairwiseAln) Equal(other *PairwiseAln) bool {
	if p.first != other.first || p.second != other.second || len(p.ranges) != len(other.ranges) {
		return false
	}
	for i := range p.ranges {
		if p.ranges[i] != other.ranges[i] {
			return false
		}
	}
	return true
}

func (p *PairwiseAln) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s<->%s{", p.first, p.second)
	for i, r := range p.ranges {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(r.String())
	}
	b.WriteString("}")
	return b.String()
}
