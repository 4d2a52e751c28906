package aln

import "fmt"

// Range is an ungapped block aligned between a first and second sequence.
// Both sides have Len positions. Direct is false when the second sequence
// runs in the opposite direction over the block.
type Range struct {
	// FirstFrom is the start of the block on the first sequence
	FirstFrom int

	// SecondFrom is the start of the block on the second sequence
	SecondFrom int

	// Len is the length of the block on both sequences
	Len int

	// Direct if the second sequence runs in the same direction as the first
	Direct bool
}

// NewRange creates a range from closed intervals on both sequences.
func NewRange(firstFrom, firstTo, secondFrom, secondTo int, direct bool) (Range, error) {
	firstLen := firstTo - firstFrom + 1
	secondLen := secondTo - secondFrom + 1
	if firstLen < 0 || secondLen < 0 {
		return Range{}, fmt.Errorf("%w: negative length range [%d-%d]<->[%d-%d]", ErrPrecondition, firstFrom, firstTo, secondFrom, secondTo)
	}
	if firstLen != secondLen {
		return Range{}, fmt.Errorf("%w: range [%d-%d]<->[%d-%d] has %d positions on the first sequence and %d on the second", ErrPrecondition, firstFrom, firstTo, secondFrom, secondTo, firstLen, secondLen)
	}
	return Range{FirstFrom: firstFrom, SecondFrom: secondFrom, Len: firstLen, Direct: direct}, nil
}

// FirstTo is the closed end of the block on the first sequence.
func (r Range) FirstTo() int { return r.FirstFrom + r.Len - 1 }

// FirstToOpen is the open end of the block on the first sequence.
func (r Range) FirstToOpen() int { return r.FirstFrom + r.Len }

// SecondTo is the closed end of the block on the second sequence.
func (r Range) SecondTo() int { return r.SecondFrom + r.Len - 1 }

// SecondToOpen is the open end of the block on the second sequence.
func (r Range) SecondToOpen() int { return r.SecondFrom + r.Len }

// Empty is true for a zero length range.
func (r Range) Empty() bool { return r.Len <= 0 }

// FirstInterval returns the closed interval covered on the first sequence.
func (r Range) FirstInterval() Interval { return Interval{r.FirstFrom, r.FirstTo()} }

// SecondInterval returns the closed interval covered on the second sequence.
func (r Range) SecondInterval() Interval { return Interval{r.SecondFrom, r.SecondTo()} }

// FirstContains is true if pos is within the block on the first sequence.
func (r Range) FirstContains(pos int) bool {
	return pos >= r.FirstFrom && pos < r.FirstToOpen()
}

// SecondContains is true if pos is within the block on the second sequence.
func (r Range) SecondContains(pos int) bool {
	return pos >= r.SecondFrom && pos < r.SecondToOpen()
}

// SecondPosByFirstPos maps a first sequence position onto the second sequence.
func (r Range) SecondPosByFirstPos(pos int) (int, bool) {
	if !r.FirstContains(pos) {
		return 0, false
	}
	offset := pos - r.FirstFrom
	if r.Direct {
		return r.SecondFrom + offset, true
	}
	return r.SecondTo() - offset, true
}

// FirstPosBySecondPos maps a second sequence position onto the first sequence.
func (r Range) FirstPosBySecondPos(pos int) (int, bool) {
	if !r.SecondContains(pos) {
		return 0, false
	}
	offset := pos - r.SecondFrom
	if r.Direct {
		return r.FirstFrom + offset, true
	}
	return r.FirstTo() - offset, true
}

// IntersectFirst clips the range to [from, to] on the first sequence. The
// second sequence is trimmed by the same amounts, from the opposite end when
// the range is reversed. The result is empty if nothing is left.
func (r Range) IntersectFirst(from, to int) Range {
	newFrom, newTo := max(r.FirstFrom, from), min(r.FirstTo(), to)
	if newFrom > newTo {
		return Range{Direct: r.Direct}
	}

	lead := newFrom - r.FirstFrom
	trail := r.FirstTo() - newTo
	secondFrom := r.SecondFrom + lead
	if !r.Direct {
		secondFrom = r.SecondFrom + trail
	}
	return Range{FirstFrom: newFrom, SecondFrom: secondFrom, Len: newTo - newFrom + 1, Direct: r.Direct}
}

// IntersectSecond clips the range to [from, to] on the second sequence,
// trimming the first sequence to match.
func (r Range) IntersectSecond(from, to int) Range {
	newFrom, newTo := max(r.SecondFrom, from), min(r.SecondTo(), to)
	if newFrom > newTo {
		return Range{Direct: r.Direct}
	}

	lead := newFrom - r.SecondFrom
	trail := r.SecondTo() - newTo
	firstFrom := r.FirstFrom + lead
	if !r.Direct {
		firstFrom = r.FirstFrom + trail
	}
	return Range{FirstFrom: firstFrom, SecondFrom: newFrom, Len: newTo - newFrom + 1, Direct: r.Direct}
}

// colinear is true when next continues r on both sequences with no gap.
func (r Range) colinear(next Range) bool {
	if r.Direct != next.Direct || r.FirstToOpen() != next.FirstFrom {
		return false
	}
	if r.Direct {
		return r.SecondToOpen() == next.SecondFrom
	}
	return next.SecondToOpen() == r.SecondFrom
}

func (r Range) String() string {
	strand := "+"
	if !r.Direct {
		strand = "-"
	}
	return fmt.Sprintf("[%d-%d]<->[%d-%d]%s", r.FirstFrom, r.FirstTo(), r.SecondFrom, r.SecondTo(), strand)
}

// ScaleFactors returns the multipliers that bring coordinates of sequences
// with base widths firstWidth and secondWidth onto one alignment scale.
// Protein against codon coordinates (1 vs 3) scales the protein side by 3.
func ScaleFactors(firstWidth, secondWidth int) (int, int) {
	if firstWidth == secondWidth {
		return 1, 1
	}
	lcm := firstWidth * secondWidth / gcd(firstWidth, secondWidth)
	return lcm / firstWidth, lcm / secondWidth
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Interval is a closed interval. It is empty when To < From.
type Interval struct {
	From int
	To   int
}

// Empty is true when the interval covers nothing.
func (i Interval) Empty() bool { return i.To < i.From }

// Len is the number of positions covered by the interval.
func (i Interval) Len() int {
	if i.Empty() {
		return 0
	}
	return i.To - i.From + 1
}

func (i Interval) String() string {
	if i.Empty() {
		return "-"
	}
	return fmt.Sprintf("%d-%d", i.From, i.To)
}

// emptyInterval is the collapsed interval used for gaps with no aligned content.
var emptyInterval = Interval{From: 0, To: -1}
