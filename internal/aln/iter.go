package aln

// SegType is the kind of segment produced by a SegmentIter.
type SegType int

const (
	// Aligned is a range aligned between both sequences
	Aligned SegType = iota

	// Gap is a stretch of the first sequence with nothing aligned to it
	Gap
)

func (t SegType) String() string {
	if t == Aligned {
		return "aligned"
	}
	return "gap"
}

// Segment is one aligned range or gap of a PairwiseAln.
type Segment struct {
	Type SegType

	// First is the interval on the first sequence
	First Interval

	// Second is the interval on the second sequence. In a gap it is the
	// unaligned stretch between colinear neighbours, otherwise empty.
	Second Interval

	// Direct is the direction of the aligned range (or the gap's neighbours)
	Direct bool
}

// SegmentIter walks the aligned ranges and gaps of a PairwiseAln over a
// window of the first sequence.
//
//	it := p.Segments(nil)
//	for it.Next() {
//		seg := it.Segment()
//	}
type SegmentIter struct {
	ranges []Range
	sel    Interval

	// next uncovered position on the first sequence
	pos int

	// index of the next range to emit
	i int

	// last range emitted, nil before the first one
	prev *Range

	cur Segment
}

// Segments returns an iterator over sel on the first sequence. A nil sel
// selects the whole first extent of the alignment.
func (p *PairwiseAln) Segments(sel *Interval) *SegmentIter {
	it := &SegmentIter{ranges: p.Ranges(), sel: emptyInterval}
	if sel != nil {
		it.sel = *sel
	} else if ext, ok := p.FirstExtent(); ok {
		it.sel = ext
	}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the start of its window.
func (it *SegmentIter) Reset() {
	it.pos = it.sel.From
	it.prev = nil
	it.cur = Segment{}
	it.i = 0
	it.skipCovered()
}

// skipCovered moves past ranges that end before the current position.
func (it *SegmentIter) skipCovered() {
	for it.i < len(it.ranges) && it.ranges[it.i].FirstTo() < it.pos {
		it.i++
	}
}

// Next advances to the next segment. It returns false once the window is done.
func (it *SegmentIter) Next() bool {
	if it.sel.Empty() || it.pos > it.sel.To {
		return false
	}

	if it.i < len(it.ranges) && it.ranges[it.i].FirstFrom <= it.pos {
		r := &it.ranges[it.i]
		clipped := r.IntersectFirst(it.pos, it.sel.To)
		it.cur = Segment{
			Type:   Aligned,
			First:  clipped.FirstInterval(),
			Second: clipped.SecondInterval(),
			Direct: r.Direct,
		}
		it.pos = clipped.FirstToOpen()
		it.prev = r
		it.i++
		it.skipCovered()
		return true
	}

	end := it.sel.To
	var next *Range
	if it.i < len(it.ranges) {
		next = &it.ranges[it.i]
		end = min(end, next.FirstFrom-1)
	}

	it.cur = Segment{
		Type:   Gap,
		First:  Interval{From: it.pos, To: end},
		Second: emptyInterval,
		Direct: true,
	}
	switch {
	case it.prev != nil && next != nil && it.prev.Direct == next.Direct:
		it.cur.Direct = next.Direct
		second := Interval{From: it.prev.SecondToOpen(), To: next.SecondFrom - 1}
		if !next.Direct {
			second = Interval{From: next.SecondToOpen(), To: it.prev.SecondFrom - 1}
		}
		if !second.Empty() {
			it.cur.Second = second
		}
	case it.prev != nil:
		it.cur.Direct = it.prev.Direct
	case next != nil:
		it.cur.Direct = next.Direct
	}
	it.pos = end + 1
	return true
}

// Segment returns the current segment. Only valid after Next returned true.
func (it *SegmentIter) Segment() Segment {
	return it.cur
}

// Collect drains a fresh pass of the iterator into a slice.
func (it *SegmentIter) Collect() []Segment {
	it.Reset()
	var segs []Segment
	for it.Next() {
		segs = append(segs, it.Segment())
	}
	it.Reset()
	return segs
}
