package merge

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// MergePairwiseAlns inserts into existing whatever part of addition it does
// not already cover.
func MergePairwiseAlns(existing, addition *aln.PairwiseAln) error {
	diff, err := aln.Truncate(addition, existing)
	if err != nil {
		return err
	}
	for _, r := range diff.Ranges() {
		if err := existing.Insert(r); err != nil {
			return err
		}
	}
	return nil
}

// merged accumulates the ranges of one row identity. Ranges that cannot
// coexist in one ordered PairwiseAln go to separate tracks. Unless mixed
// strands are allowed, direct tracks come first (tracks[:numDirect]).
type merged struct {
	flags     Flags
	first     *aln.SeqID
	second    *aln.SeqID
	policy    aln.Flags
	tracks    []*aln.PairwiseAln
	numDirect int
}

func newMerged(first, second *aln.SeqID, policy aln.Flags, flags Flags) *merged {
	if flags&AllowMixedStrand != 0 {
		policy |= aln.AllowMixedDir
	}
	return &merged{flags: flags, first: first, second: second, policy: policy &^ aln.AllowOverlap}
}

// insert adds p and returns the part of p that was actually added.
func (m *merged) insert(p *aln.PairwiseAln) (*aln.PairwiseAln, error) {
	addition := p
	if m.flags&TruncateOverlaps != 0 {
		for _, track := range m.tracks {
			truncated, err := aln.Truncate(addition, track)
			if err != nil {
				return nil, err
			}
			addition = truncated
		}
	}

	for _, r := range addition.Ranges() {
		if err := m.add(r); err != nil {
			return nil, err
		}
	}
	return addition, nil
}

// add places r into the first track that can take it, opening a new one if none can.
func (m *merged) add(r aln.Range) error {
	from, to := 0, len(m.tracks)
	if m.flags&AllowMixedStrand == 0 {
		if r.Direct {
			to = m.numDirect
		} else {
			from = m.numDirect
		}
	}

	i := from
	for ; i < to; i++ {
		if m.canInsert(m.tracks[i], r) {
			break
		}
	}

	if i == to {
		track := aln.NewPairwiseAln(m.first, m.second, m.policy)
		m.tracks = append(m.tracks, nil)
		copy(m.tracks[i+1:], m.tracks[i:])
		m.tracks[i] = track
		if r.Direct && m.flags&AllowMixedStrand == 0 {
			m.numDirect++
		}
		log.Debugf("opened track %d for %v on %v", i, r, m.second)
	}

	if err := m.tracks[i].Insert(r); err != nil {
		return fmt.Errorf("inserting into track %d of %v: %w", i, m.second, err)
	}
	return nil
}

// canInsert checks r against its neighbours in track on both sequences.
func (m *merged) canInsert(track *aln.PairwiseAln, r aln.Range) bool {
	i := track.LowerBound(r.FirstFrom)
	if i > 0 {
		left := track.At(i - 1)
		if !validOnFirst(left, r) {
			return false
		}
		if r.Direct && !m.validOnSecond(left, r) || !r.Direct && !m.validOnSecond(r, left) {
			return false
		}
	}
	if i < track.Len() {
		right := track.At(i)
		if !validOnFirst(r, right) {
			return false
		}
		if r.Direct && !m.validOnSecond(r, right) || !r.Direct && !m.validOnSecond(right, r) {
			return false
		}
	}
	return true
}

// validOnFirst is false if left and right overlap on the first sequence.
func validOnFirst(left, right aln.Range) bool {
	return left.FirstToOpen() <= right.FirstFrom
}

// validOnSecond checks that left precedes right on the second sequence. With
// translocations allowed, being out of order is fine as long as they don't
// overlap. Ranges of differing direction (mixed strand tracks) only need to
// not overlap.
func (m *merged) validOnSecond(left, right aln.Range) bool {
	overlap := left.SecondFrom < right.SecondToOpen() && right.SecondFrom < left.SecondToOpen()
	if left.Direct != right.Direct {
		return !overlap
	}
	if left.SecondToOpen() > right.SecondFrom {
		if m.flags&AllowTranslocation != 0 {
			return !overlap
		}
		return false
	}
	return true
}

// rows are the tracks, or one empty row if nothing was ever added.
func (m *merged) rows() []*aln.PairwiseAln {
	if len(m.tracks) == 0 {
		return []*aln.PairwiseAln{aln.NewPairwiseAln(m.first, m.second, m.policy)}
	}
	return m.tracks
}

func (m *merged) String() string {
	return fmt.Sprintf("merged %v (%v): %d tracks, %d direct", m.second, m.flags, len(m.tracks), m.numDirect)
}
