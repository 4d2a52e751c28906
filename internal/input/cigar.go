package input

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// cigarBlocks cuts an alignment into its ungapped blocks. The walk starts
// at firstFrom on the first (reference) sequence and secondFrom on the
// second sequence as laid out in the CIGAR. When the second sequence is
// reversed, its positions are mapped back through flip.
func cigarBlocks(cigar sam.Cigar, firstFrom, secondFrom int, direct bool, flip func(from, to int) (int, int)) ([]Block, error) {
	var blocks []Block
	first, second := firstFrom, secondFrom
	for _, co := range cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			b := Block{
				FirstFrom:  first,
				FirstTo:    first + n - 1,
				SecondFrom: second,
				SecondTo:   second + n - 1,
				Direct:     direct,
			}
			if !direct {
				b.SecondFrom, b.SecondTo = flip(b.SecondFrom, b.SecondTo)
			}
			blocks = append(blocks, b)
			first += n
			second += n
		case sam.CigarHardClipped:
			// hard clips are not in the sequence but are part of the read
			second += n
		case sam.CigarBack:
			return nil, fmt.Errorf("unsupported CIGAR operation in %v", cigar)
		default:
			consume := co.Type().Consumes()
			first += n * consume.Reference
			second += n * consume.Query
		}
	}
	return blocks, nil
}

// readLength is the length of the read including hard clipped bases.
func readLength(cigar sam.Cigar) int {
	length := 0
	for _, co := range cigar {
		if co.Type() == sam.CigarHardClipped {
			length += co.Len()
			continue
		}
		length += co.Len() * co.Type().Consumes().Query
	}
	return length
}
