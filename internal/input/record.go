// Package input reads pairwise alignments written by other tools (BLAST,
// minimap2, SAM mappers) and turns them into anchored alignments.
package input

import (
	"fmt"
	"strings"
)

// Block is an ungapped piece of a Record. Coordinates are 0-based and closed.
type Block struct {
	// FirstFrom is the start of the block on the first (anchor) sequence
	FirstFrom int

	// FirstTo is the end of the block on the first sequence
	FirstTo int

	// SecondFrom is the start of the block on the second sequence
	SecondFrom int

	// SecondTo is the end of the block on the second sequence
	SecondTo int

	// Direct if both sequences run the same way over the block
	Direct bool
}

// firstLen is the number of positions covered on the first sequence.
func (b Block) firstLen() int {
	return b.FirstTo - b.FirstFrom + 1
}

// secondLen is the number of positions covered on the second sequence.
func (b Block) secondLen() int {
	return b.SecondTo - b.SecondFrom + 1
}

// Record is one alignment between a first and a second sequence as reported
// by an aligner.
type Record struct {
	// FirstName is the name of the first sequence: the query of a BLAST search,
	// the target/reference of a mapping
	FirstName string

	// SecondName is the name of the sequence aligned against the first
	SecondName string

	// Score is the aligner's score for the whole alignment
	Score int

	// Blocks are the ungapped pieces of the alignment
	Blocks []Block
}

// first is the closed range covered on the first sequence.
func (r Record) first() (from, to int) {
	if len(r.Blocks) == 0 {
		return 0, -1
	}
	from, to = r.Blocks[0].FirstFrom, r.Blocks[0].FirstTo
	for _, b := range r.Blocks[1:] {
		if b.FirstFrom < from {
			from = b.FirstFrom
		}
		if b.FirstTo > to {
			to = b.FirstTo
		}
	}
	return
}

// length is the number of positions of the first sequence spanned by the record.
func (r Record) length() int {
	from, to := r.first()
	return to - from + 1
}

func (r Record) String() string {
	var blocks []string
	for _, b := range r.Blocks {
		strand := "+"
		if !b.Direct {
			strand = "-"
		}
		blocks = append(blocks, fmt.Sprintf("[%d-%d]<->[%d-%d]%s", b.FirstFrom, b.FirstTo, b.SecondFrom, b.SecondTo, strand))
	}
	return fmt.Sprintf("%s/%s (%d): %s", r.FirstName, r.SecondName, r.Score, strings.Join(blocks, " "))
}
