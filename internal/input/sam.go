package input

import (
	"fmt"
	"io"

	"github.com/biogo/hts/sam"
	log "github.com/sirupsen/logrus"
)

// alignment score tag set by most mappers
var alignmentScore = sam.NewTag("AS")

// ReadSAM parses the mapped records of a SAM file. The reference is the
// first sequence of each record and the read the second.
func ReadSAM(r io.Reader) ([]Record, error) {
	reader, err := sam.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read SAM header: %v", err)
	}

	var records []Record
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read SAM record %d: %v", len(records)+1, err)
		}
		if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil || len(rec.Cigar) == 0 {
			continue
		}

		record, err := samRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("SAM record %s: %v", rec.Name, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func samRecord(rec *sam.Record) (Record, error) {
	direct := rec.Flags&sam.Reverse == 0
	length := readLength(rec.Cigar)
	flip := func(from, to int) (int, int) { return length - 1 - to, length - 1 - from }

	blocks, err := cigarBlocks(rec.Cigar, rec.Pos, 0, direct, flip)
	if err != nil {
		return Record{}, err
	}

	score, ok := auxInt(rec.AuxFields.Get(alignmentScore))
	if !ok {
		for _, b := range blocks {
			score += b.firstLen()
		}
	}
	log.Debugf("read %s on %s at %d: %d blocks, score %d", rec.Name, rec.Ref.Name(), rec.Pos, len(blocks), score)

	return Record{
		FirstName:  rec.Ref.Name(),
		SecondName: rec.Name,
		Score:      score,
		Blocks:     blocks,
	}, nil
}

// auxInt reads an integer aux field of any width.
func auxInt(aux sam.Aux) (int, bool) {
	if aux == nil {
		return 0, false
	}
	switch v := aux.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case float32:
		return int(v), true
	}
	return 0, false
}
