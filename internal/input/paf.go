package input

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"
	log "github.com/sirupsen/logrus"
)

// paf column indexes
const (
	pafQueryName = iota
	pafQueryLen
	pafQueryStart
	pafQueryEnd
	pafStrand
	pafTargetName
	pafTargetLen
	pafTargetStart
	pafTargetEnd
	pafMatches
	pafBlockLen
	pafMapQ
	pafColumns
)

// ReadPAF parses minimap2 PAF output. The target is the first sequence of
// each record and the score is the number of matching bases. Blocks come
// from the cg:Z CIGAR tag; lines without one are kept as a single block if
// both sides have the same length.
func ReadPAF(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < pafColumns {
			return nil, fmt.Errorf("line %d: expected at least %d PAF columns, found %d", lineNo, pafColumns, len(cols))
		}

		record, ok, err := parsePAF(cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		if !ok {
			log.Warnf("line %d: skipping gapped %s/%s alignment without a cg:Z tag", lineNo, cols[pafTargetName], cols[pafQueryName])
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read PAF: %v", err)
	}
	return records, nil
}

func parsePAF(cols []string) (record Record, ok bool, err error) {
	var nums [pafMapQ]int
	for _, i := range []int{pafQueryLen, pafQueryStart, pafQueryEnd, pafTargetLen, pafTargetStart, pafTargetEnd, pafMatches, pafBlockLen} {
		if nums[i], err = strconv.Atoi(cols[i]); err != nil {
			return record, false, fmt.Errorf("failed to parse column %d %q: %v", i+1, cols[i], err)
		}
	}

	var direct bool
	switch cols[pafStrand] {
	case "+":
		direct = true
	case "-":
		direct = false
	default:
		return record, false, fmt.Errorf("unknown strand %q", cols[pafStrand])
	}

	record = Record{
		FirstName:  cols[pafTargetName],
		SecondName: cols[pafQueryName],
		Score:      nums[pafMatches],
	}

	queryLen := nums[pafQueryLen]
	flip := func(from, to int) (int, int) { return queryLen - 1 - to, queryLen - 1 - from }

	var cigar sam.Cigar
	for _, tag := range cols[pafColumns:] {
		if strings.HasPrefix(tag, "cg:Z:") {
			if cigar, err = sam.ParseCigar([]byte(strings.TrimPrefix(tag, "cg:Z:"))); err != nil {
				return record, false, fmt.Errorf("failed to parse CIGAR: %v", err)
			}
			break
		}
	}

	// PAF coordinates are half open
	targetStart, targetEnd := nums[pafTargetStart], nums[pafTargetEnd]
	queryStart, queryEnd := nums[pafQueryStart], nums[pafQueryEnd]

	if cigar == nil {
		if targetEnd-targetStart != queryEnd-queryStart {
			return record, false, nil
		}
		record.Blocks = []Block{{
			FirstFrom:  targetStart,
			FirstTo:    targetEnd - 1,
			SecondFrom: queryStart,
			SecondTo:   queryEnd - 1,
			Direct:     direct,
		}}
		return record, true, nil
	}

	// a reversed query is laid out reverse complemented in the CIGAR
	secondFrom := queryStart
	if !direct {
		secondFrom = queryLen - queryEnd
	}
	if record.Blocks, err = cigarBlocks(cigar, targetStart, secondFrom, direct, flip); err != nil {
		return record, false, err
	}
	return record, true, nil
}
