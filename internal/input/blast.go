package input

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Filter decides which BLAST hits are kept.
type Filter struct {
	// Exclude drops hits whose subject name contains one of these words (case insensitive)
	Exclude []string

	// MinLength drops hits spanning fewer query positions
	MinLength int

	// Cull drops hits self-contained in a larger hit between the same query and subject
	Cull bool
}

// excluded is true if the subject name contains one of the exclusion words.
func (f Filter) excluded(subject string) bool {
	subject = strings.ToUpper(subject)
	for _, word := range f.Exclude {
		if word = strings.ToUpper(strings.TrimSpace(word)); word != "" && strings.Contains(subject, word) {
			return true
		}
	}
	return false
}

// blastColumns are the indexes of the fields read from a tabular BLAST line.
type blastColumns struct {
	qstart, qend, sstart, send, bitscore int
}

var (
	// -outfmt "7 qseqid sseqid qstart qend sstart send bitscore"
	shortColumns = blastColumns{2, 3, 4, 5, 6}

	// the default -outfmt 6 and 7 columns:
	// qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore
	defaultColumns = blastColumns{6, 7, 8, 9, 11}
)

// ReadBLAST parses tabular BLAST output into records, one per hit. The
// query is the first sequence of each record.
func ReadBLAST(r io.Reader, filter Filter) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())

		// comment lines start with a #
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) == 1 {
			cols = strings.Fields(line)
		}

		var columns blastColumns
		switch {
		case len(cols) >= 12:
			columns = defaultColumns
		case len(cols) == 7:
			columns = shortColumns
		default:
			return nil, fmt.Errorf("line %d: expected 7 or at least 12 BLAST columns, found %d", lineNo, len(cols))
		}

		record, err := parseHit(cols, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}

		if filter.excluded(record.SecondName) {
			continue // has been filtered out because of the exclude words
		}
		if filter.MinLength > 0 && record.length() < filter.MinLength {
			continue // too short
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read BLAST output: %v", err)
	}

	if filter.Cull {
		records = cull(records)
	}
	return records, nil
}

// parseHit turns the columns of one BLAST line into a single block record.
func parseHit(cols []string, columns blastColumns) (Record, error) {
	var coords [4]int
	for i, col := range []int{columns.qstart, columns.qend, columns.sstart, columns.send} {
		n, err := strconv.Atoi(strings.TrimSpace(cols[col]))
		if err != nil {
			return Record{}, fmt.Errorf("failed to parse coordinate %q: %v", cols[col], err)
		}
		coords[i] = n - 1 // convert from 1-based to 0-based
	}
	queryStart, queryEnd, subjectStart, subjectEnd := coords[0], coords[1], coords[2], coords[3]

	bitscore, err := strconv.ParseFloat(strings.TrimSpace(cols[columns.bitscore]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse bitscore %q: %v", cols[columns.bitscore], err)
	}

	// flip if blast is reading right to left
	direct := true
	if queryStart > queryEnd {
		queryStart, queryEnd = queryEnd, queryStart
		direct = !direct
	}
	if subjectStart > subjectEnd {
		subjectStart, subjectEnd = subjectEnd, subjectStart
		direct = !direct
	}

	block := Block{
		FirstFrom:  queryStart,
		FirstTo:    queryEnd,
		SecondFrom: subjectStart,
		SecondTo:   subjectEnd,
		Direct:     direct,
	}
	if block.firstLen() != block.secondLen() {
		block = ungapped(block)
	}

	return Record{
		FirstName:  strings.Replace(strings.TrimSpace(cols[0]), ">", "", -1),
		SecondName: strings.Replace(strings.TrimSpace(cols[1]), ">", "", -1),
		Score:      int(math.Round(bitscore)),
		Blocks:     []Block{block},
	}, nil
}

// ungapped trims a gapped hit to its shorter side, keeping the start of the
// hit in alignment order. Tabular output has no gap positions.
func ungapped(b Block) Block {
	n := b.firstLen()
	if b.secondLen() < n {
		n = b.secondLen()
	}

	trimmed := Block{FirstFrom: b.FirstFrom, FirstTo: b.FirstFrom + n - 1, Direct: b.Direct}
	if b.Direct {
		trimmed.SecondFrom, trimmed.SecondTo = b.SecondFrom, b.SecondFrom+n-1
	} else {
		trimmed.SecondFrom, trimmed.SecondTo = b.SecondTo-n+1, b.SecondTo
	}
	log.Debugf("trimmed gapped hit [%d-%d]<->[%d-%d] to %d positions", b.FirstFrom, b.FirstTo, b.SecondFrom, b.SecondTo, n)
	return trimmed
}

// cull removes hits that are entirely contained within a larger one between
// the same query and subject. The larger of the hits covers a greater region
// and is almost always preferable to the smaller one.
func cull(records []Record) []Record {
	type pair struct{ first, second string }

	groups := make(map[pair][]Record)
	var order []pair
	for _, r := range records {
		p := pair{r.FirstName, r.SecondName}
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], r)
	}

	culled := []Record{}
	for _, p := range order {
		culled = append(culled, properize(groups[p])...)
	}
	return culled
}

// properize keeps only the records that aren't encompassed by the one before
// them once sorted by start.
func properize(records []Record) (culled []Record) {
	sortRecords(records)

	lastEnd := 0
	for _, r := range records {
		_, to := r.first()
		if len(culled) == 0 || to > lastEnd {
			culled = append(culled, r)
			lastEnd = to
		}
	}
	return
}

// sortRecords sorts records by their start on the first sequence. Records
// with the same start have the larger one first.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		fi, _ := records[i].first()
		fj, _ := records[j].first()
		if fi != fj {
			return fi < fj
		}
		return records[i].length() > records[j].length()
	})
}
