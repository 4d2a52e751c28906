package merge

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jjtimmons/alnmerge/internal/aln"
)

// block is one aligned range of a test alignment: anchor [from, to] against
// the row starting at second.
type block struct {
	from, to, second int
	direct           bool
}

// fixture interns ids and builds two row (row, anchor) alignments.
type fixture struct {
	t     *testing.T
	table *aln.IDTable
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, table: aln.NewIDTable(nil)}
}

func (f *fixture) id(name string) *aln.SeqID {
	f.t.Helper()
	id, err := f.table.Intern(name, aln.ProteinWidth)
	if err != nil {
		f.t.Fatal(err)
	}
	return id
}

// pairwise builds a row against anchor "A".
func (f *fixture) pairwise(row string, blocks ...block) *aln.PairwiseAln {
	f.t.Helper()
	p := aln.NewPairwiseAln(f.id("A"), f.id(row), aln.DefaultPolicy)
	for _, b := range blocks {
		if err := p.Insert(aln.Range{FirstFrom: b.from, SecondFrom: b.second, Len: b.to - b.from + 1, Direct: b.direct}); err != nil {
			f.t.Fatal(err)
		}
	}
	return p
}

// anchored builds an alignment of rows against "A" with the anchor row last.
func (f *fixture) anchored(score int, rows map[string][]block) *aln.AnchoredAln {
	f.t.Helper()
	var (
		pairwises []*aln.PairwiseAln
		anchor    []block
	)
	for _, name := range []string{"B", "C", "D"} {
		blocks, ok := rows[name]
		if !ok {
			continue
		}
		pairwises = append(pairwises, f.pairwise(name, blocks...))
		for _, b := range blocks {
			anchor = append(anchor, block{b.from, b.to, b.from, true})
		}
	}
	pairwises = append(pairwises, f.pairwise("A", anchor...))

	a, err := aln.NewAnchoredAln(pairwises, len(pairwises)-1, score)
	if err != nil {
		f.t.Fatal(err)
	}
	return a
}

// coverage is the list of first intervals of a row.
func coverage(p *aln.PairwiseAln) []aln.Interval {
	var ivs []aln.Interval
	for _, r := range p.Ranges() {
		ivs = append(ivs, r.FirstInterval())
	}
	return ivs
}

func rowNames(a *aln.AnchoredAln) []string {
	var names []string
	for i := 0; i < a.Dim(); i++ {
		names = append(names, a.ID(i).Name())
	}
	return names
}

func TestBuildAln_mergeAll(t *testing.T) {
	f := newFixture(t)
	aln1 := f.anchored(0, map[string][]block{"B": {{0, 100, 0, true}}})
	aln2 := f.anchored(0, map[string][]block{"C": {{50, 150, 0, true}}})

	got, err := BuildAln([]*aln.AnchoredAln{aln1, aln2}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"B", "C", "A"}; !reflect.DeepEqual(rowNames(got), want) {
		t.Fatalf("BuildAln() rows = %v, want %v", rowNames(got), want)
	}
	if got.AnchorRow() != 2 {
		t.Errorf("BuildAln() anchor row = %d, want 2", got.AnchorRow())
	}
	if ext, _ := got.Row(2).FirstExtent(); ext != (aln.Interval{From: 0, To: 150}) {
		t.Errorf("anchor covers %v, want 0-150", ext)
	}
	if !got.Row(0).Equal(aln1.Row(0)) {
		t.Errorf("row B = %v, want %v", got.Row(0), aln1.Row(0))
	}
	if !got.Row(1).Equal(aln2.Row(0)) {
		t.Errorf("row C = %v, want %v", got.Row(1), aln2.Row(0))
	}
	for i, row := range got.Rows() {
		if row.FirstID() != got.AnchorID() {
			t.Errorf("row %d is against %v, not the anchor", i, row.FirstID())
		}
	}
}

func TestBuildAln_mergeAllCoveredAnchor(t *testing.T) {
	f := newFixture(t)
	aln1 := f.anchored(0, map[string][]block{"B": {{0, 100, 0, true}}})
	aln2 := f.anchored(0, map[string][]block{"C": {{0, 100, 0, true}}})

	got, err := BuildAln([]*aln.AnchoredAln{aln1, aln2}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got.Dim() != 3 {
		t.Fatalf("BuildAln() dim = %d, want 3", got.Dim())
	}
	if got.ID(1).Name() != "C" || !got.Row(1).Empty() {
		t.Errorf("row C = %v, want it empty", got.Row(1))
	}

	// without truncation C is kept
	got, err = BuildAln([]*aln.AnchoredAln{aln1, aln2}, Options{Algo: MergeAll})
	if err != nil {
		t.Fatal(err)
	}
	if got.Row(1).Empty() {
		t.Error("row C dropped without truncation")
	}
}

func TestBuildAln_truncationIdempotent(t *testing.T) {
	f := newFixture(t)
	a := f.anchored(5, map[string][]block{
		"B": {{0, 49, 100, true}, {60, 99, 200, true}},
		"C": {{110, 130, 0, false}},
	})

	once, err := BuildAln([]*aln.AnchoredAln{a}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	twice, err := BuildAln([]*aln.AnchoredAln{a, a}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if once.Dim() != twice.Dim() {
		t.Fatalf("dim once = %d, twice = %d", once.Dim(), twice.Dim())
	}
	for i := range once.Rows() {
		if !once.Row(i).Equal(twice.Row(i)) {
			t.Errorf("row %d once = %v, twice = %v", i, once.Row(i), twice.Row(i))
		}
	}
}

func TestBuildAln_scoreOrder(t *testing.T) {
	f := newFixture(t)
	low := f.anchored(10, map[string][]block{"B": {{0, 100, 0, true}}})
	high := f.anchored(30, map[string][]block{"C": {{0, 100, 0, true}}})
	mid := f.anchored(20, map[string][]block{"D": {{0, 100, 0, true}}})
	in := []*aln.AnchoredAln{low, high, mid}

	got, err := BuildAln(in, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// the highest score is merged first and wins the shared anchor range
	if want := []string{"C", "D", "B", "A"}; !reflect.DeepEqual(rowNames(got), want) {
		t.Fatalf("BuildAln() rows = %v, want %v", rowNames(got), want)
	}
	if got.Row(0).Empty() || !got.Row(1).Empty() || !got.Row(2).Empty() {
		t.Errorf("only the highest scoring row should survive: %v", got)
	}
	if got.Score() != 60 {
		t.Errorf("BuildAln() score = %d, want 60", got.Score())
	}
	if in[0] != low || in[1] != high || in[2] != mid {
		t.Error("BuildAln() reordered its input")
	}

	// skipping the sort keeps the input order
	got, err = BuildAln(in, Options{Algo: MergeAll, Flags: TruncateOverlaps | SkipSortByScore})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"B", "C", "D", "A"}; !reflect.DeepEqual(rowNames(got), want) {
		t.Errorf("BuildAln() unsorted rows = %v, want %v", rowNames(got), want)
	}
	if got.Row(0).Empty() {
		t.Error("first input should win without sorting")
	}
}

func TestSortByScore(t *testing.T) {
	f := newFixture(t)
	alns := []*aln.AnchoredAln{
		f.anchored(10, map[string][]block{"B": {{0, 1, 0, true}}}),
		f.anchored(30, map[string][]block{"B": {{0, 1, 0, true}}}),
		f.anchored(20, map[string][]block{"B": {{0, 1, 0, true}}}),
		f.anchored(30, map[string][]block{"C": {{0, 1, 0, true}}}),
	}
	tie := alns[3]

	SortByScore(alns)

	var scores []int
	for _, a := range alns {
		scores = append(scores, a.Score())
	}
	if want := []int{30, 30, 20, 10}; !reflect.DeepEqual(scores, want) {
		t.Errorf("SortByScore() = %v, want %v", scores, want)
	}
	if alns[1] != tie {
		t.Error("SortByScore() did not keep input order for equal scores")
	}
}

func TestBuildAln_tracks(t *testing.T) {
	type want struct {
		names  []string
		tracks [][]aln.Interval
	}
	tests := []struct {
		name  string
		flags Flags
		rows  [][]block
		want  want
	}{
		{
			"out of order on the second sequence opens a track",
			TruncateOverlaps,
			[][]block{{{0, 49, 100, true}}, {{100, 149, 0, true}}},
			want{
				[]string{"B", "B", "A"},
				[][]aln.Interval{{{From: 0, To: 49}}, {{From: 100, To: 149}}},
			},
		},
		{
			"translocation tolerated",
			TruncateOverlaps | AllowTranslocation,
			[][]block{{{0, 49, 100, true}}, {{100, 149, 0, true}}},
			want{
				[]string{"B", "A"},
				[][]aln.Interval{{{From: 0, To: 49}, {From: 100, To: 149}}},
			},
		},
		{
			"strands go to separate tracks",
			TruncateOverlaps,
			[][]block{{{0, 49, 0, true}}, {{100, 149, 200, false}}},
			want{
				[]string{"B", "B", "A"},
				[][]aln.Interval{{{From: 0, To: 49}}, {{From: 100, To: 149}}},
			},
		},
		{
			"mixed strand shares a track",
			TruncateOverlaps | AllowMixedStrand,
			[][]block{{{0, 49, 0, true}}, {{100, 149, 200, false}}},
			want{
				[]string{"B", "A"},
				[][]aln.Interval{{{From: 0, To: 49}, {From: 100, To: 149}}},
			},
		},
		{
			"reversed ranges descending on the second sequence share a track",
			TruncateOverlaps,
			[][]block{{{0, 49, 200, false}}, {{100, 149, 0, false}}},
			want{
				[]string{"B", "A"},
				[][]aln.Interval{{{From: 0, To: 49}, {From: 100, To: 149}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var in []*aln.AnchoredAln
			for _, blocks := range tt.rows {
				in = append(in, f.anchored(0, map[string][]block{"B": blocks}))
			}

			got, err := BuildAln(in, Options{Algo: MergeAll, Flags: tt.flags})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(rowNames(got), tt.want.names) {
				t.Fatalf("BuildAln() rows = %v, want %v", rowNames(got), tt.want.names)
			}
			for i, track := range tt.want.tracks {
				if cov := coverage(got.Row(i)); !reflect.DeepEqual(cov, track) {
					t.Errorf("track %d covers %v, want %v", i, cov, track)
				}
			}
			assertNoOverlap(t, got)
		})
	}
}

// assertNoOverlap checks that no track has ranges overlapping on the first sequence.
func assertNoOverlap(t *testing.T, a *aln.AnchoredAln) {
	t.Helper()
	for i, row := range a.Rows() {
		ranges := row.Ranges()
		for j := 1; j < len(ranges); j++ {
			if ranges[j-1].FirstToOpen() > ranges[j].FirstFrom {
				t.Errorf("row %d: %v overlaps %v", i, ranges[j-1], ranges[j])
			}
		}
	}
}

func TestBuildAln_mergeAllAnchorMismatch(t *testing.T) {
	f := newFixture(t)
	first := f.anchored(0, map[string][]block{"B": {{0, 10, 0, true}}})

	other := aln.NewPairwiseAln(f.id("X"), f.id("X"), aln.DefaultPolicy)
	second, err := aln.NewAnchoredAln([]*aln.PairwiseAln{other}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := BuildAln([]*aln.AnchoredAln{first, second}, DefaultOptions()); !errors.Is(err, aln.ErrInvalidRequest) {
		t.Errorf("BuildAln() error = %v, want ErrInvalidRequest", err)
	}
	if _, err := BuildAln(nil, DefaultOptions()); !errors.Is(err, aln.ErrInvalidRequest) {
		t.Errorf("BuildAln(nil) error = %v, want ErrInvalidRequest", err)
	}
}

func TestBuildAln_preserveRows(t *testing.T) {
	f := newFixture(t)
	aln1 := f.anchored(1, map[string][]block{"B": {{0, 49, 0, true}}})
	aln2 := f.anchored(2, map[string][]block{"C": {{40, 99, 100, true}}})
	three := f.anchored(3, map[string][]block{"B": {{0, 9, 0, true}}, "C": {{20, 29, 0, true}}})

	tests := []struct {
		name     string
		in       []*aln.AnchoredAln
		wantErr  bool
		wantRows int
	}{
		{"same shape", []*aln.AnchoredAln{aln1, aln2}, false, 2},
		{"different dimension", []*aln.AnchoredAln{aln1, three}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildAln(tt.in, Options{Algo: PreserveRows, Flags: TruncateOverlaps})
			if tt.wantErr {
				if !errors.Is(err, aln.ErrInvalidRequest) {
					t.Errorf("BuildAln() error = %v, want ErrInvalidRequest", err)
				}
				if got != nil {
					t.Errorf("BuildAln() returned a partial result %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Dim() != tt.wantRows || got.AnchorRow() != tt.wantRows-1 {
				t.Fatalf("BuildAln() = %v", got)
			}

			// aln2 scores higher so it is merged first and keeps 40-99
			want := []aln.Interval{{From: 0, To: 39}, {From: 40, To: 99}}
			if cov := coverage(got.Row(1)); !reflect.DeepEqual(cov, want) {
				t.Errorf("anchor covers %v, want %v", cov, want)
			}
			if got.ID(0).Name() != "B" {
				t.Errorf("row 0 is %v, want the first input's B", got.ID(0))
			}
		})
	}
}

func TestBuildAln_preserveRowsAnchorMismatch(t *testing.T) {
	f := newFixture(t)
	first := f.anchored(0, map[string][]block{"B": {{0, 10, 0, true}}})
	swapped, err := aln.NewAnchoredAln([]*aln.PairwiseAln{
		f.pairwise("A", block{0, 10, 0, true}),
		f.pairwise("C", block{0, 10, 0, true}),
	}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := BuildAln([]*aln.AnchoredAln{first, swapped}, Options{Algo: PreserveRows}); !errors.Is(err, aln.ErrInvalidRequest) {
		t.Errorf("BuildAln() error = %v, want ErrInvalidRequest", err)
	}
}

func TestBuildAln_querySeqOnly(t *testing.T) {
	f := newFixture(t)
	aln1 := f.anchored(0, map[string][]block{"B": {{0, 100, 0, true}}})
	aln2 := f.anchored(0, map[string][]block{"C": {{50, 150, 0, true}}, "D": {{160, 170, 0, true}}})

	got, err := BuildAln([]*aln.AnchoredAln{aln1, aln2}, Options{Algo: QuerySeqOnly})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"B", "C", "D", "A"}; !reflect.DeepEqual(rowNames(got), want) {
		t.Fatalf("BuildAln() rows = %v, want %v", rowNames(got), want)
	}
	if got.AnchorRow() != 3 {
		t.Errorf("BuildAln() anchor row = %d, want 3", got.AnchorRow())
	}
	if ext, _ := got.Row(3).FirstExtent(); ext != (aln.Interval{From: 0, To: 170}) {
		t.Errorf("anchor covers %v, want 0-170", ext)
	}
	if aln1.Row(1).Len() != 1 {
		t.Error("BuildAln() modified the first input's anchor")
	}

	// anchors that are not the last row are rejected
	first, err := aln.NewAnchoredAln([]*aln.PairwiseAln{
		f.pairwise("A", block{0, 10, 0, true}),
		f.pairwise("B", block{0, 10, 0, true}),
	}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildAln([]*aln.AnchoredAln{first}, Options{Algo: QuerySeqOnly}); !errors.Is(err, aln.ErrInvalidRequest) {
		t.Errorf("BuildAln() error = %v, want ErrInvalidRequest", err)
	}
}

func TestMergePairwiseAlns(t *testing.T) {
	f := newFixture(t)
	existing := f.pairwise("B", block{0, 49, 0, true})
	addition := f.pairwise("B", block{25, 74, 25, true})

	if err := MergePairwiseAlns(existing, addition); err != nil {
		t.Fatal(err)
	}
	want := []aln.Interval{{From: 0, To: 49}, {From: 50, To: 74}}
	if cov := coverage(existing); !reflect.DeepEqual(cov, want) {
		t.Errorf("MergePairwiseAlns() covers %v, want %v", cov, want)
	}
}

func TestParseAlgo(t *testing.T) {
	tests := []struct {
		name    string
		want    Algo
		wantErr bool
	}{
		{"", MergeAll, false},
		{"merge-all", MergeAll, false},
		{"Query-Only", QuerySeqOnly, false},
		{"preserve-rows", PreserveRows, false},
		{"sideways", MergeAll, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgo(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlgo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAlgo() = %v, want %v", got, tt.want)
			}
		})
	}
}
