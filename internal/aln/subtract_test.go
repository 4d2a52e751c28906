package aln

import (
	"errors"
	"reflect"
	"testing"
)

func pairwise(t *testing.T, first, second *SeqID, ranges ...Range) *PairwiseAln {
	t.Helper()
	p := NewPairwiseAln(first, second, DefaultPolicy)
	for _, r := range ranges {
		if err := p.Insert(r); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestSubtract(t *testing.T) {
	a, b, _ := testIDs(t)

	tests := []struct {
		name       string
		minuend    []Range
		subtrahend []Range
		want       []Range
	}{
		{
			"interior subtrahend leaves lead and trail",
			[]Range{{FirstFrom: 0, SecondFrom: 100, Len: 100, Direct: true}},
			[]Range{{FirstFrom: 40, SecondFrom: 40, Len: 20, Direct: true}},
			[]Range{
				{FirstFrom: 0, SecondFrom: 100, Len: 40, Direct: true},
				{FirstFrom: 60, SecondFrom: 160, Len: 40, Direct: true},
			},
		},
		{
			"reversed lead trim comes off the second end",
			[]Range{{FirstFrom: 0, SecondFrom: 0, Len: 100, Direct: false}},
			[]Range{{FirstFrom: 0, SecondFrom: 500, Len: 20, Direct: true}},
			[]Range{{FirstFrom: 20, SecondFrom: 0, Len: 80, Direct: false}},
		},
		{
			"fully covered produces nothing",
			[]Range{{FirstFrom: 10, SecondFrom: 10, Len: 10, Direct: true}},
			[]Range{
				{FirstFrom: 0, SecondFrom: 0, Len: 15, Direct: true},
				{FirstFrom: 15, SecondFrom: 15, Len: 15, Direct: true},
			},
			[]Range{},
		},
		{
			"disjoint is unchanged",
			[]Range{{FirstFrom: 0, SecondFrom: 0, Len: 10, Direct: true}},
			[]Range{{FirstFrom: 10, SecondFrom: 10, Len: 10, Direct: true}},
			[]Range{{FirstFrom: 0, SecondFrom: 0, Len: 10, Direct: true}},
		},
		{
			"several subtrahends over several minuends",
			[]Range{
				{FirstFrom: 0, SecondFrom: 0, Len: 30, Direct: true},
				{FirstFrom: 50, SecondFrom: 50, Len: 30, Direct: true},
			},
			[]Range{
				{FirstFrom: 10, SecondFrom: 10, Len: 5, Direct: true},
				{FirstFrom: 25, SecondFrom: 25, Len: 30, Direct: true},
			},
			[]Range{
				{FirstFrom: 0, SecondFrom: 0, Len: 10, Direct: true},
				{FirstFrom: 15, SecondFrom: 15, Len: 10, Direct: true},
				{FirstFrom: 55, SecondFrom: 55, Len: 25, Direct: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Subtract(pairwise(t, a, b, tt.minuend...), NewPairwiseAln(a, b, AllowMixedDir))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Ranges(), tt.minuend) {
				t.Errorf("Subtract() of an empty subtrahend = %v, want %v", got.Ranges(), tt.minuend)
			}

			sub := NewPairwiseAln(a, b, AllowMixedDir)
			for _, r := range tt.subtrahend {
				if err := sub.Insert(r); err != nil {
					t.Fatal(err)
				}
			}
			got, err = Subtract(pairwise(t, a, b, tt.minuend...), sub)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Ranges(), tt.want) {
				t.Errorf("Subtract() = %v, want %v", got.Ranges(), tt.want)
			}
			if got.FirstID() != a || got.SecondID() != b {
				t.Errorf("Subtract() ids = %v, %v, want %v, %v", got.FirstID(), got.SecondID(), a, b)
			}
		})
	}
}

func TestSubtractOnSecond(t *testing.T) {
	a, b, _ := testIDs(t)
	minuend := pairwise(t, a, b, Range{FirstFrom: 0, SecondFrom: 100, Len: 50, Direct: false})
	subtrahend := pairwise(t, a, b, Range{FirstFrom: 500, SecondFrom: 100, Len: 10, Direct: true})

	// second [100, 109] is first [40, 49] on the reversed range
	want := []Range{{FirstFrom: 0, SecondFrom: 110, Len: 40, Direct: false}}
	got, err := SubtractOnSecond(minuend, subtrahend)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Ranges(), want) {
		t.Errorf("SubtractOnSecond() = %v, want %v", got.Ranges(), want)
	}
}

func TestTruncate(t *testing.T) {
	a, b, _ := testIDs(t)
	existing := pairwise(t, a, b, Range{FirstFrom: 0, SecondFrom: 0, Len: 100, Direct: true})

	// the second pass of the same content adds nothing
	again, err := Truncate(existing.Clone(), existing)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Empty() {
		t.Errorf("Truncate() of identical content = %v, want empty", again)
	}

	// disjoint on first but repeating the second sequence
	shifted := pairwise(t, a, b, Range{FirstFrom: 200, SecondFrom: 50, Len: 100, Direct: true})
	got, err := Truncate(shifted, existing)
	if err != nil {
		t.Fatal(err)
	}
	want := []Range{{FirstFrom: 250, SecondFrom: 100, Len: 50, Direct: true}}
	if !reflect.DeepEqual(got.Ranges(), want) {
		t.Errorf("Truncate() = %v, want %v", got.Ranges(), want)
	}
}

func TestSubtract_widthMismatch(t *testing.T) {
	table := NewIDTable(nil)
	a, _ := table.Intern("A", ProteinWidth)
	b, _ := table.Intern("B", ProteinWidth)
	n, _ := table.Intern("N", CodonWidth)

	_, err := Subtract(NewPairwiseAln(a, b, DefaultPolicy), NewPairwiseAln(a, n, DefaultPolicy))
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("Subtract() error = %v, want ErrPrecondition", err)
	}
}
