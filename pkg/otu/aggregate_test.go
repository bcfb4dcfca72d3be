package otu

import (
	"reflect"
	"testing"
)

func windowsOf(pairs ...[2]string) []SequenceWindow {
	var windows []SequenceWindow
	for _, p := range pairs {
		windows = append(windows, SequenceWindow{
			Name:            p[0],
			AlignedSequence: p[1],
			Coverage:        0.5,
			AlignedLength:   10,
		})
	}
	return windows
}

func TestAggregateGrouping(t *testing.T) {

	windows := windowsOf(
		[2]string{"r1", "ACGT"},
		[2]string{"r2", "ACGT"},
		[2]string{"r3", "ACG-"},
	)

	otus := Aggregate(windows, nil, false)

	if len(otus) != 2 {
		t.Fatalf("expected 2 OTUs, got %d", len(otus))
	}

	// Conservation: counts sum to the number of input windows.
	total := 0
	for _, o := range otus {
		total += o.Count
	}
	if total != len(windows) {
		t.Errorf("counts sum to %d, want %d", total, len(windows))
	}

	first := otus[0]
	if first.Sequence != "ACGT" || first.Count != 2 || first.Coverage != 1.0 {
		t.Errorf("unexpected first OTU: %+v", first)
	}
	if !reflect.DeepEqual(first.ReadNames, []string{"r1", "r2"}) {
		t.Errorf("read names must keep encounter order: %v", first.ReadNames)
	}
	if !reflect.DeepEqual(first.AlignedLengths, []int{10, 10}) {
		t.Errorf("unexpected aligned lengths: %v", first.AlignedLengths)
	}

	// A single gap-vs-base difference keeps windows apart.
	if otus[1].Sequence != "ACG-" || otus[1].Count != 1 {
		t.Errorf("unexpected second OTU: %+v", otus[1])
	}
}

func TestAggregateOutputOrderIsDeterministic(t *testing.T) {

	windows := windowsOf(
		[2]string{"r1", "TTTT"},
		[2]string{"r2", "AAAA"},
		[2]string{"r3", "TTTT"},
		[2]string{"r4", "CCCC"},
	)

	expected := []string{"TTTT", "AAAA", "CCCC"}
	for run := 0; run < 20; run++ {
		otus := Aggregate(windows, nil, false)
		for i, o := range otus {
			if o.Sequence != expected[i] {
				t.Fatalf("run %d: OTU %d is %s, want %s", run, i, o.Sequence, expected[i])
			}
		}
	}
}

func TestAggregateFirstTaxonomy(t *testing.T) {

	windows := windowsOf(
		[2]string{"r1", "ACGT"},
		[2]string{"r2", "ACGT"},
	)
	taxonomies := map[string]string{
		"r1": "d__Bacteria; p__X",
		"r2": "d__Archaea; p__Y",
	}

	otus := Aggregate(windows, taxonomies, true)
	if otus[0].Taxonomy != "d__Bacteria; p__X" {
		t.Errorf("first-hit mode must use the first read's taxonomy verbatim, got %q", otus[0].Taxonomy)
	}

	// Missing lookup for the first read yields the empty string.
	otus = Aggregate(windows, map[string]string{"r2": "d__Archaea"}, true)
	if otus[0].Taxonomy != "" {
		t.Errorf("expected empty taxonomy, got %q", otus[0].Taxonomy)
	}
}

func TestConsensusTaxonomy(t *testing.T) {

	tests := []struct {
		name       string
		taxonomies []string
		expected   string
	}{
		{
			// Worked example: depth 0 unanimous, depth 1 at 2/3.
			name: "MajorityKept",
			taxonomies: []string{
				"d__Bacteria;p__X",
				"d__Bacteria;p__X",
				"d__Bacteria;p__Y",
			},
			expected: "d__Bacteria; p__X",
		},
		{
			// Exactly 50% is kept, first-seen label wins the tie.
			name:       "FiftyPercentBoundary",
			taxonomies: []string{"d__A; p__X", "d__A; p__Y"},
			expected:   "d__A; p__X",
		},
		{
			// Below 50% stops at that depth; deeper ranks are dropped too.
			name: "PluralityTooWeak",
			taxonomies: []string{
				"d__A; p__X; c__1",
				"d__A; p__Y; c__1",
				"d__A; p__Z; c__1",
			},
			expected: "d__A",
		},
		{
			// The denominator is the reads with a label at that depth, so
			// one deep annotation among shallow ones still wins.
			name: "PerDepthDenominator",
			taxonomies: []string{
				"d__A",
				"d__A",
				"d__A; p__X",
			},
			expected: "d__A; p__X",
		},
		{
			// An empty rank between annotated ones must not crash; the
			// voteless depth truncates the consensus there.
			name:       "EmptyMiddleRank",
			taxonomies: []string{"d__A;;p__X"},
			expected:   "d__A",
		},
		{
			name:       "LeadingEmptyRank",
			taxonomies: []string{"; d__A"},
			expected:   "",
		},
		{
			name:       "UnannotatedReadsDoNotVote",
			taxonomies: []string{"", "d__A", ""},
			expected:   "d__A",
		},
		{
			name:       "AllEmpty",
			taxonomies: []string{"", ""},
			expected:   "",
		},
		{
			name:       "NoTaxonomies",
			taxonomies: nil,
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := consensusTaxonomy(tt.taxonomies); got != tt.expected {
				t.Errorf("consensusTaxonomy(%v) = %q, want %q", tt.taxonomies, got, tt.expected)
			}
		})
	}
}

func TestAggregateConsensusViaLookup(t *testing.T) {

	windows := windowsOf(
		[2]string{"r1", "ACGT"},
		[2]string{"r2", "ACGT"},
		[2]string{"r3", "ACGT"},
	)
	taxonomies := map[string]string{
		"r1": "d__Bacteria;p__X",
		"r2": "d__Bacteria;p__X",
		"r3": "d__Bacteria;p__Y",
	}

	otus := Aggregate(windows, taxonomies, false)
	if len(otus) != 1 {
		t.Fatalf("expected 1 OTU, got %d", len(otus))
	}
	if otus[0].Taxonomy != "d__Bacteria; p__X" {
		t.Errorf("consensus taxonomy = %q, want %q", otus[0].Taxonomy, "d__Bacteria; p__X")
	}
}
