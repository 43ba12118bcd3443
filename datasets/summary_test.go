package datasets

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tbl := NewTable([]string{"Data.Scores.Aroma", "Location.Region", "Empty"}, [][]string{
		{"7", "Huila", ""},
		{"9", "Sidamo", "nan"},
		{"nan", "Huila", ""},
		{"8"},
	})

	got := Summarize(tbl)
	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}

	aroma := got[0]
	if !aroma.Numeric || aroma.Missing != 1 {
		t.Fatalf("aroma: numeric=%v missing=%d", aroma.Numeric, aroma.Missing)
	}
	if aroma.Min != 7 || aroma.Max != 9 || aroma.Mean != 8 {
		t.Fatalf("aroma: min=%v max=%v mean=%v", aroma.Min, aroma.Max, aroma.Mean)
	}
	if math.Abs(aroma.StdDev-1) > 1e-12 {
		t.Fatalf("aroma: expected sample stddev 1, got %v", aroma.StdDev)
	}

	region := got[1]
	if region.Numeric || region.Distinct != 2 || region.Missing != 1 {
		t.Fatalf("region: numeric=%v distinct=%d missing=%d", region.Numeric, region.Distinct, region.Missing)
	}

	empty := got[2]
	if empty.Numeric || empty.Missing != 4 || empty.Distinct != 0 {
		t.Fatalf("empty: numeric=%v missing=%d distinct=%d", empty.Numeric, empty.Missing, empty.Distinct)
	}
}
