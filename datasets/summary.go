package datasets

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes one column of a table.
type ColumnSummary struct {
	Name    string
	Missing int

	// Numeric is set when every present value parses as a float; Min, Max,
	// Mean and StdDev are only meaningful then.
	Numeric bool
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64

	// Distinct counts the different present values of non-numeric columns.
	Distinct int
}

// Summarize computes per-column statistics in header order.
func Summarize(t *Table) []ColumnSummary {
	out := make([]ColumnSummary, len(t.Header))
	for i, name := range t.Header {
		s := ColumnSummary{Name: name, Numeric: true}
		values := make([]float64, 0, len(t.Rows))
		seen := make(map[string]struct{})
		for _, rec := range t.Rows {
			v := cell(rec, i)
			if IsMissing(v) {
				s.Missing++
				continue
			}
			seen[v] = struct{}{}
			if !s.Numeric {
				continue
			}
			f, err := parseFloat(v)
			if err != nil {
				s.Numeric = false
				continue
			}
			values = append(values, f)
		}

		switch {
		case !s.Numeric:
			s.Distinct = len(seen)
		case len(values) == 0:
			s.Numeric = false
		default:
			s.Min = floats.Min(values)
			s.Max = floats.Max(values)
			s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
		}
		out[i] = s
	}
	return out
}
