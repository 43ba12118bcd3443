package synth

import (
	"encoding/json"
	"math"
	"os"
	"strings"

	"github.com/Noofbiz/coffeeCo/datasets"
	"github.com/rotisserie/eris"
)

// LoadBoundsConfig reads a JSON file that overrides sampling ranges. The
// format is:
//
//	{
//	  "columns": [
//	    {"column": "Year", "min": 2015, "max": 2020},
//	    {"column": "Data.Scores.Aroma", "min": 5, "max": 10, "decimals": 1}
//	  ],
//	  "colors": ["Green", "Blue-Green"]
//	}
//
// Numeric overrides keep the kind of the column's current sampler (integer
// or float); decimals is only used for float columns and defaults to the
// current precision. Categorical columns other than color cannot be
// overridden.
func (g *Generator) LoadBoundsConfig(path string) error {
	if g == nil {
		return eris.New("generator is nil")
	}
	if path == "" {
		return eris.New("empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "read bounds config")
	}

	var raw struct {
		Columns []struct {
			Column   string   `json:"column"`
			Min      *float64 `json:"min"`
			Max      *float64 `json:"max"`
			Decimals *int     `json:"decimals"`
		} `json:"columns"`
		Colors []string `json:"colors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "unmarshal bounds config")
	}

	for _, c := range raw.Columns {
		col := strings.TrimSpace(c.Column)
		switch s := g.Sampler(col).(type) {
		case nil:
			return eris.Wrapf(datasets.ErrMissingColumn, "bounds for %q: not part of schema %s", col, g.Schema.Name)
		case UniformFloat:
			if c.Min != nil {
				s.Min = *c.Min
			}
			if c.Max != nil {
				s.Max = *c.Max
			}
			if c.Decimals != nil {
				if *c.Decimals < 0 {
					return eris.Errorf("bounds for %q: decimals must be >= 0", col)
				}
				s.Decimals = *c.Decimals
			}
			if s.Min > s.Max {
				return eris.Errorf("bounds for %q: min %v > max %v", col, s.Min, s.Max)
			}
			g.samplers[g.columnIndex(col)] = s
		case UniformInt:
			if c.Min != nil {
				v, err := intBound(*c.Min)
				if err != nil {
					return eris.Wrapf(err, "bounds for %q: min", col)
				}
				s.Min = v
			}
			if c.Max != nil {
				v, err := intBound(*c.Max)
				if err != nil {
					return eris.Wrapf(err, "bounds for %q: max", col)
				}
				s.Max = v
			}
			if s.Min > s.Max {
				return eris.Errorf("bounds for %q: min %d > max %d", col, s.Min, s.Max)
			}
			g.samplers[g.columnIndex(col)] = s
		default:
			return eris.Errorf("bounds for %q: column is categorical", col)
		}
	}

	if len(raw.Colors) > 0 {
		g.colors = append([]string(nil), raw.Colors...)
		if g.Schema.Has(datasets.ColColor) {
			g.samplers[g.columnIndex(datasets.ColColor)] = Choice{Values: g.colors}
		}
	}
	return nil
}

// maxIntBound is the largest magnitude a JSON number holds exactly (2^53).
const maxIntBound = 1 << 53

// intBound converts a JSON number to an integer bound. Fractional values and
// magnitudes above 2^53 are rejected so Max-Min+1 cannot overflow.
func intBound(v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, eris.Errorf("%v is not an integer", v)
	}
	if math.Abs(v) > maxIntBound {
		return 0, eris.Errorf("%v is outside [-2^53, 2^53]", v)
	}
	return int(v), nil
}

func (g *Generator) columnIndex(col string) int {
	for i, c := range g.Schema.Columns {
		if c == col {
			return i
		}
	}
	return -1
}
