package datasets

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Column names of the source coffee dataset.
const (
	ColCountry      = "Location.Country"
	ColRegion       = "Location.Region"
	ColAltitudeMin  = "Location.Altitude.Min"
	ColAltitudeMax  = "Location.Altitude.Max"
	ColAltitudeAvg  = "Location.Altitude.Average"
	ColYear         = "Year"
	ColOwner        = "Data.Owner"
	ColSpecies      = "Data.Type.Species"
	ColVariety      = "Data.Type.Variety"
	ColProcessing   = "Data.Type.Processing method"
	ColNumberOfBags = "Data.Production.Number of bags"
	ColBagWeight    = "Data.Production.Bag weight"
	ColAroma        = "Data.Scores.Aroma"
	ColFlavor       = "Data.Scores.Flavor"
	ColAftertaste   = "Data.Scores.Aftertaste"
	ColAcidity      = "Data.Scores.Acidity"
	ColBody         = "Data.Scores.Body"
	ColBalance      = "Data.Scores.Balance"
	ColUniformity   = "Data.Scores.Uniformity"
	ColSweetness    = "Data.Scores.Sweetness"
	ColMoisture     = "Data.Scores.Moisture"
	ColTotal        = "Data.Scores.Total"
	ColColor        = "Data.Color"
)

// Variant names accepted by SchemaFor.
const (
	VariantBasic    = "basic"
	VariantExtended = "extended"
)

// ErrMissingColumn is returned when a column required by a schema is absent
// from the source header.
var ErrMissingColumn = eris.New("required column not found")

// SourceColumns is the full column layout of the source dataset.
var SourceColumns = []string{
	ColCountry, ColRegion, ColAltitudeMin, ColAltitudeMax, ColAltitudeAvg, ColYear, ColOwner,
	ColSpecies, ColVariety, ColProcessing, ColNumberOfBags, ColBagWeight,
	ColAroma, ColFlavor, ColAftertaste, ColAcidity, ColBody, ColBalance, ColUniformity,
	ColSweetness, ColMoisture, ColTotal, ColColor,
}

// ScoreColumns are the cupping score columns kept by every variant.
var ScoreColumns = []string{
	ColAroma, ColFlavor, ColAftertaste, ColAcidity, ColBody, ColBalance, ColUniformity,
	ColSweetness, ColMoisture,
}

// Schema describes a pruned column layout: the source columns that are
// dropped and the retained columns in output order.
type Schema struct {
	Name    string
	Drop    []string
	Columns []string
}

// BasicSchema keeps only the cupping scores.
func BasicSchema() Schema {
	return Schema{
		Name: VariantBasic,
		Drop: []string{
			ColCountry, ColRegion, ColAltitudeMin, ColAltitudeMax, ColAltitudeAvg, ColYear, ColOwner,
			ColSpecies, ColVariety, ColProcessing, ColBagWeight, ColNumberOfBags, ColTotal, ColColor,
		},
		Columns: append([]string(nil), ScoreColumns...),
	}
}

// ExtendedSchema keeps the cupping scores plus region, altitude, year,
// species, variety, processing method, bag weight and color.
func ExtendedSchema() Schema {
	cols := []string{ColRegion, ColAltitudeAvg, ColYear, ColSpecies, ColVariety, ColProcessing, ColBagWeight}
	cols = append(cols, ScoreColumns...)
	cols = append(cols, ColColor)
	return Schema{
		Name: VariantExtended,
		Drop: []string{
			ColCountry, ColAltitudeMin, ColAltitudeMax, ColOwner, ColNumberOfBags, ColTotal,
		},
		Columns: cols,
	}
}

// SchemaFor returns the schema for a variant name.
func SchemaFor(variant string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case VariantBasic:
		return BasicSchema(), nil
	case VariantExtended, "":
		return ExtendedSchema(), nil
	}
	return Schema{}, eris.Errorf("unknown variant %q (want %q or %q)", variant, VariantBasic, VariantExtended)
}

// Has reports whether col is part of the pruned schema.
func (s Schema) Has(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Prune drops the schema's drop list from t and projects the remaining
// columns onto the schema order. Drop entries missing from t are ignored.
// Columns that are neither dropped nor retained are discarded and returned
// so callers can report them.
func (s Schema) Prune(t *Table) (*Table, []string, error) {
	// Names match the way Table.Index does, ignoring case.
	dropped := make(map[string]bool, len(s.Drop))
	for _, c := range s.Drop {
		dropped[strings.ToLower(c)] = true
	}

	idx := make([]int, len(s.Columns))
	kept := make(map[int]bool, len(s.Columns))
	for i, col := range s.Columns {
		j, ok := t.Index(col)
		if !ok {
			return nil, nil, eris.Wrapf(ErrMissingColumn, "schema %s: column %q", s.Name, col)
		}
		idx[i] = j
		kept[j] = true
	}

	var extra []string
	for j, col := range t.Header {
		if !kept[j] && !dropped[strings.ToLower(strings.TrimSpace(col))] {
			extra = append(extra, col)
		}
	}

	rows := make([][]string, len(t.Rows))
	for r, rec := range t.Rows {
		row := make([]string, len(idx))
		for i, j := range idx {
			if j < len(rec) {
				row[i] = rec[j]
			}
		}
		rows[r] = row
	}

	return NewTable(s.Columns, rows), extra, nil
}
