package datasets

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sourceRow(values map[string]string) string {
	cells := make([]string, len(SourceColumns))
	for i, col := range SourceColumns {
		cells[i] = values[col]
	}
	return strings.Join(cells, ",")
}

func sourceHeader() string {
	return strings.Join(SourceColumns, ",")
}

func TestSchemaFor(t *testing.T) {
	basic, err := SchemaFor("basic")
	if err != nil || basic.Name != VariantBasic {
		t.Fatalf("SchemaFor(basic) = %v, %v", basic.Name, err)
	}
	ext, err := SchemaFor(" Extended ")
	if err != nil || ext.Name != VariantExtended {
		t.Fatalf("SchemaFor(Extended) = %v, %v", ext.Name, err)
	}
	def, err := SchemaFor("")
	if err != nil || def.Name != VariantExtended {
		t.Fatalf("SchemaFor(\"\") = %v, %v", def.Name, err)
	}
	if _, err := SchemaFor("tiny"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

// Every source column is either dropped or retained, never both.
func TestSchemas_PartitionSourceColumns(t *testing.T) {
	for _, s := range []Schema{BasicSchema(), ExtendedSchema()} {
		seen := make(map[string]int)
		for _, c := range s.Drop {
			seen[c]++
		}
		for _, c := range s.Columns {
			seen[c]++
		}
		for _, c := range SourceColumns {
			if seen[c] != 1 {
				t.Fatalf("schema %s: column %q covered %d times", s.Name, c, seen[c])
			}
		}
		if len(seen) != len(SourceColumns) {
			t.Fatalf("schema %s names columns outside the source layout", s.Name)
		}
	}
}

func TestSchema_PruneExtended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coffee.csv")
	writeCSV(t, path, sourceHeader(), []string{
		sourceRow(map[string]string{
			ColCountry: "Colombia", ColRegion: "Huila", ColAltitudeAvg: "1650", ColYear: "2014",
			ColSpecies: "Arabica", ColVariety: "Caturra", ColProcessing: "Washed / Wet",
			ColBagWeight: "70", ColAroma: "8.5", ColFlavor: "8.42", ColMoisture: "0.11",
			ColTotal: "86.25", ColColor: "Green",
		}),
	})
	tbl, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	s := ExtendedSchema()
	pruned, extra, err := s.Prune(tbl)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if len(extra) != 0 {
		t.Fatalf("unexpected extra columns: %v", extra)
	}
	if !reflect.DeepEqual(pruned.Header, s.Columns) {
		t.Fatalf("unexpected header: %v", pruned.Header)
	}
	region, _ := pruned.Column(ColRegion)
	if region[0] != "Huila" {
		t.Fatalf("unexpected region: %v", region)
	}
	if _, ok := pruned.Index(ColCountry); ok {
		t.Fatalf("dropped column still present")
	}
}

func TestSchema_PruneReordersAndReportsExtra(t *testing.T) {
	// columns out of documented order, one unknown column, drop list partially absent
	tbl := NewTable(
		[]string{"Notes", ColMoisture, ColAroma, ColFlavor, ColAftertaste, ColAcidity, ColBody, ColBalance,
			ColUniformity, ColSweetness, ColTotal},
		[][]string{{"n", "0.12", "8", "7", "6", "5", "4", "3", "2", "1", "80"}},
	)

	pruned, extra, err := BasicSchema().Prune(tbl)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if !reflect.DeepEqual(pruned.Header, ScoreColumns) {
		t.Fatalf("unexpected header order: %v", pruned.Header)
	}
	if !reflect.DeepEqual(pruned.Rows[0], []string{"8", "7", "6", "5", "4", "3", "2", "1", "0.12"}) {
		t.Fatalf("unexpected projected row: %v", pruned.Rows[0])
	}
	if !reflect.DeepEqual(extra, []string{"Notes"}) {
		t.Fatalf("unexpected extra columns: %v", extra)
	}
}

func TestSchema_PruneCaseInsensitiveHeader(t *testing.T) {
	header := make([]string, 0, len(ScoreColumns)+2)
	for _, col := range ScoreColumns {
		header = append(header, strings.ToLower(col))
	}
	header = append(header, strings.ToUpper(ColTotal), "Notes")
	tbl := NewTable(header, [][]string{{"8", "7", "6", "5", "4", "3", "2", "1", "0.12", "80", "n"}})

	pruned, extra, err := BasicSchema().Prune(tbl)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if !reflect.DeepEqual(pruned.Header, ScoreColumns) {
		t.Fatalf("unexpected header: %v", pruned.Header)
	}
	if pruned.Rows[0][0] != "8" || pruned.Rows[0][8] != "0.12" {
		t.Fatalf("unexpected projected row: %v", pruned.Rows[0])
	}
	// retained and dropped columns match regardless of case
	if !reflect.DeepEqual(extra, []string{"Notes"}) {
		t.Fatalf("unexpected extra columns: %v", extra)
	}
}

func TestSchema_PruneMissingColumn(t *testing.T) {
	tbl := NewTable([]string{ColAroma, ColFlavor}, nil)
	_, _, err := BasicSchema().Prune(tbl)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}
