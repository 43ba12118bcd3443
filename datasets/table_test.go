package datasets

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tealeg/xlsx/v2"
)

// writeCSV writes a CSV file with the given header and rows to path.
func writeCSV(t *testing.T, path, header string, rows []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(header + "\n"); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, r := range rows {
		if _, err := f.WriteString(r + "\n"); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
}

func TestReadTable_CSV(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "coffee.csv")
	writeCSV(t, path, "\ufeffa,b,c", []string{
		"1,x,3",
		"4,y",
	})

	tbl, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if !reflect.DeepEqual(tbl.Header, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected header: %v", tbl.Header)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	// short record is padded with a missing cell
	if len(tbl.Rows[1]) != 3 || tbl.Rows[1][2] != "" {
		t.Fatalf("expected padded row, got %v", tbl.Rows[1])
	}
}

func TestReadTable_NotFound(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestReadTable_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty CSV")
	}
}

func TestReadTable_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("coffee")
	if err != nil {
		t.Fatalf("AddSheet failed: %v", err)
	}
	for _, rowData := range [][]string{
		{"Location.Region", "Data.Scores.Aroma"},
		{"Huila", "8.5"},
		{"Sidamo", "7.25"},
	} {
		row := sheet.AddRow()
		for _, v := range rowData {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "coffee.xlsx")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tbl, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	region, err := tbl.Column("Location.Region")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	if !reflect.DeepEqual(region, []string{"Huila", "Sidamo"}) {
		t.Fatalf("unexpected region column: %v", region)
	}
}

func TestTable_IndexCaseInsensitive(t *testing.T) {
	tbl := NewTable([]string{"Actual", "Predicted"}, nil)
	if i, ok := tbl.Index("predicted"); !ok || i != 1 {
		t.Fatalf("expected case-insensitive match at 1, got %d %v", i, ok)
	}
	if _, ok := tbl.Index("Residual"); ok {
		t.Fatalf("unexpected match for absent column")
	}
}

func TestTable_Distinct(t *testing.T) {
	tbl := NewTable([]string{"species"}, [][]string{
		{"Arabica"}, {"Robusta"}, {""}, {"Arabica"}, {"nan"}, {" Robusta "},
	})
	got, err := tbl.Distinct("species")
	if err != nil {
		t.Fatalf("Distinct failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Arabica", "Robusta"}) {
		t.Fatalf("unexpected distinct values: %v", got)
	}

	if _, err := tbl.Distinct("variety"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestTable_Append(t *testing.T) {
	tbl := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}})
	out, err := tbl.Append([][]string{{"3", "4"}, {"5", "6"}})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if out.Len() != 3 || tbl.Len() != 1 {
		t.Fatalf("unexpected lengths: out=%d base=%d", out.Len(), tbl.Len())
	}
	if out.Rows[2][1] != "6" {
		t.Fatalf("appended rows out of order: %v", out.Rows)
	}

	if _, err := tbl.Append([][]string{{"only-one"}}); err == nil {
		t.Fatalf("expected error for short appended row")
	}
}

func TestTable_WriteCSVMissingAsNaN(t *testing.T) {
	tbl := NewTable([]string{"Data.Scores.Aroma", "Data.Color"}, [][]string{
		{"8.5", "Green"},
		{"", " "},
	})
	// generated rows keep the "None" palette color
	out, err := tbl.Append([][]string{{"7.25", "None"}})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	var buf bytes.Buffer
	if err := out.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "Data.Scores.Aroma,Data.Color\n8.5,Green\nnan,nan\n7.25,None\n"
	if buf.String() != want {
		t.Fatalf("unexpected CSV output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReadCSV_NATokensAreMissing(t *testing.T) {
	src := "Location.Region,Data.Color,Data.Scores.Aroma\n" +
		"Huila,None,8.5\n" +
		"Sidamo,Green,NULL\n" +
		"#N/A,-nan,1.#QNAN\n" +
		"Cauca,#NA,-NaN\n" +
		"none,NONE,7\n"
	tbl, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := "Location.Region,Data.Color,Data.Scores.Aroma\n" +
		"Huila,nan,8.5\n" +
		"Sidamo,Green,nan\n" +
		"nan,nan,nan\n" +
		"Cauca,nan,nan\n" +
		"none,NONE,7\n"
	if buf.String() != want {
		t.Fatalf("unexpected CSV output:\n%s\nwant:\n%s", buf.String(), want)
	}

	colors, err := tbl.Distinct("Data.Color")
	if err != nil {
		t.Fatalf("Distinct failed: %v", err)
	}
	// matching is case-sensitive, so only the exact spellings drop out
	if !reflect.DeepEqual(colors, []string{"Green", "NONE"}) {
		t.Fatalf("unexpected distinct colors: %v", colors)
	}
}

func TestWriteCSVFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "generated_coffee.csv")
	tbl := NewTable([]string{"a"}, [][]string{{"1"}})
	if err := WriteCSVFile(path, tbl); err != nil {
		t.Fatalf("WriteCSVFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "a\n1\n" {
		t.Fatalf("unexpected file content: %q", data)
	}
}

func TestWriteCSVFile_Unwritable(t *testing.T) {
	dir := t.TempDir()
	// a regular file where a directory is expected
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	err := WriteCSVFile(filepath.Join(blocker, "out.csv"), NewTable([]string{"a"}, nil))
	if err == nil {
		t.Fatalf("expected error writing below a regular file")
	}
}
