package datasets

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Table is a fully loaded tabular dataset: a header and string cells. Loaded
// cells that spell a missing value are stored empty, and empty cells are
// written back as MissingValue.
type Table struct {
	Header []string
	Rows   [][]string

	// Column indices by exact and lower-cased name
	colIndex map[string]int
}

// NewTable creates a table from a header and rows. The rows are not copied.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.colIndex = make(map[string]int, 2*len(t.Header))
	for i, col := range t.Header {
		t.colIndex[col] = i
	}
	for i, col := range t.Header {
		key := strings.ToLower(col)
		if _, ok := t.colIndex[key]; !ok {
			t.colIndex[key] = i
		}
	}
}

// ReadTable loads a whole dataset into memory. Files ending in .xlsx are read
// from their first sheet, anything else is parsed as CSV. The first row is
// the header.
func ReadTable(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open dataset %s", path)
	}
	defer file.Close()

	t, err := ReadCSV(file)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read dataset %s", path)
	}
	return t, nil
}

// ReadCSV parses a CSV stream with a header row. Short records are padded
// with empty (missing) cells and NA spellings (see IsMissing) are blanked.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("empty CSV: no header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to read header")
	}
	header = cleanHeader(header)

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "failed to read row %d", len(rows)+1)
		}
		rows = append(rows, normalizeMissing(padRecord(record, len(header))))
	}

	return NewTable(header, rows), nil
}

func readXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("workbook %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("workbook %s: sheet %q has no header row", path, sheet.Name)
	}

	header := cleanHeader(rowToStrings(sheet.Rows[0]))
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if isBlank(cells) {
			continue
		}
		rows = append(rows, normalizeMissing(padRecord(cells, len(header))))
	}

	return NewTable(header, rows), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func padRecord(record []string, n int) []string {
	if len(record) >= n {
		return record
	}
	padded := make([]string, n)
	copy(padded, record)
	return padded
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of col in the header. Exact names win over
// case-insensitive matches.
func (t *Table) Index(col string) (int, bool) {
	if t.colIndex == nil {
		t.buildIndex()
	}
	if i, ok := t.colIndex[col]; ok {
		return i, true
	}
	i, ok := t.colIndex[strings.ToLower(strings.TrimSpace(col))]
	return i, ok
}

// Column returns a copy of the cells of col.
func (t *Table) Column(col string) ([]string, error) {
	i, ok := t.Index(col)
	if !ok {
		return nil, eris.Wrapf(ErrMissingColumn, "column %q", col)
	}
	out := make([]string, len(t.Rows))
	for r, rec := range t.Rows {
		if i < len(rec) {
			out[r] = rec[i]
		}
	}
	return out, nil
}

// Distinct returns the sorted distinct non-missing values of col.
func (t *Table) Distinct(col string) ([]string, error) {
	cells, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if IsMissing(c) {
			continue
		}
		seen[c] = true
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// Append returns a new table holding t's rows followed by rows. Every row
// must have exactly one cell per header column.
func (t *Table) Append(rows [][]string) (*Table, error) {
	for i, r := range rows {
		if len(r) != len(t.Header) {
			return nil, eris.Errorf("appended row %d has %d cells, header has %d", i, len(r), len(t.Header))
		}
	}
	combined := make([][]string, 0, len(t.Rows)+len(rows))
	combined = append(combined, t.Rows...)
	combined = append(combined, rows...)
	return NewTable(t.Header, combined), nil
}

// WriteCSV writes the header and rows to w. Empty cells are written as the
// MissingValue literal; every other cell is written trimmed but otherwise
// verbatim.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return eris.Wrap(err, "failed to write header")
	}

	record := make([]string, len(t.Header))
	for r, rec := range t.Rows {
		for i := range record {
			cell := ""
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			if cell == "" {
				cell = MissingValue
			}
			record[i] = cell
		}
		if err := writer.Write(record); err != nil {
			return eris.Wrapf(err, "failed to write row %d", r)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "failed to flush CSV")
	}
	return nil
}

// WriteCSVFile writes t to path, creating the parent directory if needed.
func WriteCSVFile(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "failed to create output directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", path)
	}

	if err := t.WriteCSV(file); err != nil {
		file.Close()
		return eris.Wrapf(err, "failed to write %s", path)
	}
	if err := file.Close(); err != nil {
		return eris.Wrapf(err, "failed to close %s", path)
	}
	return nil
}
