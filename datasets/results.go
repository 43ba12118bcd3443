package datasets

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// Prediction is one row of a model's prediction file.
type Prediction struct {
	Actual    float64 `csv:"Actual"`
	Predicted float64 `csv:"Predicted"`
}

// Residual returns Actual - Predicted.
func (p Prediction) Residual() float64 {
	return p.Actual - p.Predicted
}

// ReadPredictions loads a prediction file with "Actual" and "Predicted"
// columns. Other columns are ignored.
func ReadPredictions(path string) ([]Prediction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open predictions %s", path)
	}
	defer file.Close()

	preds, err := DecodePredictions(file)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read predictions %s", path)
	}
	return preds, nil
}

// DecodePredictions decodes prediction rows from r. A missing column, a
// non-numeric cell or an empty file is an error.
func DecodePredictions(r io.Reader) ([]Prediction, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err == io.EOF {
		return nil, eris.New("empty predictions: no header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to read header")
	}

	header := NewTable(cleanHeader(dec.Header()), nil)
	for _, col := range []string{"Actual", "Predicted"} {
		if i, ok := header.Index(col); !ok || header.Header[i] != col {
			return nil, eris.Wrapf(ErrMissingColumn, "column %q", col)
		}
	}

	var preds []Prediction
	for {
		var p Prediction
		err := dec.Decode(&p)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "failed to decode row %d", len(preds)+1)
		}
		preds = append(preds, p)
	}

	if len(preds) == 0 {
		return nil, eris.New("no prediction rows")
	}
	return preds, nil
}

// ReadValues loads a headerless single-column file of numbers, such as
// learned weights or feature importances. Blank lines are skipped.
func ReadValues(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open values %s", path)
	}
	defer file.Close()

	values, err := DecodeValues(file)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read values %s", path)
	}
	return values, nil
}

// DecodeValues parses one number per line from r. Only the first field of a
// comma-separated line is used.
func DecodeValues(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	var values []float64
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if i := strings.IndexByte(text, ','); i >= 0 {
			text = text[:i]
		}
		v, err := parseFloat(strings.Trim(text, `"`))
		if err != nil {
			return nil, eris.Wrapf(err, "line %d: invalid number %q", line, text)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "failed to scan values")
	}
	if len(values) == 0 {
		return nil, eris.New("no values")
	}
	return values, nil
}

// Residuals returns Actual - Predicted for every prediction.
func Residuals(preds []Prediction) []float64 {
	out := make([]float64, len(preds))
	for i, p := range preds {
		out[i] = p.Residual()
	}
	return out
}

// Actuals returns the Actual column.
func Actuals(preds []Prediction) []float64 {
	out := make([]float64, len(preds))
	for i, p := range preds {
		out[i] = p.Actual
	}
	return out
}
