package datasets

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadPredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linear_predictions.csv")
	writeCSV(t, path, "Actual,Predicted", []string{
		"7.5,7.25",
		"8,8.5",
		"6.75,6.5",
	})

	preds, err := ReadPredictions(path)
	if err != nil {
		t.Fatalf("ReadPredictions failed: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(preds))
	}
	if preds[1].Actual != 8 || preds[1].Predicted != 8.5 {
		t.Fatalf("unexpected row 1: %+v", preds[1])
	}

	res := Residuals(preds)
	want := []float64{0.25, -0.5, 0.25}
	for i := range want {
		if res[i] != want[i] {
			t.Fatalf("residual %d: got %v want %v", i, res[i], want[i])
		}
	}
	if a := Actuals(preds); a[2] != 6.75 {
		t.Fatalf("unexpected actuals: %v", a)
	}
}

func TestDecodePredictions_ExtraColumnsIgnored(t *testing.T) {
	preds, err := DecodePredictions(strings.NewReader("Id,Predicted,Actual\n1,2,3\n"))
	if err != nil {
		t.Fatalf("DecodePredictions failed: %v", err)
	}
	if preds[0].Actual != 3 || preds[0].Predicted != 2 {
		t.Fatalf("columns decoded by position instead of name: %+v", preds[0])
	}
}

func TestDecodePredictions_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "Actual,Guess\n1,2\n",
		"wrong type":     "Actual,Predicted\n1,abc\n",
		"no rows":        "Actual,Predicted\n",
	}
	for name, input := range cases {
		if _, err := DecodePredictions(strings.NewReader(input)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	_, err := DecodePredictions(strings.NewReader("Actual,Guess\n1,2\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadPredictions_NotFound(t *testing.T) {
	_, err := ReadPredictions(filepath.Join(t.TempDir(), "tree_predictions.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestDecodeValues(t *testing.T) {
	values, err := DecodeValues(strings.NewReader("0.5\n-1.25\n\n3e-2\n\"4\"\n"))
	if err != nil {
		t.Fatalf("DecodeValues failed: %v", err)
	}
	want := []float64{0.5, -1.25, 0.03, 4}
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), values)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("value %d: got %v want %v", i, values[i], want[i])
		}
	}
}

func TestDecodeValues_Errors(t *testing.T) {
	if _, err := DecodeValues(strings.NewReader("Weight\n0.5\n")); err == nil {
		t.Fatalf("expected error for a header line")
	}
	if _, err := DecodeValues(strings.NewReader("\n\n")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestReadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree_importances.csv")
	writeCSV(t, path, "0.1", []string{"0.2", "0.7"})
	values, err := ReadValues(path)
	if err != nil {
		t.Fatalf("ReadValues failed: %v", err)
	}
	if len(values) != 3 || values[2] != 0.7 {
		t.Fatalf("unexpected values: %v", values)
	}
}
