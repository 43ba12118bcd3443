package datasets

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// MissingValue is the literal written for missing cells.
const MissingValue = "nan"

// naTokens are the cell spellings read as missing, matched case-sensitively
// after trimming. This is the default NA list of pandas' CSV and Excel
// readers, so "None" and "NULL" in a source file are missing too.
var naTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "-NaN": true, "-nan": true,
	"1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsMissing reports whether a source cell holds no value.
func IsMissing(s string) bool {
	return naTokens[strings.TrimSpace(s)]
}

// normalizeMissing blanks every NA token in record in place. Only loaded
// cells go through it; generated values such as the "None" color are
// written as they are.
func normalizeMissing(record []string) []string {
	for i, c := range record {
		if IsMissing(c) {
			record[i] = ""
		}
	}
	return record
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, eris.New("empty string")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseFloat32(s string) (float32, error) {
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, eris.New("NaN value")
	}
	return float32(v), nil
}

// FormatFloat renders v with at most decimals digits after the point and
// no trailing zeros.
func FormatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(Round(v, decimals), 'f', -1, 64)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
