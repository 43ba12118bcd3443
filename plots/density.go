package plots

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxBins caps the automatic histogram bin count.
const maxBins = 100

// KDE is a one-dimensional Gaussian kernel density estimate.
type KDE struct {
	Samples   []float64
	Bandwidth float64
}

// NewKDE fits a Gaussian KDE with Scott's rule bandwidth,
// std * n^(-1/5). It returns nil when the samples have no spread, since no
// density curve can be drawn for them.
func NewKDE(samples []float64) *KDE {
	if len(samples) < 2 {
		return nil
	}
	std := stat.StdDev(samples, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	return &KDE{
		Samples:   samples,
		Bandwidth: std * math.Pow(float64(len(samples)), -0.2),
	}
}

// Density evaluates the estimate at x.
func (k *KDE) Density(x float64) float64 {
	var sum float64
	for _, s := range k.Samples {
		sum += distuv.UnitNormal.Prob((x - s) / k.Bandwidth)
	}
	return sum / (float64(len(k.Samples)) * k.Bandwidth)
}

// BinCount picks a histogram bin count as the larger of Sturges' rule and
// the Freedman-Diaconis rule, capped at maxBins.
func BinCount(values []float64) int {
	n := len(values)
	if n < 2 {
		return 1
	}
	sturges := int(math.Ceil(math.Log2(float64(n)))) + 1

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)
	span := sorted[n-1] - sorted[0]
	if iqr <= 0 || span <= 0 {
		return min(sturges, maxBins)
	}

	width := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
	fd := int(math.Ceil(span / width))
	return min(max(sturges, fd), maxBins)
}

// dataRange returns the min and max of values, or 0, 0 for none.
func dataRange(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}
