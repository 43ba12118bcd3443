// Package plots renders the diagnostic figures for the regression results:
// predicted-vs-actual scatter, weights or importances, and residuals.
package plots

import (
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/coffeeCo/datasets"
	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// FeatureLabels name the bars of the weight and importance charts, in the
// order the trainers write them.
var FeatureLabels = []string{
	"Aroma", "Aftertaste", "Acidity", "Body",
	"Balance", "Uniformity", "Sweetness", "Moisture",
}

// Default figure size.
var (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	dodgerBlue  = color.NRGBA{R: 30, G: 144, B: 255, A: 153}
	forestGreen = color.NRGBA{R: 34, G: 139, B: 34, A: 153}
	diagonalRed = color.RGBA{R: 220, G: 20, B: 20, A: 255}
	barBlue     = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	histFill    = color.NRGBA{R: 76, G: 114, B: 176, A: 140}
	kdeLine     = color.RGBA{R: 40, G: 70, B: 130, A: 255}
)

// ModelResults is everything needed to draw one model's figure.
type ModelResults struct {
	// Name is used for the output file name, e.g. "linear".
	Name string

	ScatterTitle  string
	BarTitle      string
	ResidualTitle string
	PointColor    color.Color

	Predictions []datasets.Prediction
	Values      []float64
	Labels      []string
}

// LinearResults describes the linear regression figure.
func LinearResults(preds []datasets.Prediction, weights []float64) ModelResults {
	return ModelResults{
		Name:          "linear",
		ScatterTitle:  "Linear Regression",
		BarTitle:      "Linear Weights",
		ResidualTitle: "Linear Residuals",
		PointColor:    dodgerBlue,
		Predictions:   preds,
		Values:        weights,
		Labels:        FeatureLabels,
	}
}

// TreeResults describes the decision tree figure.
func TreeResults(preds []datasets.Prediction, importances []float64) ModelResults {
	return ModelResults{
		Name:          "tree",
		ScatterTitle:  "Decision Tree",
		BarTitle:      "Tree Feature Importances",
		ResidualTitle: "Tree Residuals",
		PointColor:    forestGreen,
		Predictions:   preds,
		Values:        importances,
		Labels:        FeatureLabels,
	}
}

// Figure is a row of three panels: scatter, bars and residuals.
type Figure struct {
	Name   string
	Panels []*plot.Plot
}

// NewFigure builds the three panels for m.
func NewFigure(m ModelResults) (*Figure, error) {
	if len(m.Predictions) == 0 {
		return nil, eris.Errorf("%s: no predictions to plot", m.Name)
	}
	if len(m.Values) != len(m.Labels) {
		return nil, eris.Errorf("%s: got %d values for %d feature labels", m.Name, len(m.Values), len(m.Labels))
	}

	scatter, err := scatterPanel(m)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: scatter", m.Name)
	}
	bars, err := barPanel(m)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: bars", m.Name)
	}
	residuals, err := residualPanel(m)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: residuals", m.Name)
	}

	return &Figure{Name: m.Name, Panels: []*plot.Plot{scatter, bars, residuals}}, nil
}

// scatterPanel plots Actual against Predicted with a dashed y = x line
// spanning the actual range.
func scatterPanel(m ModelResults) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = m.ScatterTitle
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(m.Predictions))
	for i, pr := range m.Predictions {
		xys[i] = plotter.XY{X: pr.Actual, Y: pr.Predicted}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = m.PointColor
	sc.GlyphStyle.Radius = vg.Points(2)
	p.Add(sc)

	lo, hi := dataRange(datasets.Actuals(m.Predictions))
	diag, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, err
	}
	diag.Color = diagonalRed
	diag.Width = vg.Points(1.2)
	diag.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(diag)

	return p, nil
}

// barPanel draws one bar per feature label with rotated tick labels.
func barPanel(m ModelResults) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = m.BarTitle
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(plotter.Values(m.Values), vg.Points(14))
	if err != nil {
		return nil, err
	}
	bars.Color = barBlue
	bars.LineStyle.Width = 0
	p.Add(bars)

	p.NominalX(m.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	return p, nil
}

// residualPanel draws the residual count histogram with a KDE curve scaled
// to counts.
func residualPanel(m ModelResults) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = m.ResidualTitle
	p.X.Label.Text = "Residual"
	p.Y.Label.Text = "Count"

	residuals := datasets.Residuals(m.Predictions)
	hist, err := plotter.NewHist(plotter.Values(residuals), BinCount(residuals))
	if err != nil {
		return nil, err
	}
	hist.FillColor = histFill
	hist.LineStyle.Color = color.White
	p.Add(hist)

	if kde := NewKDE(residuals); kde != nil {
		scale := float64(len(residuals)) * hist.Width
		curve := plotter.NewFunction(func(x float64) float64 {
			return kde.Density(x) * scale
		})
		curve.XMin, curve.XMax = dataRange(residuals)
		curve.Samples = 200
		curve.Color = kdeLine
		curve.Width = vg.Points(1.5)
		p.Add(curve)
	}

	return p, nil
}

// Render draws the figure onto a canvas in the given format ("png", "svg",
// "pdf", "jpg", "eps", "tiff").
func (f *Figure) Render(format string, width, height vg.Length) (vg.CanvasWriterTo, error) {
	c, err := draw.NewFormattedCanvas(width, height, format)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: canvas", f.Name)
	}

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(f.Panels),
		PadX:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{f.Panels}, tiles, draw.New(c))
	for j, p := range f.Panels {
		p.Draw(canvases[0][j])
	}
	return c, nil
}

// WriteTo renders the figure and writes the encoded image to w.
func (f *Figure) WriteTo(w io.Writer, format string, width, height vg.Length) error {
	c, err := f.Render(format, width, height)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(w); err != nil {
		return eris.Wrapf(err, "%s: write image", f.Name)
	}
	return nil
}

// FormatOf returns the image format implied by the extension of path.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Save renders the figure and writes it to path; the format follows the file
// extension. Nothing is created when rendering fails.
func (f *Figure) Save(path string, width, height vg.Length) error {
	format := FormatOf(path)
	if format == "" {
		return eris.Errorf("%s: no image format extension in %s", f.Name, path)
	}
	c, err := f.Render(format, width, height)
	if err != nil {
		return err
	}
	return WriteImage(path, c)
}

// WriteImage writes a rendered canvas to path, creating its directory.
func WriteImage(path string, c io.WriterTo) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return eris.Wrapf(err, "create output directory for %s", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if _, err := c.WriteTo(file); err != nil {
		file.Close()
		return eris.Wrapf(err, "write image %s", path)
	}
	if err := file.Close(); err != nil {
		return eris.Wrapf(err, "close %s", path)
	}
	return nil
}

func ensureDir(path string) error {
	// Attempt to create directory if it doesn't exist (silently succeed if present).
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
