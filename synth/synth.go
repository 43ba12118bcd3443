// Package synth generates synthetic coffee records. Every field of a record
// is sampled independently: numeric fields uniformly within fixed bounds,
// categorical fields uniformly from the values observed in a base table or
// from a literal palette.
package synth

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/Noofbiz/coffeeCo/datasets"
	"github.com/rotisserie/eris"
)

// DefaultRows is the number of synthetic rows appended by default.
const DefaultRows = 99010

// DefaultColors is the literal palette sampled for the color column.
var DefaultColors = []string{"Green", "Blue-Green", "Bluish-Green", "None", "Unknown", "Rainbow", "Red", "Orange-Blue"}

// ErrEmptyDomain is returned when a categorical column has no observed
// values to sample from.
var ErrEmptyDomain = eris.New("no values to sample from")

// Sampler draws one cell value.
type Sampler interface {
	Sample(rng *rand.Rand) string
}

// UniformFloat samples a float in [Min, Max] rounded to Decimals places.
type UniformFloat struct {
	Min, Max float64
	Decimals int
}

// Sample implements Sampler.
func (u UniformFloat) Sample(rng *rand.Rand) string {
	v := u.Min + rng.Float64()*(u.Max-u.Min)
	return datasets.FormatFloat(v, u.Decimals)
}

// UniformInt samples an integer in [Min, Max], both inclusive.
type UniformInt struct {
	Min, Max int
}

// Sample implements Sampler.
func (u UniformInt) Sample(rng *rand.Rand) string {
	return strconv.Itoa(u.Min + rng.Intn(u.Max-u.Min+1))
}

// Choice samples one of Values uniformly.
type Choice struct {
	Values []string
}

// Sample implements Sampler.
func (c Choice) Sample(rng *rand.Rand) string {
	return c.Values[rng.Intn(len(c.Values))]
}

// Generator produces synthetic rows for a pruned schema.
type Generator struct {
	Schema datasets.Schema

	// Base holds the pruned base records; categorical domains come from it.
	Base *datasets.Table

	// samplers are aligned with Schema.Columns
	samplers []Sampler

	colors []string

	// rng is used for every draw; inject one with WithRand for repeatable output.
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand makes the generator draw from rng.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithSeed seeds the generator. A zero seed keeps the time-based source.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithColors replaces the color palette.
func WithColors(colors []string) Option {
	return func(g *Generator) {
		if len(colors) > 0 {
			g.colors = append([]string(nil), colors...)
		}
	}
}

// NewGenerator creates a generator for schema. base must already be pruned
// to schema (see datasets.Schema.Prune).
func NewGenerator(schema datasets.Schema, base *datasets.Table, opts ...Option) (*Generator, error) {
	if base == nil {
		return nil, eris.New("base table cannot be nil")
	}
	g := &Generator{
		Schema: schema,
		Base:   base,
		colors: append([]string(nil), DefaultColors...),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.samplers = make([]Sampler, len(schema.Columns))
	for i, col := range schema.Columns {
		s, err := g.defaultSampler(col)
		if err != nil {
			return nil, err
		}
		g.samplers[i] = s
	}
	return g, nil
}

// defaultSampler picks the distribution for a column.
func (g *Generator) defaultSampler(col string) (Sampler, error) {
	switch col {
	case datasets.ColMoisture:
		return UniformFloat{Min: 0, Max: 0.30, Decimals: 2}, nil
	case datasets.ColAroma, datasets.ColFlavor, datasets.ColAftertaste, datasets.ColAcidity,
		datasets.ColBody, datasets.ColBalance, datasets.ColUniformity, datasets.ColSweetness:
		return UniformFloat{Min: 0, Max: 10, Decimals: 2}, nil
	case datasets.ColAltitudeAvg:
		return UniformInt{Min: 0, Max: 200000}, nil
	case datasets.ColYear:
		return UniformInt{Min: 2010, Max: 2025}, nil
	case datasets.ColBagWeight:
		return UniformFloat{Min: 0, Max: 20000, Decimals: 4}, nil
	case datasets.ColColor:
		return Choice{Values: g.colors}, nil
	}

	values, err := g.Base.Distinct(col)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to collect values for %q", col)
	}
	if len(values) == 0 {
		return nil, eris.Wrapf(ErrEmptyDomain, "column %q", col)
	}
	return Choice{Values: values}, nil
}

// Sampler returns the sampler used for col, or nil if col is not part of the
// schema.
func (g *Generator) Sampler(col string) Sampler {
	if i := g.columnIndex(col); i >= 0 {
		return g.samplers[i]
	}
	return nil
}

// SetSampler replaces the sampler for col.
func (g *Generator) SetSampler(col string, s Sampler) error {
	if s == nil {
		return eris.Errorf("nil sampler for %q", col)
	}
	i := g.columnIndex(col)
	if i < 0 {
		return eris.Wrapf(datasets.ErrMissingColumn, "column %q is not part of schema %s", col, g.Schema.Name)
	}
	g.samplers[i] = s
	return nil
}

// Row samples one synthetic record.
func (g *Generator) Row() []string {
	row := make([]string, len(g.samplers))
	for i, s := range g.samplers {
		row[i] = s.Sample(g.rng)
	}
	return row
}

// Generate samples n synthetic records.
func (g *Generator) Generate(n int) ([][]string, error) {
	if n < 0 {
		return nil, eris.Errorf("row count must be >= 0, got %d", n)
	}
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = g.Row()
	}
	return rows, nil
}

// Augment returns the base records followed by n synthetic records.
func (g *Generator) Augment(n int) (*datasets.Table, error) {
	rows, err := g.Generate(n)
	if err != nil {
		return nil, err
	}
	return g.Base.Append(rows)
}
