package datasets

import (
	"io"
	"math/rand"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/rotisserie/eris"
)

// FeatureColumns are the model inputs, in the order the trainers use and the
// weight files are written in.
var FeatureColumns = []string{
	ColAroma, ColAftertaste, ColAcidity, ColBody, ColBalance, ColUniformity, ColSweetness, ColMoisture,
}

// TargetColumn is the regression label.
const TargetColumn = ColFlavor

// CoffeeDataset exposes a loaded table as (features, label) examples.
// Examples are stored row-major in flat buffers so batches go straight into
// tensors.
type CoffeeDataset struct {
	// BatchSize for yielding batches
	BatchSize int

	// features holds len(FeatureColumns) values per example; labels one.
	features []float32
	labels   []float32

	// Rows skipped because a feature or the label was missing
	skipped int

	// order is the iteration order used by Yield; Shuffle permutes it
	order []int
	next  int

	rand *rand.Rand
}

// labelDim is the width of the label vector: the flavor score alone.
const labelDim = 1

var _ Dataset = (*CoffeeDataset)(nil)

// NewCoffeeDataset parses the feature and target columns of t. The table
// must contain every FeatureColumns entry and TargetColumn.
func NewCoffeeDataset(t *Table) (*CoffeeDataset, error) {
	featIdx := make([]int, len(FeatureColumns))
	for i, col := range FeatureColumns {
		j, ok := t.Index(col)
		if !ok {
			return nil, eris.Wrapf(ErrMissingColumn, "feature column %q", col)
		}
		featIdx[i] = j
	}
	targetIdx, ok := t.Index(TargetColumn)
	if !ok {
		return nil, eris.Wrapf(ErrMissingColumn, "target column %q", TargetColumn)
	}

	ds := &CoffeeDataset{
		BatchSize: 32,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	in := make([]float32, len(featIdx))
rows:
	for _, rec := range t.Rows {
		for i, j := range featIdx {
			v, err := parseFloat32(cell(rec, j))
			if err != nil {
				ds.skipped++
				continue rows
			}
			in[i] = v
		}
		label, err := parseFloat32(cell(rec, targetIdx))
		if err != nil {
			ds.skipped++
			continue
		}
		ds.features = append(ds.features, in...)
		ds.labels = append(ds.labels, label)
	}

	ds.order = make([]int, ds.Len())
	for i := range ds.order {
		ds.order[i] = i
	}
	return ds, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// Len returns the number of usable examples.
func (d *CoffeeDataset) Len() int {
	return len(d.labels) / labelDim
}

// Skipped returns how many table rows were left out for missing values.
func (d *CoffeeDataset) Skipped() int {
	return d.skipped
}

// Example returns a single example by index. The slices alias the dataset's
// buffers and must not be modified.
func (d *CoffeeDataset) Example(idx int) ([]float32, []float32, error) {
	if idx < 0 || idx >= d.Len() {
		return nil, nil, eris.Errorf("index %d out of range [0, %d)", idx, d.Len())
	}
	dim := len(FeatureColumns)
	return d.features[idx*dim : (idx+1)*dim : (idx+1)*dim], d.labels[idx*labelDim : (idx+1)*labelDim : (idx+1)*labelDim], nil
}

// Batch returns the examples at the given indices
func (d *CoffeeDataset) Batch(indices []int) ([][]float32, [][]float32, error) {
	inputs := make([][]float32, len(indices))
	labels := make([][]float32, len(indices))
	for i, idx := range indices {
		in, la, err := d.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		inputs[i] = in
		labels[i] = la
	}
	return inputs, labels, nil
}

// Shuffle permutes the order Yield walks the examples in.
func (d *CoffeeDataset) Shuffle(seed int64) {
	d.rand.Seed(seed)
	d.rand.Shuffle(len(d.order), func(i, j int) {
		d.order[i], d.order[j] = d.order[j], d.order[i]
	})
	d.next = 0
}

// Tensors gathers the examples at indices into a [n, 8] float32 input tensor
// and a [n, 1] label tensor.
func (d *CoffeeDataset) Tensors(indices []int) (*tensors.Tensor, *tensors.Tensor, error) {
	dim := len(FeatureColumns)
	inputs := make([]float32, 0, len(indices)*dim)
	labels := make([]float32, 0, len(indices)*labelDim)
	for _, idx := range indices {
		in, la, err := d.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, in...)
		labels = append(labels, la...)
	}
	return tensors.FromFlatDataAndDimensions(inputs, len(indices), dim),
		tensors.FromFlatDataAndDimensions(labels, len(indices), labelDim), nil
}

// Name returns the name of the dataset
func (d *CoffeeDataset) Name() string {
	return "CoffeeDataset"
}

// Yield returns the next batch of at most BatchSize examples. It returns
// io.EOF once every example has been yielded; call Reset to start over.
func (d *CoffeeDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.next >= len(d.order) {
		return nil, nil, nil, io.EOF
	}
	size := d.BatchSize
	if size <= 0 {
		size = 32
	}
	end := min(d.next+size, len(d.order))
	indices := d.order[d.next:end]
	d.next = end

	in, la, err := d.Tensors(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{in}, []*tensors.Tensor{la}, nil
}

// Reset restarts Yield from the first example of the current order.
func (d *CoffeeDataset) Reset() {
	d.next = 0
}
