// Package datasets loads, prunes and writes the coffee-quality tables and
// the model result files produced by the external trainers.
//
// Tables are loaded whole into memory (see Table). A generated table can be
// viewed as training examples through CoffeeDataset, which presents the
// cupping scores as feature vectors and the flavor score as the label:
//
// CoffeeDataset
//   - Inputs per example: Aroma, Aftertaste, Acidity, Body, Balance,
//     Uniformity, Sweetness, Moisture (in that order, float32)
//   - Labels per example: Flavor (float32 vector length 1)
//   - Rows with a missing or non-numeric feature or label are skipped, the
//     same way the trainers skip them.
package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// Dataset is implemented by CoffeeDataset so it can be handed to GoMLX
// training loops and batching utilities.
type Dataset interface {
	Len() int
	Example(i int) (inputs []float32, labels []float32, err error)
	Batch(indices []int) (inputs [][]float32, labels [][]float32, err error)
	Shuffle(seed int64)

	// To implement gomlx's train.Dataset interface
	Name() string
	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
	Reset()
}
