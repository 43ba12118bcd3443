package main

// Example command that loads a generated coffee dataset and converts small
// batches into gomlx tensors with the helpers provided in the package.
//
// Usage:
//   go run ./datasets/example [generated_coffee.csv]
//
// Note: this example expects the CSV written by `coffee generate` to exist.
// If it is not found the example will print an error and exit.

import (
	"fmt"
	"log"
	"os"

	"github.com/Noofbiz/coffeeCo/datasets"
)

func main() {
	path := "generated_coffee.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	t, err := datasets.ReadTable(path)
	if err != nil {
		log.Fatalf("failed to load coffee dataset: %v", err)
	}
	fmt.Printf("Using dataset: %s (%d rows, %d columns)\n", path, t.Len(), len(t.Header))

	ds, err := datasets.NewCoffeeDataset(t)
	if err != nil {
		log.Fatalf("failed to build training view: %v", err)
	}
	fmt.Printf("Total examples available: %d (%d rows skipped for missing values)\n", ds.Len(), ds.Skipped())

	// Prepare a small batch (first N examples)
	n := min(8, ds.Len())
	if n == 0 {
		fmt.Println("No complete rows to batch.")
		return
	}
	indices := make([]int, n)
	for i := range n {
		indices[i] = i
	}

	fmt.Printf("Loading batch of %d examples...\n", n)
	inputs, labels, err := ds.Batch(indices)
	if err != nil {
		log.Fatalf("failed to build batch: %v", err)
	}

	inT, laT, err := ds.Tensors(indices)
	if err != nil {
		log.Fatalf("failed to convert batch to gomlx tensors: %v", err)
	}

	fmt.Printf("Created tensors: input=%s label=%s\n", inT.Shape(), laT.Shape())
	fmt.Printf("  Features: %v\n", datasets.FeatureColumns)
	fmt.Printf("  Target:   %s\n", datasets.TargetColumn)
	fmt.Printf("  First example input: %v\n", inputs[0])
	fmt.Printf("  First example label: %v\n", labels[0])

	// Walk the whole dataset once in shuffled batches
	ds.Shuffle(1)
	batches := 0
	for {
		_, _, _, err := ds.Yield()
		if err != nil {
			break
		}
		batches++
	}
	fmt.Printf("Yielded %d batches of up to %d examples\n", batches, ds.BatchSize)
}
