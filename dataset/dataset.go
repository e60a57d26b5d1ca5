// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	"math/rand/v2"

	"github.com/born-ml/mnistops/internal/dataset"
	"github.com/born-ml/mnistops/internal/mnist"
)

// ErrInvalidArgument reports a dataset configuration that cannot be served.
var ErrInvalidArgument = dataset.ErrInvalidArgument

// Dataset is an in-memory take/shuffle/batch pipeline.
type Dataset[T any] = dataset.Dataset[T]

// FromSlice returns a dataset over elems with no stages applied.
func FromSlice[T any](elems []T) *Dataset[T] {
	return dataset.FromSlice(elems)
}

// Example is a single MNIST image with its digit label.
type Example = dataset.Example

// OpExample holds one image per operand and the combined label.
type OpExample = dataset.OpExample

// Config controls the size and pipeline of a dataset pair.
type Config = dataset.Config

// OpConfig controls an operand dataset pair.
type OpConfig = dataset.OpConfig

// Op combines the digits of one example into its label.
type Op = dataset.Op

// Built-in operations.
var (
	Sum        Op = dataset.Sum
	Product    Op = dataset.Product
	Difference Op = dataset.Difference
	Max        Op = dataset.Max
)

// MNIST returns train and test datasets of (image, label) examples.
func MNIST(data *mnist.Data, cfg Config) (train, test *Dataset[Example], err error) {
	return dataset.MNIST(data, cfg)
}

// Operation returns train and test operand datasets.
//
// Example:
//
//	train, test, err := dataset.Operation(data, dataset.OpConfig{
//	    Config:   dataset.Config{CountTrain: 1000, CountTest: 100, BatchSize: 32},
//	    Operands: 3,
//	    Op:       dataset.Max,
//	})
func Operation(data *mnist.Data, cfg OpConfig) (train, test *Dataset[OpExample], err error) {
	return dataset.Operation(data, cfg)
}

// AddOverlap re-pairs operand digits after duplicating a proportion of them.
func AddOverlap(proportion float64, images [][]mnist.Image, labels [][]int, rng *rand.Rand) ([][]mnist.Image, [][]int) {
	return dataset.AddOverlap(proportion, images, labels, rng)
}

// ApplyOp computes op for every example across the operand label lists.
func ApplyOp(op Op, labels [][]int) []int {
	return dataset.ApplyOp(op, labels)
}

// LabelRange returns the smallest and largest label over all examples.
func LabelRange(datasets ...*Dataset[OpExample]) (lo, hi int) {
	return dataset.LabelRange(datasets...)
}
