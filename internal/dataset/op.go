package dataset

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/born-ml/mnistops/internal/mnist"
)

// Op combines the digits of one example, one per operand, into its label.
type Op func(digits []int) int

// Sum adds all operands.
func Sum(digits []int) int {
	total := 0
	for _, d := range digits {
		total += d
	}
	return total
}

// Product multiplies all operands.
func Product(digits []int) int {
	total := 1
	for _, d := range digits {
		total *= d
	}
	return total
}

// Difference subtracts every following operand from the first.
func Difference(digits []int) int {
	if len(digits) == 0 {
		return 0
	}
	total := digits[0]
	for _, d := range digits[1:] {
		total -= d
	}
	return total
}

// Max returns the largest operand.
func Max(digits []int) int {
	if len(digits) == 0 {
		return 0
	}
	return slices.Max(digits)
}

// Ops lists the built-in operations by name.
var Ops = map[string]Op{
	"sum":        Sum,
	"product":    Product,
	"difference": Difference,
	"max":        Max,
}

// OpExample is one example of an operand dataset: one image per operand
// and the label op(digits).
type OpExample struct {
	Images []mnist.Image
	Label  int
}

// OpConfig controls an operand dataset pair.
type OpConfig struct {
	Config

	// OverlapResampleProportion is the fraction of extra, duplicated digits
	// drawn into the pool before pairing. Zero disables resampling.
	OverlapResampleProportion float64
	// Operands is the number of images per example. Defaults to 2.
	Operands int
	// Op computes labels. Defaults to Sum.
	Op Op
}

func (c *OpConfig) defaults() {
	if c.Operands == 0 {
		c.Operands = 2
	}
	if c.Op == nil {
		c.Op = Sum
	}
}

// Operation returns train and test datasets whose examples hold Operands
// images and the label Op applied to their digits.
//
// Operand i reads the i-th contiguous block of count examples from each split,
// so count*Operands must not exceed the split size.
func Operation(data *mnist.Data, cfg OpConfig) (train, test *Dataset[OpExample], err error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Operands < 1 {
		return nil, nil, fmt.Errorf("%w: operands must be at least 1, got %d", ErrInvalidArgument, cfg.Operands)
	}
	if cfg.OverlapResampleProportion < 0 {
		return nil, nil, fmt.Errorf("%w: negative overlap proportion %v", ErrInvalidArgument, cfg.OverlapResampleProportion)
	}
	if cfg.CountTrain*cfg.Operands > data.Train.Len() {
		return nil, nil, fmt.Errorf("%w: the MNIST dataset comes with %d training examples, cannot fetch %d examples for each of %d operands for training",
			ErrInvalidArgument, data.Train.Len(), cfg.CountTrain, cfg.Operands)
	}
	if cfg.CountTest*cfg.Operands > data.Test.Len() {
		return nil, nil, fmt.Errorf("%w: the MNIST dataset comes with %d test examples, cannot fetch %d examples for each of %d operands for testing",
			ErrInvalidArgument, data.Test.Len(), cfg.CountTest, cfg.Operands)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, ^cfg.Seed))

	train = buildOp(data.Train, cfg.CountTrain, cfg, rng).Shuffle(cfg.BufferSize, cfg.Seed).Batch(cfg.BatchSize)
	test = buildOp(data.Test, cfg.CountTest, cfg, rng).Shuffle(cfg.BufferSize, cfg.Seed+1).Batch(cfg.BatchSize)
	return train, test, nil
}

func buildOp(split *mnist.Split, count int, cfg OpConfig, rng *rand.Rand) *Dataset[OpExample] {
	images := make([][]mnist.Image, cfg.Operands)
	labels := make([][]int, cfg.Operands)
	for i := range cfg.Operands {
		operand := split.Slice(i*count, (i+1)*count)
		images[i] = operand.Images
		labels[i] = operand.Labels
	}

	if cfg.OverlapResampleProportion > 0 {
		images, labels = AddOverlap(cfg.OverlapResampleProportion, images, labels, rng)
	}
	results := ApplyOp(cfg.Op, labels)

	out := make([]OpExample, len(results))
	for i := range out {
		imgs := make([]mnist.Image, cfg.Operands)
		for j := range imgs {
			imgs[j] = images[j][i]
		}
		out[i] = OpExample{Images: imgs, Label: results[i]}
	}
	return FromSlice(out).Take(count)
}

// AddOverlap re-pairs the operand digits after adding duplicates.
//
// All operands are pooled, int(proportion*pool) randomly chosen pool members
// are appended again, and the pool is shuffled. Output example i of operand j
// is pool member i*operands+j, so each operand keeps its original length.
func AddOverlap(proportion float64, images [][]mnist.Image, labels [][]int, rng *rand.Rand) ([][]mnist.Image, [][]int) {
	n := len(images)
	if n == 0 {
		return images, labels
	}
	pairs := len(images[0])

	var poolImages []mnist.Image
	var poolLabels []int
	for j := range n {
		poolImages = append(poolImages, images[j]...)
		poolLabels = append(poolLabels, labels[j]...)
	}

	numDigits := len(poolImages)
	indexes := make([]int, numDigits, numDigits+int(proportion*float64(numDigits)))
	for i := range indexes {
		indexes[i] = i
	}
	for range int(proportion * float64(numDigits)) {
		indexes = append(indexes, rng.IntN(numDigits))
	}
	rng.Shuffle(len(indexes), func(a, b int) {
		indexes[a], indexes[b] = indexes[b], indexes[a]
	})

	outImages := make([][]mnist.Image, n)
	outLabels := make([][]int, n)
	for j := range n {
		outImages[j] = make([]mnist.Image, pairs)
		outLabels[j] = make([]int, pairs)
	}
	for i := range pairs {
		for j := range n {
			idx := indexes[i*n+j]
			outImages[j][i] = poolImages[idx]
			outLabels[j][i] = poolLabels[idx]
		}
	}
	return outImages, outLabels
}

// ApplyOp computes op for every example across the operand label lists.
func ApplyOp(op Op, labels [][]int) []int {
	if len(labels) == 0 {
		return nil
	}
	out := make([]int, len(labels[0]))
	digits := make([]int, len(labels))
	for i := range out {
		for j := range labels {
			digits[j] = labels[j][i]
		}
		out[i] = op(digits)
	}
	return out
}

// LabelRange returns the smallest and largest label over all examples.
func LabelRange(datasets ...*Dataset[OpExample]) (lo, hi int) {
	first := true
	for _, d := range datasets {
		for _, e := range d.elems[:d.Len()] {
			if first || e.Label < lo {
				lo = e.Label
			}
			if first || e.Label > hi {
				hi = e.Label
			}
			first = false
		}
	}
	return lo, hi
}
