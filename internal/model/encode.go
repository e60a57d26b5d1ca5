package model

import (
	"github.com/born-ml/mnistops/internal/dataset"
	"github.com/born-ml/mnistops/internal/mnist"
)

// Encoder flattens a batch into a row-major feature matrix and class
// indices ready for tensor construction.
type Encoder[T any] func(batch []T) (features []float32, classes []int32)

// EncodeDigits encodes plain MNIST examples: 784 features, class = digit.
func EncodeDigits(batch []dataset.Example) ([]float32, []int32) {
	features := make([]float32, 0, len(batch)*mnist.ImageSize)
	classes := make([]int32, len(batch))
	for i, e := range batch {
		features = append(features, e.Image...)
		classes[i] = int32(e.Label)
	}
	return features, classes
}

// EncodeOperands returns an encoder that concatenates the operand images of
// each example and shifts labels by -minLabel so the smallest label maps to
// class 0.
func EncodeOperands(operands, minLabel int) Encoder[dataset.OpExample] {
	return func(batch []dataset.OpExample) ([]float32, []int32) {
		features := make([]float32, 0, len(batch)*operands*mnist.ImageSize)
		classes := make([]int32, len(batch))
		for i, e := range batch {
			for _, img := range e.Images {
				features = append(features, img...)
			}
			classes[i] = int32(e.Label - minLabel)
		}
		return features, classes
	}
}
