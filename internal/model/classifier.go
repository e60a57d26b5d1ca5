// Package model trains a small Born network on MNIST task datasets.
package model

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Classifier is a fully-connected network for digit and operand tasks.
//
// Architecture:
//   - Input: InFeatures (784 per operand image)
//   - Hidden: Hidden neurons with ReLU activation
//   - Output: Classes logits
type Classifier[B tensor.Backend] struct {
	net        *nn.Sequential[B]
	inFeatures int
	classes    int
}

// NewClassifier creates a classifier with Xavier-initialized linear layers.
func NewClassifier[B tensor.Backend](inFeatures, hidden, classes int, backend B) *Classifier[B] {
	return &Classifier[B]{
		net: nn.NewSequential[B](
			nn.NewLinear(inFeatures, hidden, backend),
			nn.NewReLU[B](),
			nn.NewLinear(hidden, classes, backend),
		),
		inFeatures: inFeatures,
		classes:    classes,
	}
}

// Forward returns raw logits with shape [batch_size, classes] for input of
// shape [batch_size, inFeatures].
func (c *Classifier[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != c.inFeatures {
		panic(fmt.Sprintf("Classifier: input must have shape [batch_size, %d], got %v", c.inFeatures, shape))
	}
	return c.net.Forward(input)
}

// Parameters returns all trainable parameters.
func (c *Classifier[B]) Parameters() []*nn.Parameter[B] {
	return c.net.Parameters()
}

// InFeatures returns the input width.
func (c *Classifier[B]) InFeatures() int { return c.inFeatures }

// Classes returns the number of output classes.
func (c *Classifier[B]) Classes() int { return c.classes }

// NumParameters counts trainable scalars.
func (c *Classifier[B]) NumParameters() int {
	total := 0
	for _, param := range c.Parameters() {
		count := 1
		for _, dim := range param.Tensor().Shape() {
			count *= dim
		}
		total += count
	}
	return total
}

// Save writes the network weights to a .born file.
func (c *Classifier[B]) Save(path string, metadata map[string]string) error {
	if err := nn.Save[B](c.net, path, "Sequential", metadata); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}
