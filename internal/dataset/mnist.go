package dataset

import (
	"errors"
	"fmt"

	"github.com/born-ml/mnistops/internal/mnist"
)

// ErrInvalidArgument reports a dataset configuration that cannot be served.
var ErrInvalidArgument = errors.New("invalid argument")

// Example is a single MNIST image with its digit label.
type Example struct {
	Image mnist.Image
	Label int
}

// Config controls the size and pipeline of a dataset pair.
type Config struct {
	CountTrain int
	CountTest  int
	BufferSize int
	BatchSize  int
	// Seed for the shuffle stage. The test split uses Seed+1.
	Seed uint64
}

func (c Config) validate() error {
	if c.CountTrain < 0 || c.CountTest < 0 {
		return fmt.Errorf("%w: negative example count (train %d, test %d)", ErrInvalidArgument, c.CountTrain, c.CountTest)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidArgument, c.BatchSize)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("%w: negative shuffle buffer %d", ErrInvalidArgument, c.BufferSize)
	}
	return nil
}

// MNIST returns train and test datasets of (image, label) examples.
//
// Requesting more examples than a split holds fails with ErrInvalidArgument
// before any data is touched.
func MNIST(data *mnist.Data, cfg Config) (train, test *Dataset[Example], err error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	if cfg.CountTrain > data.Train.Len() {
		return nil, nil, fmt.Errorf("%w: the MNIST dataset comes with %d training examples, cannot fetch %d examples for training",
			ErrInvalidArgument, data.Train.Len(), cfg.CountTrain)
	}
	if cfg.CountTest > data.Test.Len() {
		return nil, nil, fmt.Errorf("%w: the MNIST dataset comes with %d test examples, cannot fetch %d examples for testing",
			ErrInvalidArgument, data.Test.Len(), cfg.CountTest)
	}

	train = FromSlice(examples(data.Train.Slice(0, cfg.CountTrain))).
		Take(cfg.CountTrain).
		Shuffle(cfg.BufferSize, cfg.Seed).
		Batch(cfg.BatchSize)
	test = FromSlice(examples(data.Test.Slice(0, cfg.CountTest))).
		Take(cfg.CountTest).
		Shuffle(cfg.BufferSize, cfg.Seed+1).
		Batch(cfg.BatchSize)
	return train, test, nil
}

func examples(s *mnist.Split) []Example {
	out := make([]Example, s.Len())
	for i := range out {
		out[i] = Example{Image: s.Images[i], Label: s.Labels[i]}
	}
	return out
}
