package model

import (
	"context"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"github.com/born-ml/mnistops/internal/dataset"
	"github.com/born-ml/mnistops/internal/mnist"
	"github.com/born-ml/mnistops/internal/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDigits(t *testing.T) {
	a := make(mnist.Image, mnist.ImageSize)
	b := make(mnist.Image, mnist.ImageSize)
	a[0], b[mnist.ImageSize-1] = 0.5, 1

	features, classes := EncodeDigits([]dataset.Example{{Image: a, Label: 3}, {Image: b, Label: 7}})

	require.Len(t, features, 2*mnist.ImageSize)
	assert.Equal(t, float32(0.5), features[0])
	assert.Equal(t, float32(1), features[2*mnist.ImageSize-1])
	assert.Equal(t, []int32{3, 7}, classes)
}

func TestEncodeOperands(t *testing.T) {
	img := func(v float32) mnist.Image {
		out := make(mnist.Image, mnist.ImageSize)
		out[0] = v
		return out
	}
	batch := []dataset.OpExample{
		{Images: []mnist.Image{img(1), img(2)}, Label: -3},
		{Images: []mnist.Image{img(3), img(4)}, Label: 5},
	}

	features, classes := EncodeOperands(2, -9)(batch)

	require.Len(t, features, 4*mnist.ImageSize)
	for i, want := range []float32{1, 2, 3, 4} {
		assert.Equal(t, want, features[i*mnist.ImageSize])
	}
	assert.Equal(t, []int32{6, 14}, classes)
}

func TestClassifier(t *testing.T) {
	backend := cpu.New()
	c := NewClassifier(mnist.ImageSize, 16, 10, backend)

	assert.Equal(t, mnist.ImageSize*16+16+16*10+10, c.NumParameters())
	assert.Equal(t, 10, c.Classes())
	assert.Equal(t, mnist.ImageSize, c.InFeatures())
}

func TestCorrect(t *testing.T) {
	backend := cpu.New()
	logits, err := tensor.FromSlice([]float32{
		0.1, 0.9, 0.0, // class 1
		2.0, 1.0, 0.5, // class 0
		0.0, 0.0, 3.0, // class 2
		0.3, 0.2, 0.1, // class 0
	}, tensor.Shape{4, 3}, backend)
	require.NoError(t, err)
	labels, err := tensor.FromSlice([]int32{1, 0, 1, 2}, tensor.Shape{4}, backend)
	require.NoError(t, err)

	assert.Equal(t, 2, correct(logits, labels))
}

func TestTrainer_TestStepAccuracy(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := NewClassifier(mnist.ImageSize, 4, 10, backend)
	trainer := NewTrainer[*cpu.Backend, dataset.Example](backend, net, 0.01, EncodeDigits)

	data := mnist.Synthetic(0, 8, 2)
	batch := make([]dataset.Example, data.Test.Len())
	for i := range batch {
		batch[i] = dataset.Example{Image: data.Test.Images[i], Label: data.Test.Labels[i]}
	}
	require.NoError(t, trainer.TestStep(context.Background(), batch, nil))

	acc := trainer.TestAccuracy.Result()
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
	assert.InDelta(t, 0, math.Mod(acc*8, 1), 1e-9, "accuracy counts whole examples")
}

func TestTrainer_LearnsSyntheticDigits(t *testing.T) {
	backend := autodiff.New(cpu.New())
	data := mnist.Synthetic(40, 20, 1)

	train, test, err := dataset.MNIST(data, dataset.Config{CountTrain: 40, CountTest: 20, BufferSize: 40, BatchSize: 10})
	require.NoError(t, err)

	net := NewClassifier(mnist.ImageSize, 32, 10, backend)
	trainer := NewTrainer[*cpu.Backend, dataset.Example](backend, net, 0.01, EncodeDigits)

	loop := &training.Loop[[]dataset.Example, []dataset.Example]{
		Epochs:    8,
		Metrics:   trainer.Metrics(),
		Train:     train,
		Test:      test,
		TrainStep: trainer.TrainStep,
		TestStep:  trainer.TestStep,
		Out:       io.Discard,
	}
	hist, err := loop.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, hist.Results, 8)

	first, last := hist.Results[0], hist.Results[7]
	for _, v := range last {
		assert.False(t, math.IsNaN(v))
	}
	assert.Less(t, last[0], first[0], "training loss should decrease")
	assert.GreaterOrEqual(t, last[3], 0.5, "test accuracy on separable synthetic digits")
}

func TestTrainer_ScheduledLR(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := NewClassifier(mnist.ImageSize, 4, 10, backend)
	trainer := NewTrainer[*cpu.Backend, dataset.Example](backend, net, 0.01, EncodeDigits)

	batch := []dataset.Example{{Image: make(mnist.Image, mnist.ImageSize), Label: 1}}
	require.NoError(t, trainer.TrainStep(context.Background(), batch, training.Params{ParamLR: 0.001}))
	assert.InDelta(t, 0.001, trainer.LR(), 1e-9)
	assert.Greater(t, trainer.TrainLoss.Result(), 0.0)
}

func TestTrainer_RejectsOutOfRangeLabels(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := NewClassifier(2*mnist.ImageSize, 4, 19, backend)
	trainer := NewTrainer[*cpu.Backend, dataset.OpExample](backend, net, 0.01, EncodeOperands(2, 0))

	img := make(mnist.Image, mnist.ImageSize)
	batch := []dataset.OpExample{{Images: []mnist.Image{img, img}, Label: 19}}
	err := trainer.TestStep(context.Background(), batch, nil)
	assert.Error(t, err)
}

func TestClassifier_Save(t *testing.T) {
	backend := cpu.New()
	c := NewClassifier(mnist.ImageSize, 8, 10, backend)

	path := filepath.Join(t.TempDir(), "model.born")
	require.NoError(t, c.Save(path, map[string]string{"task": "digits"}))
	assert.FileExists(t, path)
}
