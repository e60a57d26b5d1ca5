// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package training_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/mnistops/dataset"
	"github.com/born-ml/mnistops/mnist"
	"github.com/born-ml/mnistops/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoopOverOperandDataset drives the loop end to end through the public
// API with a step that counts examples and checks the label range.
func TestLoopOverOperandDataset(t *testing.T) {
	data := mnist.Synthetic(400, 100, 1)

	train, test, err := dataset.Operation(data, dataset.OpConfig{
		Config:                    dataset.Config{CountTrain: 150, CountTest: 40, BufferSize: 50, BatchSize: 16},
		OverlapResampleProportion: 0.25,
	})
	require.NoError(t, err)

	examples := &training.Mean{}
	acc := &training.SparseCategoricalAccuracy{}
	metrics := training.Metrics{}.Add("examples", examples).Add("accuracy", acc)

	step := func(_ context.Context, batch []dataset.OpExample, _ training.Params) error {
		examples.Update(float64(len(batch)), 1)
		correct := 0
		for _, e := range batch {
			if e.Label >= 0 && e.Label <= 18 {
				correct++
			}
		}
		acc.Update(correct, len(batch))
		return nil
	}

	var out bytes.Buffer
	csvPath := filepath.Join(t.TempDir(), "metrics.csv")
	loop := &training.Loop[[]dataset.OpExample, []dataset.OpExample]{
		Epochs:    3,
		Metrics:   metrics,
		Train:     train,
		Test:      test,
		TrainStep: step,
		TestStep:  step,
		CSVPath:   csvPath,
		Out:       &out,
	}

	hist, err := loop.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, hist.Results, 3)
	for _, row := range hist.Results {
		assert.Equal(t, 1.0, row[1])
	}

	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Epoch,examples,accuracy", lines[0])
	// Mean batch size over 10 train and 3 test batches: 190/13.
	assert.Equal(t, "2,14.6154,1.0000", lines[3])
}

func TestOverRequestFails(t *testing.T) {
	data := mnist.Synthetic(10, 10, 1)

	_, _, err := dataset.MNIST(data, dataset.Config{CountTrain: 11, CountTest: 1, BatchSize: 1})
	assert.ErrorIs(t, err, dataset.ErrInvalidArgument)

	_, _, err = dataset.Operation(data, dataset.OpConfig{
		Config:   dataset.Config{CountTrain: 5, CountTest: 4, BatchSize: 1},
		Operands: 3,
	})
	assert.ErrorIs(t, err, dataset.ErrInvalidArgument)
}
