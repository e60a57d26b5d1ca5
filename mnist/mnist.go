// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mnist loads the MNIST handwritten digit database.
//
// Load reads the four official IDX files, raw or gzip-compressed:
//
//	data, err := mnist.Load("./data")
//	// data.Train: 60,000 samples, data.Test: 10,000 samples
//
// Images are 28x28x1, flattened row-major and normalized to [0, 1].
// Download fetches the gzipped archives from a mirror and checks their
// SHA-256 digests.
package mnist

import (
	"context"

	"github.com/born-ml/mnistops/internal/mnist"
)

// Image geometry and split sizes of the published dataset.
const (
	Rows      = mnist.Rows
	Cols      = mnist.Cols
	ImageSize = mnist.ImageSize
	TrainSize = mnist.TrainSize
	TestSize  = mnist.TestSize
)

// DefaultMirror serves the gzipped IDX files.
const DefaultMirror = mnist.DefaultMirror

// Errors returned while reading or downloading IDX data.
var (
	ErrInvalidMagic  = mnist.ErrInvalidMagic
	ErrCountMismatch = mnist.ErrCountMismatch
	ErrChecksum      = mnist.ErrChecksum
)

// Image is a flattened, normalized 28x28x1 image.
type Image = mnist.Image

// Split holds the images and labels of one dataset split.
type Split = mnist.Split

// Data is the train/test pair returned by Load.
type Data = mnist.Data

// Load reads the train and test splits from dir.
func Load(dir string) (*Data, error) {
	return mnist.Load(dir)
}

// Save writes data to dir as uncompressed IDX files.
func Save(dir string, data *Data) error {
	return mnist.Save(dir, data)
}

// Download fetches any archive missing from dir.
func Download(ctx context.Context, dir, mirror string) error {
	return mnist.Download(ctx, dir, mirror)
}

// Synthetic generates deterministic stand-in splits for offline runs.
func Synthetic(trainSize, testSize int, seed uint64) *Data {
	return mnist.Synthetic(trainSize, testSize, seed)
}

// PixelStats returns the mean and standard deviation of all pixels.
func PixelStats(s *Split) (mean, std float64) {
	return mnist.PixelStats(s)
}
