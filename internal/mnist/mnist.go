// Package mnist loads the MNIST handwritten digit database.
package mnist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Image geometry and split sizes of the published dataset.
const (
	Rows      = 28
	Cols      = 28
	Channels  = 1
	ImageSize = Rows * Cols * Channels

	TrainSize = 60000
	TestSize  = 10000
)

// File names of the four IDX files.
const (
	TrainImagesFile = "train-images-idx3-ubyte"
	TrainLabelsFile = "train-labels-idx1-ubyte"
	TestImagesFile  = "t10k-images-idx3-ubyte"
	TestLabelsFile  = "t10k-labels-idx1-ubyte"
)

// Errors returned while reading IDX data.
var (
	ErrInvalidMagic  = errors.New("invalid IDX magic number")
	ErrCountMismatch = errors.New("image and label counts differ")
	ErrChecksum      = errors.New("checksum mismatch: file may be corrupted")
)

// Image is a 28x28x1 image flattened row-major, pixels normalized to [0, 1].
type Image []float32

// Split holds the images and labels of one dataset split.
type Split struct {
	Images []Image
	Labels []int
}

// Len returns the number of samples in the split.
func (s *Split) Len() int {
	return len(s.Images)
}

// Slice returns the samples in [lo, hi). The underlying arrays are shared.
func (s *Split) Slice(lo, hi int) *Split {
	return &Split{Images: s.Images[lo:hi], Labels: s.Labels[lo:hi]}
}

// Data is the train/test pair returned by Load.
type Data struct {
	Train *Split
	Test  *Split
}

// Load reads the train and test splits from dir.
//
// Each file may be stored raw or gzip-compressed with a ".gz" suffix; the raw
// file wins when both exist.
func Load(dir string) (*Data, error) {
	train, err := loadSplit(dir, TrainImagesFile, TrainLabelsFile)
	if err != nil {
		return nil, fmt.Errorf("train split: %w", err)
	}
	test, err := loadSplit(dir, TestImagesFile, TestLabelsFile)
	if err != nil {
		return nil, fmt.Errorf("test split: %w", err)
	}
	return &Data{Train: train, Test: test}, nil
}

func loadSplit(dir, imagesName, labelsName string) (*Split, error) {
	imagesRaw, err := readFile(dir, imagesName, readIDXImages)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labelsRaw, err := readFile(dir, labelsName, readIDXLabels)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	if len(imagesRaw) != len(labelsRaw) {
		return nil, fmt.Errorf("%w: %d images, %d labels", ErrCountMismatch, len(imagesRaw), len(labelsRaw))
	}

	split := &Split{
		Images: make([]Image, len(imagesRaw)),
		Labels: make([]int, len(labelsRaw)),
	}
	for i, raw := range imagesRaw {
		img := make(Image, ImageSize)
		for j, p := range raw {
			img[j] = float32(p) / 255.0
		}
		split.Images[i] = img
		split.Labels[i] = int(labelsRaw[i])
	}
	return split, nil
}

func readFile[T any](dir, name string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		path += ".gz"
	}

	r, closeFn, err := openIDX(path)
	if err != nil {
		return zero, err
	}
	defer closeFn()

	v, err := decode(r)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

// Save writes the splits in data to dir as uncompressed IDX files.
func Save(dir string, data *Data) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := saveSplit(dir, TrainImagesFile, TrainLabelsFile, data.Train); err != nil {
		return fmt.Errorf("train split: %w", err)
	}
	if err := saveSplit(dir, TestImagesFile, TestLabelsFile, data.Test); err != nil {
		return fmt.Errorf("test split: %w", err)
	}
	return nil
}

func saveSplit(dir, imagesName, labelsName string, split *Split) (err error) {
	images, err := os.Create(filepath.Join(dir, imagesName))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := images.Close(); err == nil {
			err = cerr
		}
	}()

	labels, err := os.Create(filepath.Join(dir, labelsName))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := labels.Close(); err == nil {
			err = cerr
		}
	}()

	return writeIDX(images, labels, split)
}
