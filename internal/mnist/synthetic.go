package mnist

import "math/rand/v2"

// Synthetic generates a deterministic stand-in for the MNIST splits.
//
// Each digit d is drawn as a bright band starting at row 2*d with a little
// per-sample pixel noise, so a small network can learn to separate the ten
// classes. This is NOT realistic MNIST data, it only exercises the pipeline
// without the real files.
func Synthetic(trainSize, testSize int, seed uint64) *Data {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Data{
		Train: syntheticSplit(trainSize, rng),
		Test:  syntheticSplit(testSize, rng),
	}
}

func syntheticSplit(n int, rng *rand.Rand) *Split {
	split := &Split{
		Images: make([]Image, n),
		Labels: make([]int, n),
	}
	for i := 0; i < n; i++ {
		digit := i % 10
		img := make(Image, ImageSize)

		startRow := digit * 2
		for row := startRow; row < startRow+8 && row < Rows; row++ {
			for col := 5; col < 23; col++ {
				img[row*Cols+col] = 0.8
			}
		}
		for j := range img {
			if rng.Float32() < 0.02 {
				img[j] = rng.Float32()
			}
		}

		split.Images[i] = img
		split.Labels[i] = digit
	}
	return split
}
