package mnist

import "gonum.org/v1/gonum/stat"

// PixelStats returns the mean and standard deviation of all pixel values in
// the split, the usual inputs to per-dataset normalization.
func PixelStats(s *Split) (mean, std float64) {
	if s.Len() == 0 {
		return 0, 0
	}
	values := make([]float64, 0, s.Len()*ImageSize)
	for _, img := range s.Images {
		for _, p := range img {
			values = append(values, float64(p))
		}
	}
	return stat.MeanStdDev(values, nil)
}

// LabelCounts returns how many samples carry each digit.
func LabelCounts(s *Split) [10]int {
	var counts [10]int
	for _, l := range s.Labels {
		if l >= 0 && l < len(counts) {
			counts[l]++
		}
	}
	return counts
}
