// Package dataset builds shuffled, batched datasets from MNIST splits.
//
// A Dataset applies take, shuffle and batch stages in that order, so that
// iterating it yields the same sequence of batches a tf.data style pipeline
// would: the first n elements, shuffled through a bounded buffer, grouped in
// batches of fixed size with a smaller remainder batch.
package dataset

import (
	"iter"
	"math/rand/v2"
)

// Dataset is an in-memory pipeline over elements of type T.
type Dataset[T any] struct {
	elems     []T
	take      int
	buffer    int
	batchSize int
	rng       *rand.Rand
}

// FromSlice returns a dataset over elems with no stages applied.
//
// The slice is not copied.
func FromSlice[T any](elems []T) *Dataset[T] {
	return &Dataset[T]{elems: elems, take: -1, batchSize: 1}
}

// Take limits the dataset to its first n elements.
func (d *Dataset[T]) Take(n int) *Dataset[T] {
	d.take = n
	return d
}

// Shuffle shuffles elements through a buffer of the given size.
//
// A buffer of at least Len elements gives a uniform shuffle. A buffer of 0 or
// 1 keeps the original order. The order changes on every iteration.
func (d *Dataset[T]) Shuffle(bufferSize int, seed uint64) *Dataset[T] {
	d.buffer = bufferSize
	d.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	return d
}

// Batch groups elements in batches of size n. The last batch holds the
// remainder and may be smaller.
func (d *Dataset[T]) Batch(n int) *Dataset[T] {
	d.batchSize = n
	return d
}

// Len returns the number of elements after the take stage.
func (d *Dataset[T]) Len() int {
	if d.take >= 0 && d.take < len(d.elems) {
		return d.take
	}
	return len(d.elems)
}

// BatchSize returns the configured batch size.
func (d *Dataset[T]) BatchSize() int {
	return d.batchSize
}

// NumBatches returns the number of batches one iteration yields.
func (d *Dataset[T]) NumBatches() int {
	if d.batchSize <= 0 {
		return 0
	}
	return (d.Len() + d.batchSize - 1) / d.batchSize
}

// Elements returns the elements in shuffled order, one pass.
func (d *Dataset[T]) Elements() iter.Seq[T] {
	src := d.elems[:d.Len()]

	if d.rng == nil || d.buffer <= 1 {
		return func(yield func(T) bool) {
			for _, e := range src {
				if !yield(e) {
					return
				}
			}
		}
	}

	return func(yield func(T) bool) {
		size := min(d.buffer, len(src))
		buf := make([]T, size)
		copy(buf, src[:size])
		next := size

		for len(buf) > 0 {
			i := d.rng.IntN(len(buf))
			e := buf[i]
			if next < len(src) {
				buf[i] = src[next]
				next++
			} else {
				last := len(buf) - 1
				buf[i] = buf[last]
				buf = buf[:last]
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Batches returns one pass over the dataset as batches. Every batch is a
// fresh slice that the caller may keep.
func (d *Dataset[T]) Batches() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		size := max(d.batchSize, 1)
		batch := make([]T, 0, size)
		for e := range d.Elements() {
			batch = append(batch, e)
			if len(batch) == size {
				if !yield(batch) {
					return
				}
				batch = make([]T, 0, size)
			}
		}
		if len(batch) > 0 {
			yield(batch)
		}
	}
}
