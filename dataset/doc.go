// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset builds MNIST digit and operand datasets.
//
// # Overview
//
// This package contains:
//   - Dataset: take, shuffle and batch pipeline over in-memory examples
//   - MNIST: (image, label) datasets
//   - Operation: operand datasets with label = op(digit_1, ..., digit_n)
//   - AddOverlap: resampling that duplicates digits before re-pairing
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mnistops/dataset"
//	    "github.com/born-ml/mnistops/mnist"
//	)
//
//	func main() {
//	    data, err := mnist.Load("./data")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    train, test, err := dataset.Operation(data, dataset.OpConfig{
//	        Config: dataset.Config{
//	            CountTrain: 3000,
//	            CountTest:  1000,
//	            BufferSize: 3000,
//	            BatchSize:  32,
//	        },
//	        OverlapResampleProportion: 0.2,
//	        Operands:                  2,
//	        Op:                        dataset.Sum,
//	    })
//
//	    for batch := range train.Batches() {
//	        // batch is a []dataset.OpExample
//	    }
//	}
//
// # Errors
//
// Requests for more examples than a split holds fail with ErrInvalidArgument
// before any data is copied:
//
//	_, _, err := dataset.MNIST(data, dataset.Config{CountTrain: 70000, BatchSize: 32})
//	errors.Is(err, dataset.ErrInvalidArgument) // true
package dataset
