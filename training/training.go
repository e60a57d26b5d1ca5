// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package training provides a generic epoch loop driver.
//
// # Basic Usage
//
//	loss := &training.Mean{}
//	acc := &training.SparseCategoricalAccuracy{}
//
//	loop := &training.Loop[[]dataset.OpExample, []dataset.OpExample]{
//	    Epochs:    10,
//	    Metrics:   training.Metrics{}.Add("loss", loss).Add("accuracy", acc),
//	    Train:     train,
//	    Test:      test,
//	    TrainStep: trainStep,
//	    TestStep:  testStep,
//	    Schedule:  training.StepDecay("lr", 0.001, 0.5, 3),
//	    CSVPath:   "metrics.csv",
//	}
//	hist, err := loop.Run(ctx)
//
// Every epoch resets all metrics, runs the train and test passes and prints
//
//	Epoch 0, loss: 0.4312, accuracy: 0.8750
//
// The CSV file gets the header "Epoch,loss,accuracy" and one row per epoch.
package training

import (
	"github.com/born-ml/mnistops/internal/metrics"
	"github.com/born-ml/mnistops/internal/training"
)

// Loop runs train and test step functions for a number of epochs.
type Loop[Tr, Te any] = training.Loop[Tr, Te]

// Batches is anything that can be iterated once per epoch.
type Batches[T any] = training.Batches[T]

// StepFunc processes one batch.
type StepFunc[T any] = training.StepFunc[T]

// History is the outcome of a run.
type History = training.History

// Params are the per-epoch parameters handed to step functions.
type Params = training.Params

// Schedule maps an epoch index to its parameters.
type Schedule = training.Schedule

// Metric accumulates values between resets.
type Metric = metrics.Metric

// Metrics is an ordered set of labelled metrics.
type Metrics = metrics.Set

// Mean is a weighted running mean.
type Mean = metrics.Mean

// SparseCategoricalAccuracy scores logits against integer labels.
type SparseCategoricalAccuracy = metrics.SparseCategoricalAccuracy

// Constant schedules the same parameters for every epoch.
func Constant(p Params) Schedule {
	return training.Constant(p)
}

// StepDecay multiplies key by factor every `every` epochs.
func StepDecay(key string, initial, factor float64, every int) Schedule {
	return training.StepDecay(key, initial, factor, every)
}

// Merge combines schedules; later schedules win on key conflicts.
func Merge(schedules ...Schedule) Schedule {
	return training.Merge(schedules...)
}
