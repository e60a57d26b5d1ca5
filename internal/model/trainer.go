package model

import (
	"context"
	"fmt"
	"math"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"
	"github.com/born-ml/mnistops/internal/metrics"
	"github.com/born-ml/mnistops/internal/training"
)

// ParamLR is the schedule key for the learning rate.
const ParamLR = "lr"

// Trainer provides train and test step functions for a classifier on an
// autodiff backend, updating loss and accuracy metrics as it goes.
type Trainer[B tensor.Backend, T any] struct {
	backend   *autodiff.Backend[B]
	model     *Classifier[*autodiff.Backend[B]]
	optimizer *optim.Adam[*autodiff.Backend[B]]
	encode    Encoder[T]

	TrainLoss     *metrics.Mean
	TrainAccuracy *metrics.SparseCategoricalAccuracy
	TestLoss      *metrics.Mean
	TestAccuracy  *metrics.SparseCategoricalAccuracy
}

// NewTrainer wires an Adam optimizer to the model and starts gradient
// recording on the backend.
func NewTrainer[B tensor.Backend, T any](
	backend *autodiff.Backend[B],
	model *Classifier[*autodiff.Backend[B]],
	lr float32,
	encode Encoder[T],
) *Trainer[B, T] {
	optimizer := optim.NewAdam(
		model.Parameters(),
		optim.AdamConfig{
			LR:    lr,
			Betas: [2]float32{0.9, 0.999},
			Eps:   1e-8,
		},
		backend,
	)

	backend.Tape().StartRecording()

	return &Trainer[B, T]{
		backend:       backend,
		model:         model,
		optimizer:     optimizer,
		encode:        encode,
		TrainLoss:     &metrics.Mean{},
		TrainAccuracy: &metrics.SparseCategoricalAccuracy{},
		TestLoss:      &metrics.Mean{},
		TestAccuracy:  &metrics.SparseCategoricalAccuracy{},
	}
}

// Metrics returns the trainer's metrics in report order.
func (t *Trainer[B, T]) Metrics() metrics.Set {
	return metrics.Set{}.
		Add("loss", t.TrainLoss).
		Add("accuracy", t.TrainAccuracy).
		Add("test_loss", t.TestLoss).
		Add("test_accuracy", t.TestAccuracy)
}

// LR returns the optimizer's current learning rate.
func (t *Trainer[B, T]) LR() float32 {
	return t.optimizer.GetLR()
}

// TrainStep runs forward, backward and an optimizer update on one batch.
//
// A scheduled "lr" parameter replaces the learning rate before the update.
func (t *Trainer[B, T]) TrainStep(_ context.Context, batch []T, params training.Params) error {
	if lr, ok := params[ParamLR]; ok {
		t.optimizer.SetLR(float32(lr))
	}

	images, labels, err := t.tensors(batch)
	if err != nil {
		return err
	}

	t.optimizer.ZeroGrad()

	logits := t.model.Forward(images)

	// Loss is recorded on the tape
	lossRaw := t.backend.CrossEntropy(logits.Raw(), labels.Raw())
	loss := tensor.New[float32, *autodiff.Backend[B]](lossRaw, t.backend)
	lossValue := loss.Raw().AsFloat32()[0]

	outputGrad, err := tensor.NewRaw(loss.Shape(), loss.DType(), t.backend.Device())
	if err != nil {
		return fmt.Errorf("allocate output gradient: %w", err)
	}
	outputGrad.AsFloat32()[0] = 1.0

	grads := t.backend.Tape().Backward(outputGrad, t.backend)
	t.optimizer.Step(grads)

	t.TrainLoss.Update(float64(lossValue), float64(len(batch)))
	t.TrainAccuracy.Update(correct(logits, labels), len(batch))

	t.backend.Tape().Clear()
	return nil
}

// TestStep evaluates one batch with gradient recording disabled.
func (t *Trainer[B, T]) TestStep(_ context.Context, batch []T, _ training.Params) error {
	tape := t.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	images, labels, err := t.tensors(batch)
	if err != nil {
		return err
	}

	logits := t.model.Forward(images)
	lossRaw := t.backend.CrossEntropy(logits.Raw(), labels.Raw())

	t.TestLoss.Update(float64(lossRaw.AsFloat32()[0]), float64(len(batch)))
	t.TestAccuracy.Update(correct(logits, labels), len(batch))
	return nil
}

func (t *Trainer[B, T]) tensors(batch []T) (*tensor.Tensor[float32, *autodiff.Backend[B]], *tensor.Tensor[int32, *autodiff.Backend[B]], error) {
	features, classes := t.encode(batch)
	for i, c := range classes {
		if c < 0 || int(c) >= t.model.Classes() {
			return nil, nil, fmt.Errorf("label at batch index %d maps to class %d, outside [0, %d)", i, c, t.model.Classes())
		}
	}

	images, err := tensor.FromSlice(features, tensor.Shape{len(batch), t.model.InFeatures()}, t.backend)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create images tensor: %w", err)
	}
	labels, err := tensor.FromSlice(classes, tensor.Shape{len(batch)}, t.backend)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create labels tensor: %w", err)
	}
	return images, labels, nil
}

// correct counts the rows of logits whose argmax matches labels.
func correct[B tensor.Backend](logits *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) int {
	acc := nn.Accuracy(logits, labels)
	return int(math.Round(float64(acc) * float64(labels.Shape()[0])))
}
