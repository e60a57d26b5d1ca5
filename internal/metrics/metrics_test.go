package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	var m Mean
	assert.Zero(t, m.Result())

	m.Update(1.0, 2)
	m.Update(4.0, 1)
	assert.InDelta(t, 2.0, m.Result(), 1e-12)

	m.Reset()
	assert.Zero(t, m.Result())
}

func TestSparseCategoricalAccuracy(t *testing.T) {
	var a SparseCategoricalAccuracy

	a.Update(2, 4)
	assert.InDelta(t, 0.5, a.Result(), 1e-12)

	a.Update(4, 4)
	assert.InDelta(t, 0.75, a.Result(), 1e-12)

	a.Reset()
	assert.Zero(t, a.Result())
}

func TestSet(t *testing.T) {
	loss := &Mean{}
	acc := &SparseCategoricalAccuracy{}
	s := Set{}.Add("loss", loss).Add("accuracy", acc)

	assert.Equal(t, []string{"loss", "accuracy"}, s.Labels())

	loss.Update(0.5, 1)
	acc.Update(1, 2)
	assert.Equal(t, []float64{0.5, 0.5}, s.Results())

	s.ResetAll()
	assert.Equal(t, []float64{0, 0}, s.Results())
}

func TestSet_AddBranches(t *testing.T) {
	base := Set{}.Add("a", &Mean{}).Add("b", &Mean{}).Add("c", &Mean{})

	train := base.Add("train_loss", &Mean{})
	test := base.Add("test_loss", &Mean{})

	assert.Equal(t, []string{"a", "b", "c"}, base.Labels())
	assert.Equal(t, []string{"a", "b", "c", "train_loss"}, train.Labels())
	assert.Equal(t, []string{"a", "b", "c", "test_loss"}, test.Labels())
}
