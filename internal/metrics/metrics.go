// Package metrics provides stateful metrics accumulated over an epoch.
package metrics

// Metric accumulates values between resets.
type Metric interface {
	// Reset clears the accumulated state.
	Reset()
	// Result returns the current value of the metric.
	Result() float64
}

// Mean is a weighted running mean, typically of per-batch loss.
type Mean struct {
	total  float64
	weight float64
}

// Update adds value with the given weight (e.g. the batch size).
func (m *Mean) Update(value, weight float64) {
	m.total += value * weight
	m.weight += weight
}

// Reset implements Metric.
func (m *Mean) Reset() {
	m.total, m.weight = 0, 0
}

// Result implements Metric. It is 0 before the first update.
func (m *Mean) Result() float64 {
	if m.weight == 0 {
		return 0
	}
	return m.total / m.weight
}

// SparseCategoricalAccuracy is the fraction of examples whose highest logit
// matches the integer class label. Callers count matches per batch, e.g. with
// nn.Accuracy, and feed the counts through Update.
type SparseCategoricalAccuracy struct {
	correct int
	total   int
}

// Update adds pre-counted results.
func (a *SparseCategoricalAccuracy) Update(correct, total int) {
	a.correct += correct
	a.total += total
}

// Reset implements Metric.
func (a *SparseCategoricalAccuracy) Reset() {
	a.correct, a.total = 0, 0
}

// Result implements Metric. It is 0 before the first update.
func (a *SparseCategoricalAccuracy) Result() float64 {
	if a.total == 0 {
		return 0
	}
	return float64(a.correct) / float64(a.total)
}

// Named is a metric with its report label.
type Named struct {
	Label  string
	Metric Metric
}

// Set is an ordered collection of labelled metrics. Order determines the
// column order of reports.
type Set []Named

// Add returns a new set with m appended under label. s is left unchanged,
// so several sets may be built from a common prefix.
func (s Set) Add(label string, m Metric) Set {
	return append(s[:len(s):len(s)], Named{Label: label, Metric: m})
}

// Labels returns the metric labels in order.
func (s Set) Labels() []string {
	out := make([]string, len(s))
	for i, n := range s {
		out[i] = n.Label
	}
	return out
}

// ResetAll resets every metric.
func (s Set) ResetAll() {
	for _, n := range s {
		n.Metric.Reset()
	}
}

// Results returns the current metric values in order.
func (s Set) Results() []float64 {
	out := make([]float64, len(s))
	for i, n := range s {
		out[i] = n.Metric.Result()
	}
	return out
}
