// Package training drives epoch-based training and evaluation.
//
// The loop owns only the bookkeeping: metric resets, timing and the per-epoch
// report. Forward and backward passes happen inside the caller's step
// functions.
package training

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/born-ml/mnistops/internal/metrics"
)

// Batches is anything that can be iterated once per epoch.
type Batches[T any] interface {
	Batches() iter.Seq[T]
}

// StepFunc processes one batch with the parameters scheduled for the epoch.
type StepFunc[T any] func(ctx context.Context, batch T, params Params) error

// Loop runs TrainStep over Train and TestStep over Test for Epochs epochs.
type Loop[Tr, Te any] struct {
	Epochs  int
	Metrics metrics.Set

	Train     Batches[Tr]
	Test      Batches[Te]
	TrainStep StepFunc[Tr]
	TestStep  StepFunc[Te]

	// Schedule returns the step parameters for an epoch. Nil means none.
	Schedule Schedule
	// CSVPath, if set, receives one row per epoch.
	CSVPath string
	// Out receives the console report. Defaults to os.Stdout.
	Out io.Writer
}

// History is the outcome of a run.
type History struct {
	Labels []string
	// Results holds one row of metric values per completed epoch.
	Results   [][]float64
	TrainTime time.Duration
	TestTime  time.Duration
}

// Run executes the loop.
//
// All metrics are reset at the start of every epoch and read after the test
// pass. A failing step aborts the run; the history of completed epochs is
// returned alongside the error.
func (l *Loop[Tr, Te]) Run(ctx context.Context) (hist *History, err error) {
	out := l.Out
	if out == nil {
		out = os.Stdout
	}

	hist = &History{Labels: l.Metrics.Labels()}

	var cw *csv.Writer
	if l.CSVPath != "" {
		f, ferr := os.Create(l.CSVPath)
		if ferr != nil {
			return hist, fmt.Errorf("create csv: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close csv: %w", cerr)
			}
		}()

		cw = csv.NewWriter(f)
		if err := writeRow(cw, append([]string{"Epoch"}, hist.Labels...)); err != nil {
			return hist, err
		}
	}

	for epoch := 0; epoch < l.Epochs; epoch++ {
		l.Metrics.ResetAll()

		params := Params{}
		if l.Schedule != nil {
			params = l.Schedule(epoch)
		}

		start := time.Now()
		if err := runPass(ctx, l.Train, l.TrainStep, params); err != nil {
			return hist, fmt.Errorf("epoch %d: train: %w", epoch, err)
		}
		mid := time.Now()
		hist.TrainTime += mid.Sub(start)

		if err := runPass(ctx, l.Test, l.TestStep, params); err != nil {
			return hist, fmt.Errorf("epoch %d: test: %w", epoch, err)
		}
		hist.TestTime += time.Since(mid)

		results := l.Metrics.Results()
		hist.Results = append(hist.Results, results)

		fmt.Fprintln(out, formatLine(epoch, hist.Labels, results))
		if cw != nil {
			row := []string{strconv.Itoa(epoch)}
			for _, v := range results {
				row = append(row, formatValue(v))
			}
			if err := writeRow(cw, row); err != nil {
				return hist, err
			}
		}
	}

	fmt.Fprintf(out, "Train Time - %v\n", hist.TrainTime)
	fmt.Fprintf(out, "Test Time - %v\n", hist.TestTime)
	return hist, nil
}

func runPass[T any](ctx context.Context, batches Batches[T], step StepFunc[T], params Params) error {
	if batches == nil || step == nil {
		return nil
	}
	for batch := range batches.Batches() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(ctx, batch, params); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(cw *csv.Writer, row []string) error {
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatLine(epoch int, labels []string, results []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Epoch %d", epoch)
	for i, label := range labels {
		fmt.Fprintf(&b, ", %s: %s", label, formatValue(results[i]))
	}
	return b.String()
}
