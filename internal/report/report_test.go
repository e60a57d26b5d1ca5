package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/born-ml/mnistops/internal/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() *training.History {
	return &training.History{
		Labels: []string{"loss", "accuracy"},
		Results: [][]float64{
			{2.1, 0.31},
			{1.2, 0.62},
			{0.7, 0.81},
		},
		TrainTime: time.Second,
		TestTime:  200 * time.Millisecond,
	}
}

func TestPlotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.png")
	require.NoError(t, PlotPNG(sampleHistory(), "sum of 2 digits", path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("\x89PNG")), "expected a PNG file")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(sampleHistory(), "sum of 2 digits", &buf))

	html := buf.String()
	assert.Contains(t, html, "sum of 2 digits")
	assert.Contains(t, html, "accuracy")
	assert.Contains(t, html, "0.81")
}
