// Package report renders per-epoch metric histories as charts.
package report

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/born-ml/mnistops/internal/training"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
}

// PlotPNG draws one line per metric against the epoch index and saves the
// chart to path. The image format follows the file extension.
func PlotPNG(hist *training.History, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	for i, label := range hist.Labels {
		pts := make(plotter.XYs, len(hist.Results))
		for epoch, row := range hist.Results {
			pts[epoch] = plotter.XY{X: float64(epoch), Y: row[i]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s line: %w", label, err)
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(label, line)
	}
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// WriteHTML renders an interactive line chart page of the history.
func WriteHTML(hist *training.History, title string, w io.Writer) error {
	epochs := make([]string, len(hist.Results))
	for i := range epochs {
		epochs[i] = strconv.Itoa(i)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("epochs=%d", len(hist.Results))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Epoch", NameLocation: "middle", NameGap: 25}),
	)
	line.SetXAxis(epochs)

	for i, label := range hist.Labels {
		data := make([]opts.LineData, len(hist.Results))
		for epoch, row := range hist.Results {
			data[epoch] = opts.LineData{Value: row[i]}
		}
		line.AddSeries(label, data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
