package report

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram describes one office's departure-time plot
type Histogram struct {
	Title  string
	Values []float64 // seconds since midnight
	Bins   int
	Mean   string // HH:MM
	Std    string // HH:MM
}

// WriteHistogram renders the histogram with its μ/σ annotation to path.
// The image format follows the file extension.
func WriteHistogram(path string, h Histogram) error {
	if len(h.Values) == 0 {
		return errors.New("histogram has no values")
	}

	p := plot.New()
	p.Title.Text = h.Title
	p.X.Label.Text = "Pickup time"
	p.Y.Label.Text = "Pickups"
	p.X.Tick.Marker = plot.TickerFunc(clockTicks)

	hist, err := plotter.NewHist(plotter.Values(h.Values), h.Bins)
	if err != nil {
		return fmt.Errorf("failed to bin values: %w", err)
	}
	hist.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(hist)

	// Place the annotation near the top of the bars, a third of the way across
	lo, hi, top := hist.Bins[0].Min, hist.Bins[len(hist.Bins)-1].Max, 0.0
	for _, b := range hist.Bins {
		if b.Weight > top {
			top = b.Weight
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: lo + 0.35*(hi-lo), Y: top * 0.9}},
		Labels: []string{fmt.Sprintf("μ = %s, σ = %s", h.Mean, h.Std)},
	})
	if err != nil {
		return fmt.Errorf("failed to build annotation: %w", err)
	}
	p.Add(labels)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// clockTicks labels the time axis every three hours
func clockTicks(min, max float64) []plot.Tick {
	const step = 3 * 3600
	var ticks []plot.Tick
	start := float64(int(min/step)) * step
	for v := start; v <= max; v += step {
		if v < min {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: FormatClock(v)})
	}
	return ticks
}
