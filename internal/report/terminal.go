package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jengzang/taxi-analysis/internal/models"
)

const barWidth = 40

// PrintDepartureHistogram writes an hourly bar chart of an office's departures.
// The hour holding the periodic mean is highlighted.
func PrintDepartureHistogram(w io.Writer, s models.OfficeSummary) {
	color.New(color.Bold).Fprintf(w, "%s\n", s.Office.Name)
	if s.Skipped() {
		color.New(color.FgYellow).Fprintf(w, "  skipped: %s\n", s.SkipReason)
		return
	}

	var counts [24]int
	for _, t := range s.Departures {
		h := int(t) / 3600
		if h >= 0 && h < 24 {
			counts[h]++
		}
	}

	first, last, peak := -1, -1, 0
	for h, n := range counts {
		if n == 0 {
			continue
		}
		if first < 0 {
			first = h
		}
		last = h
		if n > peak {
			peak = n
		}
	}

	meanHour := int(s.MeanSeconds) / 3600
	highlight := color.New(color.FgGreen, color.Bold)
	normal := color.New(color.FgCyan)
	for h := first; h >= 0 && h <= last; h++ {
		width := counts[h] * barWidth / peak
		if counts[h] > 0 && width == 0 {
			width = 1
		}
		c := normal
		if h == meanHour {
			c = highlight
		}
		fmt.Fprintf(w, "  %02d:00 │", h)
		c.Fprint(w, strings.Repeat("█", width))
		fmt.Fprintf(w, " %d\n", counts[h])
	}

	fmt.Fprintf(w, "  μ = %s, σ = %s (%d of %d pickups)\n", s.Mean, s.Std, s.DepartureCount, s.TotalPickups)
}

// PrintTipStatistics writes one line per payment type
func PrintTipStatistics(w io.Writer, stats []models.TipStatistics) {
	for _, s := range stats {
		label := color.New(color.Bold).Sprint(models.PaymentLabel(s.PaymentType))
		if s.Empty() {
			color.New(color.FgYellow).Fprintf(w, "%s: no qualifying fares\n", label)
			continue
		}
		fmt.Fprintf(w, "%s: Tip average is %f with a standard deviation of %f. The max is %f and the min is %f (n=%d, median %f, p90 %f)\n",
			label, s.Mean, s.StdDev, s.Max, s.Min, s.Count, s.Median, s.P90)
	}
}
