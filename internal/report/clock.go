// Package report renders analysis results: JPEG histograms, coloured
// terminal summaries and Excel workbooks.
package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// clockEpsilon absorbs the floating-point error that trigonometric round
// trips leave on whole-second values
const clockEpsilon = 1e-6

// FormatClock renders seconds as HH:MM, truncating rather than rounding
func FormatClock(seconds float64) string {
	s := int(math.Floor(seconds + clockEpsilon))
	if s >= 24*3600 {
		s -= 24 * 3600
	}
	hours := s / 3600
	minutes := (s - 3600*hours) / 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// ImagePath returns the histogram file for an office: <dir>/<office name>.jpg
func ImagePath(dir, officeName string) string {
	name := strings.NewReplacer("/", "-", "\\", "-").Replace(officeName)
	return filepath.Join(dir, name+".jpg")
}
