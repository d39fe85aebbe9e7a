package departure

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/jengzang/taxi-analysis/internal/analysis"
	"github.com/jengzang/taxi-analysis/internal/config"
	"github.com/jengzang/taxi-analysis/internal/ingest"
	"github.com/jengzang/taxi-analysis/internal/metrics"
	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/jengzang/taxi-analysis/internal/report"
	"github.com/jengzang/taxi-analysis/internal/repository"
	"github.com/jengzang/taxi-analysis/internal/spatial"
)

// Name is the registry name of the departure-time analysis
const Name = "departures"

// WorkbookName is the spreadsheet written to the output directory
const WorkbookName = "departures.xlsx"

// maxLoggedSkips bounds the skipped rows logged verbatim per file
const maxLoggedSkips = 10

func init() {
	analysis.RegisterAnalyzer(Name, New)
}

// Analyzer estimates when employees leave each configured office
type Analyzer struct {
	*analysis.BaseAnalyzer
	cfg       *config.Config
	metrics   *metrics.Collector
	summaries *repository.SummaryRepository

	// Out receives the terminal histograms
	Out io.Writer
}

// New creates a departure analyzer
func New(deps analysis.Deps) analysis.Analyzer {
	m := deps.Metrics
	if m == nil {
		m = metrics.NewCollector()
	}
	return &Analyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(deps.DB, Name),
		cfg:          deps.Config,
		metrics:      m,
		summaries:    repository.NewSummaryRepository(deps.DB),
		Out:          os.Stdout,
	}
}

// Analyze scans every trip file, clusters each office's pickups and writes
// the reports
func (a *Analyzer) Analyze(ctx context.Context, runID string) error {
	if err := spatial.ValidateParams(a.cfg.Offices, a.cfg.Geofence); err != nil {
		return fmt.Errorf("invalid geofence: %w", err)
	}
	fence := spatial.NewGeofence(a.cfg.Offices, a.cfg.Geofence)

	log.Printf("[DepartureAnalyzer] Starting analysis (run_id=%s, files=%d, offices=%d)",
		runID, len(a.cfg.TripFiles), len(a.cfg.Offices))

	times := models.NewPickupTimes()
	var total ingest.ScanStats
	for i, path := range a.cfg.TripFiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		stats, err := a.scanFile(ctx, path, fence, times)
		if err != nil {
			return err
		}
		total.Add(stats)

		a.metrics.FilesRead.WithLabelValues(Name).Inc()
		a.metrics.RowsRead.WithLabelValues(Name).Add(float64(stats.Rows))
		a.metrics.RowsSkipped.WithLabelValues(Name).Add(float64(stats.Skipped))

		progress := analysis.Progress{
			FilesRead: i + 1,
			Processed: total.Rows,
			Skipped:   total.Skipped,
			Matched:   total.Matched,
		}
		if err := a.UpdateRunProgress(ctx, runID, progress); err != nil {
			log.Printf("[DepartureAnalyzer] Failed to update progress: %v", err)
		}
		log.Printf("[DepartureAnalyzer] %s: %d rows, %d skipped, %d matched",
			path, stats.Rows, stats.Skipped, stats.Matched)
	}

	log.Printf("[DepartureAnalyzer] Scan finished: %d rows processed, %d skipped, %d pickups matched",
		total.Processed(), total.Skipped, total.Matched)

	summaries := Summarize(a.cfg.Offices, times)

	if err := a.writeReports(summaries); err != nil {
		return err
	}

	if err := a.summaries.SaveSummaries(ctx, runID, summaries); err != nil {
		return fmt.Errorf("failed to save summaries: %w", err)
	}

	log.Printf("[DepartureAnalyzer] Analysis completed (run_id=%s)", runID)
	return nil
}

// scanFile buckets the pickups of one trip file
func (a *Analyzer) scanFile(ctx context.Context, path string, fence *spatial.Geofence, times models.PickupTimes) (ingest.ScanStats, error) {
	f, err := ingest.OpenFile(path)
	if err != nil {
		return ingest.ScanStats{}, err
	}
	defer f.Close()

	log.Printf("[DepartureAnalyzer] Reading %s", path)

	skipped := 0
	stats, err := CollectPickups(ctx, f, fence, times, CollectOptions{
		ProgressEvery: a.cfg.ProgressEvery,
		MaxPickups:    a.cfg.MaxPickups,
		OnSkip: func(perr *ingest.ParseError) {
			skipped++
			if skipped <= maxLoggedSkips {
				log.Printf("[DepartureAnalyzer] Skipping %s %v", path, perr)
			} else if skipped == maxLoggedSkips+1 {
				log.Printf("[DepartureAnalyzer] Further skipped rows in %s are only counted", path)
			}
		},
		OnMatch: func(office int) {
			a.metrics.PickupsMatched.WithLabelValues(fence.Offices()[office].Name).Inc()
		},
	})
	if err != nil {
		return stats, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return stats, nil
}

// writeReports renders the per-office images, terminal histograms and workbook
func (a *Analyzer) writeReports(summaries []models.OfficeSummary) error {
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, s := range summaries {
		log.Printf("[DepartureAnalyzer] %s: %d pickups, clusters of %d and %d",
			s.Office.Name, s.TotalPickups, len(s.Clusters[0]), len(s.Clusters[1]))
	}

	for _, s := range summaries {
		report.PrintDepartureHistogram(a.Out, s)

		if s.Skipped() {
			log.Printf("[DepartureAnalyzer] Warning: skipping %s: %s", s.Office.Name, s.SkipReason)
			a.metrics.OfficesSkipped.Inc()
			continue
		}

		a.metrics.DepartureMean.WithLabelValues(s.Office.Name).Set(s.MeanSeconds)
		a.metrics.DepartureStd.WithLabelValues(s.Office.Name).Set(s.StdSeconds)

		path := report.ImagePath(a.cfg.OutputDir, s.Office.Name)
		err := report.WriteHistogram(path, report.Histogram{
			Title:  "Pickup at " + s.Office.Name,
			Values: s.Departures,
			Bins:   a.cfg.HistogramBins,
			Mean:   s.Mean,
			Std:    s.Std,
		})
		if err != nil {
			return fmt.Errorf("failed to write histogram for %s: %w", s.Office.Name, err)
		}
		log.Printf("[DepartureAnalyzer] %s: employees leave at %s ± %s (%s)", s.Office.Name, s.Mean, s.Std, path)
	}

	path := filepath.Join(a.cfg.OutputDir, WorkbookName)
	if err := report.WriteDepartureWorkbook(path, summaries); err != nil {
		return err
	}
	return nil
}
