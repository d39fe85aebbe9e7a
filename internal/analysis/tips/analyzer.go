package tips

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
)

// Name is the registry name of the tip analysis
const Name = "tips"

// WorkbookName is the spreadsheet written to the output directory
const WorkbookName = "tips.xlsx"

const maxLoggedSkips = 10

func init() {
	analysis.RegisterAnalyzer(Name, New)
}

// Analyzer computes tip percentage statistics per payment type
type Analyzer struct {
	*analysis.BaseAnalyzer
	cfg     *config.Config
	metrics *metrics.Collector
	repo    *repository.TipRepository

	Out io.Writer
}

// New creates a tip analyzer
func New(deps analysis.Deps) analysis.Analyzer {
	m := deps.Metrics
	if m == nil {
		m = metrics.NewCollector()
	}
	return &Analyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(deps.DB, Name),
		cfg:          deps.Config,
		metrics:      m,
		repo:         repository.NewTipRepository(deps.DB),
		Out:          os.Stdout,
	}
}

// Analyze scans every fare file and reports tip/fare statistics
func (a *Analyzer) Analyze(ctx context.Context, runID string) error {
	log.Printf("[TipAnalyzer] Starting analysis (run_id=%s, files=%d)", runID, len(a.cfg.FareFiles))

	ratios := make(Ratios)
	var total ingest.ScanStats
	for i, path := range a.cfg.FareFiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		scan, err := a.scanFile(ctx, path, ratios)
		if err != nil {
			return err
		}
		total.Add(scan)

		a.metrics.FilesRead.WithLabelValues(Name).Inc()
		a.metrics.RowsRead.WithLabelValues(Name).Add(float64(scan.Rows))
		a.metrics.RowsSkipped.WithLabelValues(Name).Add(float64(scan.Skipped))

		progress := analysis.Progress{
			FilesRead: i + 1,
			Processed: total.Rows,
			Skipped:   total.Skipped,
			Matched:   total.Matched,
		}
		if err := a.UpdateRunProgress(ctx, runID, progress); err != nil {
			log.Printf("[TipAnalyzer] Failed to update progress: %v", err)
		}
	}

	log.Printf("[TipAnalyzer] Scan finished: %d rows processed, %d skipped, %d qualifying",
		total.Processed(), total.Skipped, total.Matched)

	results := Summarize(ratios)
	for _, s := range results {
		a.metrics.TipRows.WithLabelValues(s.PaymentType).Set(float64(s.Count))
		if s.Empty() {
			log.Printf("[TipAnalyzer] Warning: no qualifying %s fares", models.PaymentLabel(s.PaymentType))
			continue
		}
		a.metrics.TipRatioMean.WithLabelValues(s.PaymentType).Set(s.Mean)
	}
	report.PrintTipStatistics(a.Out, results)

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := report.WriteTipWorkbook(filepath.Join(a.cfg.OutputDir, WorkbookName), results); err != nil {
		return err
	}

	if err := a.repo.SaveTipStatistics(ctx, runID, results); err != nil {
		return fmt.Errorf("failed to save tip statistics: %w", err)
	}

	log.Printf("[TipAnalyzer] Analysis completed (run_id=%s)", runID)
	return nil
}

func (a *Analyzer) scanFile(ctx context.Context, path string, ratios Ratios) (ingest.ScanStats, error) {
	f, err := ingest.OpenFile(path)
	if err != nil {
		return ingest.ScanStats{}, err
	}
	defer f.Close()

	log.Printf("[TipAnalyzer] Reading %s", path)

	skipped := 0
	scan, err := CollectTipRatios(ctx, f, ratios, a.cfg.ProgressEvery, func(perr *ingest.ParseError) {
		skipped++
		if skipped <= maxLoggedSkips {
			log.Printf("[TipAnalyzer] Skipping %s %v", path, perr)
		}
	})
	if err != nil {
		return scan, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	if skipped > maxLoggedSkips {
		log.Printf("[TipAnalyzer] %s: %d malformed rows skipped", path, skipped)
	}
	return scan, nil
}
