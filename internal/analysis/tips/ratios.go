package tips

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jengzang/taxi-analysis/internal/ingest"
	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/jengzang/taxi-analysis/internal/stats"
)

// Ratios holds the tip/fare ratios of each reported payment type
type Ratios map[string][]float64

// Qualifies reports whether a fare row contributes a tip ratio: the payment
// type is reported and the fare is positive and larger than the tip
func Qualifies(rec models.FareRecord) bool {
	if rec.PaymentType != models.PaymentCash && rec.PaymentType != models.PaymentCredit {
		return false
	}
	return rec.Fare != 0 && rec.Fare > rec.Tip
}

// CollectTipRatios reads trip fare rows from r and appends tip/fare of every
// qualifying row to ratios
func CollectTipRatios(ctx context.Context, r io.Reader, ratios Ratios, progressEvery int, onSkip func(*ingest.ParseError)) (ingest.ScanStats, error) {
	var scan ingest.ScanStats

	reader, err := ingest.NewFareReader(r)
	if err != nil {
		return scan, err
	}

	for {
		res, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return scan, fmt.Errorf("failed to read row %d: %w", scan.Rows+2, err)
		}

		scan.Rows++
		if progressEvery > 0 && scan.Rows%progressEvery == 0 {
			log.Printf("[TipAnalyzer] Total rows examined = %d", scan.Rows)
			if err := ctx.Err(); err != nil {
				return scan, err
			}
		}

		if !res.OK() {
			scan.Skipped++
			if onSkip != nil {
				onSkip(res.Err)
			}
			continue
		}
		if !Qualifies(res.Record) {
			continue
		}

		ratios[res.Record.PaymentType] = append(ratios[res.Record.PaymentType], res.Record.Tip/res.Record.Fare)
		scan.Matched++
	}

	return scan, nil
}

// Summarize describes the ratios of each reported payment type, cash first.
// A payment type without rows yields statistics with Count 0.
func Summarize(ratios Ratios) []models.TipStatistics {
	out := make([]models.TipStatistics, 0, len(models.PaymentTypes))
	for _, pt := range models.PaymentTypes {
		d := stats.Describe(ratios[pt])
		out = append(out, models.TipStatistics{
			PaymentType: pt,
			Count:       d.Count,
			Mean:        d.Mean,
			StdDev:      d.StdDev,
			Min:         d.Min,
			Max:         d.Max,
			Median:      d.Median,
			P90:         d.P90,
		})
	}
	return out
}
