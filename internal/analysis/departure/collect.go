package departure

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jengzang/taxi-analysis/internal/ingest"
	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/jengzang/taxi-analysis/internal/spatial"
)

// CollectOptions tunes a pickup scan
type CollectOptions struct {
	ProgressEvery int // log every N rows; 0 disables
	MaxPickups    int // stop after N matched pickups; 0 means no limit
	OnSkip        func(*ingest.ParseError)
	OnMatch       func(office int)
}

// CollectPickups reads trip data rows from r, geofences each pickup and
// appends the time-of-day of every match to times. Malformed rows are counted
// and skipped; read errors and cancellation end the scan.
func CollectPickups(ctx context.Context, r io.Reader, fence *spatial.Geofence, times models.PickupTimes, opts CollectOptions) (ingest.ScanStats, error) {
	var stats ingest.ScanStats

	reader, err := ingest.NewPickupReader(r)
	if err != nil {
		return stats, err
	}

	for {
		if opts.MaxPickups > 0 && stats.Matched >= opts.MaxPickups {
			log.Printf("[DepartureAnalyzer] Reached %d matched pickups, stopping scan", opts.MaxPickups)
			break
		}

		res, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read row %d: %w", stats.Rows+2, err)
		}

		stats.Rows++
		if opts.ProgressEvery > 0 && stats.Rows%opts.ProgressEvery == 0 {
			log.Printf("[DepartureAnalyzer] Total rows examined = %d", stats.Rows)
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		if !res.OK() {
			stats.Skipped++
			if opts.OnSkip != nil {
				opts.OnSkip(res.Err)
			}
			continue
		}

		office, _ := fence.Identify(res.Record.Lat, res.Record.Lon)
		if office == spatial.NoMatch {
			continue
		}
		times.Add(office, res.Record.TimeOfDay)
		stats.Matched++
		if opts.OnMatch != nil {
			opts.OnMatch(office)
		}
	}

	return stats, nil
}
