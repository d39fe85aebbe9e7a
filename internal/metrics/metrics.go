// Package metrics counts pipeline activity with Prometheus collectors.
// There is no HTTP surface; the registry is written to a node_exporter
// textfile at the end of a run.
package metrics

import (
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the counters and gauges both analyses update. Label
// comments name each vector's label.
type Collector struct {
	reg *prometheus.Registry

	FilesRead      *prometheus.CounterVec // analysis
	RowsRead       *prometheus.CounterVec // analysis
	RowsSkipped    *prometheus.CounterVec // analysis
	PickupsMatched *prometheus.CounterVec // office

	DepartureMean  *prometheus.GaugeVec // office, seconds since midnight
	DepartureStd   *prometheus.GaugeVec // office, seconds
	OfficesSkipped prometheus.Counter

	TipRatioMean *prometheus.GaugeVec // payment_type
	TipRows      *prometheus.GaugeVec // payment_type

	RunDuration *prometheus.HistogramVec // analysis
}

// NewCollector registers every metric on a private registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FilesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_analysis_files_read_total",
			Help: "Input CSV files fully consumed.",
		}, []string{"analysis"}),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_analysis_rows_read_total",
			Help: "Data rows read from input files, header excluded.",
		}, []string{"analysis"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_analysis_rows_skipped_total",
			Help: "Data rows skipped because they failed to parse.",
		}, []string{"analysis"}),
		PickupsMatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_analysis_pickups_matched_total",
			Help: "Pickups geofenced to an office.",
		}, []string{"office"}),
		DepartureMean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taxi_analysis_departure_mean_seconds",
			Help: "Periodic mean of the departure cluster, seconds since midnight.",
		}, []string{"office"}),
		DepartureStd: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taxi_analysis_departure_std_seconds",
			Help: "Periodic standard deviation of the departure cluster.",
		}, []string{"office"}),
		OfficesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taxi_analysis_offices_skipped_total",
			Help: "Offices without enough pickups to summarise.",
		}),
		TipRatioMean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taxi_analysis_tip_ratio_mean",
			Help: "Mean tip/fare ratio.",
		}, []string{"payment_type"}),
		TipRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taxi_analysis_tip_rows",
			Help: "Fare rows contributing to the tip statistics.",
		}, []string{"payment_type"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taxi_analysis_run_duration_seconds",
			Help:    "Wall time of a full analysis run.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"analysis"}),
	}

	reg.MustRegister(
		c.FilesRead,
		c.RowsRead,
		c.RowsSkipped,
		c.PickupsMatched,
		c.DepartureMean,
		c.DepartureStd,
		c.OfficesSkipped,
		c.TipRatioMean,
		c.TipRows,
		c.RunDuration,
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// WriteTextfile writes every metric in the Prometheus text format.
// An empty path disables the export.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	log.Printf("metrics: written to %s", path)
	return nil
}
