package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/jengzang/taxi-analysis/internal/spatial"
	"github.com/joho/godotenv"
)

// DefaultOffices are the investment bank headquarters studied by the departure analysis
var DefaultOffices = []models.Office{
	{Name: "Bank of America Merril Lynch", Lat: 40.755603, Lon: -73.984931},
	{Name: "Barclays Capital", Lat: 40.760542, Lon: -73.982903},
	{Name: "Citi", Lat: 40.759119, Lon: -73.971885},
	{Name: "Credit Suisse", Lat: 40.741791, Lon: -73.986962},
	{Name: "Deutsche Bank", Lat: 40.706205, Lon: -74.008536},
	{Name: "Goldman Sachs", Lat: 40.714854, Lon: -74.014497},
	{Name: "J.P. Morgan", Lat: 40.755882, Lon: -73.975584},
	{Name: "Morgan Stanley", Lat: 40.760056, Lon: -73.985418},
}

// DefaultTripFiles are the monthly 2013 trip data extracts
var DefaultTripFiles = []string{
	"trip_data_1.csv", "trip_data_2.csv", "trip_data_3.csv", "trip_data_4.csv",
	"trip_data_5.csv", "trip_data_6.csv", "trip_data_7.csv", "trip_data_8.csv",
	"trip_data_9.csv", "trip_data_10.csv", "trip_data_11.csv", "trip_data_12.csv",
}

// DefaultFareFiles are the trip fare extracts read by the tip analysis
var DefaultFareFiles = []string{"trip_fare_1.csv"}

// Config 应用配置
type Config struct {
	Offices   []models.Office
	TripFiles []string
	FareFiles []string

	OutputDir   string
	DBPath      string
	MetricsFile string // Prometheus textfile; empty disables export

	ProgressEvery int // log a progress line every N rows
	MaxPickups    int // stop bucketing a file after N matched pickups; 0 means no limit
	HistogramBins int

	Geofence spatial.GeofenceParams
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		Offices:       append([]models.Office(nil), DefaultOffices...),
		TripFiles:     append([]string(nil), DefaultTripFiles...),
		FareFiles:     append([]string(nil), DefaultFareFiles...),
		OutputDir:     ".",
		DBPath:        "./taxi_analysis.db",
		ProgressEvery: 100000,
		HistogramBins: 100,
		Geofence:      spatial.DefaultGeofenceParams(),
	}
}

// Load 加载配置: compiled-in defaults, overridden by environment variables
// and an optional .env file
func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("TRIP_FILES"); v != "" {
		cfg.TripFiles = splitList(v)
	}
	if v := os.Getenv("FARE_FILES"); v != "" {
		cfg.FareFiles = splitList(v)
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.TripFiles = inDir(dir, cfg.TripFiles)
		cfg.FareFiles = inDir(dir, cfg.FareFiles)
	}

	cfg.OutputDir = getenvDefault("OUTPUT_DIR", cfg.OutputDir)
	cfg.DBPath = getenvDefault("DB_PATH", cfg.DBPath)
	cfg.MetricsFile = os.Getenv("METRICS_FILE")

	var err error
	if cfg.ProgressEvery, err = getenvInt("PROGRESS_EVERY", cfg.ProgressEvery, 1); err != nil {
		return nil, err
	}
	if cfg.MaxPickups, err = getenvInt("MAX_PICKUPS", cfg.MaxPickups, 0); err != nil {
		return nil, err
	}
	if cfg.HistogramBins, err = getenvInt("HISTOGRAM_BINS", cfg.HistogramBins, 1); err != nil {
		return nil, err
	}
	if cfg.Geofence.LatDelta, err = getenvFloat("GEOFENCE_LAT_DELTA", cfg.Geofence.LatDelta); err != nil {
		return nil, err
	}
	if cfg.Geofence.LonDelta, err = getenvFloat("GEOFENCE_LON_DELTA", cfg.Geofence.LonDelta); err != nil {
		return nil, err
	}
	if cfg.Geofence.CutoffMeters, err = getenvFloat("GEOFENCE_CUTOFF_METERS", cfg.Geofence.CutoffMeters); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the geofence against every office and the file lists
func (c *Config) Validate() error {
	if err := spatial.ValidateParams(c.Offices, c.Geofence); err != nil {
		return fmt.Errorf("invalid geofence: %w", err)
	}
	if c.HistogramBins < 1 {
		return fmt.Errorf("invalid histogram bin count %d", c.HistogramBins)
	}
	if c.ProgressEvery < 1 {
		return fmt.Errorf("invalid progress interval %d", c.ProgressEvery)
	}
	return nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def, min int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < min {
		return 0, fmt.Errorf("invalid %s: %q", k, v)
	}
	return n, nil
}

func getenvFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", k, v)
	}
	return f, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func inDir(dir string, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		if filepath.IsAbs(f) {
			out[i] = f
			continue
		}
		out[i] = filepath.Join(dir, f)
	}
	return out
}
