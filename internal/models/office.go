package models

// Office is a fixed location whose nearby taxi pickups are analysed.
// Its position in the configured office list is its identifier for the run.
type Office struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// PickupTimes maps an office index to the pickup times-of-day (seconds)
// geofenced to that office. A fresh value is built for every run.
type PickupTimes map[int][]float64

// NewPickupTimes creates an empty accumulator
func NewPickupTimes() PickupTimes {
	return make(PickupTimes)
}

// Add appends a pickup time to an office
func (p PickupTimes) Add(office int, seconds float64) {
	p[office] = append(p[office], seconds)
}

// Total returns the number of pickups across all offices
func (p PickupTimes) Total() int {
	total := 0
	for _, times := range p {
		total += len(times)
	}
	return total
}

// OfficeSummary is the departure-time result for one office
type OfficeSummary struct {
	OfficeIndex  int    `json:"office_index" db:"office_index"`
	Office       Office `json:"office"`
	TotalPickups int    `json:"total_pickups" db:"total_pickups"`

	// Clustering
	Clusters         [2][]float64 `json:"-"`
	DepartureCluster int          `json:"departure_cluster" db:"departure_cluster"`
	Departures       []float64    `json:"-"`
	DepartureCount   int          `json:"departure_count" db:"departure_count"`

	// Periodic statistics of the departure cluster
	MeanSeconds   float64 `json:"mean_seconds" db:"mean_seconds"`
	StdSeconds    float64 `json:"std_seconds" db:"std_seconds"`
	Mean          string  `json:"mean" db:"mean_clock"`             // HH:MM
	Std           string  `json:"std" db:"std_clock"`               // HH:MM
	Concentration float64 `json:"concentration" db:"concentration"` // Mean resultant length, 0..1

	// Set when the office could not be summarised (e.g. no pickups)
	SkipReason string `json:"skip_reason,omitempty" db:"skip_reason"`
}

// Skipped reports whether the office has no departure statistics
func (s OfficeSummary) Skipped() bool {
	return s.SkipReason != ""
}
