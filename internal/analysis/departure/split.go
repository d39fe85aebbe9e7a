package departure

import (
	"fmt"

	"github.com/jengzang/taxi-analysis/internal/cluster"
	"github.com/jengzang/taxi-analysis/internal/spatial"
)

// Split is the two-way partition of one office's pickup times.
// Pickups are assumed bimodal: people leaving work, and everything else.
type Split struct {
	Clusters  [2][]float64
	Averages  [2]float64 // periodic average of each cluster; 0 for an empty cluster
	Departure int        // index of the cluster with the later periodic average
}

// Departures returns the cluster taken as employees leaving work
func (s Split) Departures() []float64 {
	return s.Clusters[s.Departure]
}

// SplitDepartures clusters pickup times with k-means (k=2) on their unit-circle
// embedding, so 23:55 and 00:05 are neighbours, and selects the cluster whose
// periodic average is later in the day
func SplitDepartures(times []float64) (Split, error) {
	var split Split
	if len(times) == 0 {
		return split, spatial.ErrEmptyPopulation
	}

	points := make([]cluster.Point, len(times))
	for i, p := range spatial.EmbedAll(times) {
		points[i] = cluster.Point{X: p.X, Y: p.Y}
	}

	res, err := cluster.KMeans(points, 2, 0)
	if err != nil {
		return split, fmt.Errorf("failed to cluster pickup times: %w", err)
	}

	groups := cluster.Partition(times, res.Labels, 2)
	split.Clusters = [2][]float64{groups[0], groups[1]}
	for i, g := range split.Clusters {
		if len(g) == 0 {
			continue
		}
		if split.Averages[i], err = spatial.PeriodicAverage(g); err != nil {
			return split, err
		}
	}
	split.Departure = laterCluster(split.Clusters, split.Averages)
	return split, nil
}

// laterCluster picks the non-empty cluster with the larger normalised average;
// the first cluster wins ties
func laterCluster(clusters [2][]float64, averages [2]float64) int {
	switch {
	case len(clusters[1]) == 0:
		return 0
	case len(clusters[0]) == 0:
		return 1
	case averages[1] > averages[0]:
		return 1
	default:
		return 0
	}
}
