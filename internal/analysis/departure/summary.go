package departure

import (
	"errors"

	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/jengzang/taxi-analysis/internal/report"
	"github.com/jengzang/taxi-analysis/internal/spatial"
)

// SkipNoPickups is the skip reason of an office nobody was picked up at
const SkipNoPickups = "no pickups within geofence"

// Summarize splits every office's pickups and computes the periodic mean and
// standard deviation of its departure cluster. Offices without pickups are
// kept in the result with a SkipReason.
func Summarize(offices []models.Office, times models.PickupTimes) []models.OfficeSummary {
	summaries := make([]models.OfficeSummary, 0, len(offices))
	for i, office := range offices {
		summaries = append(summaries, summarizeOffice(i, office, times[i]))
	}
	return summaries
}

func summarizeOffice(index int, office models.Office, times []float64) models.OfficeSummary {
	s := models.OfficeSummary{
		OfficeIndex:  index,
		Office:       office,
		TotalPickups: len(times),
	}

	split, err := SplitDepartures(times)
	if err != nil {
		s.SkipReason = skipReason(err)
		return s
	}
	s.Clusters = split.Clusters
	s.DepartureCluster = split.Departure
	s.Departures = split.Departures()
	s.DepartureCount = len(s.Departures)

	mean, err := spatial.PeriodicAverage(s.Departures)
	if err != nil {
		s.SkipReason = skipReason(err)
		return s
	}
	std, err := spatial.PeriodicStd(s.Departures)
	if err != nil {
		s.SkipReason = skipReason(err)
		return s
	}

	s.MeanSeconds = mean
	s.StdSeconds = std
	s.Mean = report.FormatClock(mean)
	s.Std = report.FormatClock(std)
	s.Concentration = spatial.TimeOfDayConcentration(s.Departures)
	return s
}

func skipReason(err error) string {
	if errors.Is(err, spatial.ErrEmptyPopulation) {
		return SkipNoPickups
	}
	return err.Error()
}
