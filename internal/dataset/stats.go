package dataset

import (
	"math"

	"github.com/roadrank/tripsim/internal/score"
)

// Stats aggregates diagnostic figures over a dataset's summaries. Purely for
// reporting; not part of the contract with downstream consumers.
type Stats struct {
	Trips int

	ScoreMean   float64
	ScoreMin    float64
	ScoreMax    float64
	ScoreStdDev float64

	Categories map[score.RiskCategory]int
	Drivers    map[string]int
	Roads      map[string]int
	Periods    map[string]int
	Weathers   map[string]int
}

// ComputeStats reduces the dataset's summaries. Slots left empty by failed
// trials (empty trip id) are skipped.
func (ds *Dataset) ComputeStats() Stats {
	st := Stats{
		Categories: make(map[score.RiskCategory]int),
		Drivers:    make(map[string]int),
		Roads:      make(map[string]int),
		Periods:    make(map[string]int),
		Weathers:   make(map[string]int),
	}

	var sum, sumSq float64
	st.ScoreMin = math.Inf(1)
	st.ScoreMax = math.Inf(-1)

	for i := range ds.Summaries {
		s := &ds.Summaries[i]
		if s.TripID == "" {
			continue
		}
		st.Trips++
		sum += s.SafeDrivingScore
		sumSq += s.SafeDrivingScore * s.SafeDrivingScore
		st.ScoreMin = math.Min(st.ScoreMin, s.SafeDrivingScore)
		st.ScoreMax = math.Max(st.ScoreMax, s.SafeDrivingScore)

		st.Categories[s.RiskCategory]++
		st.Drivers[string(s.DriverType)]++
		st.Roads[string(s.RoadType)]++
		st.Periods[string(s.TimeOfDay)]++
		st.Weathers[string(s.Weather)]++
	}

	if st.Trips == 0 {
		st.ScoreMin, st.ScoreMax = 0, 0
		return st
	}

	n := float64(st.Trips)
	st.ScoreMean = sum / n
	variance := sumSq/n - st.ScoreMean*st.ScoreMean
	if variance > 0 {
		st.ScoreStdDev = math.Sqrt(variance)
	}
	return st
}
