package health

import (
	"slices"
	"time"
)

type Series struct {
	Dates   []time.Time
	Weights []float64
	// BMIs is aligned with Dates, and empty when the user height is not set.
	BMIs []float64
}

func (s Series) Len() int {
	return len(s.Dates)
}

// BuildSeries orders the weight log by date ascending (ties by id) and derives
// the BMI for every entry.
func BuildSeries(entries []WeightEntry, heightCm float64) Series {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b WeightEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return seriesOf(sorted, heightCm)
}

// RawInputSeries keeps the weight log in insertion order.
func RawInputSeries(entries []WeightEntry) Series {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b WeightEntry) int {
		return a.ID - b.ID
	})
	return seriesOf(sorted, 0)
}

func seriesOf(entries []WeightEntry, heightCm float64) Series {
	s := Series{
		Dates:   make([]time.Time, 0, len(entries)),
		Weights: make([]float64, 0, len(entries)),
	}
	withBMI := heightCm > 0
	if withBMI {
		s.BMIs = make([]float64, 0, len(entries))
	}

	for _, e := range entries {
		s.Dates = append(s.Dates, e.Date)
		s.Weights = append(s.Weights, e.Weight)
		if withBMI {
			bmi, err := BMI(e.Weight, heightCm)
			if err != nil {
				bmi = 0
			}
			s.BMIs = append(s.BMIs, bmi)
		}
	}

	return s
}

// LatestWeight returns the authoritative current weight: latest by date, ties broken by id.
func LatestWeight(entries []WeightEntry) *WeightEntry {
	var latest *WeightEntry
	for i := range entries {
		e := &entries[i]
		if latest == nil ||
			e.Date.After(latest.Date) ||
			(e.Date.Equal(latest.Date) && e.ID > latest.ID) {
			latest = e
		}
	}
	if latest == nil {
		return nil
	}
	found := *latest
	return &found
}
