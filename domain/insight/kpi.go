package insight

import (
	"math"

	"github.com/montanaflynn/stats"

	"pulse311/domain/filter"
	"pulse311/domain/record"
)

// OptionalMinutes is a duration in minutes that may be absent. Absence
// is a representable state ("no data"), not a NaN that leaked through
// arithmetic.
type OptionalMinutes struct {
	Minutes float64 `json:"minutes"`
	Valid   bool    `json:"valid"`
}

// OptionalLabel is a categorical value that may be absent (e.g. the top
// complaint type of an empty subset).
type OptionalLabel struct {
	Label string `json:"label"`
	Valid bool   `json:"valid"`
}

// KPIBundle holds the scalar metrics shown in the dashboard header.
// All fields are fully defined for an empty subset: counts are zero,
// the closure rate is exactly 0, and the optional fields are absent.
type KPIBundle struct {
	TotalComplaints  int             `json:"total_complaints"`
	ClosureRate      float64         `json:"closure_rate"`
	MedianResolution OptionalMinutes `json:"median_resolution"`
	TopComplaintType OptionalLabel   `json:"top_complaint_type"`
	TopBorough       OptionalLabel   `json:"top_borough"`
}

// ComputeKPIs derives the KPI bundle from a filtered subset.
//
// Resolution times are computed at minute granularity; the median uses
// the standard middle-element / average-of-two-middles rule.
func ComputeKPIs(records []record.Record) KPIBundle {
	bundle := KPIBundle{TotalComplaints: len(records)}
	if len(records) == 0 {
		return bundle
	}

	closed := 0
	resolutionMinutes := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Status == record.StatusClosed {
			closed++
		}
		if minutes, ok := r.ResolutionMinutes(); ok {
			resolutionMinutes = append(resolutionMinutes, minutes)
		}
	}
	bundle.ClosureRate = float64(closed) / float64(len(records))

	if len(resolutionMinutes) > 0 {
		if median, err := stats.Median(resolutionMinutes); err == nil && !math.IsNaN(median) {
			bundle.MedianResolution = OptionalMinutes{Minutes: math.Round(median), Valid: true}
		}
	}

	if top := filter.RankCategories(records, 1); len(top) > 0 {
		bundle.TopComplaintType = OptionalLabel{Label: top[0], Valid: true}
	}
	if borough := topBorough(records); borough != "" {
		bundle.TopBorough = OptionalLabel{Label: borough, Valid: true}
	}

	return bundle
}

// topBorough returns the highest-volume borough, ties breaking
// lexicographically. Unspecified boroughs do not compete.
func topBorough(records []record.Record) string {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Borough == "" || r.Borough == record.BoroughUnspecified {
			continue
		}
		counts[r.Borough]++
	}

	best, bestCount := "", 0
	for borough, count := range counts {
		if count > bestCount || (count == bestCount && borough < best) {
			best, bestCount = borough, count
		}
	}
	return best
}
