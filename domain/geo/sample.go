package geo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"pulse311/domain/record"
)

// sampleSeed fixes the down-sampling permutation so the mapped subset
// is stable across recomputations of the same filter state.
const sampleSeed = 42

// cellSize is the grid resolution for hotspot clustering, in degrees.
// Roughly 1.1 km of latitude, coarse enough to merge adjacent reports.
const cellSize = 0.01

// Point is one map marker: the subset of a record the renderer needs.
type Point struct {
	Latitude        float64       `json:"latitude"`
	Longitude       float64       `json:"longitude"`
	Status          record.Status `json:"status"`
	ComplaintType   string        `json:"complaint_type"`
	Borough         string        `json:"borough"`
	ResolutionLabel string        `json:"resolution_label"`
}

// SamplePoints shapes a filtered subset into at most cap map points.
// Only geo-located records participate. When the subset exceeds the
// cap, a seeded permutation picks the sample, so two calls over the
// same subset yield the same points. The cap belongs here, not to the
// renderer.
func SamplePoints(records []record.Record, cap int) []Point {
	if cap <= 0 {
		return nil
	}

	located := make([]record.Record, 0, len(records))
	for _, r := range records {
		if r.HasLocation() {
			located = append(located, r)
		}
	}

	if len(located) > cap {
		rng := rand.New(rand.NewSource(sampleSeed))
		perm := rng.Perm(len(located))[:cap]
		sort.Ints(perm)
		sampled := make([]record.Record, 0, cap)
		for _, idx := range perm {
			sampled = append(sampled, located[idx])
		}
		located = sampled
	}

	points := make([]Point, 0, len(located))
	for _, r := range located {
		points = append(points, Point{
			Latitude:        r.Location.Latitude,
			Longitude:       r.Location.Longitude,
			Status:          r.Status,
			ComplaintType:   r.ComplaintType,
			Borough:         r.Borough,
			ResolutionLabel: resolutionLabel(r),
		})
	}
	return points
}

// resolutionLabel renders the tooltip duration at minute granularity,
// "N/A" for unresolved requests.
func resolutionLabel(r record.Record) string {
	minutes, ok := r.ResolutionMinutes()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%d min", int(math.Round(minutes)))
}

// BoroughCluster summarizes mapped points per borough for the hotspot
// narrative.
type BoroughCluster struct {
	Borough string `json:"borough"`
	Count   int    `json:"count"`
}

// ClusterByBorough counts mapped points per borough, descending, ties
// lexicographic. Unspecified boroughs are skipped.
func ClusterByBorough(points []Point) []BoroughCluster {
	counts := make(map[string]int)
	for _, p := range points {
		if p.Borough == "" || p.Borough == record.BoroughUnspecified {
			continue
		}
		counts[p.Borough]++
	}

	out := make([]BoroughCluster, 0, len(counts))
	for borough, count := range counts {
		out = append(out, BoroughCluster{Borough: borough, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Borough < out[j].Borough
	})
	return out
}

// GridCell is one aggregated hotspot cell: the center of a fixed-size
// lat/lon cell plus how many mapped points fell into it.
type GridCell struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int     `json:"count"`
}

// ClusterGrid bins mapped points into fixed-size cells, densest first.
// Cell order ties break south-to-north then west-to-east so output is
// deterministic.
func ClusterGrid(points []Point) []GridCell {
	type cellKey struct{ latIdx, lonIdx int }

	counts := make(map[cellKey]int)
	for _, p := range points {
		key := cellKey{
			latIdx: int(math.Floor(p.Latitude / cellSize)),
			lonIdx: int(math.Floor(p.Longitude / cellSize)),
		}
		counts[key]++
	}

	out := make([]GridCell, 0, len(counts))
	for key, count := range counts {
		out = append(out, GridCell{
			Latitude:  (float64(key.latIdx) + 0.5) * cellSize,
			Longitude: (float64(key.lonIdx) + 0.5) * cellSize,
			Count:     count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Latitude != out[j].Latitude {
			return out[i].Latitude < out[j].Latitude
		}
		return out[i].Longitude < out[j].Longitude
	})
	return out
}
