// Package app wires the pipeline stages together: one service, one
// synchronous pass per interaction, no derived state retained between
// calls.
package app

import (
	"sort"

	"pulse311/domain/filter"
	"pulse311/domain/geo"
	"pulse311/domain/insight"
	"pulse311/domain/narrative"
	"pulse311/domain/record"
	"pulse311/internal"
)

// View is everything the presentation layer needs for one filter
// state: KPIs, grouped summaries for the charts, the sampled map
// layer, and the narrative text. Plain structured data; no rendering
// assumptions.
type View struct {
	Criteria      filter.Criteria             `json:"criteria"`
	KPIs          insight.KPIBundle           `json:"kpis"`
	Categories    []insight.CategoryCount     `json:"categories"`
	Matrix        insight.HourDayMatrix       `json:"matrix"`
	Daily         []insight.DailyPoint        `json:"daily"`
	Resolution    []insight.ResolutionSummary `json:"resolution"`
	MapPoints     []geo.Point                 `json:"map_points"`
	MapClusters   []geo.BoroughCluster        `json:"map_clusters"`
	MapGrid       []geo.GridCell              `json:"map_grid"`
	Narratives    narrative.Narratives        `json:"narratives"`
	TopCategories []string                    `json:"top_categories"`
}

// DashboardService runs Filter -> Aggregation -> Narrative -> map
// shaping over the immutable record table. The table is shared across
// sessions without locking because it is never mutated after load.
type DashboardService struct {
	records []record.Record
	logger  *internal.Logger
}

// NewDashboardService creates the service over a loaded record table.
func NewDashboardService(records []record.Record, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{records: records, logger: logger}
}

// RecordCount returns the size of the full table.
func (s *DashboardService) RecordCount() int {
	return len(s.records)
}

// BoroughOptions returns the boroughs present in the table, for the
// filter UI. Unspecified is excluded from the options but not from
// the data.
func (s *DashboardService) BoroughOptions() []string {
	seen := make(map[string]bool)
	for _, r := range s.records {
		if r.Borough != "" && r.Borough != record.BoroughUnspecified {
			seen[r.Borough] = true
		}
	}
	options := make([]string, 0, len(seen))
	for borough := range seen {
		options = append(options, borough)
	}
	sort.Strings(options)
	return options
}

// Snapshot recomputes the full view for one set of criteria. Invalid
// criteria are rejected before any stage runs; an empty filter result
// flows through every stage as a valid state.
func (s *DashboardService) Snapshot(criteria filter.Criteria) (View, error) {
	if err := criteria.Validate(); err != nil {
		return View{}, err
	}

	subset := filter.Apply(s.records, criteria)
	s.logger.Debug("[Dashboard] Snapshot: %d of %d records after filtering",
		len(subset.Records), len(s.records))

	kpis := insight.ComputeKPIs(subset.Records)
	categories := insight.CategoryCounts(subset.Records)
	matrix := insight.ComputeMatrix(subset.Records)
	daily := insight.DailySeries(subset.Records)
	resolution := insight.ResolutionByType(subset.Records)

	points := geo.SamplePoints(subset.Records, criteria.MapPointCap)
	clusters := geo.ClusterByBorough(points)
	grid := geo.ClusterGrid(points)

	narratives := narrative.Build(narrative.Inputs{
		KPIs:        kpis,
		Categories:  categories,
		Matrix:      matrix,
		Resolution:  resolution,
		MapPoints:   len(points),
		MapTopType:  topPointType(points),
		MapClusters: clusters,
	})

	return View{
		Criteria:      criteria,
		KPIs:          kpis,
		Categories:    categories,
		Matrix:        matrix,
		Daily:         daily,
		Resolution:    resolution,
		MapPoints:     points,
		MapClusters:   clusters,
		MapGrid:       grid,
		Narratives:    narratives,
		TopCategories: subset.TopCategories,
	}, nil
}

// FilteredRecords re-runs just the filter stage, for the export path.
func (s *DashboardService) FilteredRecords(criteria filter.Criteria) ([]record.Record, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return filter.Apply(s.records, criteria).Records, nil
}

// topPointType returns the most common complaint type among sampled
// map points, ties lexicographic.
func topPointType(points []geo.Point) string {
	counts := make(map[string]int)
	for _, p := range points {
		counts[p.ComplaintType]++
	}
	best, bestCount := "", 0
	for complaintType, count := range counts {
		if count > bestCount || (count == bestCount && complaintType < best) {
			best, bestCount = complaintType, count
		}
	}
	return best
}
