package insight

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"pulse311/domain/filter"
	"pulse311/domain/record"
)

// CategoryCount is one bar of the "what" chart.
type CategoryCount struct {
	ComplaintType string `json:"complaint_type"`
	Count         int    `json:"count"`
}

// CategoryCounts returns per-category counts ranked like the top-N
// scope: descending count, ties lexicographic.
func CategoryCounts(records []record.Record) []CategoryCount {
	ranked := filter.RankCategories(records, len(records))
	if len(ranked) == 0 {
		return nil
	}

	counts := make(map[string]int, len(ranked))
	for _, r := range records {
		counts[r.ComplaintType]++
	}

	out := make([]CategoryCount, 0, len(ranked))
	for _, category := range ranked {
		out = append(out, CategoryCount{ComplaintType: category, Count: counts[category]})
	}
	return out
}

// MatrixDays and MatrixHours fix the heatmap shape. The matrix is
// always full-shaped regardless of filtering so visual comparison
// between filter states stays stable.
const (
	MatrixDays  = 7
	MatrixHours = 24
)

// HourDayMatrix is the 7x24 grid of creation counts. Rows index
// time.Weekday order (Sunday = 0); columns are hours 0-23. Cells not
// touched by any record stay zero.
type HourDayMatrix [MatrixDays][MatrixHours]int

// ComputeMatrix bins records into the hour-by-day grid.
func ComputeMatrix(records []record.Record) HourDayMatrix {
	var m HourDayMatrix
	for _, r := range records {
		m[int(r.DayOfWeek())][r.HourOfDay()]++
	}
	return m
}

// Cells returns the total number of grid cells, 168 by construction.
func (m HourDayMatrix) Cells() int {
	return MatrixDays * MatrixHours
}

// Max returns the count of the busiest cell, zero for an empty matrix.
func (m HourDayMatrix) Max() int {
	max := 0
	for d := 0; d < MatrixDays; d++ {
		for h := 0; h < MatrixHours; h++ {
			if m[d][h] > max {
				max = m[d][h]
			}
		}
	}
	return max
}

// Peak returns the busiest (day, hour) cell. ok is false when every
// cell is zero.
func (m HourDayMatrix) Peak() (day time.Weekday, hour int, count int, ok bool) {
	for d := 0; d < MatrixDays; d++ {
		for h := 0; h < MatrixHours; h++ {
			if m[d][h] > count {
				day, hour, count, ok = time.Weekday(d), h, m[d][h], true
			}
		}
	}
	return day, hour, count, ok
}

// DailyPoint is one point of the "complaints over time" line.
type DailyPoint struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// DailySeries buckets records by calendar day (UTC) in ascending
// order. Days with no records are simply absent; the chart renders the
// series as-is.
func DailySeries(records []record.Record) []DailyPoint {
	buckets := make(map[time.Time]int)
	for _, r := range records {
		day := r.CreatedAt.UTC().Truncate(24 * time.Hour)
		buckets[day]++
	}

	out := make([]DailyPoint, 0, len(buckets))
	for day, count := range buckets {
		out = append(out, DailyPoint{Day: day, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// ResolutionSummary describes the closure-time distribution of one
// complaint category, in minutes.
type ResolutionSummary struct {
	ComplaintType string  `json:"complaint_type"`
	ResolvedCount int     `json:"resolved_count"`
	MedianMinutes float64 `json:"median_minutes"`
	Q1Minutes     float64 `json:"q1_minutes"`
	Q3Minutes     float64 `json:"q3_minutes"`
	MeanMinutes   float64 `json:"mean_minutes"`
	StdDevMinutes float64 `json:"stddev_minutes"`
}

// ResolutionByType computes per-category resolution distributions over
// records that have both timestamps, ordered by descending median so
// the slowest categories lead. Categories with no resolved records are
// omitted rather than reported as zero-duration.
func ResolutionByType(records []record.Record) []ResolutionSummary {
	byType := make(map[string][]float64)
	for _, r := range records {
		if minutes, ok := r.ResolutionMinutes(); ok {
			byType[r.ComplaintType] = append(byType[r.ComplaintType], minutes)
		}
	}

	out := make([]ResolutionSummary, 0, len(byType))
	for complaintType, minutes := range byType {
		summary := ResolutionSummary{
			ComplaintType: complaintType,
			ResolvedCount: len(minutes),
		}

		if median, err := stats.Median(minutes); err == nil {
			summary.MedianMinutes = median
		}
		if q1, err := stats.Percentile(minutes, 25); err == nil {
			summary.Q1Minutes = q1
		}
		if q3, err := stats.Percentile(minutes, 75); err == nil {
			summary.Q3Minutes = q3
		}

		mean, stdDev := stat.MeanStdDev(minutes, nil)
		summary.MeanMinutes = mean
		if len(minutes) > 1 {
			summary.StdDevMinutes = stdDev
		}

		out = append(out, summary)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MedianMinutes != out[j].MedianMinutes {
			return out[i].MedianMinutes > out[j].MedianMinutes
		}
		return out[i].ComplaintType < out[j].ComplaintType
	})
	return out
}
