// Package narrative turns aggregation results into the short Markdown
// summaries shown next to each chart. Building narratives is a pure
// function of its inputs: identical inputs always produce identical
// strings.
package narrative

import (
	"fmt"
	"math"
	"strings"

	"pulse311/domain/geo"
	"pulse311/domain/insight"
)

// Inputs collects everything the narrative stage reads. Each template
// consumes only its own metric group.
type Inputs struct {
	KPIs        insight.KPIBundle
	Categories  []insight.CategoryCount
	Matrix      insight.HourDayMatrix
	Resolution  []insight.ResolutionSummary
	MapPoints   int
	MapTopType  string
	MapClusters []geo.BoroughCluster
}

// Narratives is one Markdown string per chart group.
type Narratives struct {
	Headline   string `json:"headline"`
	Categories string `json:"categories"`
	Rhythm     string `json:"rhythm"`
	Resolution string `json:"resolution"`
	Map        string `json:"map"`
}

// maxSlowestCategories bounds the resolution narrative's bullet list.
const maxSlowestCategories = 3

// Build renders all five narratives.
func Build(in Inputs) Narratives {
	return Narratives{
		Headline:   buildHeadline(in.KPIs),
		Categories: buildCategories(in.Categories),
		Rhythm:     buildRhythm(in.Matrix),
		Resolution: buildResolution(in.Resolution),
		Map:        buildMap(in.MapPoints, in.MapTopType, in.MapClusters),
	}
}

func render(name string, data any) string {
	var sb strings.Builder
	if err := narrativeTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		// Templates are parsed at init and data is plain structs;
		// an execution failure is a programming error.
		panic(fmt.Sprintf("narrative template %s: %v", name, err))
	}
	return sb.String()
}

func buildHeadline(kpis insight.KPIBundle) string {
	return render("headline", struct {
		HasRecords  bool
		TopType     string
		ClosureRate string
		HasMedian   bool
		Median      string
		HasBorough  bool
		TopBorough  string
	}{
		HasRecords:  kpis.TotalComplaints > 0,
		TopType:     kpis.TopComplaintType.Label,
		ClosureRate: formatPercent(kpis.ClosureRate),
		HasMedian:   kpis.MedianResolution.Valid,
		Median:      formatMinutes(kpis.MedianResolution.Minutes),
		HasBorough:  kpis.TopBorough.Valid,
		TopBorough:  kpis.TopBorough.Label,
	})
}

func buildCategories(categories []insight.CategoryCount) string {
	data := struct {
		HasRecords bool
		Lead       string
		LeadCount  int
		Share      string
		Shown      int
	}{HasRecords: len(categories) > 0}

	if data.HasRecords {
		total := 0
		for _, c := range categories {
			total += c.Count
		}
		data.Lead = categories[0].ComplaintType
		data.LeadCount = categories[0].Count
		data.Share = formatPercent(float64(categories[0].Count) / float64(total))
		data.Shown = len(categories)
	}
	return render("categories", data)
}

func buildRhythm(matrix insight.HourDayMatrix) string {
	day, hour, count, ok := matrix.Peak()
	return render("rhythm", struct {
		HasPeak   bool
		PeakDay   string
		PeakHour  string
		PeakCount int
	}{
		HasPeak:   ok,
		PeakDay:   day.String(),
		PeakHour:  fmt.Sprintf("%02d:00", hour),
		PeakCount: count,
	})
}

func buildResolution(summaries []insight.ResolutionSummary) string {
	type slowest struct {
		Name   string
		Median string
	}
	data := struct {
		HasResolved bool
		Slowest     []slowest
	}{HasResolved: len(summaries) > 0}

	limit := len(summaries)
	if limit > maxSlowestCategories {
		limit = maxSlowestCategories
	}
	for _, s := range summaries[:limit] {
		data.Slowest = append(data.Slowest, slowest{
			Name:   s.ComplaintType,
			Median: formatMinutes(s.MedianMinutes),
		})
	}
	return render("resolution", data)
}

func buildMap(pointCount int, topType string, clusters []geo.BoroughCluster) string {
	data := struct {
		HasPoints  bool
		PointCount int
		TopBorough string
		TopType    string
	}{HasPoints: pointCount > 0, PointCount: pointCount}

	// Borough attribution can be missing even when points exist (all
	// mapped rows unspecified); the sentence still has to read cleanly.
	data.TopBorough = "an unspecified borough"
	if len(clusters) > 0 {
		data.TopBorough = clusters[0].Borough
	}
	data.TopType = topType
	if data.TopType == "" {
		data.TopType = "unspecified"
	}
	return render("map", data)
}

// formatPercent renders a [0,1] fraction as e.g. "50.0%".
func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// formatMinutes renders a minute duration as "N min", adding the hour
// equivalent once it stops being obvious.
func formatMinutes(minutes float64) string {
	rounded := int(math.Round(minutes))
	if rounded < 120 {
		return fmt.Sprintf("%d min", rounded)
	}
	return fmt.Sprintf("%d min (%.1f h)", rounded, minutes/60)
}
