package geo

import (
	"testing"
	"time"

	"pulse311/domain/record"
)

func locatedRecord(lat, lon float64, borough string) record.Record {
	return record.Record{
		ComplaintType: "Noise",
		Status:        record.StatusOpen,
		Borough:       borough,
		CreatedAt:     time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		Location:      &record.Coordinate{Latitude: lat, Longitude: lon},
	}
}

func TestSamplePointsSkipsUnlocatedRecords(t *testing.T) {
	records := []record.Record{
		locatedRecord(40.7, -73.9, "Brooklyn"),
		{ComplaintType: "Heat", CreatedAt: time.Now()}, // no coordinates
		locatedRecord(40.8, -73.8, "Queens"),
	}

	points := SamplePoints(records, 1000)
	if len(points) != 2 {
		t.Errorf("expected 2 geo-located points, got %d", len(points))
	}
}

func TestSamplePointsHonorsCap(t *testing.T) {
	records := make([]record.Record, 0, 500)
	for i := 0; i < 500; i++ {
		records = append(records, locatedRecord(40.5+float64(i)*0.001, -74.0, "Bronx"))
	}

	points := SamplePoints(records, 100)
	if len(points) != 100 {
		t.Errorf("expected sample capped at 100, got %d", len(points))
	}

	// Under the cap, everything passes through.
	points = SamplePoints(records[:50], 100)
	if len(points) != 50 {
		t.Errorf("expected all 50 points below the cap, got %d", len(points))
	}
}

func TestSamplePointsDeterministic(t *testing.T) {
	records := make([]record.Record, 0, 300)
	for i := 0; i < 300; i++ {
		records = append(records, locatedRecord(40.5+float64(i)*0.001, -74.0+float64(i)*0.0005, "Bronx"))
	}

	first := SamplePoints(records, 50)
	second := SamplePoints(records, 50)
	if len(first) != len(second) {
		t.Fatalf("sample sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample differs at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSamplePointsResolutionLabel(t *testing.T) {
	created := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	closed := created.Add(90 * time.Minute)
	records := []record.Record{
		{
			ComplaintType: "Noise",
			Status:        record.StatusClosed,
			CreatedAt:     created,
			ClosedAt:      &closed,
			Location:      &record.Coordinate{Latitude: 40.7, Longitude: -73.9},
		},
		locatedRecord(40.8, -73.8, "Queens"),
	}

	points := SamplePoints(records, 10)
	if points[0].ResolutionLabel != "90 min" {
		t.Errorf("expected label '90 min', got %q", points[0].ResolutionLabel)
	}
	if points[1].ResolutionLabel != "N/A" {
		t.Errorf("expected label 'N/A' for unresolved record, got %q", points[1].ResolutionLabel)
	}
}

func TestClusterByBorough(t *testing.T) {
	points := []Point{
		{Borough: "Brooklyn"},
		{Borough: "Queens"},
		{Borough: "Brooklyn"},
		{Borough: record.BoroughUnspecified},
		{Borough: ""},
	}

	clusters := ClusterByBorough(points)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Borough != "Brooklyn" || clusters[0].Count != 2 {
		t.Errorf("expected Brooklyn x2 first, got %+v", clusters[0])
	}
	if clusters[1].Borough != "Queens" || clusters[1].Count != 1 {
		t.Errorf("expected Queens x1 second, got %+v", clusters[1])
	}
}

func TestClusterGrid(t *testing.T) {
	// Three points in one cell, one point a few cells away.
	points := []Point{
		{Latitude: 40.7001, Longitude: -73.9001},
		{Latitude: 40.7002, Longitude: -73.9002},
		{Latitude: 40.7003, Longitude: -73.9003},
		{Latitude: 40.7501, Longitude: -73.9501},
	}

	cells := ClusterGrid(points)
	if len(cells) != 2 {
		t.Fatalf("expected 2 grid cells, got %d", len(cells))
	}
	if cells[0].Count != 3 {
		t.Errorf("expected densest cell count 3, got %d", cells[0].Count)
	}
	if cells[1].Count != 1 {
		t.Errorf("expected sparse cell count 1, got %d", cells[1].Count)
	}

	if got := ClusterGrid(nil); len(got) != 0 {
		t.Errorf("expected no cells for empty input, got %d", len(got))
	}
}
