// Package testkit generates deterministic synthetic 311 records for
// tests and for running the dashboard without a real export.
package testkit

import (
	"math/rand"
	"time"

	"pulse311/domain/record"
)

// GeneratorConfig configures the synthetic record generator
type GeneratorConfig struct {
	RecordCount int       `json:"record_count"`
	ClosureRate float64   `json:"closure_rate"`
	GeoRate     float64   `json:"geo_rate"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seed        int64     `json:"seed"`
}

// DefaultConfig returns sensible defaults matching the shape of the
// real sample export (~600 rows, mostly closed, mostly geocoded).
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		RecordCount: 600,
		ClosureRate: 0.7,
		GeoRate:     0.9,
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
		Seed:        42,
	}
}

// complaintTypes are weighted so a few categories dominate, the way
// real 311 volume does.
var complaintTypes = []struct {
	name   string
	weight int
}{
	{"Noise - Residential", 10},
	{"Illegal Parking", 8},
	{"Heat/Hot Water", 7},
	{"Blocked Driveway", 5},
	{"Street Condition", 4},
	{"Rodent", 3},
	{"Graffiti", 2},
	{"Water Leak", 2},
	{"Dirty Sidewalk", 1},
	{"Broken Muni Meter", 1},
}

// boroughs carry approximate centroid coordinates for jittered
// point generation.
var boroughs = []struct {
	name     string
	lat, lon float64
}{
	{"Brooklyn", 40.6782, -73.9442},
	{"Queens", 40.7282, -73.7949},
	{"Manhattan", 40.7831, -73.9712},
	{"Bronx", 40.8448, -73.8648},
	{"Staten Island", 40.5795, -74.1502},
}

// Generator produces deterministic synthetic 311 records
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a new record generator
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces the configured number of records. The same config
// always yields the same records.
func (g *Generator) Generate() []record.Record {
	records := make([]record.Record, 0, g.config.RecordCount)
	for i := 0; i < g.config.RecordCount; i++ {
		records = append(records, g.generateRecord())
	}
	return records
}

func (g *Generator) generateRecord() record.Record {
	borough := boroughs[g.rng.Intn(len(boroughs))]
	created := g.randomTimeInRange(g.config.StartDate, g.config.EndDate)

	rec := record.Record{
		ComplaintType: g.pickComplaintType(),
		Status:        record.StatusOpen,
		Borough:       borough.name,
		CreatedAt:     created,
	}

	if g.rng.Float64() < g.config.ClosureRate {
		// Resolution times are log-ish skewed: most close within a
		// day, a tail takes a week.
		minutes := 30 + g.rng.ExpFloat64()*600
		if minutes > 7*24*60 {
			minutes = 7 * 24 * 60
		}
		closed := created.Add(time.Duration(minutes) * time.Minute)
		rec.Status = record.StatusClosed
		rec.ClosedAt = &closed
	}

	if g.rng.Float64() < g.config.GeoRate {
		rec.Location = &record.Coordinate{
			Latitude:  borough.lat + (g.rng.Float64()-0.5)*0.08,
			Longitude: borough.lon + (g.rng.Float64()-0.5)*0.08,
		}
	}

	return rec
}

func (g *Generator) pickComplaintType() string {
	total := 0
	for _, ct := range complaintTypes {
		total += ct.weight
	}
	pick := g.rng.Intn(total)
	for _, ct := range complaintTypes {
		pick -= ct.weight
		if pick < 0 {
			return ct.name
		}
	}
	return complaintTypes[0].name
}

func (g *Generator) randomTimeInRange(start, end time.Time) time.Time {
	window := end.Sub(start)
	if window <= 0 {
		return start
	}
	return start.Add(time.Duration(g.rng.Int63n(int64(window))))
}
