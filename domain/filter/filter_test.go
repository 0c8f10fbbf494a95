package filter

import (
	"errors"
	"testing"
	"time"

	"pulse311/domain/core"
	"pulse311/domain/record"
)

func mkRecord(complaintType, borough string, created time.Time) record.Record {
	return record.Record{
		ComplaintType: complaintType,
		Status:        record.StatusOpen,
		Borough:       borough,
		CreatedAt:     created,
	}
}

// Monday 2025-03-03 anchors the fixtures; offsets move across days.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func fixtureRecords() []record.Record {
	return []record.Record{
		mkRecord("Noise", "Brooklyn", monday.Add(9*time.Hour)),
		mkRecord("Noise", "Queens", monday.Add(10*time.Hour)),
		mkRecord("Noise", "Brooklyn", monday.Add(22*time.Hour)),
		mkRecord("Heat", "Bronx", monday.Add(24*time.Hour+8*time.Hour)),  // Tuesday 08:00
		mkRecord("Heat", "Bronx", monday.Add(48*time.Hour+13*time.Hour)), // Wednesday 13:00
		mkRecord("Rodent", "Manhattan", monday.Add(72*time.Hour+2*time.Hour)),
	}
}

func TestValidateRejectsWrappingHourRange(t *testing.T) {
	c := Default()
	c.HourFrom, c.HourTo = 22, 2

	err := c.Validate()
	if err == nil {
		t.Fatal("expected wrapping hour range to be rejected")
	}
	if !errors.Is(err, core.ErrWrappingHourRange) {
		t.Errorf("expected ErrWrappingHourRange, got %v", err)
	}
	if !core.IsValidationError(err) {
		t.Errorf("wrapping range should be a validation error, got %v", err)
	}
}

func TestValidateRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Criteria)
	}{
		{"negative top_n", func(c *Criteria) { c.TopN = -1 }},
		{"zero top_n", func(c *Criteria) { c.TopN = 0 }},
		{"hour_from out of range", func(c *Criteria) { c.HourFrom = 24 }},
		{"hour_to out of range", func(c *Criteria) { c.HourTo = -3 }},
		{"map cap below floor", func(c *Criteria) { c.MapPointCap = 10 }},
		{"map cap above ceiling", func(c *Criteria) { c.MapPointCap = 100000 }},
		{"unknown weekday", func(c *Criteria) { c.Days = []time.Weekday{time.Weekday(9)} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			if err := c.Validate(); !core.IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDefaultCriteriaIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default criteria should validate, got %v", err)
	}
}

func TestApplySubsetNeverGrows(t *testing.T) {
	records := fixtureRecords()
	criteria := []Criteria{
		Default(),
		{Days: []time.Weekday{time.Monday}, HourFrom: 0, HourTo: 23, TopN: 5, MapPointCap: 3000},
		{HourFrom: 9, HourTo: 10, TopN: 1, MapPointCap: 3000},
		{Boroughs: []string{"Bronx"}, HourFrom: 0, HourTo: 23, TopN: 5, MapPointCap: 3000},
		{Days: []time.Weekday{time.Sunday}, HourFrom: 0, HourTo: 23, TopN: 5, MapPointCap: 3000},
	}

	for _, c := range criteria {
		subset := Apply(records, c)
		if len(subset.Records) > len(records) {
			t.Errorf("filtered subset (%d) larger than input (%d) for %+v",
				len(subset.Records), len(records), c)
		}
	}
}

func TestApplyPredicates(t *testing.T) {
	records := fixtureRecords()

	c := Default()
	c.Days = []time.Weekday{time.Monday}
	subset := Apply(records, c)
	if len(subset.Records) != 3 {
		t.Errorf("expected 3 Monday records, got %d", len(subset.Records))
	}

	c = Default()
	c.HourFrom, c.HourTo = 8, 13
	subset = Apply(records, c)
	if len(subset.Records) != 4 {
		t.Errorf("expected 4 records in 08:00-13:00, got %d", len(subset.Records))
	}

	c = Default()
	c.Boroughs = []string{"Brooklyn", "Queens"}
	subset = Apply(records, c)
	if len(subset.Records) != 3 {
		t.Errorf("expected 3 Brooklyn/Queens records, got %d", len(subset.Records))
	}
}

func TestApplyTopNComputedAfterNarrowing(t *testing.T) {
	records := fixtureRecords()

	// Tuesday+Wednesday only: Heat dominates there even though Noise
	// leads the unfiltered table. Top-1 must be Heat, proving the
	// ranking runs on the narrowed subset.
	c := Default()
	c.Days = []time.Weekday{time.Tuesday, time.Wednesday}
	c.TopN = 1
	subset := Apply(records, c)

	if len(subset.TopCategories) != 1 || subset.TopCategories[0] != "Heat" {
		t.Fatalf("expected top category [Heat], got %v", subset.TopCategories)
	}
	for _, r := range subset.Records {
		if r.ComplaintType != "Heat" {
			t.Errorf("record outside top-N scope survived: %s", r.ComplaintType)
		}
	}
}

func TestRankCategoriesTieBreak(t *testing.T) {
	records := []record.Record{
		mkRecord("Water Leak", "Bronx", monday),
		mkRecord("Graffiti", "Bronx", monday),
		mkRecord("Water Leak", "Bronx", monday),
		mkRecord("Graffiti", "Bronx", monday),
		mkRecord("Noise", "Bronx", monday),
	}

	got := RankCategories(records, 3)
	want := []string{"Graffiti", "Water Leak", "Noise"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestApplyEmptyResultIsValid(t *testing.T) {
	c := Default()
	c.Days = []time.Weekday{time.Sunday}

	subset := Apply(fixtureRecords(), c)
	if len(subset.Records) != 0 {
		t.Errorf("expected empty subset, got %d records", len(subset.Records))
	}
	if len(subset.TopCategories) != 0 {
		t.Errorf("expected no top categories for empty subset, got %v", subset.TopCategories)
	}
}
