package testkit

import (
	"testing"

	"pulse311/domain/record"
)

func TestGenerateIsDeterministic(t *testing.T) {
	config := DefaultConfig()
	config.RecordCount = 50

	first := NewGenerator(config).Generate()
	second := NewGenerator(config).Generate()

	if len(first) != len(second) {
		t.Fatalf("record counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ComplaintType != second[i].ComplaintType ||
			!first[i].CreatedAt.Equal(second[i].CreatedAt) ||
			first[i].Borough != second[i].Borough {
			t.Fatalf("records differ at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateRespectsInvariants(t *testing.T) {
	config := DefaultConfig()
	records := NewGenerator(config).Generate()

	if len(records) != config.RecordCount {
		t.Fatalf("expected %d records, got %d", config.RecordCount, len(records))
	}

	closed := 0
	located := 0
	for i, r := range records {
		if r.ComplaintType == "" || r.Borough == "" {
			t.Fatalf("record %d missing category or borough: %+v", i, r)
		}
		if r.CreatedAt.Before(config.StartDate) || r.CreatedAt.After(config.EndDate) {
			t.Fatalf("record %d created outside window: %v", i, r.CreatedAt)
		}
		if r.ClosedAt != nil {
			closed++
			if r.ClosedAt.Before(r.CreatedAt) {
				t.Fatalf("record %d closed before created", i)
			}
			if r.Status != record.StatusClosed {
				t.Fatalf("record %d has closed_at but status %s", i, r.Status)
			}
		}
		if r.HasLocation() {
			located++
		}
	}

	// Rates are stochastic but seeded; generous bounds keep this stable.
	if closed < config.RecordCount/2 {
		t.Errorf("expected roughly 70%% closed, got %d of %d", closed, len(records))
	}
	if located < config.RecordCount/2 {
		t.Errorf("expected roughly 90%% geocoded, got %d of %d", located, len(records))
	}
}
