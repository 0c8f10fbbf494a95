package table

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pulse311/domain/core"
)

const sampleCSV = `Created Date,Closed Date,Complaint Type,Borough,Status,Latitude,Longitude
01/06/2025 09:00:00 AM,01/06/2025 11:00:00 AM,Noise,Brooklyn,Closed,40.6782,-73.9442
01/06/2025 10:00:00 AM,,Noise,Queens,Open,40.7282,-73.7949
01/07/2025 08:30:00 AM,01/07/2025 08:00:00 AM,Heat,Bronx,Closed,,
not-a-date,,Graffiti,Manhattan,Open,,
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadRecordsParsesAliasedColumns(t *testing.T) {
	reader := NewReader(writeTempCSV(t, sampleCSV))

	records, err := reader.LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}

	// 4 data rows, 1 unparsable created timestamp.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.ComplaintType != "Noise" || first.Borough != "Brooklyn" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.CreatedAt.Hour() != 9 {
		t.Errorf("expected created hour 9, got %d", first.CreatedAt.Hour())
	}
	if minutes, ok := first.ResolutionMinutes(); !ok || minutes != 120 {
		t.Errorf("expected 120 resolution minutes, got %f (ok=%v)", minutes, ok)
	}
	if !first.HasLocation() {
		t.Error("expected first record to carry coordinates")
	}

	if records[1].ClosedAt != nil {
		t.Error("open record should have no closed timestamp")
	}
	if records[2].HasLocation() {
		t.Error("record without lat/lon cells should have no location")
	}
}

func TestLoadRecordsClearsInvertedClosure(t *testing.T) {
	reader := NewReader(writeTempCSV(t, sampleCSV))

	records, err := reader.LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}

	// Row 3 closes before it was created; the closure must be dropped,
	// keeping the invariant closed_at >= created_at.
	heat := records[2]
	if heat.ComplaintType != "Heat" {
		t.Fatalf("expected Heat record third, got %s", heat.ComplaintType)
	}
	if heat.ClosedAt != nil {
		t.Error("expected inverted closed timestamp to be cleared")
	}
	for _, r := range records {
		if r.ClosedAt != nil && r.ClosedAt.Before(r.CreatedAt) {
			t.Errorf("invariant violated: closed %v before created %v", r.ClosedAt, r.CreatedAt)
		}
	}
}

func TestLoadRecordsMissingRequiredColumn(t *testing.T) {
	csv := "Created Date,Borough\n01/06/2025 09:00:00 AM,Brooklyn\n"
	reader := NewReader(writeTempCSV(t, csv))

	_, err := reader.LoadRecords(context.Background())
	if !core.IsDataLoadError(err) {
		t.Fatalf("expected data load error for missing columns, got %v", err)
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	reader := NewReader(filepath.Join(t.TempDir(), "absent.csv"))

	_, err := reader.LoadRecords(context.Background())
	if !core.IsDataLoadError(err) {
		t.Fatalf("expected data load error for missing file, got %v", err)
	}
}

func TestLoadRecordsAllRowsUnparsable(t *testing.T) {
	csv := "Created Date,Complaint Type,Status\nnope,Noise,Open\nalso nope,Heat,Open\n"
	reader := NewReader(writeTempCSV(t, csv))

	_, err := reader.LoadRecords(context.Background())
	if !core.IsDataLoadError(err) {
		t.Fatalf("expected data load error when no rows parse, got %v", err)
	}
}

func TestLoadRecordsGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv.gz")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create gz fixture: %v", err)
	}
	gz := gzip.NewWriter(file)
	if _, err := gz.Write([]byte(sampleCSV)); err != nil {
		t.Fatalf("failed to write gz fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gz writer: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("failed to close gz fixture: %v", err)
	}

	records, err := NewReader(path).LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("LoadRecords over gzip failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records from gzip file, got %d", len(records))
	}
}

func TestProbeDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := ProbeDefaultFiles(dir); !core.IsDataLoadError(err) {
		t.Errorf("expected data load error for empty dir, got %v", err)
	}

	want := filepath.Join(dir, "nyc311_sample.csv")
	if err := os.WriteFile(want, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("failed to write probe fixture: %v", err)
	}
	got, err := ProbeDefaultFiles(dir)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestTimestampLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"01/06/2025 09:00:00 AM": time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		"2025-01-06 09:00:00":    time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		"2025-01-06T09:00:00":    time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		"2025-01-06":             time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}

	for raw, want := range cases {
		got, ok := parseTimestamp(raw)
		if !ok {
			t.Errorf("failed to parse %q", raw)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parse %q = %v, want %v", raw, got, want)
		}
	}

	if _, ok := parseTimestamp(""); ok {
		t.Error("empty cell must not parse")
	}
	if _, ok := parseTimestamp("06/01/2025 25:00:00 PM"); ok {
		t.Error("invalid time must not parse")
	}
}
