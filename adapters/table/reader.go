// Package table loads the static 311 export into typed records. The
// schema is validated once here; downstream stages never see raw
// strings or NaN-through-arithmetic artifacts.
package table

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pulse311/domain/core"
	"pulse311/domain/record"
)

// DefaultFiles is the probe order when no explicit data file is
// configured, largest export first.
var DefaultFiles = []string{
	"nyc311_12months.csv.gz",
	"nyc311_12months.csv",
	"nyc311_sample.csv.gz",
	"nyc311_sample.csv",
	"nyc311_sample.xlsx",
}

// Reader loads CSV, gzipped CSV, or Excel exports of 311 records.
type Reader struct {
	filePath string
	fileType string // "csv", "csv.gz", or "xlsx"
}

// NewReader creates a reader for the given file, picking the decode
// path from the extension.
func NewReader(filePath string) *Reader {
	fileType := "csv"
	switch {
	case strings.HasSuffix(strings.ToLower(filePath), ".csv.gz"):
		fileType = "csv.gz"
	case strings.EqualFold(filepath.Ext(filePath), ".xlsx"):
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// ProbeDefaultFiles returns the first existing file from DefaultFiles
// under dir, or an error when none exists.
func ProbeDefaultFiles(dir string) (string, error) {
	for _, name := range DefaultFiles {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", core.NewDataLoadError(dir, fmt.Errorf("none of %v found", DefaultFiles))
}

// LoadRecords reads and validates the full export. It implements
// ports.RecordSource. Rows with unparsable timestamps are counted and
// skipped; a file that yields zero parsable rows is a load error.
func (r *Reader) LoadRecords(ctx context.Context) ([]record.Record, error) {
	log.Printf("[TableReader] Loading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, core.NewDataLoadError(r.filePath, fmt.Errorf("file not found"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, core.NewDataLoadError(r.filePath, fmt.Errorf("need a header row and at least one data row"))
	}

	records, skipped, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.filePath, err)
	}
	if skipped > 0 {
		log.Printf("[TableReader] WARNING: skipped %d rows with unparsable created timestamps", skipped)
	}
	log.Printf("[TableReader] Loaded %d records (%d rows skipped)", len(records), skipped)
	return records, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, core.NewDataLoadError(r.filePath, err)
	}
	defer file.Close()

	var src io.Reader = file
	if r.fileType == "csv.gz" {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, core.NewDataLoadError(r.filePath, err)
		}
		defer gz.Close()
		src = gz
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewDataLoadError(r.filePath, err)
	}
	log.Printf("[TableReader] CSV read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.NewDataLoadError(r.filePath, err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, core.NewDataLoadError(r.filePath, err)
	}
	log.Printf("[TableReader] Sheet1 read (%d rows)", len(rows))
	return rows, nil
}

// columnIndex maps canonical column names to positions in the header.
type columnIndex map[string]int

func (ci columnIndex) cell(row []string, column string) string {
	idx, ok := ci[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// requiredColumns must all resolve or the load fails with no partial
// result.
var requiredColumns = []string{colComplaint, colStatus, colCreated}

func parseRows(rows [][]string) ([]record.Record, int, error) {
	index := make(columnIndex)
	for i, header := range rows[0] {
		canonical := canonicalColumn(header)
		if _, seen := index[canonical]; !seen {
			index[canonical] = i
		}
	}

	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			return nil, 0, core.NewMissingColumnError(column)
		}
	}

	records := make([]record.Record, 0, len(rows)-1)
	skipped := 0
	clearedClosed := 0
	for _, row := range rows[1:] {
		createdAt, ok := parseTimestamp(index.cell(row, colCreated))
		if !ok {
			skipped++
			continue
		}

		rec := record.Record{
			ComplaintType: orUnspecified(index.cell(row, colComplaint)),
			Status:        record.NormalizeStatus(index.cell(row, colStatus)),
			Borough:       orUnspecified(index.cell(row, colBorough)),
			CreatedAt:     createdAt,
		}

		if closedAt, ok := parseTimestamp(index.cell(row, colClosed)); ok {
			if closedAt.Before(createdAt) {
				// A closure before creation is a data entry artifact;
				// the record survives as unresolved.
				clearedClosed++
			} else {
				rec.ClosedAt = &closedAt
			}
		}

		if coord, ok := parseCoordinate(index.cell(row, colLatitude), index.cell(row, colLongitude)); ok {
			rec.Location = &coord
		}

		records = append(records, rec)
	}

	if clearedClosed > 0 {
		log.Printf("[TableReader] WARNING: cleared %d closed timestamps earlier than their created timestamps", clearedClosed)
	}
	if len(records) == 0 {
		return nil, skipped, core.ErrNoParsableRows
	}
	return records, skipped, nil
}

// timestampLayouts covers the formats seen in 311 exports: the open
// data portal's US style plus ISO variants.
var timestampLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseCoordinate(latRaw, lonRaw string) (record.Coordinate, bool) {
	if latRaw == "" || lonRaw == "" {
		return record.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return record.Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return record.Coordinate{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return record.Coordinate{}, false
	}
	return record.Coordinate{Latitude: lat, Longitude: lon}, true
}

func orUnspecified(value string) string {
	if value == "" {
		return record.BoroughUnspecified
	}
	return value
}
