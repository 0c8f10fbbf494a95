package ui

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"pulse311/domain/record"
)

var exportHeaders = []string{
	"Complaint Type", "Status", "Borough",
	"Created Date", "Closed Date",
	"Latitude", "Longitude", "Resolution Minutes",
}

// handleExport streams the current filtered subset as an .xlsx workbook.
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := a.sessionID(w, r)

	criteria, err := parseCriteria(r.URL.Query(), a.defaults)
	if err != nil {
		criteria = a.lastValidCriteria(sessionID)
	}

	records, err := a.service.FilteredRecords(criteria)
	if err != nil {
		log.Printf("[Export] Filter failed: %v", err)
		http.Error(w, "Failed to prepare export", http.StatusInternalServerError)
		return
	}

	file, err := buildWorkbook(records)
	if err != nil {
		log.Printf("[Export] Workbook build failed: %v", err)
		http.Error(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("complaints_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := file.Write(w); err != nil {
		log.Printf("[Export] Write failed: %v", err)
		return
	}
	log.Printf("[Export] Exported %d records", len(records))
}

func buildWorkbook(records []record.Record) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, rec := range records {
		row := exportRow(rec)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return file, nil
}

func exportRow(rec record.Record) []interface{} {
	closed := ""
	if rec.ClosedAt != nil {
		closed = rec.ClosedAt.Format("2006-01-02 15:04:05")
	}

	var latitude, longitude interface{}
	if rec.Location != nil {
		latitude = rec.Location.Latitude
		longitude = rec.Location.Longitude
	} else {
		latitude, longitude = "", ""
	}

	var resolution interface{} = ""
	if minutes, ok := rec.ResolutionMinutes(); ok {
		resolution = minutes
	}

	return []interface{}{
		rec.ComplaintType,
		string(rec.Status),
		rec.Borough,
		rec.CreatedAt.Format("2006-01-02 15:04:05"),
		closed,
		latitude,
		longitude,
		resolution,
	}
}
