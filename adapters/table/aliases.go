package table

import (
	"regexp"
	"strings"
)

// Canonical column names the loader works with.
const (
	colCreated   = "created_date"
	colClosed    = "closed_date"
	colComplaint = "complaint_type"
	colBorough   = "borough"
	colStatus    = "status"
	colLatitude  = "latitude"
	colLongitude = "longitude"
)

var (
	punctRe      = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalizeColumnName lowercases, strips punctuation, and collapses
// whitespace to underscores, so "Created Date" and "created_date"
// resolve to the same column.
func normalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = punctRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(name, "_")
	return name
}

// aliasMap folds the column spellings seen across 311 exports onto the
// canonical names.
var aliasMap = map[string]string{
	// created
	"created_date":      colCreated,
	"created_datetime":  colCreated,
	"created":           colCreated,
	"created_time":      colCreated,
	"createddate":       colCreated,
	"created_date_time": colCreated,

	// closed
	"closed_date":     colClosed,
	"closed_datetime": colClosed,
	"closed":          colClosed,
	"closed_time":     colClosed,
	"closeddate":      colClosed,

	// complaint type
	"complaint_type":    colComplaint,
	"complaint":         colComplaint,
	"complainttype":     colComplaint,
	"type_of_complaint": colComplaint,

	// borough
	"borough": colBorough,
	"boro":    colBorough,

	// status
	"status":         colStatus,
	"sr_status":      colStatus,
	"request_status": colStatus,

	// location
	"latitude":  colLatitude,
	"lat":       colLatitude,
	"longitude": colLongitude,
	"lon":       colLongitude,
	"lng":       colLongitude,
	"long":      colLongitude,
}

// canonicalColumn resolves a raw header cell to its canonical name, or
// the normalized form when no alias applies.
func canonicalColumn(raw string) string {
	normalized := normalizeColumnName(raw)
	if canonical, ok := aliasMap[normalized]; ok {
		return canonical
	}
	return normalized
}
