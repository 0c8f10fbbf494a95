package record

import (
	"strings"
	"time"
)

// Status is the normalized lifecycle state of a service request.
type Status string

const (
	StatusOpen        Status = "Open"
	StatusClosed      Status = "Closed"
	StatusInProgress  Status = "In Progress"
	StatusAssigned    Status = "Assigned"
	StatusPending     Status = "Pending"
	StatusStarted     Status = "Started"
	StatusUnspecified Status = "Unspecified"
)

// BoroughUnspecified marks records whose borough column was empty or
// explicitly unspecified. Filter option lists exclude it; the records
// themselves are still counted.
const BoroughUnspecified = "Unspecified"

// NormalizeStatus maps a raw status cell to one of the known Status
// values. Unknown non-empty values pass through as-is so charts can
// still group by them.
func NormalizeStatus(raw string) Status {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StatusUnspecified
	}
	switch strings.ToLower(trimmed) {
	case "open":
		return StatusOpen
	case "closed":
		return StatusClosed
	case "in progress":
		return StatusInProgress
	case "assigned":
		return StatusAssigned
	case "pending":
		return StatusPending
	case "started":
		return StatusStarted
	case "unspecified":
		return StatusUnspecified
	}
	return Status(trimmed)
}

// Coordinate is a geographic point attached to a record.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Record is one 311 service request. The slice of records loaded at
// startup is never mutated; everything downstream derives from it.
type Record struct {
	ComplaintType string      `json:"complaint_type"`
	Status        Status      `json:"status"`
	Borough       string      `json:"borough"`
	CreatedAt     time.Time   `json:"created_at"`
	ClosedAt      *time.Time  `json:"closed_at,omitempty"`
	Location      *Coordinate `json:"location,omitempty"`
}

// Resolved reports whether the request has both timestamps, i.e. a
// resolution time can be computed for it.
func (r Record) Resolved() bool {
	return r.ClosedAt != nil
}

// ResolutionMinutes returns the elapsed creation-to-closure time in
// minutes. The second return is false when the request is unresolved;
// callers must not treat the zero value as a real duration.
func (r Record) ResolutionMinutes() (float64, bool) {
	if r.ClosedAt == nil {
		return 0, false
	}
	return r.ClosedAt.Sub(r.CreatedAt).Minutes(), true
}

// DayOfWeek returns the weekday the request was created.
func (r Record) DayOfWeek() time.Weekday {
	return r.CreatedAt.Weekday()
}

// HourOfDay returns the creation hour in 0-23.
func (r Record) HourOfDay() int {
	return r.CreatedAt.Hour()
}

// HasLocation reports whether the record carries usable coordinates.
func (r Record) HasLocation() bool {
	return r.Location != nil
}
