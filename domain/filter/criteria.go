package filter

import (
	"fmt"
	"time"

	"pulse311/domain/core"
	"pulse311/domain/record"
)

// Point-cap bounds mirror the map slider: enough points for detail,
// few enough that hover/zoom stays responsive.
const (
	DefaultTopN        = 15
	DefaultMapPointCap = 3000
	MinMapPointCap     = 500
	MaxMapPointCap     = 8000
)

// Criteria is one immutable set of user-selected filters. The UI layer
// rebuilds it on every interaction; nothing downstream mutates it.
type Criteria struct {
	// Days restricts to these weekdays. Empty means all days.
	Days []time.Weekday `json:"days,omitempty"`
	// HourFrom/HourTo is an inclusive hour-of-day interval. Wrapping
	// ranges (from > to) are rejected by Validate.
	HourFrom int `json:"hour_from"`
	HourTo   int `json:"hour_to"`
	// Boroughs restricts to these borough values. Empty means all.
	Boroughs []string `json:"boroughs,omitempty"`
	// TopN bounds how many complaint categories stay in scope.
	TopN int `json:"top_n"`
	// MapPointCap bounds how many records the map layer receives.
	MapPointCap int `json:"map_point_cap"`
}

// Default returns the criteria the dashboard starts with: all days, all
// hours, all boroughs, top 15 categories.
func Default() Criteria {
	return Criteria{
		HourFrom:    0,
		HourTo:      23,
		TopN:        DefaultTopN,
		MapPointCap: DefaultMapPointCap,
	}
}

// Validate rejects criteria the pipeline cannot honor. Only
// non-wrapping hour ranges are valid input; a range like 22-2 returns
// core.ErrWrappingHourRange rather than being reinterpreted.
func (c Criteria) Validate() error {
	if c.HourFrom < 0 || c.HourFrom > 23 {
		return core.NewValidationError("hour_from", fmt.Sprintf("must be in 0-23, got %d", c.HourFrom))
	}
	if c.HourTo < 0 || c.HourTo > 23 {
		return core.NewValidationError("hour_to", fmt.Sprintf("must be in 0-23, got %d", c.HourTo))
	}
	if c.HourFrom > c.HourTo {
		return fmt.Errorf("%w: %d-%d", core.ErrWrappingHourRange, c.HourFrom, c.HourTo)
	}
	if c.TopN <= 0 {
		return core.NewValidationError("top_n", fmt.Sprintf("must be positive, got %d", c.TopN))
	}
	if c.MapPointCap < MinMapPointCap || c.MapPointCap > MaxMapPointCap {
		return core.NewValidationError("map_point_cap",
			fmt.Sprintf("must be in %d-%d, got %d", MinMapPointCap, MaxMapPointCap, c.MapPointCap))
	}
	for _, d := range c.Days {
		if d < time.Sunday || d > time.Saturday {
			return core.NewValidationError("days", fmt.Sprintf("unknown weekday %d", d))
		}
	}
	return nil
}

// matches applies the day, hour, and borough predicates. Category
// membership is a separate pass in Apply because the top-N set depends
// on the population these predicates leave behind.
func (c Criteria) matches(r record.Record) bool {
	if len(c.Days) > 0 && !containsWeekday(c.Days, r.DayOfWeek()) {
		return false
	}
	hour := r.HourOfDay()
	if hour < c.HourFrom || hour > c.HourTo {
		return false
	}
	if len(c.Boroughs) > 0 && !containsString(c.Boroughs, r.Borough) {
		return false
	}
	return true
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
