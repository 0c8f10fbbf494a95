package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulse311/app"
	"pulse311/domain/core"
	"pulse311/domain/filter"
)

const sessionCookie = "pulse311_session"

// weekdayNames maps query values to weekdays. Day parameters arrive as
// names so URLs stay readable.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseCriteria builds criteria from the request query. Absent
// parameters fall back to the defaults; present-but-malformed values
// become validation errors via Criteria.Validate.
func parseCriteria(query url.Values, base filter.Criteria) (filter.Criteria, error) {
	c := base

	if days := query["day"]; len(days) > 0 {
		c.Days = nil
		for _, raw := range days {
			day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
			if !ok {
				return c, core.NewValidationError("day", "unknown weekday "+raw)
			}
			c.Days = append(c.Days, day)
		}
	}

	var err error
	if c.HourFrom, err = intParam(query, "hour_from", c.HourFrom); err != nil {
		return c, err
	}
	if c.HourTo, err = intParam(query, "hour_to", c.HourTo); err != nil {
		return c, err
	}
	if c.TopN, err = intParam(query, "top_n", c.TopN); err != nil {
		return c, err
	}
	if c.MapPointCap, err = intParam(query, "map_points", c.MapPointCap); err != nil {
		return c, err
	}

	if boroughs := query["borough"]; len(boroughs) > 0 {
		c.Boroughs = nil
		for _, borough := range boroughs {
			borough = strings.TrimSpace(borough)
			if borough != "" && !strings.EqualFold(borough, "all") {
				c.Boroughs = append(c.Boroughs, borough)
			}
		}
	}

	return c, c.Validate()
}

func intParam(query url.Values, key string, fallback int) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewValidationError(key, "not an integer: "+raw)
	}
	return value, nil
}

// sessionID reads or mints the session cookie used to remember the
// last valid criteria per browser.
func (a *App) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

func (a *App) lastValidCriteria(sessionID string) filter.Criteria {
	a.sessionMutex.RLock()
	defer a.sessionMutex.RUnlock()
	if c, ok := a.sessions[sessionID]; ok {
		return c
	}
	return a.defaults
}

func (a *App) rememberCriteria(sessionID string, c filter.Criteria) {
	a.sessionMutex.Lock()
	defer a.sessionMutex.Unlock()
	a.sessions[sessionID] = c
}

// resolveView turns the request into a view. Invalid criteria are
// recovered locally: the session's last valid criteria stay in effect
// and the returned warning tells the user what was rejected.
func (a *App) resolveView(w http.ResponseWriter, r *http.Request) (app.View, string, error) {
	sessionID := a.sessionID(w, r)

	criteria, err := parseCriteria(r.URL.Query(), a.defaults)
	warning := ""
	if err != nil {
		if !core.IsValidationError(err) {
			return app.View{}, "", err
		}
		warning = "Ignored invalid filters (" + err.Error() + "); keeping the previous selection."
		criteria = a.lastValidCriteria(sessionID)
	}

	view, err := a.service.Snapshot(criteria)
	if err != nil {
		return app.View{}, "", err
	}

	if warning == "" {
		a.rememberCriteria(sessionID, criteria)
	}
	return view, warning, nil
}

// viewData is what the page and fragment templates consume.
type viewData struct {
	View           app.View
	Warning        string
	BoroughOptions []string
	TotalRecords   int
}

// DayOrder lists weekday names in display order for the filter panel.
func (v viewData) DayOrder() []string {
	names := make([]string, 7)
	for i := 0; i < 7; i++ {
		names[i] = time.Weekday(i).String()
	}
	return names
}

// DailyMax returns the tallest point of the daily series, for chart
// scaling.
func (v viewData) DailyMax() int {
	max := 0
	for _, point := range v.View.Daily {
		if point.Count > max {
			max = point.Count
		}
	}
	return max
}

// DaySelected reports whether the named weekday is part of the active
// day filter. An empty day filter means all days.
func (v viewData) DaySelected(name string) bool {
	day, ok := weekdayNames[strings.ToLower(name)]
	if !ok {
		return false
	}
	for _, selected := range v.View.Criteria.Days {
		if selected == day {
			return true
		}
	}
	return false
}

// BoroughSelected reports whether the borough is part of the active
// borough filter.
func (v viewData) BoroughSelected(borough string) bool {
	for _, selected := range v.View.Criteria.Boroughs {
		if strings.EqualFold(selected, borough) {
			return true
		}
	}
	return false
}

func (a *App) buildViewData(w http.ResponseWriter, r *http.Request) (viewData, error) {
	view, warning, err := a.resolveView(w, r)
	if err != nil {
		return viewData{}, err
	}
	return viewData{
		View:           view,
		Warning:        warning,
		BoroughOptions: a.service.BoroughOptions(),
		TotalRecords:   a.service.RecordCount(),
	}, nil
}

// handleIndex renders the dashboard page.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := a.buildViewData(w, r)
	if err != nil {
		log.Printf("[Index] Snapshot failed: %v", err)
		http.Error(w, "Failed to compute dashboard", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, "index.html", data)
}

// handleDashboardJSON returns the full view bundle as JSON.
func (a *App) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	view, warning, err := a.resolveView(w, r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"view":    view,
		"warning": warning,
	})
}

// handleMapPoints returns just the sampled map layer.
func (a *App) handleMapPoints(w http.ResponseWriter, r *http.Request) {
	view, warning, err := a.resolveView(w, r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"points":   view.MapPoints,
		"clusters": view.MapClusters,
		"grid":     view.MapGrid,
		"warning":  warning,
	})
}

// Fragment handlers render one chart group each for HTMX swaps.

func (a *App) handleFragment(w http.ResponseWriter, r *http.Request, name string) {
	data, err := a.buildViewData(w, r)
	if err != nil {
		log.Printf("[Fragment:%s] Snapshot failed: %v", name, err)
		http.Error(w, "Failed to compute fragment", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, name, data)
}

func (a *App) handleFragmentKPIs(w http.ResponseWriter, r *http.Request) {
	a.handleFragment(w, r, "kpis.html")
}

func (a *App) handleFragmentCategories(w http.ResponseWriter, r *http.Request) {
	a.handleFragment(w, r, "categories.html")
}

func (a *App) handleFragmentRhythm(w http.ResponseWriter, r *http.Request) {
	a.handleFragment(w, r, "rhythm.html")
}

func (a *App) handleFragmentResolution(w http.ResponseWriter, r *http.Request) {
	a.handleFragment(w, r, "resolution.html")
}

func (a *App) handleFragmentMap(w http.ResponseWriter, r *http.Request) {
	a.handleFragment(w, r, "map.html")
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[JSON] Encode failed: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if core.IsValidationError(err) {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
