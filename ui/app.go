package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"pulse311/app"
	"pulse311/domain/filter"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App represents the dashboard web application. It owns the only
// mutable state in the system: each session's last valid criteria.
type App struct {
	router    *chi.Mux
	service   *app.DashboardService
	templates *template.Template
	defaults  filter.Criteria

	sessionMutex sync.RWMutex
	sessions     map[string]filter.Criteria
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates a new dashboard application over a loaded service.
func NewApp(service *app.DashboardService) (*App, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"pct": func(fraction float64) string {
			return fmt.Sprintf("%.1f%%", fraction*100)
		},
		"until": func(n int) []int {
			res := make([]int, n)
			for i := range res {
				res[i] = i
			}
			return res
		},
		"dayName": func(day int) string {
			return time.Weekday(day).String()
		},
		"minutes": func(value float64) string {
			return fmt.Sprintf("%.0f min", value)
		},
		"barWidth": func(count, max int) int {
			if max <= 0 {
				return 0
			}
			return count * 100 / max
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles,
		"templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		defaults:  filter.Default(),
		sessions:  make(map[string]filter.Criteria),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// SetDefaultMapPointCap overrides the point cap used when a request
// carries no map_points parameter. Out-of-range values are ignored.
func (a *App) SetDefaultMapPointCap(cap int) {
	if cap >= filter.MinMapPointCap && cap <= filter.MaxMapPointCap {
		a.defaults.MapPointCap = cap
	}
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)

	// Full view bundle for the current filter query
	a.router.Get("/api/dashboard", a.handleDashboardJSON)
	a.router.Get("/api/map/points", a.handleMapPoints)
	a.router.Get("/api/export", a.handleExport)

	// HTMX fragment endpoints
	a.router.Get("/api/fragments/kpis", a.handleFragmentKPIs)
	a.router.Get("/api/fragments/categories", a.handleFragmentCategories)
	a.router.Get("/api/fragments/rhythm", a.handleFragmentRhythm)
	a.router.Get("/api/fragments/resolution", a.handleFragmentResolution)
	a.router.Get("/api/fragments/map", a.handleFragmentMap)
}

// Start starts the HTTP server
func (a *App) Start(config Config) error {
	addr := ":" + config.Port
	log.Printf("Starting pulse311 dashboard on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the handler for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// renderMarkdown converts narrative Markdown into safe-to-embed HTML.
// Narratives are generated server-side from templates, never from
// user input.
func renderMarkdown(source string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(source), p, renderer))
}
