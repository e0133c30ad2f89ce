package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"carprice/internal/artifacts"
)

//go:embed templates/*
var embeddedFiles embed.FS

// Config holds UI application configuration.
type Config struct {
	Port      string
	APIURL    string // prediction API base URL, from the API_URL env var
	ModelPath string
	MetaPath  string
}

// App renders a metadata-driven form and forwards submissions to the
// prediction API.
type App struct {
	router    *chi.Mux
	templates *template.Template
	config    Config
	store     *artifacts.FileStore
	client    *http.Client
}

// NewApp creates a new UI application.
func NewApp(config Config) (*App, error) {
	funcMap := template.FuncMap{
		"label": fieldLabel,
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		templates: templates,
		config:    config,
		store:     artifacts.NewFileStore(config.ModelPath, config.MetaPath),
		client:    &http.Client{Timeout: 30 * time.Second},
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/estimate", a.handleEstimate)
}

// Start runs the UI server on the configured port.
func (a *App) Start() error {
	return http.ListenAndServe(":"+a.config.Port, a.router)
}

// Router exposes the chi mux, mainly for tests.
func (a *App) Router() *chi.Mux {
	return a.router
}

// fieldLabel renders a column name as a human-readable form label.
func fieldLabel(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
