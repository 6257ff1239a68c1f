package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"lead-relay/http/handlers"
	"lead-relay/http/middleware"
	"lead-relay/logger"
)

// RouterConfig wires the relay's HTTP surface.
type RouterConfig struct {
	Relay              handlers.LeadRelay
	Logger             *logger.Logger
	CORSAllowedOrigins []string
	// StaticDir holds the built site; skipped when empty or missing.
	StaticDir      string
	MetricsHandler http.Handler
}

// NewRouter configures all HTTP routes and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/healthz", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Lead APIs
	leads := handlers.NewLeadHandler(cfg.Relay, log)
	r.Route("/api", func(api chi.Router) {
		api.Post("/send-call-request", leads.SendCallRequest)
		api.Post("/send-calculator-request", leads.SendCalculatorRequest)
	})

	if h := staticHandler(cfg.StaticDir, log); h != nil {
		r.NotFound(h.ServeHTTP)
	}

	return r
}

// staticHandler serves the built single-page site, falling back to index.html
// for client-side routes.
func staticHandler(dir string, log *logger.Logger) http.Handler {
	if dir == "" {
		return nil
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		log.Warn("static directory unusable", "dir", dir, "error", err)
		return nil
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		log.Info("static directory not found, serving API only", "dir", absDir)
		return nil
	}

	files := http.FileServer(http.Dir(absDir))
	index := filepath.Join(absDir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		requested := filepath.Join(absDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		info, err := os.Stat(requested)
		if os.IsNotExist(err) {
			http.ServeFile(w, r, index)
			return
		}
		// Directories are never listed.
		if err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(requested, "index.html")); err != nil {
				http.ServeFile(w, r, index)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
