package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/san-kum/molview/internal/protein"
	"github.com/san-kum/molview/internal/scene"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	AllowedOrigins []string
	// DataDir is the root that local structure paths are resolved against.
	DataDir     string
	FrameFPS    int
	FrameWidth  int
	FrameHeight int
}

// Server serves protein metadata, built scenes and rendered frames.
type Server struct {
	cfg        Config
	alphafold  *protein.AlphaFold
	uniprot    *protein.UniProt
	open       scene.OpenFunc
	params     scene.Params
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

func New(cfg Config, af *protein.AlphaFold, up *protein.UniProt, open scene.OpenFunc, p scene.Params) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.FrameFPS <= 0 {
		cfg.FrameFPS = 15
	}
	if cfg.FrameWidth <= 0 || cfg.FrameHeight <= 0 {
		cfg.FrameWidth, cfg.FrameHeight = 800, 600
	}
	s := &Server{
		cfg:       cfg,
		alphafold: af,
		uniprot:   up,
		open:      open,
		params:    p,
		logger:    slog.Default().With("component", "api"),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Get("/api/protein/{accession}", s.handleProtein)
		r.Get("/api/scene", s.handleScene)
	})

	// Streams run until the client leaves, so they sit outside the timeout.
	r.Get("/ws/frames", s.handleFrames)

	return r
}

func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("molview server listening", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
