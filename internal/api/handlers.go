package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/protein"
	"github.com/san-kum/molview/internal/scene"
)

func (s *Server) handleProtein(w http.ResponseWriter, r *http.Request) {
	accession := chi.URLParam(r, "accession")
	log := s.logger.With("accession", accession, "request_id", middleware.GetReqID(r.Context()))

	var (
		pred    *protein.Prediction
		summary string
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		p, err := s.alphafold.Prediction(ctx, accession)
		pred = p
		return err
	})
	g.Go(func() error {
		f, err := s.uniprot.Function(ctx, accession)
		if err != nil {
			// A missing description is not fatal.
			log.Warn("function lookup failed", "error", err)
			return nil
		}
		summary = f
		return nil
	})

	if err := g.Wait(); err != nil {
		var se *protein.StatusError
		switch {
		case errors.Is(err, protein.ErrNoPrediction),
			errors.As(err, &se) && se.Code == http.StatusNotFound:
			writeError(w, http.StatusNotFound, "Failed to retrieve protein information.")
		default:
			log.Error("prediction lookup failed", "error", err)
			writeError(w, http.StatusBadGateway, "Upstream request failed.")
		}
		return
	}
	if pred.CifURL == "" {
		writeError(w, http.StatusNotFound, "Failed to retrieve model URL.")
		return
	}

	name := pred.UniprotDescription
	if name == "" {
		name = "Unknown"
	}
	writeJSON(w, http.StatusOK, protein.Metadata{
		Accession:   accession,
		Name:        name,
		Description: summary,
		ModelURL:    pred.CifURL,
	})
}

// sceneResponse is the built ball-and-stick group of a structure.
type sceneResponse struct {
	Name   string       `json:"name"`
	Source string       `json:"source"`
	Atoms  int          `json:"atoms"`
	Bonds  int          `json:"bonds"`
	Scene  *scene.Group `json:"scene"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	source, err := s.resolveSource(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.open(r.Context(), source)
	if err != nil {
		s.logger.Error("error loading molecule", "source", source, "error", err)
		writeError(w, http.StatusUnprocessableEntity, "Failed to load structure.")
		return
	}
	g := scene.NewGroup()
	if err := scene.Build(g, m, s.params); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, molecule.ErrNoAtoms) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sceneResponse{
		Name:   m.Name,
		Source: r.URL.Query().Get("source"),
		Atoms:  g.Spheres(),
		Bonds:  g.Boxes(),
		Scene:  g,
	})
}

// resolveSource accepts http(s) URLs and relative paths inside DataDir.
func (s *Server) resolveSource(src string) (string, error) {
	switch {
	case src == "":
		return "", errors.New("source is required")
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src, nil
	case !filepath.IsLocal(src):
		return "", errors.New("source must be a relative path")
	}
	return filepath.Join(s.cfg.DataDir, src), nil
}
