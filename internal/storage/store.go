package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/molview/internal/scene"
)

var ErrNotFound = errors.New("storage: snapshot not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Snapshot is a built scene worth keeping.
type Snapshot struct {
	Name   string
	Source string
	Group  *scene.Group
	Stats  map[string]float64
}

type Metadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Atoms     int                `json:"atoms"`
	Bonds     int                `json:"bonds"`
	Stats     map[string]float64 `json:"stats,omitempty"`
}

// Save writes metadata.json and scene.json into a new directory and
// returns its id. A failed save leaves no directory behind.
func (s *Store) Save(snap Snapshot) (id string, err error) {
	if snap.Group == nil {
		return "", fmt.Errorf("storage: snapshot %q has no scene", snap.Name)
	}
	id = uuid.NewString()
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()

	meta := Metadata{
		ID:        id,
		Name:      snap.Name,
		Source:    snap.Source,
		Timestamp: time.Now(),
		Atoms:     snap.Group.Spheres(),
		Bonds:     snap.Group.Boxes(),
		Stats:     snap.Stats,
	}
	if err := writeJSON(filepath.Join(dir, "scene.json"), snap.Group); err != nil {
		return "", fmt.Errorf("writing scene: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}
	return id, nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable snapshot, newest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	snaps := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		snaps = append(snaps, *meta)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Timestamp.After(snaps[j].Timestamp) })
	return snaps, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	var meta Metadata
	if err := s.readJSON(id, "metadata.json", &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadScene(id string) (*scene.Group, error) {
	g := scene.NewGroup()
	if err := s.readJSON(id, "scene.json", g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Store) readJSON(id, name string, v any) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
