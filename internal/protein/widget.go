package protein

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/structure"
)

// Widget is the structure viewer embedded in a page.
type Widget interface {
	AddModel(data, format string) error
	SetStyle(s Style)
	ZoomTo()
	Render() error
}

type ColorScheme string

const (
	// Spectrum colours residues from blue (N terminus) to red (C terminus).
	Spectrum ColorScheme = "spectrum"
	// PLDDT maps per-residue confidence, stored as the B-factor, from red
	// at 50 to blue at 90.
	PLDDT ColorScheme = "plddt"
)

// ParseColorScheme accepts the scheme names and their common aliases.
func ParseColorScheme(name string) (ColorScheme, error) {
	switch strings.ToLower(name) {
	case "spectrum", "rainbow", "":
		return Spectrum, nil
	case "plddt", "lddt":
		return PLDDT, nil
	}
	return "", fmt.Errorf("unknown color scheme: %s", name)
}

type Style struct {
	Color ColorScheme
}

const (
	plddtMin = 50.0
	plddtMax = 90.0
)

// TraceParams size the Cα trace in scene units per ångström.
func TraceParams() scene.Params {
	return scene.Params{
		Scale:      10,
		AtomRadius: 4,
		BondWidth:  3,
		BondColor:  molecule.Grey,
	}
}

// StructureWidget draws a Cα trace of a protein model onto a surface.
type StructureWidget struct {
	mu     sync.Mutex
	scene  *scene.Scene
	target render.Surface
	trace  *molecule.Molecule
	style  Style
	params scene.Params

	Logger *slog.Logger
}

func NewStructureWidget(target render.Surface) *StructureWidget {
	s := scene.New(4.0 / 3.0)
	s.Background = molecule.White
	return &StructureWidget{
		scene:  s,
		target: target,
		style:  Style{Color: Spectrum},
		params: TraceParams(),
		Logger: slog.Default(),
	}
}

// AddModel parses data and replaces the displayed model with it.
func (w *StructureWidget) AddModel(data, format string) error {
	m, err := structure.Parse(strings.NewReader(data), structure.Format(format))
	if err != nil {
		return fmt.Errorf("parsing model: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trace = Trace(m)
	return w.rebuild()
}

// SetStyle recolours the current model. A failed rebuild is logged and
// leaves the scene empty.
func (w *StructureWidget) SetStyle(s Style) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.style = s
	if w.trace == nil {
		return
	}
	if err := w.rebuild(); err != nil {
		log := w.Logger
		if log == nil {
			log = slog.Default()
		}
		log.Error("error applying style", "color", s.Color, "error", err)
	}
}

func (w *StructureWidget) ZoomTo() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scene.Camera.Fit(w.scene.Root.Bounds())
}

// Render draws onto the widget's own surface.
func (w *StructureWidget) Render() error {
	if w.target == nil {
		return nil
	}
	return w.RenderTo(w.target)
}

// RenderTo draws onto target, matching the camera aspect to targets that
// report their pixel size.
func (w *StructureWidget) RenderTo(target render.Surface) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ps, ok := target.(render.PixelSizer); ok {
		if pw, ph := ps.PixelSize(); pw > 0 && ph > 0 {
			w.scene.Camera.Aspect = float64(pw) / float64(ph)
		}
	}
	return target.Draw(w.scene)
}

// Scene returns the widget scene. Callers must not modify it while the
// widget is in use.
func (w *StructureWidget) Scene() *scene.Scene { return w.scene }

// Residues is the number of trace points currently shown.
func (w *StructureWidget) Residues() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.trace == nil {
		return 0
	}
	return len(w.trace.Atoms)
}

func (w *StructureWidget) rebuild() error {
	colored := Colorize(w.trace, w.style.Color)
	if err := scene.Build(w.scene.Root, colored, w.params); err != nil {
		return err
	}
	w.scene.Root.Labels = w.scene.Root.Labels[:0]
	return nil
}

// maxCALink is the longest Cα–Cα distance joined in a trace.
const maxCALink = 4.2

// Trace reduces a model to its Cα atoms joined along each chain. Models
// without Cα atoms are returned unchanged.
func Trace(m *molecule.Molecule) *molecule.Molecule {
	out := &molecule.Molecule{Name: m.Name}
	for _, a := range m.Atoms {
		if a.Name == "CA" && a.Element != "Ca" {
			out.Atoms = append(out.Atoms, a)
		}
	}
	if len(out.Atoms) == 0 {
		return m
	}
	for i := 1; i < len(out.Atoms); i++ {
		prev, cur := out.Atoms[i-1], out.Atoms[i]
		if prev.ChainID != cur.ChainID {
			continue
		}
		if prev.Position.DistanceTo(cur.Position) <= maxCALink {
			_ = out.AddBond(i-1, i)
		}
	}
	return out
}

// Colorize returns a copy of m with atom colours set by scheme.
func Colorize(m *molecule.Molecule, scheme ColorScheme) *molecule.Molecule {
	out := m.Translate(molecule.Vec3{})
	n := len(out.Atoms)
	for i := range out.Atoms {
		var t float64
		switch scheme {
		case PLDDT:
			t = (out.Atoms[i].BFactor - plddtMin) / (plddtMax - plddtMin)
		default:
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
		}
		t = math.Max(0, math.Min(1, t))
		if scheme != PLDDT {
			t = 1 - t
		}
		// Hue 0 is red, 240 is blue.
		out.Atoms[i].Color = molecule.ColorFromHSV(240*t, 1, 1)
	}
	return out
}
