package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/molview/internal/molecule"
)

// Params control how molecule units map to scene units.
type Params struct {
	Scale      float64
	AtomRadius float64
	BondWidth  float64
	BondColor  molecule.Color
}

func DefaultParams() Params {
	return Params{
		Scale:      75,
		AtomRadius: 25,
		BondWidth:  5,
		BondColor:  molecule.White,
	}
}

var up = molecule.Vec3{Y: 1}

// Build clears g and fills it with one sphere and one label per atom and one
// box per bond. The molecule is centred on its centroid first. On error the
// group is left empty.
func Build(g *Group, m *molecule.Molecule, p Params) error {
	g.Clear()
	if m == nil || len(m.Atoms) == 0 {
		return molecule.ErrNoAtoms
	}

	c := m.Centered()
	for _, a := range c.Atoms {
		pos := a.Position.Scale(p.Scale)
		g.AddMesh(Mesh{
			Shape:    Sphere,
			Position: pos,
			Scale:    molecule.Vec3{X: p.AtomRadius, Y: p.AtomRadius, Z: p.AtomRadius},
			Rotation: Identity(),
			Color:    a.Color,
		})
		g.AddLabel(Label{Text: a.Element, Position: pos, Color: a.Color})
	}

	for _, b := range c.Bonds {
		start := b.Start.Scale(p.Scale)
		end := b.End.Scale(p.Scale)
		mid := start.Lerp(end, 0.5)
		g.AddMesh(Mesh{
			Shape:    Box,
			Position: mid,
			Scale:    molecule.Vec3{X: p.BondWidth, Y: p.BondWidth, Z: start.DistanceTo(end)},
			Rotation: LookAt(mid, end, up),
			Color:    p.BondColor,
		})
	}
	return nil
}

// OpenFunc produces a molecule from a source such as a file path or URL.
type OpenFunc func(ctx context.Context, source string) (*molecule.Molecule, error)

// Load clears g, opens source on a separate goroutine and builds the result
// into g. Failures are logged and returned; g stays empty.
func Load(ctx context.Context, g *Group, source string, open OpenFunc, p Params) error {
	g.Clear()

	type result struct {
		m   *molecule.Molecule
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := open(ctx, source)
		done <- result{m, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		res.err = ctx.Err()
	case res = <-done:
	}
	if res.err == nil {
		res.err = Build(g, res.m, p)
	}
	if res.err != nil {
		slog.Error("error loading molecule", "source", source, "error", res.err)
		return fmt.Errorf("loading %s: %w", source, res.err)
	}
	slog.Debug("molecule loaded", "source", source, "atoms", g.Spheres(), "bonds", g.Boxes())
	return nil
}
