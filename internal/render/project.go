package render

import (
	"math"
	"sort"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/scene"
)

// Projector maps world positions to screen pixels for one frame.
type Projector struct {
	Width, Height float64

	rot             scene.Quat
	eye             molecule.Vec3
	right, up, back molecule.Vec3
	near, far       float64
	focalX, focalY  float64
}

// NewProjector projects s onto a w×h pixel grid using the camera aspect.
// A camera without an aspect takes the grid's.
func NewProjector(s *scene.Scene, w, h int) *Projector {
	cam := s.Camera
	right, up, back := cam.Basis()
	f := 1 / math.Tan(cam.FOV*math.Pi/360)
	aspect := cam.Aspect
	if aspect <= 0 {
		aspect = float64(w) / math.Max(1, float64(h))
	}
	return &Projector{
		Width:  float64(w),
		Height: float64(h),
		rot:    s.Root.Rotation.Quat(),
		eye:    cam.Position,
		right:  right,
		up:     up,
		back:   back,
		near:   cam.Near,
		far:    cam.Far,
		focalX: f / aspect,
		focalY: f,
	}
}

// Project returns screen coordinates and the distance in front of the
// camera. ok is false when p lies outside the near/far range.
func (p *Projector) Project(v molecule.Vec3) (x, y, depth float64, ok bool) {
	rel := p.rot.Rotate(v).Sub(p.eye)
	depth = -rel.Dot(p.back)
	if depth < p.near || depth > p.far {
		return 0, 0, depth, false
	}
	ndcX := p.focalX * rel.Dot(p.right) / depth
	ndcY := p.focalY * rel.Dot(p.up) / depth
	x = (ndcX + 1) / 2 * p.Width
	y = (1 - ndcY) / 2 * p.Height
	return x, y, depth, true
}

// Radius is the on-screen size of a world length r at depth.
func (p *Projector) Radius(r, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return r * p.focalY / depth * p.Height / 2
}

// Item is a projected mesh ready for painting.
type Item struct {
	Shape          scene.Shape
	X1, Y1, X2, Y2 float64
	Radius         float64
	Depth          float64
	Color          molecule.Color
}

// Items projects every mesh of the root group and sorts them far to near.
func (p *Projector) Items(g *scene.Group) []Item {
	items := make([]Item, 0, len(g.Meshes))
	for _, m := range g.Meshes {
		switch m.Shape {
		case scene.Sphere:
			x, y, d, ok := p.Project(m.Position)
			if !ok {
				continue
			}
			items = append(items, Item{
				Shape: scene.Sphere, X1: x, Y1: y, X2: x, Y2: y,
				Radius: p.Radius(m.Scale.X, d), Depth: d, Color: m.Color,
			})
		case scene.Box:
			half := m.Rotation.Rotate(molecule.Vec3{Z: m.Scale.Z / 2})
			x1, y1, d1, ok1 := p.Project(m.Position.Sub(half))
			x2, y2, d2, ok2 := p.Project(m.Position.Add(half))
			if !ok1 || !ok2 {
				continue
			}
			d := (d1 + d2) / 2
			items = append(items, Item{
				Shape: scene.Box, X1: x1, Y1: y1, X2: x2, Y2: y2,
				Radius: p.Radius(m.Scale.X/2, d), Depth: d, Color: m.Color,
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Depth > items[j].Depth })
	return items
}
