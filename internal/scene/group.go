package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/molview/internal/molecule"
)

type Shape int

const (
	Sphere Shape = iota
	Box
)

func (s Shape) String() string {
	switch s {
	case Sphere:
		return "sphere"
	case Box:
		return "box"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	switch string(b) {
	case "sphere":
		*s = Sphere
	case "box":
		*s = Box
	default:
		return fmt.Errorf("unknown shape: %s", b)
	}
	return nil
}

// Mesh is a unit sphere or unit box placed in the group. Scale holds the
// sphere radius (uniform) or the box extents.
type Mesh struct {
	Shape    Shape          `json:"shape"`
	Position molecule.Vec3  `json:"position"`
	Scale    molecule.Vec3  `json:"scale"`
	Rotation Quat           `json:"rotation"`
	Color    molecule.Color `json:"color"`
}

// Label is a text overlay element with CSS class LabelClass.
type Label struct {
	Text     string         `json:"text"`
	Position molecule.Vec3  `json:"position"`
	Color    molecule.Color `json:"color"`
}

const LabelClass = "label"

// Euler holds the group's spin angles in radians.
type Euler struct {
	X, Y float64
}

// Quat returns the XYZ-ordered rotation, Rx·Ry.
func (e Euler) Quat() Quat {
	qx := AxisAngle(molecule.Vec3{X: 1}, e.X)
	qy := AxisAngle(molecule.Vec3{Y: 1}, e.Y)
	return qx.Mul(qy)
}

// Group is the container of a built molecule.
type Group struct {
	Meshes   []Mesh  `json:"meshes"`
	Labels   []Label `json:"labels"`
	Rotation Euler   `json:"rotation"`
}

func NewGroup() *Group { return &Group{} }

// Clear removes every child but keeps the rotation.
func (g *Group) Clear() {
	g.Meshes = g.Meshes[:0]
	g.Labels = g.Labels[:0]
}

func (g *Group) AddMesh(m Mesh)   { g.Meshes = append(g.Meshes, m) }
func (g *Group) AddLabel(l Label) { g.Labels = append(g.Labels, l) }

// Len is the number of children.
func (g *Group) Len() int { return len(g.Meshes) + len(g.Labels) }

func (g *Group) Spheres() int { return g.count(Sphere) }
func (g *Group) Boxes() int   { return g.count(Box) }

func (g *Group) count(s Shape) int {
	n := 0
	for _, m := range g.Meshes {
		if m.Shape == s {
			n++
		}
	}
	return n
}

// Spin sets the rotation for the given time since start, in milliseconds.
func (g *Group) Spin(ms float64) {
	g.Rotation.X = ms * SpinRate
	g.Rotation.Y = g.Rotation.X * 0.7
}

// SpinRate is the x-axis rotation in radians per millisecond.
const SpinRate = 0.0004

// Clone returns a deep copy.
func (g *Group) Clone() *Group {
	out := &Group{Rotation: g.Rotation}
	out.Meshes = append([]Mesh(nil), g.Meshes...)
	out.Labels = append([]Label(nil), g.Labels...)
	return out
}

// Bounds returns the radius of the smallest origin-centred sphere that
// contains every child.
func (g *Group) Bounds() float64 {
	r := 0.0
	for _, m := range g.Meshes {
		ext := m.Scale.X
		if m.Shape == Box {
			ext = m.Scale.Z / 2
		}
		r = math.Max(r, m.Position.Length()+ext)
	}
	for _, l := range g.Labels {
		r = math.Max(r, l.Position.Length())
	}
	return r
}
