package scene

import (
	"math"

	"github.com/san-kum/molview/internal/molecule"
)

// Camera is a perspective camera orbiting Target.
type Camera struct {
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position molecule.Vec3
	Target   molecule.Vec3
	Up       molecule.Vec3
}

const (
	MinDistance = 500.0
	MaxDistance = 2000.0
)

func NewCamera(aspect float64) *Camera {
	return &Camera{
		FOV:      70,
		Aspect:   aspect,
		Near:     1,
		Far:      5000,
		Position: molecule.Vec3{Z: 1000},
		Up:       molecule.Vec3{Y: 1},
	}
}

func (c *Camera) Distance() float64 { return c.Position.DistanceTo(c.Target) }

// SetDistance moves the camera along its view ray, clamped to
// [MinDistance, MaxDistance].
func (c *Camera) SetDistance(d float64) {
	d = math.Max(MinDistance, math.Min(MaxDistance, d))
	dir := c.Position.Sub(c.Target).Normalize()
	if dir.Length() == 0 {
		dir = molecule.Vec3{Z: 1}
	}
	c.Position = c.Target.Add(dir.Scale(d))
}

// Dolly multiplies the distance by factor.
func (c *Camera) Dolly(factor float64) { c.SetDistance(c.Distance() * factor) }

// Orbit rotates the camera about Target by yaw around Up and pitch around
// the camera's right axis.
func (c *Camera) Orbit(yaw, pitch float64) {
	offset := c.Position.Sub(c.Target)
	offset = AxisAngle(c.Up, yaw).Rotate(offset)
	right := c.Up.Cross(offset).Normalize()
	if right.Length() > 0 {
		q := AxisAngle(right, -pitch)
		offset = q.Rotate(offset)
		c.Up = q.Rotate(c.Up).Normalize()
	}
	c.Position = c.Target.Add(offset)
}

// Clamp enforces the distance limits after external changes.
func (c *Camera) Clamp() { c.SetDistance(c.Distance()) }

// Basis returns the camera's right, up and backward unit vectors.
func (c *Camera) Basis() (right, up, back molecule.Vec3) {
	back = c.Position.Sub(c.Target).Normalize()
	right = c.Up.Cross(back).Normalize()
	up = back.Cross(right)
	return right, up, back
}

// Light is a directional light shining from Direction towards the origin.
type Light struct {
	Color     molecule.Color
	Intensity float64
	Direction molecule.Vec3
}

// Scene is everything a surface needs to draw a frame.
type Scene struct {
	Background molecule.Color
	Camera     *Camera
	Lights     []Light
	Root       *Group
}

const Background = 0x050505

func New(aspect float64) *Scene {
	return &Scene{
		Background: molecule.ColorFromHex(Background),
		Camera:     NewCamera(aspect),
		Lights: []Light{
			{Color: molecule.White, Intensity: 2.5, Direction: molecule.Vec3{X: 1, Y: 1, Z: 1}},
			{Color: molecule.White, Intensity: 1.5, Direction: molecule.Vec3{X: -1, Y: -1, Z: 1}},
		},
		Root: NewGroup(),
	}
}

// Shade returns c lit by the scene lights for a surface normal n (world
// space). Light intensities are normalised so a fully lit face keeps its
// colour.
func (s *Scene) Shade(c molecule.Color, n molecule.Vec3) molecule.Color {
	n = n.Normalize()
	total, lit := 0.0, 0.0
	for _, l := range s.Lights {
		total += l.Intensity
		if d := n.Dot(l.Direction.Normalize()); d > 0 {
			lit += l.Intensity * d
		}
	}
	if total == 0 {
		return c
	}
	k := 0.25 + 0.75*lit/total
	return molecule.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

// Fit places the camera so a sphere of radius r around Target fills the
// view. The trackball distance limits do not apply.
func (c *Camera) Fit(r float64) {
	if r <= 0 {
		return
	}
	d := r / math.Sin(c.FOV*math.Pi/360)
	dir := c.Position.Sub(c.Target).Normalize()
	if dir.Length() == 0 {
		dir = molecule.Vec3{Z: 1}
	}
	c.Position = c.Target.Add(dir.Scale(d))
	c.Far = math.Max(c.Far, 2*d+r)
}
