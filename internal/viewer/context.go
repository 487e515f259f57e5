package viewer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/scene"
)

// Context is one ball-and-stick view.
type Context struct {
	mu     sync.RWMutex
	scene  *scene.Scene
	raster render.Surface
	labels render.Surface
	width  int
	height int

	open   scene.OpenFunc
	params scene.Params
	gen    atomic.Uint64

	last   time.Time
	spinMS float64
	paused bool
}

// NewContext creates a view drawing onto raster and labels. Either surface
// may be nil.
func NewContext(raster, labels render.Surface, open scene.OpenFunc, p scene.Params) *Context {
	return &Context{
		scene:  scene.New(1),
		raster: raster,
		labels: labels,
		open:   open,
		params: p,
	}
}

func (c *Context) Name() string { return "ballstick" }

// Resize resizes both surfaces and sets the camera aspect to the shape of
// the raster's pixel grid.
func (c *Context) Resize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = w, h
	surfaces := c.surfaces()
	for _, s := range surfaces {
		s.SetSize(w, h)
	}
	if len(surfaces) > 0 {
		c.scene.Camera.Aspect = render.Aspect(surfaces[0], w, h)
	} else if w > 0 && h > 0 {
		c.scene.Camera.Aspect = float64(w) / float64(h)
	}
}

func (c *Context) Size() (w, h int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

// Frame advances the animation to now and draws onto both surfaces.
func (c *Context) Frame(now time.Time) error {
	c.mu.Lock()
	if !c.last.IsZero() && !c.paused {
		c.spinMS += float64(now.Sub(c.last)) / float64(time.Millisecond)
	}
	c.last = now
	c.scene.Camera.Clamp()
	c.scene.Root.Spin(c.spinMS)
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.surfaces() {
		if err := s.Draw(c.scene); err != nil {
			return err
		}
	}
	return nil
}

// Render draws the current scene onto target.
func (c *Context) Render(target render.Surface) error {
	if target == nil {
		return ErrNoSurface
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return target.Draw(c.scene)
}

// Load replaces the displayed molecule with the one behind source. The
// view is cleared immediately. If another Load starts before this one
// finishes, this result is dropped and ErrStale returned.
func (c *Context) Load(ctx context.Context, source string) error {
	c.mu.Lock()
	token := c.gen.Add(1)
	c.scene.Root.Clear()
	c.mu.Unlock()

	g := scene.NewGroup()
	err := scene.Load(ctx, g, source, c.open, c.params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.gen.Load() {
		return fmt.Errorf("%w: %s", ErrStale, source)
	}
	if err != nil {
		return err
	}
	g.Rotation = c.scene.Root.Rotation
	c.scene.Root = g
	return nil
}

// Generation is the token of the most recent Load.
func (c *Context) Generation() uint64 { return c.gen.Load() }

// Snapshot returns a copy of the displayed group.
func (c *Context) Snapshot() *scene.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scene.Root.Clone()
}

// Orbit turns the camera around the molecule.
func (c *Context) Orbit(yaw, pitch float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Camera.Orbit(yaw, pitch)
}

// Dolly moves the camera closer (factor < 1) or further away.
func (c *Context) Dolly(factor float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Camera.Dolly(factor)
}

func (c *Context) Distance() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scene.Camera.Distance()
}

// TogglePause stops or resumes the spin and reports whether it is paused.
func (c *Context) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = !c.paused
	return c.paused
}

// Reset restores the initial camera and spin.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	aspect := c.scene.Camera.Aspect
	c.scene.Camera = scene.NewCamera(aspect)
	c.spinMS = 0
	c.scene.Root.Spin(0)
}

func (c *Context) surfaces() []render.Surface {
	out := make([]render.Surface, 0, 2)
	for _, s := range []render.Surface{c.raster, c.labels} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
