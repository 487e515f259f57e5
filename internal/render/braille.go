package render

import (
	"math"
	"sync"

	"github.com/san-kum/molview/internal/scene"
)

// Braille is the raster surface. Its size is given in terminal cells.
type Braille struct {
	mu     sync.Mutex
	canvas *Canvas
}

func NewBraille(cols, rows int) *Braille {
	return &Braille{canvas: NewCanvas(cols, rows)}
}

func (b *Braille) SetSize(cols, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canvas.Resize(cols, rows)
}

// Draw paints spheres as discs and bonds as lines, far to near.
func (b *Braille) Draw(s *scene.Scene) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.canvas
	c.Clear()
	if c.Width == 0 || c.Height == 0 {
		return nil
	}
	p := NewProjector(s, c.Width*2, c.Height*4)
	for _, it := range p.Items(s.Root) {
		switch it.Shape {
		case scene.Sphere:
			c.DrawDisc(round(it.X1), round(it.Y1), round(it.Radius))
		case scene.Box:
			c.DrawLine(round(it.X1), round(it.Y1), round(it.X2), round(it.Y2))
		}
	}
	return nil
}

func (b *Braille) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canvas.String()
}

// PixelSize is the dot grid: two dots across and four down per cell.
func (b *Braille) PixelSize() (w, h int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canvas.Width * 2, b.canvas.Height * 4
}

// Size returns the canvas size in cells.
func (b *Braille) Size() (cols, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canvas.Width, b.canvas.Height
}

func round(v float64) int { return int(math.Round(v)) }
