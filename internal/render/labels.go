package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/scene"
)

// Placed is a label positioned on the cell grid.
type Placed struct {
	Col, Row int
	Text     string
	Color    molecule.Color
	Depth    float64
}

// Labels is the text overlay surface. It shares the cell grid of a Braille
// surface of the same size.
type Labels struct {
	mu         sync.Mutex
	cols, rows int
	placed     []Placed
}

func NewLabels(cols, rows int) *Labels { return &Labels{cols: cols, rows: rows} }

func (l *Labels) SetSize(cols, rows int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cols, l.rows = cols, rows
	l.placed = l.placed[:0]
}

// PixelSize matches Braille so labels land on the dots they name.
func (l *Labels) PixelSize() (w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cols * 2, l.rows * 4
}

// Draw positions each label centred on its projected anchor. Nearer labels
// win where two overlap.
func (l *Labels) Draw(s *scene.Scene) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.placed = l.placed[:0]
	if l.cols == 0 || l.rows == 0 {
		return nil
	}
	p := NewProjector(s, l.cols*2, l.rows*4)
	for _, lb := range s.Root.Labels {
		x, y, d, ok := p.Project(lb.Position)
		if !ok || lb.Text == "" {
			continue
		}
		col := int(x/2) - len(lb.Text)/2
		row := int(y / 4)
		if row < 0 || row >= l.rows || col+len(lb.Text) <= 0 || col >= l.cols {
			continue
		}
		l.placed = append(l.placed, Placed{Col: col, Row: row, Text: lb.Text, Color: lb.Color, Depth: d})
	}
	sort.SliceStable(l.placed, func(i, j int) bool { return l.placed[i].Depth > l.placed[j].Depth })
	return nil
}

// Placed returns the labels positioned by the last Draw, far to near.
func (l *Labels) Placed() []Placed {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Placed(nil), l.placed...)
}

// Compose overlays the labels onto a raster produced by Braille.String.
func (l *Labels) Compose(raster string) string {
	return l.ComposeStyled(raster, nil)
}

// ComposeStyled is Compose with style applied to every run of label text.
func (l *Labels) ComposeStyled(raster string, style func(text string, c molecule.Color) string) string {
	placed := l.Placed()
	lines := strings.Split(strings.TrimSuffix(raster, "\n"), "\n")

	type cell struct {
		r     rune
		label int // index into placed, -1 for raster
	}
	grid := make([][]cell, len(lines))
	for i, line := range lines {
		for _, r := range line {
			grid[i] = append(grid[i], cell{r, -1})
		}
	}
	for idx, pl := range placed {
		if pl.Row >= len(grid) {
			continue
		}
		row := grid[pl.Row]
		for i, r := range pl.Text {
			if c := pl.Col + i; c >= 0 && c < len(row) {
				row[c] = cell{r, idx}
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for i := 0; i < len(row); {
			j := i + 1
			for j < len(row) && row[j].label == row[i].label {
				j++
			}
			run := make([]rune, 0, j-i)
			for _, c := range row[i:j] {
				run = append(run, c.r)
			}
			if row[i].label >= 0 && style != nil {
				b.WriteString(style(string(run), placed[row[i].label].Color))
			} else {
				b.WriteString(string(run))
			}
			i = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}
