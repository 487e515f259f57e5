package render

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/san-kum/molview/internal/scene"
)

// SVG renders each frame as a standalone SVG document.
type SVG struct {
	mu            sync.Mutex
	width, height int
	doc           string
}

func NewSVG(w, h int) *SVG { return &SVG{width: w, height: h} }

func (v *SVG) SetSize(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = w, h
}

// Draw replaces the current document.
func (v *SVG) Draw(s *scene.Scene) error {
	v.mu.Lock()
	w, h := v.width, v.height
	v.mu.Unlock()

	doc := renderSVG(s, w, h)

	v.mu.Lock()
	v.doc = doc
	v.mu.Unlock()
	return nil
}

func (v *SVG) PixelSize() (w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func (v *SVG) String() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc
}

func (v *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, v.String())
	return int64(n), err
}

func renderSVG(s *scene.Scene, w, h int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<style>.%s{font:12px sans-serif;text-anchor:middle;dominant-baseline:central}</style>
<rect width="100%%" height="100%%" fill="%s"/>
<g>
`, w, h, w, h, scene.LabelClass, s.Background.Hex()))

	p := NewProjector(s, w, h)
	for _, it := range p.Items(s.Root) {
		switch it.Shape {
		case scene.Sphere:
			// Shade by the light reaching the side that faces the viewer.
			fill := s.Shade(it.Color, p.back)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, it.X1, it.Y1, it.Radius, fill.Hex()))
		case scene.Box:
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, it.X1, it.Y1, it.X2, it.Y2, it.Color.Hex(), 2*it.Radius))
		}
	}
	sb.WriteString("</g>\n<g>\n")

	for _, lb := range s.Root.Labels {
		x, y, _, ok := p.Project(lb.Position)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<text class="%s" x="%.1f" y="%.1f" fill="%s">%s</text>
`, scene.LabelClass, x, y, lb.Color.CSS(), html.EscapeString(lb.Text)))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
