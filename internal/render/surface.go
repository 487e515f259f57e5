package render

import "github.com/san-kum/molview/internal/scene"

// Surface is anything a scene can be drawn onto.
type Surface interface {
	SetSize(w, h int)
	Draw(s *scene.Scene) error
}

// PixelSizer reports the pixel grid a surface projects onto. Cell based
// surfaces have more than one pixel per unit of SetSize.
type PixelSizer interface {
	PixelSize() (w, h int)
}

// Aspect is the width/height ratio of the pixels s projects onto when it
// has been sized w×h. Surfaces without PixelSize use w×h directly.
func Aspect(s Surface, w, h int) float64 {
	if ps, ok := s.(PixelSizer); ok {
		w, h = ps.PixelSize()
	}
	if w <= 0 || h <= 0 {
		return 1
	}
	return float64(w) / float64(h)
}
