package molecule

import (
	"fmt"
	"math"
)

// Color is an RGB triple with channels in [0, 1].
type Color struct {
	R, G, B float64
}

var (
	White = Color{1, 1, 1}
	Grey  = Color{0.5, 0.5, 0.5}
)

// ColorFromRGB8 converts 0..255 channels.
func ColorFromRGB8(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// ColorFromHex converts a 0xRRGGBB value.
func ColorFromHex(h uint32) Color {
	return ColorFromRGB8(uint8(h>>16), uint8(h>>8), uint8(h))
}

func (c Color) RGB8() (r, g, b uint8) {
	return channel8(c.R), channel8(c.G), channel8(c.B)
}

func (c Color) Hex() string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// CSS renders the colour the way label overlays expect it.
func (c Color) CSS() string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// Luma is the perceived brightness in [0, 1].
func (c Color) Luma() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func channel8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ColorFromHSV converts hue in degrees with saturation and value in [0, 1].
func ColorFromHSV(h, s, v float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return Color{r + m, g + m, b + m}
}
