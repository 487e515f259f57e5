package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

// BondLengths returns the length of each bond in ångström, in bond order.
func BondLengths(m *molecule.Molecule) []float64 {
	out := make([]float64, len(m.Bonds))
	for i, b := range m.Bonds {
		out[i] = b.Length()
	}
	return out
}

type Summary struct {
	Count          int
	Min, Max, Mean float64
	StdDev         float64
}

// Summarize returns basic statistics of values. An empty slice yields the
// zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(values), Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
	}
	s.Mean = sum / float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - s.Mean) * (v - s.Mean)
	}
	s.StdDev = math.Sqrt(variance / float64(len(values)))
	return s
}

// RadialProfile counts atoms in bins equal-width shells around the
// centroid, out to the furthest atom. It also returns the shell width.
func RadialProfile(m *molecule.Molecule, bins int) ([]float64, float64) {
	if bins <= 0 || len(m.Atoms) == 0 {
		return nil, 0
	}
	c := m.Centroid()
	dists := make([]float64, len(m.Atoms))
	maxDist := 0.0
	for i, a := range m.Atoms {
		dists[i] = a.Position.DistanceTo(c)
		maxDist = math.Max(maxDist, dists[i])
	}

	counts := make([]float64, bins)
	width := maxDist / float64(bins)
	for _, d := range dists {
		idx := bins - 1
		if width > 0 {
			idx = min(int(d/width), bins-1)
		}
		counts[idx]++
	}
	return counts, width
}

type ElementCount struct {
	Element string
	Count   int
}

// ElementCounts returns atom counts per element, most common first and
// alphabetical among ties.
func ElementCounts(m *molecule.Molecule) []ElementCount {
	byElement := make(map[string]int)
	for _, a := range m.Atoms {
		byElement[a.Element]++
	}
	out := make([]ElementCount, 0, len(byElement))
	for e, n := range byElement {
		out = append(out, ElementCount{e, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Element < out[j].Element
	})
	return out
}

// Formula renders counts in Hill order: C, H, then the rest alphabetically.
func Formula(counts []ElementCount) string {
	sorted := append([]ElementCount(nil), counts...)
	rank := func(e string) int {
		switch e {
		case "C":
			return 0
		case "H":
			return 1
		}
		return 2
	}
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := rank(sorted[i].Element), rank(sorted[j].Element)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Element < sorted[j].Element
	})

	var sb strings.Builder
	for _, c := range sorted {
		sb.WriteString(c.Element)
		if c.Count > 1 {
			sb.WriteString(fmt.Sprint(c.Count))
		}
	}
	return sb.String()
}

// ProjectionToASCII plots atoms on the plane of two axes ("xy", "xz" or
// "yz"), drawing each atom with the first letter of its element.
func ProjectionToASCII(m *molecule.Molecule, axes string, width, height int) string {
	if len(m.Atoms) == 0 || width < 2 || height < 2 {
		return ""
	}
	pick := axisPicker(axes)

	// Find bounds
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, a := range m.Atoms {
		x, y := pick(a.Position)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, a := range m.Atoms {
		x, y := pick(a.Position)
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		mark := '•'
		if a.Element != "" {
			mark = []rune(a.Element)[0]
		}
		canvas[row][col] = mark
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func axisPicker(axes string) func(molecule.Vec3) (float64, float64) {
	switch axes {
	case "xz":
		return func(v molecule.Vec3) (float64, float64) { return v.X, v.Z }
	case "yz":
		return func(v molecule.Vec3) (float64, float64) { return v.Y, v.Z }
	}
	return func(v molecule.Vec3) (float64, float64) { return v.X, v.Y }
}
