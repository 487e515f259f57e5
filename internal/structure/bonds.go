package structure

import (
	"sort"
	"sync"

	"github.com/san-kum/molview/internal/molecule"
)

// bondTolerance is added to the covalent radius sum.
const bondTolerance = 0.45

// minBondLength rejects overlapping (alternate location) atoms.
const minBondLength = 0.4

// InferBonds replaces m.Bonds with bonds between every pair of atoms closer
// than the sum of their covalent radii plus a tolerance.
func InferBonds(m *molecule.Molecule) {
	n := len(m.Atoms)
	radii := make([]float64, n)
	for i, a := range m.Atoms {
		radii[i] = CovalentRadius(a.Element)
	}

	var (
		mu    sync.Mutex
		pairs [][2]int
	)
	parallelStride(n, rowWorkers(n, 256), func(first, stride int) {
		var found [][2]int
		for i := first; i < n; i += stride {
			pi := m.Atoms[i].Position
			for j := i + 1; j < n; j++ {
				d := pi.DistanceTo(m.Atoms[j].Position)
				if d > minBondLength && d < radii[i]+radii[j]+bondTolerance {
					found = append(found, [2]int{i, j})
				}
			}
		}
		mu.Lock()
		pairs = append(pairs, found...)
		mu.Unlock()
	})
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})

	m.Bonds = m.Bonds[:0]
	for _, p := range pairs {
		m.Bonds = append(m.Bonds, molecule.Bond{
			I:     p[0],
			J:     p[1],
			Start: m.Atoms[p[0]].Position,
			End:   m.Atoms[p[1]].Position,
		})
	}
}
