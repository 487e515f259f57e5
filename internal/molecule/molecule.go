package molecule

import "fmt"

// Atom is one parsed atom. Element holds the display label.
type Atom struct {
	Serial   int
	Name     string
	Element  string
	ResName  string
	ChainID  string
	ResSeq   int
	BFactor  float64
	Position Vec3
	Color    Color
}

// Bond joins atoms I and J. Start and End are copies of their positions.
type Bond struct {
	I, J       int
	Start, End Vec3
}

func (b Bond) Length() float64 { return b.Start.DistanceTo(b.End) }

type Molecule struct {
	Name  string
	Atoms []Atom
	Bonds []Bond
}

// AddBond appends a bond between atom indices i and j.
func (m *Molecule) AddBond(i, j int) error {
	if i < 0 || j < 0 || i >= len(m.Atoms) || j >= len(m.Atoms) {
		return fmt.Errorf("%w: %d-%d (have %d atoms)", ErrBadBond, i, j, len(m.Atoms))
	}
	m.Bonds = append(m.Bonds, Bond{
		I:     i,
		J:     j,
		Start: m.Atoms[i].Position,
		End:   m.Atoms[j].Position,
	})
	return nil
}

// Centroid returns the mean atom position, or the zero vector for an empty
// molecule.
func (m *Molecule) Centroid() Vec3 {
	if m == nil || len(m.Atoms) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, a := range m.Atoms {
		sum = sum.Add(a.Position)
	}
	return sum.Scale(1 / float64(len(m.Atoms)))
}

// Translate returns a copy with every atom and bond endpoint moved by d.
func (m *Molecule) Translate(d Vec3) *Molecule {
	out := &Molecule{
		Name:  m.Name,
		Atoms: make([]Atom, len(m.Atoms)),
		Bonds: make([]Bond, len(m.Bonds)),
	}
	for i, a := range m.Atoms {
		a.Position = a.Position.Add(d)
		out.Atoms[i] = a
	}
	for i, b := range m.Bonds {
		b.Start = b.Start.Add(d)
		b.End = b.End.Add(d)
		out.Bonds[i] = b
	}
	return out
}

// Centered returns a copy translated so its centroid is the origin.
func (m *Molecule) Centered() *Molecule {
	return m.Translate(m.Centroid().Negate())
}

// BondEndpoints flattens the bonds into start/end pairs.
func (m *Molecule) BondEndpoints() []Vec3 {
	pts := make([]Vec3, 0, 2*len(m.Bonds))
	for _, b := range m.Bonds {
		pts = append(pts, b.Start, b.End)
	}
	return pts
}

// Validate reports ErrNoAtoms for an empty molecule and rejects non-finite
// coordinates.
func (m *Molecule) Validate() error {
	if m == nil || len(m.Atoms) == 0 {
		return ErrNoAtoms
	}
	for i, a := range m.Atoms {
		if !a.Position.IsFinite() {
			return fmt.Errorf("molecule: atom %d has non-finite position", i)
		}
	}
	return nil
}

// Elements returns the element label of each atom in order.
func (m *Molecule) Elements() []string {
	out := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		out[i] = a.Element
	}
	return out
}
