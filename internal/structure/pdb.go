package structure

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

// ParsePDB reads ATOM, HETATM, CONECT and COMPND records. Everything else is
// ignored. Bonds listed more than once (CONECT records usually list each
// bond from both ends) are kept once.
func ParsePDB(r io.Reader) (*molecule.Molecule, error) {
	m := &molecule.Molecule{}
	serials := make(map[int]int)
	seen := make(map[[2]int]bool)
	var conect [][]int
	// Set after the first ENDMDL. CONECT records follow the last model, so
	// scanning continues.
	done := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) < 6 {
			line = pad(line, 6)
		}

		// The record name is always in the first six columns.
		switch record := strings.TrimSpace(line[0:6]); record {
		case "ATOM", "HETATM":
			if done {
				continue
			}
			atom, err := parseAtomRecord(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Record: record, Wrapped: err}
			}
			serials[atom.Serial] = len(m.Atoms)
			m.Atoms = append(m.Atoms, atom)
		case "CONECT":
			ids, err := parseConect(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Record: record, Wrapped: err}
			}
			conect = append(conect, ids)
		case "COMPND":
			if m.Name == "" {
				m.Name = compoundName(line)
			}
		case "ENDMDL":
			done = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return finishPDB(m, serials, seen, conect)
}

func finishPDB(m *molecule.Molecule, serials map[int]int, seen map[[2]int]bool, conect [][]int) (*molecule.Molecule, error) {
	if len(m.Atoms) == 0 {
		return nil, molecule.ErrNoAtoms
	}
	for _, ids := range conect {
		from, ok := serials[ids[0]]
		if !ok {
			continue
		}
		for _, id := range ids[1:] {
			to, ok := serials[id]
			if !ok || to == from {
				continue
			}
			key := [2]int{from, to}
			if to < from {
				key = [2]int{to, from}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			if err := m.AddBond(key[0], key[1]); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// parseAtomRecord slices an ATOM/HETATM line by the PDB fixed columns.
func parseAtomRecord(line string) (molecule.Atom, error) {
	line = pad(line, 80)

	x, err := parseFloatField(line[30:38], "x")
	if err != nil {
		return molecule.Atom{}, err
	}
	y, err := parseFloatField(line[38:46], "y")
	if err != nil {
		return molecule.Atom{}, err
	}
	z, err := parseFloatField(line[46:54], "z")
	if err != nil {
		return molecule.Atom{}, err
	}

	serial, _ := strconv.Atoi(strings.TrimSpace(line[6:11]))
	resSeq, _ := strconv.Atoi(strings.TrimSpace(line[22:26]))
	bfactor, _ := strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)

	name := line[12:16]
	element := strings.ToLower(strings.TrimSpace(line[76:78]))
	if element == "" {
		element = elementFromName(name)
	}

	return molecule.Atom{
		Serial:   serial,
		Name:     strings.TrimSpace(name),
		Element:  Capitalize(element),
		ResName:  strings.TrimSpace(line[17:20]),
		ChainID:  strings.TrimSpace(line[21:22]),
		ResSeq:   resSeq,
		BFactor:  bfactor,
		Position: molecule.Vec3{X: x, Y: y, Z: z},
		Color:    ElementColor(element),
	}, nil
}

// parseConect returns the source serial followed by up to four bonded
// serials.
func parseConect(line string) ([]int, error) {
	line = pad(line, 31)
	src, err := strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		return nil, fmt.Errorf("bad source serial %q", line[6:11])
	}
	ids := []int{src}
	for start := 11; start+5 <= 31; start += 5 {
		field := strings.TrimSpace(line[start : start+5])
		if field == "" {
			continue
		}
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad bonded serial %q", field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func compoundName(line string) string {
	text := strings.TrimSpace(pad(line, 10)[10:])
	text = strings.TrimPrefix(text, "MOLECULE:")
	return strings.TrimSuffix(strings.TrimSpace(text), ";")
}

func parseFloatField(field, axis string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s coordinate %q", axis, field)
	}
	return v, nil
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
