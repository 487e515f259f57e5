package structure

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

// ParseCIF reads the first _atom_site loop of a PDBx/mmCIF file. Only the
// first model is kept. Bonds are inferred with InferBonds.
func ParseCIF(r io.Reader) (*molecule.Molecule, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	m := &molecule.Molecule{}
	var (
		lineNo      int
		inLoop      bool
		rowsStarted bool
		inText      bool
		headers     []string
		pending     []string
		site        *atomSiteColumns
		firstModel  string
	)

	flush := func() error {
		if site == nil {
			return nil
		}
		for len(pending) >= len(headers) {
			row := pending[:len(headers)]
			pending = pending[len(headers):]
			if firstModel == "" {
				firstModel = site.get(row, site.model)
			}
			if model := site.get(row, site.model); model != "" && model != firstModel {
				continue
			}
			atom, err := site.atom(row)
			if err != nil {
				return &ParseError{Line: lineNo, Record: "_atom_site", Wrapped: err}
			}
			m.Atoms = append(m.Atoms, atom)
		}
		return nil
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		// Semicolon-delimited text fields never belong to _atom_site.
		if strings.HasPrefix(raw, ";") {
			inText = !inText
			continue
		}
		if inText {
			continue
		}
		line := strings.TrimSpace(raw)

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			if site != nil {
				if err := flush(); err != nil {
					return nil, err
				}
				return finishCIF(m)
			}
			inLoop = false
			continue
		case line == "loop_":
			if site != nil {
				if err := flush(); err != nil {
					return nil, err
				}
				return finishCIF(m)
			}
			inLoop, rowsStarted, headers = true, false, nil
			continue
		case strings.HasPrefix(line, "_"):
			if inLoop && !rowsStarted {
				headers = append(headers, strings.Fields(line)[0])
				continue
			}
			if site != nil {
				if err := flush(); err != nil {
					return nil, err
				}
				return finishCIF(m)
			}
			inLoop = false
			if m.Name == "" {
				m.Name = singleValue(line, "_entry.id")
			}
			continue
		case strings.HasPrefix(line, "data_"):
			if m.Name == "" {
				m.Name = strings.TrimPrefix(line, "data_")
			}
			continue
		}

		if !inLoop {
			continue
		}
		rowsStarted = true
		if site == nil {
			if len(headers) == 0 || !strings.HasPrefix(headers[0], "_atom_site.") {
				// Rows of some other loop.
				continue
			}
			cols, err := newAtomSiteColumns(headers)
			if err != nil {
				return nil, err
			}
			site = cols
		}
		tokens, err := tokenize(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Record: "_atom_site", Wrapped: err}
		}
		pending = append(pending, tokens...)
		if err := flush(); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if site == nil {
		return nil, ErrNoAtomSite
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return finishCIF(m)
}

func finishCIF(m *molecule.Molecule) (*molecule.Molecule, error) {
	if len(m.Atoms) == 0 {
		return nil, molecule.ErrNoAtoms
	}
	InferBonds(m)
	return m, nil
}

func singleValue(line, key string) string {
	fields := strings.Fields(line)
	if len(fields) >= 2 && fields[0] == key {
		return strings.Trim(fields[1], `'"`)
	}
	return ""
}

// atomSiteColumns maps the _atom_site items we use to row offsets. Missing
// optional items are -1.
type atomSiteColumns struct {
	id, element, atomName, resName, chain, resSeq int
	x, y, z, bfactor, model                       int
}

func newAtomSiteColumns(headers []string) (*atomSiteColumns, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimPrefix(h, "_atom_site.")] = i
	}
	find := func(names ...string) int {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i
			}
		}
		return -1
	}
	c := &atomSiteColumns{
		id:       find("id"),
		element:  find("type_symbol"),
		atomName: find("label_atom_id", "auth_atom_id"),
		resName:  find("label_comp_id", "auth_comp_id"),
		chain:    find("auth_asym_id", "label_asym_id"),
		resSeq:   find("label_seq_id", "auth_seq_id"),
		x:        find("Cartn_x"),
		y:        find("Cartn_y"),
		z:        find("Cartn_z"),
		bfactor:  find("B_iso_or_equiv"),
		model:    find("pdbx_PDB_model_num"),
	}
	if c.x < 0 || c.y < 0 || c.z < 0 {
		return nil, fmt.Errorf("%w: missing Cartn_x/y/z", ErrNoAtomSite)
	}
	return c, nil
}

func (c *atomSiteColumns) get(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	v := row[i]
	if v == "?" || v == "." {
		return ""
	}
	return v
}

func (c *atomSiteColumns) atom(row []string) (molecule.Atom, error) {
	var pos [3]float64
	for k, col := range [3]int{c.x, c.y, c.z} {
		v, err := strconv.ParseFloat(c.get(row, col), 64)
		if err != nil {
			return molecule.Atom{}, fmt.Errorf("bad coordinate %q", c.get(row, col))
		}
		pos[k] = v
	}
	serial, _ := strconv.Atoi(c.get(row, c.id))
	resSeq, _ := strconv.Atoi(c.get(row, c.resSeq))
	bfactor, _ := strconv.ParseFloat(c.get(row, c.bfactor), 64)

	name := c.get(row, c.atomName)
	element := strings.ToLower(c.get(row, c.element))
	if element == "" {
		element = elementFromName(" " + name)
	}
	return molecule.Atom{
		Serial:   serial,
		Name:     name,
		Element:  Capitalize(element),
		ResName:  c.get(row, c.resName),
		ChainID:  c.get(row, c.chain),
		ResSeq:   resSeq,
		BFactor:  bfactor,
		Position: molecule.Vec3{X: pos[0], Y: pos[1], Z: pos[2]},
		Color:    ElementColor(element),
	}, nil
}

// tokenize splits a CIF data line, honouring single and double quotes.
// A quote only closes a value when followed by whitespace or end of line.
func tokenize(line string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		if q := line[i]; q == '\'' || q == '"' {
			j := i + 1
			for {
				k := strings.IndexByte(line[j:], q)
				if k < 0 {
					return nil, fmt.Errorf("unterminated quote at column %d", i)
				}
				j += k
				if j+1 >= len(line) || line[j+1] == ' ' || line[j+1] == '\t' {
					break
				}
				j++
			}
			tokens = append(tokens, line[i+1:j])
			i = j + 1
			continue
		}
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		tokens = append(tokens, line[i:j])
		i = j
	}
	return tokens, nil
}
