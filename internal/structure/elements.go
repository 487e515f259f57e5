package structure

import (
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

// cpk is the Jmol CPK palette, keyed by lower-case element symbol.
var cpk = map[string][3]uint8{
	"h": {255, 255, 255}, "he": {217, 255, 255}, "li": {204, 128, 255},
	"be": {194, 255, 0}, "b": {255, 181, 181}, "c": {144, 144, 144},
	"n": {48, 80, 248}, "o": {255, 13, 13}, "f": {144, 224, 80},
	"ne": {179, 227, 245}, "na": {171, 92, 242}, "mg": {138, 255, 0},
	"al": {191, 166, 166}, "si": {240, 200, 160}, "p": {255, 128, 0},
	"s": {255, 255, 48}, "cl": {31, 240, 31}, "ar": {128, 209, 227},
	"k": {143, 64, 212}, "ca": {61, 255, 0}, "ti": {191, 194, 199},
	"cr": {138, 153, 199}, "mn": {156, 122, 199}, "fe": {224, 102, 51},
	"co": {240, 144, 160}, "ni": {80, 208, 80}, "cu": {200, 128, 51},
	"zn": {125, 128, 176}, "se": {255, 161, 0}, "br": {166, 41, 41},
	"i": {148, 0, 148}, "au": {255, 209, 35}, "hg": {184, 184, 208},
}

// covalent radii in angstrom.
var covalent = map[string]float64{
	"h": 0.31, "b": 0.84, "c": 0.76, "n": 0.71, "o": 0.66, "f": 0.57,
	"na": 1.66, "mg": 1.41, "si": 1.11, "p": 1.07, "s": 1.05, "cl": 1.02,
	"k": 2.03, "ca": 1.76, "fe": 1.32, "cu": 1.32, "zn": 1.22, "se": 1.20,
	"br": 1.20, "i": 1.39,
}

const defaultCovalent = 0.77

// ElementColor returns the CPK colour for an element symbol (any case).
// Unknown elements are grey.
func ElementColor(symbol string) molecule.Color {
	rgb, ok := cpk[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return molecule.Grey
	}
	return molecule.ColorFromRGB8(rgb[0], rgb[1], rgb[2])
}

// CovalentRadius returns the radius used for bond inference.
func CovalentRadius(symbol string) float64 {
	if r, ok := covalent[strings.ToLower(strings.TrimSpace(symbol))]; ok {
		return r
	}
	return defaultCovalent
}

// Capitalize normalises an element symbol for display: "CL" -> "Cl".
func Capitalize(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// elementFromName guesses the element from a PDB atom name such as " CA "
// or "HG21" when the element columns are blank.
func elementFromName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	// Two-letter elements are right-justified into columns 13-14.
	if len(name) >= 2 && name[0] != ' ' && !isDigit(name[0]) {
		two := strings.ToLower(name[:2])
		if _, ok := cpk[two]; ok && two != "ca" && two != "hg" {
			return two
		}
	}
	for i := 0; i < len(trimmed); i++ {
		if !isDigit(trimmed[i]) {
			return strings.ToLower(trimmed[i : i+1])
		}
	}
	return ""
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
