// Package structure reads molecular structure files into [molecule.Molecule]
// values.
//
// Two formats are understood:
//
//   - PDB: fixed-column ATOM/HETATM records plus CONECT bonds
//   - PDBx/mmCIF: the first _atom_site loop, with bonds inferred from
//     covalent radii since mmCIF model files rarely list them
//
// Atoms are coloured with the CPK (Jmol) palette and labelled with their
// capitalised element symbol.
//
// [Open] accepts a local path or an http(s) URL and transparently handles
// gzip-compressed files ending in ".gz".
package structure
