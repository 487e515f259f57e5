// Package molecule provides the parsed-structure data model shared by the
// parsers, the geometry builder and the renderers.
//
//   - [Vec3]: 3D vector with the usual arithmetic
//   - [Color]: RGB colour with channels in [0, 1]
//   - [Atom], [Bond]: immutable records produced by a structure parser
//   - [Molecule]: the atom and bond sets of one structure file
//
// # Centering
//
// [Molecule.Centered] translates atoms and bond endpoints by the negated
// centroid so the molecule sits at the origin before it is scaled into a
// scene.
package molecule
