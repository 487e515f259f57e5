// Package analysis provides geometric summaries of a molecule.
//
//   - [BondLengths] and [Summarize]: bond length distribution
//   - [RadialProfile]: atom counts by distance from the centroid
//   - [ElementCounts]: composition
//   - [ProjectionToASCII]: flat plot of atom positions on two axes
//
// The CLI plots these with asciigraph:
//
//	lengths := analysis.BondLengths(m)
//	fmt.Println(asciigraph.Plot(lengths))
package analysis
