// Package viewer owns the state behind one molecule view.
//
// A Context bundles the scene, the raster and label surfaces, the viewport
// size and a load generation counter. Several contexts can live in one
// process. Context also satisfies Backend, the common interface shared
// with the protein structure widget, so callers can pick a viewing
// backend by name from a Registry.
package viewer
