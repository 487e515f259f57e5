// Package render draws a scene onto drawing surfaces.
//
// Surfaces:
//   - Braille: terminal raster built from Unicode braille cells
//   - Labels:  text overlay aligned with a Braille raster
//   - SVG:     standalone vector image
//   - Recorder: headless surface that only counts what it was asked to draw
//
// All surfaces share the Projector, which applies the root group rotation
// followed by the camera view and perspective projection.
package render
