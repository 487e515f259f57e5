// Package scene turns a parsed molecule into renderable geometry.
//
// A Group holds spheres for atoms, boxes for bonds and one text label per
// atom. Build fills a group from a molecule centred at its centroid and
// scaled into scene units. A Scene wraps the root group together with the
// camera, lights and background used by the render surfaces.
package scene
