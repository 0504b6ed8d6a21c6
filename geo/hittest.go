package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// Project returns a copy of g with every position mapped through proj.
// The source geometry is left untouched.
func Project(g orb.Geometry, proj orb.Projection) orb.Geometry {
	return project.Geometry(orb.Clone(g), proj)
}

// Hit reports whether pt touches g, both in the same planar (screen)
// space. Lines and outlines count within tolerance; polygon interiors
// count only when filled is set.
func Hit(g orb.Geometry, pt orb.Point, tolerance float64, filled bool) bool {
	switch g := g.(type) {
	case orb.Polygon:
		if filled && planar.PolygonContains(g, pt) {
			return true
		}
	case orb.MultiPolygon:
		if filled && planar.MultiPolygonContains(g, pt) {
			return true
		}
	}
	return planar.DistanceFrom(g, pt) <= tolerance
}
