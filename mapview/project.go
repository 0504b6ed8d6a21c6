package mapview

import (
	"math"

	"gioui.org/f32"
	"github.com/paulmach/orb"

	"github.com/olablt/gio-geomap/tiles"
)

// worldOrigin is the world pixel at the screen's top-left corner.
func (mv *MapView) worldOrigin() (float64, float64) {
	cx, cy := tiles.CalculateWorldCoordinates(mv.Center, mv.Zoom)
	return cx - float64(mv.size.X)/2, cy - float64(mv.size.Y)/2
}

// Project returns the screen position of ll.
func (mv *MapView) Project(ll tiles.LatLng) f32.Point {
	p := mv.projectPoint(ll.Point())
	return f32.Pt(float32(p.X()), float32(p.Y()))
}

// projectPoint maps (lng, lat) to screen pixels (x, y); it is used as an
// orb.Projection for whole geometries.
func (mv *MapView) projectPoint(p orb.Point) orb.Point {
	ox, oy := mv.worldOrigin()
	wx, wy := tiles.CalculateWorldCoordinates(tiles.FromPoint(p), mv.Zoom)
	return orb.Point{wx - ox, wy - oy}
}

// Unproject returns the geographic position under screen point pt.
func (mv *MapView) Unproject(pt f32.Point) tiles.LatLng {
	ox, oy := mv.worldOrigin()
	return tiles.WorldToLatLng(ox+float64(pt.X), oy+float64(pt.Y), mv.Zoom)
}

// Bounds returns the geographic extent currently on screen.
func (mv *MapView) Bounds() orb.Bound {
	sw := mv.Unproject(f32.Pt(0, float32(mv.size.Y)))
	ne := mv.Unproject(f32.Pt(float32(mv.size.X), 0))
	return orb.Bound{Min: sw.Point(), Max: ne.Point()}
}

// paddedBounds is Bounds grown by pad pixels on every side.
func (mv *MapView) paddedBounds(pad int) orb.Bound {
	p := float32(pad)
	sw := mv.Unproject(f32.Pt(-p, float32(mv.size.Y)+p))
	ne := mv.Unproject(f32.Pt(float32(mv.size.X)+p, -p))
	return orb.Bound{Min: sw.Point(), Max: ne.Point()}
}

// BoundsZoom returns the highest zoom at which b fits on screen, clamped
// to the map's zoom range.
func (mv *MapView) BoundsZoom(b orb.Bound) int {
	if mv.size.X <= 0 || mv.size.Y <= 0 {
		return mv.Zoom
	}
	nwX, nwY, seX, seY := projectBound(b, 0)
	scale := math.Min(float64(mv.size.X)/(seX-nwX), float64(mv.size.Y)/(seY-nwY))
	if math.IsInf(scale, 1) || math.IsNaN(scale) {
		return mv.MaxZoom
	}
	return mv.clampZoom(int(math.Floor(math.Log2(scale))))
}

// FitBounds zooms and centres the map so that b is entirely visible. The
// result depends only on b and the screen size, so repeating the call
// leaves the view unchanged.
func (mv *MapView) FitBounds(b orb.Bound) {
	zoom := mv.BoundsZoom(b)
	nwX, nwY, seX, seY := projectBound(b, zoom)
	mv.Center = tiles.WorldToLatLng((nwX+seX)/2, (nwY+seY)/2, zoom)
	mv.Zoom = zoom
	mv.Invalidate()
}

func projectBound(b orb.Bound, zoom int) (nwX, nwY, seX, seY float64) {
	nwX, nwY = tiles.CalculateWorldCoordinates(tiles.LatLng{Lat: b.Max.Lat(), Lng: b.Min.Lon()}, zoom)
	seX, seY = tiles.CalculateWorldCoordinates(tiles.LatLng{Lat: b.Min.Lat(), Lng: b.Max.Lon()}, zoom)
	return nwX, nwY, seX, seY
}
