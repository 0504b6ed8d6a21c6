package mapview

import (
	"image"
	"math"

	"gioui.org/f32"
	"github.com/paulmach/orb"

	"github.com/olablt/gio-geomap/geo"
	"github.com/olablt/gio-geomap/layers"
	"github.com/olablt/gio-geomap/tiles"
)

// hitSlop widens thin strokes so they stay easy to hover.
const hitSlop = 3

// Hit is the topmost item under a screen point. Feature is set for
// anything that came from a GeoJSON layer, Marker for point items.
type Hit struct {
	Layer   layers.Layer
	Feature *layers.FeatureLayer
	Marker  *layers.Marker
}

type openPopup struct {
	popup  *layers.Popup
	at     tiles.LatLng
	offset image.Point
	owner  layers.Layer
}

// HitTest finds the topmost marker or feature at pos. Markers are above
// paths; within each group later draw order wins.
func (mv *MapView) HitTest(pos f32.Point) (Hit, bool) {
	markers := mv.markerItems()
	for i := len(markers) - 1; i >= 0; i-- {
		it := markers[i]
		if mv.markerRect(it.marker).Overlaps(pixelAt(pos)) {
			return Hit{Layer: it.layer, Feature: it.feature, Marker: it.marker}, true
		}
	}

	pt := orb.Point{float64(pos.X), float64(pos.Y)}
	paths := mv.pathItems()
	for i := len(paths) - 1; i >= 0; i-- {
		fl := paths[i]
		st := fl.Style()
		screen := geo.Project(fl.Feature.Geometry, mv.projectPoint)
		if geo.Hit(screen, pt, float64(st.Weight)/2+hitSlop, st.Fill) {
			return Hit{Layer: fl.Layer(), Feature: fl}, true
		}
	}
	return Hit{}, false
}

// PointerMove dispatches MouseOut/MouseOver when the feature under the
// pointer changes.
func (mv *MapView) PointerMove(pos f32.Point) {
	h, ok := mv.HitTest(pos)
	mv.hoverHit = ok
	mv.setHovered(h.Feature, mv.Unproject(pos))
}

// PointerLeave ends any hover, as when the pointer leaves the map.
func (mv *MapView) PointerLeave() {
	mv.hoverHit = false
	mv.setHovered(nil, mv.Center)
}

func (mv *MapView) setHovered(fl *layers.FeatureLayer, at tiles.LatLng) {
	if fl == mv.hovered {
		return
	}
	if prev := mv.hovered; prev != nil && prev.MouseOut != nil {
		prev.MouseOut(layers.Event{Target: prev, LatLng: at})
	}
	mv.hovered = fl
	if fl != nil && fl.MouseOver != nil {
		fl.MouseOver(layers.Event{Target: fl, LatLng: at})
	}
	mv.Invalidate()
}

// Hovered returns the feature currently under the pointer, if any.
func (mv *MapView) Hovered() *layers.FeatureLayer {
	return mv.hovered
}

// Click opens the popup of the item at pos and runs its Click handler.
// Clicking empty map closes the open popup.
func (mv *MapView) Click(pos f32.Point) {
	h, ok := mv.HitTest(pos)
	if !ok {
		mv.ClosePopup()
		return
	}
	at := mv.Unproject(pos)

	switch {
	case h.Marker != nil && h.Marker.Popup() != nil:
		mv.OpenPopup(h.Marker.Popup(), h.Marker.Position, h.Marker.Icon.PopupAnchor, h.Layer)
	case h.Feature != nil && h.Feature.Popup() != nil:
		mv.OpenPopup(h.Feature.Popup(), at, image.Point{}, h.Layer)
	}

	if h.Feature != nil && h.Feature.Click != nil {
		h.Feature.Click(layers.Event{Target: h.Feature, LatLng: at})
	}
}

// OpenPopup shows p at position at, shifted by offset pixels. Only one
// popup is open at a time.
func (mv *MapView) OpenPopup(p *layers.Popup, at tiles.LatLng, offset image.Point, owner layers.Layer) {
	mv.popup = &openPopup{popup: p, at: at, offset: offset, owner: owner}
	mv.Invalidate()
}

func (mv *MapView) ClosePopup() {
	if mv.popup == nil {
		return
	}
	mv.popup = nil
	mv.Invalidate()
}

// PopupContent returns the text of the open popup.
func (mv *MapView) PopupContent() (string, bool) {
	if mv.popup == nil {
		return "", false
	}
	return mv.popup.popup.Content, true
}

// markerRect is the marker icon's screen rectangle.
func (mv *MapView) markerRect(m *layers.Marker) image.Rectangle {
	p := mv.Project(m.Position)
	return m.Icon.Rect(image.Pt(int(math.Round(float64(p.X))), int(math.Round(float64(p.Y)))))
}

func pixelAt(pos f32.Point) image.Rectangle {
	x, y := int(math.Floor(float64(pos.X))), int(math.Floor(float64(pos.Y)))
	return image.Rect(x, y, x+1, y+1)
}
