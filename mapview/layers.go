package mapview

import (
	"slices"

	"github.com/olablt/gio-geomap/layers"
)

// AddLayer shows l. Adding a layer twice is a no-op.
func (mv *MapView) AddLayer(l layers.Layer) {
	if mv.HasLayer(l) {
		return
	}
	mv.layers = append(mv.layers, l)
	mv.Invalidate()
}

// RemoveLayer hides l, closing its popup and ending any hover on it.
func (mv *MapView) RemoveLayer(l layers.Layer) {
	i := slices.Index(mv.layers, l)
	if i < 0 {
		return
	}
	mv.layers = slices.Delete(mv.layers, i, i+1)

	if mv.popup != nil && mv.popup.owner == l {
		mv.popup = nil
	}
	if mv.hovered != nil && layers.Layer(mv.hovered.Layer()) == l {
		prev := mv.hovered
		mv.hovered = nil
		mv.hoverHit = false
		if prev.MouseOut != nil {
			prev.MouseOut(layers.Event{Target: prev, LatLng: mv.Center})
		}
	}
	mv.Invalidate()
}

func (mv *MapView) HasLayer(l layers.Layer) bool {
	return slices.Contains(mv.layers, l)
}

// Layers returns the visible layers in the order they were added.
func (mv *MapView) Layers() []layers.Layer {
	return slices.Clone(mv.layers)
}

func (mv *MapView) AddControl(c layers.Control) {
	mv.controls = append(mv.controls, c)
	mv.Invalidate()
}

func (mv *MapView) Controls() []layers.Control {
	return slices.Clone(mv.controls)
}

type markerItem struct {
	marker  *layers.Marker
	feature *layers.FeatureLayer
	layer   layers.Layer
}

// markerItems lists visible markers bottom first.
func (mv *MapView) markerItems() []markerItem {
	var items []markerItem
	for _, l := range mv.layers {
		switch l := l.(type) {
		case *layers.MarkerLayer:
			for _, m := range l.Markers {
				items = append(items, markerItem{marker: m, layer: l})
			}
		case *layers.GeoJSONLayer:
			for _, fl := range l.Features() {
				if fl.Marker != nil {
					items = append(items, markerItem{marker: fl.Marker, feature: fl, layer: l})
				}
			}
		}
	}
	return items
}

// pathItems lists visible vector features bottom first.
func (mv *MapView) pathItems() []*layers.FeatureLayer {
	var items []*layers.FeatureLayer
	for _, l := range mv.layers {
		gl, ok := l.(*layers.GeoJSONLayer)
		if !ok {
			continue
		}
		for _, fl := range gl.Features() {
			if fl.Marker == nil {
				items = append(items, fl)
			}
		}
	}
	return items
}
