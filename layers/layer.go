// Package layers models what a map shows: tile base layers, markers,
// GeoJSON overlays, popups and controls. It holds state only; drawing and
// pointer dispatch live in mapview.
package layers

import (
	"errors"

	"github.com/olablt/gio-geomap/tiles"
)

var ErrUnknownLayer = errors.New("unknown layer")

// Layer is anything that can be added to or removed from a map.
type Layer interface {
	Name() string
	Attribution() string
}

// Host is the map side of layer membership. A layer is visible exactly
// while the host has it.
type Host interface {
	AddLayer(l Layer)
	RemoveLayer(l Layer)
	HasLayer(l Layer) bool
}

// Event is passed to feature handlers.
type Event struct {
	Target *FeatureLayer
	LatLng tiles.LatLng
}

// Handlers are the pointer callbacks of a feature. Nil fields are skipped.
type Handlers struct {
	MouseOver func(Event)
	MouseOut  func(Event)
	Click     func(Event)
}
