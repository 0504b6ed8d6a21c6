package layers

import (
	"slices"

	"github.com/paulmach/orb"

	"github.com/olablt/gio-geomap/geo"
	"github.com/olablt/gio-geomap/tiles"
)

// GeoJSONOptions configures how a collection becomes map features.
type GeoJSONOptions struct {
	// Style is evaluated per feature for the base style; nil selects
	// DefaultPathStyle.
	Style StyleFunc
	// PointToLayer builds the marker for a Point feature; nil selects a
	// default marker.
	PointToLayer func(f *geo.Feature, at tiles.LatLng) *Marker
	// OnEachFeature runs once per feature after it is built, typically to
	// bind popups or handlers.
	OnEachFeature func(f *geo.Feature, fl *FeatureLayer)
	Attribution   string
}

// FeatureLayer is the rendered form of one feature: a styled path, or a
// marker for Point geometries.
type FeatureLayer struct {
	Feature *geo.Feature
	Marker  *Marker
	Handlers

	owner *GeoJSONLayer
	style Style
	popup *Popup
}

func (fl *FeatureLayer) Style() Style {
	return fl.style
}

func (fl *FeatureLayer) SetStyle(s Style) {
	fl.style = s
}

func (fl *FeatureLayer) BindPopup(content string) {
	p := &Popup{Content: content}
	if fl.Marker != nil {
		fl.Marker.popup = p
	}
	fl.popup = p
}

func (fl *FeatureLayer) Popup() *Popup {
	return fl.popup
}

// On replaces the feature's handlers.
func (fl *FeatureLayer) On(h Handlers) {
	fl.Handlers = h
}

func (fl *FeatureLayer) Bound() orb.Bound {
	return fl.Feature.Bound()
}

// BringToFront draws the feature above its siblings.
func (fl *FeatureLayer) BringToFront() {
	fl.owner.BringToFront(fl)
}

// Layer returns the GeoJSON layer the feature belongs to.
func (fl *FeatureLayer) Layer() *GeoJSONLayer {
	return fl.owner
}

// GeoJSONLayer renders a feature collection.
type GeoJSONLayer struct {
	name        string
	attribution string
	style       StyleFunc
	features    []*FeatureLayer
	bound       orb.Bound
}

func NewGeoJSONLayer(name string, c *geo.Collection, opts GeoJSONOptions) *GeoJSONLayer {
	style := opts.Style
	if style == nil {
		style = Uniform(DefaultPathStyle())
	}
	l := &GeoJSONLayer{
		name:        name,
		attribution: opts.Attribution,
		style:       style,
		features:    make([]*FeatureLayer, 0, len(c.Features)),
		bound:       c.Bound(),
	}

	for _, f := range c.Features {
		fl := &FeatureLayer{Feature: f, owner: l, style: style(f)}
		if pt, ok := f.Geometry.(orb.Point); ok {
			at := tiles.FromPoint(pt)
			if opts.PointToLayer != nil {
				fl.Marker = opts.PointToLayer(f, at)
			}
			if fl.Marker == nil {
				fl.Marker = NewMarker(at, "", nil)
			}
		}
		if opts.OnEachFeature != nil {
			opts.OnEachFeature(f, fl)
		}
		l.features = append(l.features, fl)
	}
	return l
}

func (l *GeoJSONLayer) Name() string        { return l.name }
func (l *GeoJSONLayer) Attribution() string { return l.attribution }

// Features returns the features in draw order, bottom first. The slice is
// owned by the layer.
func (l *GeoJSONLayer) Features() []*FeatureLayer {
	return l.features
}

// ResetStyle restores the base style of fl.
func (l *GeoJSONLayer) ResetStyle(fl *FeatureLayer) {
	fl.style = l.style(fl.Feature)
}

func (l *GeoJSONLayer) BringToFront(fl *FeatureLayer) {
	i := slices.Index(l.features, fl)
	if i < 0 || i == len(l.features)-1 {
		return
	}
	l.features = append(slices.Delete(l.features, i, i+1), fl)
}

// Bound is the extent of the whole collection.
func (l *GeoJSONLayer) Bound() orb.Bound {
	return l.bound
}
