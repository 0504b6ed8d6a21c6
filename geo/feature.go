// Package geo loads static GeoJSON feature collections into typed,
// validated features and offers the geometry helpers the map widget needs.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrInvalidProperty = errors.New("invalid property")
)

// Property keys with a declared type.
const (
	KeyName   = "NAME"
	KeyHeight = "HEIGHT"
)

// Properties holds the typed, well-known feature properties. Any other key
// lands in Extra unchanged.
type Properties struct {
	Name   *string
	Height *float64
	Extra  map[string]any
}

// NameOr returns NAME or def when the feature has none.
func (p Properties) NameOr(def string) string {
	if p.Name == nil {
		return def
	}
	return *p.Name
}

// Feature is an immutable GeoJSON feature.
type Feature struct {
	Geometry   orb.Geometry
	Properties Properties
}

func (f *Feature) Bound() orb.Bound {
	return f.Geometry.Bound()
}

// Collection is a named, validated feature collection.
type Collection struct {
	Name     string
	Features []*Feature
}

// Bound returns the union of all feature bounds.
func (c *Collection) Bound() orb.Bound {
	var b orb.Bound
	for i, f := range c.Features {
		if i == 0 {
			b = f.Bound()
			continue
		}
		b = b.Union(f.Bound())
	}
	return b
}

// Load parses and validates a GeoJSON FeatureCollection. Any malformed
// feature fails the whole collection.
func Load(name string, data []byte) (*Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geo: parse %s: %w", name, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("geo: parse %s: type %q is not a FeatureCollection", name, fc.Type)
	}

	c := &Collection{Name: name, Features: make([]*Feature, 0, len(fc.Features))}
	for i, gf := range fc.Features {
		if err := validateGeometry(gf.Geometry); err != nil {
			return nil, fmt.Errorf("geo: %s feature %d: %w", name, i, err)
		}
		props, err := parseProperties(gf.Properties)
		if err != nil {
			return nil, fmt.Errorf("geo: %s feature %d: %w", name, i, err)
		}
		c.Features = append(c.Features, &Feature{
			Geometry:   gf.Geometry,
			Properties: props,
		})
	}
	return c, nil
}

func parseProperties(raw geojson.Properties) (Properties, error) {
	var p Properties
	for k, v := range raw {
		switch k {
		case KeyName:
			s, ok := v.(string)
			if !ok {
				return p, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidProperty, k, v)
			}
			p.Name = &s
		case KeyHeight:
			h, ok := v.(float64)
			if !ok {
				return p, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidProperty, k, v)
			}
			p.Height = &h
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[k] = v
		}
	}
	return p, nil
}

func validateGeometry(g orb.Geometry) error {
	switch g := g.(type) {
	case nil:
		return fmt.Errorf("%w: missing geometry", ErrInvalidGeometry)
	case orb.Point:
		return validatePoint(g)
	case orb.LineString:
		return validateLine(g)
	case orb.MultiLineString:
		if len(g) == 0 {
			return fmt.Errorf("%w: empty MultiLineString", ErrInvalidGeometry)
		}
		for _, ls := range g {
			if err := validateLine(ls); err != nil {
				return err
			}
		}
		return nil
	case orb.Polygon:
		return validatePolygon(g)
	case orb.MultiPolygon:
		if len(g) == 0 {
			return fmt.Errorf("%w: empty MultiPolygon", ErrInvalidGeometry)
		}
		for _, p := range g {
			if err := validatePolygon(p); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %s", ErrInvalidGeometry, g.GeoJSONType())
	}
}

func validatePoint(p orb.Point) error {
	lng, lat := p.Lon(), p.Lat()
	if math.IsNaN(lng) || math.IsNaN(lat) || lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: coordinate %v out of range", ErrInvalidGeometry, p)
	}
	return nil
}

func validateLine(ls orb.LineString) error {
	if len(ls) < 2 {
		return fmt.Errorf("%w: LineString needs at least 2 positions", ErrInvalidGeometry)
	}
	for _, p := range ls {
		if err := validatePoint(p); err != nil {
			return err
		}
	}
	return nil
}

func validatePolygon(poly orb.Polygon) error {
	if len(poly) == 0 {
		return fmt.Errorf("%w: Polygon without rings", ErrInvalidGeometry)
	}
	for _, ring := range poly {
		if len(ring) < 4 {
			return fmt.Errorf("%w: ring needs at least 4 positions", ErrInvalidGeometry)
		}
		if ring[0] != ring[len(ring)-1] {
			return fmt.Errorf("%w: ring is not closed", ErrInvalidGeometry)
		}
		for _, p := range ring {
			if err := validatePoint(p); err != nil {
				return err
			}
		}
	}
	return nil
}
