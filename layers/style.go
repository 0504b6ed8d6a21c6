package layers

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/olablt/gio-geomap/geo"
)

// Style describes how a vector path is stroked and filled. Weight is in
// pixels. A zero FillColor means "same as Color".
type Style struct {
	Color       color.NRGBA
	Weight      float32
	Opacity     float32
	Fill        bool
	FillColor   color.NRGBA
	FillOpacity float32
}

// DefaultPathStyle mirrors the usual web-map path defaults: blue 3px
// stroke, 20% fill.
func DefaultPathStyle() Style {
	return Style{
		Color:       MustHex("#3388ff"),
		Weight:      3,
		Opacity:     1,
		Fill:        true,
		FillOpacity: 0.2,
	}
}

// StrokeColor returns Color with Opacity applied.
func (s Style) StrokeColor() color.NRGBA {
	return withOpacity(s.Color, s.Opacity)
}

// FillPaint returns the fill color with FillOpacity applied.
func (s Style) FillPaint() color.NRGBA {
	c := s.FillColor
	if c == (color.NRGBA{}) {
		c = s.Color
	}
	return withOpacity(c, s.FillOpacity)
}

func withOpacity(c color.NRGBA, opacity float32) color.NRGBA {
	opacity = max(0, min(opacity, 1))
	c.A = uint8(float32(c.A)*opacity + 0.5)
	return c
}

// StyleFunc picks a style per feature.
type StyleFunc func(f *geo.Feature) Style

// Uniform applies the same style to every feature.
func Uniform(s Style) StyleFunc {
	return func(*geo.Feature) Style { return s }
}

// ParseHex parses "#rgb" or "#rrggbb".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHex is ParseHex for constants; it panics on a malformed literal.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
