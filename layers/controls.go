package layers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Position is the map corner a control is anchored to.
type Position int

const (
	TopLeft Position = iota
	TopRight
	BottomLeft
	BottomRight
)

func (p Position) String() string {
	switch p {
	case TopLeft:
		return "topleft"
	case TopRight:
		return "topright"
	case BottomLeft:
		return "bottomleft"
	case BottomRight:
		return "bottomright"
	}
	return "Position(" + strconv.Itoa(int(p)) + ")"
}

// Control is a widget pinned to a map corner.
type Control interface {
	ControlPosition() Position
}

// ScaleControl shows a scale bar in metric and/or imperial units.
type ScaleControl struct {
	Position Position
	MaxWidth int
	Metric   bool
	Imperial bool
}

func (c *ScaleControl) ControlPosition() Position { return c.Position }

// ScaleBar is one rendered bar: its label and pixel width.
type ScaleBar struct {
	Label string
	Width int
}

// Bars computes the bars for the given ground resolution. Each bar shows
// the largest round distance that fits in MaxWidth pixels.
func (c *ScaleControl) Bars(metersPerPixel float64) []ScaleBar {
	maxWidth := c.MaxWidth
	if maxWidth <= 0 {
		maxWidth = 100
	}
	maxMeters := metersPerPixel * float64(maxWidth)
	if maxMeters <= 0 || math.IsNaN(maxMeters) || math.IsInf(maxMeters, 0) {
		return nil
	}

	var bars []ScaleBar
	if c.Metric {
		meters := roundNum(maxMeters)
		label := formatNum(meters) + " m"
		if meters >= 1000 {
			label = formatNum(meters/1000) + " km"
		}
		bars = append(bars, ScaleBar{Label: label, Width: int(math.Round(float64(maxWidth) * meters / maxMeters))})
	}
	if c.Imperial {
		maxFeet := maxMeters * 3.2808399
		if maxFeet > 5280 {
			maxMiles := maxFeet / 5280
			miles := roundNum(maxMiles)
			bars = append(bars, ScaleBar{Label: formatNum(miles) + " mi", Width: int(math.Round(float64(maxWidth) * miles / maxMiles))})
		} else {
			feet := roundNum(maxFeet)
			bars = append(bars, ScaleBar{Label: formatNum(feet) + " ft", Width: int(math.Round(float64(maxWidth) * feet / maxFeet))})
		}
	}
	return bars
}

// roundNum rounds num down to 1, 2, 3 or 5 times a power of ten.
func roundNum(num float64) float64 {
	pow10 := math.Pow(10, float64(len(strconv.Itoa(int(math.Floor(num))))-1))
	d := num / pow10
	switch {
	case d >= 10:
		d = 10
	case d >= 5:
		d = 5
	case d >= 3:
		d = 3
	case d >= 2:
		d = 2
	default:
		d = 1
	}
	return pow10 * d
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// LayerEntry names a layer inside a LayersControl.
type LayerEntry struct {
	Name  string
	Layer Layer
}

// LayersControl toggles layers. Base layers are mutually exclusive;
// overlays switch independently.
type LayersControl struct {
	Position Position
	Base     []LayerEntry
	Overlays []LayerEntry
}

func (c *LayersControl) ControlPosition() Position { return c.Position }

// SelectBase makes name the only base layer on host.
func (c *LayersControl) SelectBase(host Host, name string) error {
	target, ok := find(c.Base, name)
	if !ok {
		return fmt.Errorf("base layer %q: %w", name, ErrUnknownLayer)
	}
	for _, e := range c.Base {
		if e.Layer != target && host.HasLayer(e.Layer) {
			host.RemoveLayer(e.Layer)
		}
	}
	if !host.HasLayer(target) {
		host.AddLayer(target)
	}
	return nil
}

// ActiveBase returns the name of the first base layer found on host.
func (c *LayersControl) ActiveBase(host Host) (string, bool) {
	for _, e := range c.Base {
		if host.HasLayer(e.Layer) {
			return e.Name, true
		}
	}
	return "", false
}

// SetOverlay shows or hides the named overlay.
func (c *LayersControl) SetOverlay(host Host, name string, on bool) error {
	l, ok := find(c.Overlays, name)
	if !ok {
		return fmt.Errorf("overlay %q: %w", name, ErrUnknownLayer)
	}
	switch {
	case on && !host.HasLayer(l):
		host.AddLayer(l)
	case !on && host.HasLayer(l):
		host.RemoveLayer(l)
	}
	return nil
}

// ToggleOverlay flips the named overlay and returns its new state.
func (c *LayersControl) ToggleOverlay(host Host, name string) (bool, error) {
	l, ok := find(c.Overlays, name)
	if !ok {
		return false, fmt.Errorf("overlay %q: %w", name, ErrUnknownLayer)
	}
	on := !host.HasLayer(l)
	return on, c.SetOverlay(host, name, on)
}

func find(entries []LayerEntry, name string) (Layer, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Layer, true
		}
	}
	return nil, false
}

// AttributionControl lists the attributions of the visible layers.
type AttributionControl struct {
	Position Position
	Prefix   string
}

func (c *AttributionControl) ControlPosition() Position { return c.Position }

// Text joins the prefix and the distinct non-empty attributions of ls.
func (c *AttributionControl) Text(ls []Layer) string {
	seen := make(map[string]bool)
	var attribs []string
	for _, l := range ls {
		a := l.Attribution()
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		attribs = append(attribs, a)
	}

	var parts []string
	if c.Prefix != "" {
		parts = append(parts, c.Prefix)
	}
	if len(attribs) > 0 {
		parts = append(parts, strings.Join(attribs, ", "))
	}
	return strings.Join(parts, " | ")
}

// ZoomControl shows zoom in/out buttons.
type ZoomControl struct {
	Position Position
}

func (c *ZoomControl) ControlPosition() Position { return c.Position }
