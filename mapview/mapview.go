package mapview

import (
	"image"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"

	"github.com/olablt/gio-geomap/layers"
	"github.com/olablt/gio-geomap/tiles"
)

const (
	DefaultMinZoom = 0
	DefaultMaxZoom = 18

	// clickTolerance is how far the pointer may travel between press and
	// release and still count as a click rather than a drag.
	clickTolerance = 4
)

type MapView struct {
	Center  tiles.LatLng
	Zoom    int
	MinZoom int
	MaxZoom int

	size     image.Point
	layers   []layers.Layer
	controls []layers.Control
	hovered  *layers.FeatureLayer
	hoverHit bool
	popup    *openPopup

	pressPos    f32.Point
	lastDragPos f32.Point
	pressed     bool
	dragging    bool
	refresh     chan<- struct{}

	ui ui
}

// New returns an empty map at zoom 0. Every state change that needs a
// redraw sends on refresh without blocking; refresh may be nil.
func New(refresh chan<- struct{}) *MapView {
	return &MapView{
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
		refresh: refresh,
	}
}

// SetView moves the map to exactly center and zoom.
func (mv *MapView) SetView(center tiles.LatLng, zoom int) {
	mv.Center = center
	mv.Zoom = mv.clampZoom(zoom)
	mv.Invalidate()
}

// SetSize sets the display size in pixels. Layout does this from its
// constraints; callers without a window use it directly.
func (mv *MapView) SetSize(size image.Point) {
	mv.size = size
}

func (mv *MapView) Size() image.Point {
	return mv.size
}

// Invalidate asks the host window for a new frame.
func (mv *MapView) Invalidate() {
	if mv.refresh == nil {
		return
	}
	select {
	case mv.refresh <- struct{}{}:
	default:
	}
}

func (mv *MapView) Layout(gtx layout.Context) layout.Dimensions {
	tag := mv

	if mv.size != gtx.Constraints.Max {
		mv.size = gtx.Constraints.Max
	}

	// process events
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: tag,
			Kinds: pointer.Scroll | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel |
				pointer.Move | pointer.Enter | pointer.Leave,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}

		x, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch x.Kind {
		case pointer.Press:
			mv.pressPos = x.Position
			mv.lastDragPos = x.Position
			mv.pressed = true
			mv.dragging = false
		case pointer.Drag:
			if !mv.dragging && distance(x.Position, mv.pressPos) > clickTolerance {
				mv.dragging = true
			}
			if mv.dragging {
				mv.PanBy(x.Position.Sub(mv.lastDragPos))
				mv.lastDragPos = x.Position
			}
		case pointer.Release:
			if mv.pressed && !mv.dragging {
				mv.Click(x.Position)
			}
			mv.pressed = false
			mv.dragging = false
		case pointer.Cancel:
			mv.pressed = false
			mv.dragging = false
		case pointer.Move, pointer.Enter:
			mv.PointerMove(x.Position)
		case pointer.Leave:
			mv.PointerLeave()
		case pointer.Scroll:
			mv.scrollZoom(x.Position, x.Scroll.Y)
		}
	}

	// Confine the area of interest to a gtx Max
	defer clip.Rect{Max: mv.size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)
	switch {
	case mv.dragging:
		pointer.CursorGrabbing.Add(gtx.Ops)
	case mv.hoverHit:
		pointer.CursorPointer.Add(gtx.Ops)
	}

	mv.drawTiles(gtx)
	mv.drawPaths(gtx)
	mv.drawMarkers(gtx)
	mv.drawPopup(gtx)
	mv.layoutControls(gtx)

	return layout.Dimensions{Size: mv.size}
}

// PanBy shifts the map so that content moves by delta screen pixels.
func (mv *MapView) PanBy(delta f32.Point) {
	wx, wy := tiles.CalculateWorldCoordinates(mv.Center, mv.Zoom)
	mv.Center = tiles.WorldToLatLng(wx-float64(delta.X), wy-float64(delta.Y), mv.Zoom)
	mv.Invalidate()
}

func (mv *MapView) ZoomIn()  { mv.setZoom(mv.Zoom + 1) }
func (mv *MapView) ZoomOut() { mv.setZoom(mv.Zoom - 1) }

// scrollZoom changes zoom by one step, keeping the point under the cursor
// fixed on screen.
func (mv *MapView) scrollZoom(pos f32.Point, scrollY float32) {
	// Get mouse position relative to screen center
	screenCenterX := float64(mv.size.X) / 2
	screenCenterY := float64(mv.size.Y) / 2
	mouseOffsetX := float64(pos.X) - screenCenterX
	mouseOffsetY := float64(pos.Y) - screenCenterY

	// Convert screen coordinates to world coordinates at current zoom
	worldX, worldY := tiles.CalculateWorldCoordinates(mv.Center, mv.Zoom)
	mouseWorldX := worldX + mouseOffsetX
	mouseWorldY := worldY + mouseOffsetY

	oldZoom := mv.Zoom
	if scrollY < 0 {
		mv.setZoom(mv.Zoom + 1)
	} else if scrollY > 0 {
		mv.setZoom(mv.Zoom - 1)
	}
	if oldZoom == mv.Zoom {
		return
	}

	zoomFactor := math.Pow(2, float64(mv.Zoom-oldZoom))
	newWorldCenterX := mouseWorldX*zoomFactor - mouseOffsetX
	newWorldCenterY := mouseWorldY*zoomFactor - mouseOffsetY
	mv.Center = tiles.WorldToLatLng(newWorldCenterX, newWorldCenterY, mv.Zoom)
}

func (mv *MapView) setZoom(newZoom int) {
	mv.Zoom = mv.clampZoom(newZoom)
	mv.Invalidate()
}

func (mv *MapView) clampZoom(z int) int {
	return max(mv.MinZoom, min(z, mv.MaxZoom))
}

func distance(a, b f32.Point) float64 {
	d := a.Sub(b)
	return math.Hypot(float64(d.X), float64(d.Y))
}
