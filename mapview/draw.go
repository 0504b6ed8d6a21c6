package mapview

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"github.com/paulmach/orb"

	"github.com/olablt/gio-geomap/geo"
	"github.com/olablt/gio-geomap/layers"
	"github.com/olablt/gio-geomap/tiles"
)

var (
	pinColor   = color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0xff}
	popupColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// drawTiles paints every tile layer below all overlays.
func (mv *MapView) drawTiles(gtx layout.Context) {
	for _, l := range mv.layers {
		tl, ok := l.(*layers.TileLayer)
		if !ok || tl.Manager() == nil {
			continue
		}
		mv.drawTileLayer(gtx, tl.Manager())
	}
}

func (mv *MapView) drawTileLayer(gtx layout.Context, m *tiles.TileManager) {
	ox, oy := mv.worldOrigin()
	for _, tile := range tiles.CalculateVisibleTiles(mv.Center, mv.Zoom, mv.size) {
		imgOp, ok := m.Tile(tile.Wrap())
		if !ok {
			continue
		}

		// Calculate final screen position
		finalX := int(math.Round(float64(tile.X*tiles.TileSize) - ox))
		finalY := int(math.Round(float64(tile.Y*tiles.TileSize) - oy))
		drawImage(gtx.Ops, imgOp, image.Pt(finalX, finalY), image.Pt(tiles.TileSize, tiles.TileSize))
	}
}

// pathCullMargin is how far outside the screen, in pixels, a layer may
// start and still be drawn, so strokes crossing the edge are kept.
const pathCullMargin = 32

func (mv *MapView) drawPaths(gtx layout.Context) {
	screen := orb.Bound{Max: orb.Point{float64(mv.size.X), float64(mv.size.Y)}}
	view := mv.paddedBounds(pathCullMargin)
	for _, l := range mv.layers {
		gl, ok := l.(*layers.GeoJSONLayer)
		if !ok || !gl.Bound().Intersects(view) {
			continue
		}
		for _, fl := range gl.Features() {
			if fl.Marker != nil {
				continue
			}
			st := fl.Style()
			g := geo.Project(fl.Feature.Geometry, mv.projectPoint)
			if !g.Bound().Pad(float64(st.Weight)).Intersects(screen) {
				continue
			}

			switch g := g.(type) {
			case orb.LineString:
				strokeLines(gtx.Ops, st, []orb.LineString{g})
			case orb.MultiLineString:
				strokeLines(gtx.Ops, st, g)
			case orb.Polygon:
				drawPolygon(gtx.Ops, st, g)
			case orb.MultiPolygon:
				for _, p := range g {
					drawPolygon(gtx.Ops, st, p)
				}
			}
		}
	}
}

func strokeLines(ops *op.Ops, st layers.Style, lines []orb.LineString) {
	if st.Weight <= 0 {
		return
	}
	var p clip.Path
	p.Begin(ops)
	for _, ls := range lines {
		appendPoints(&p, ls)
	}
	paint.FillShape(ops, st.StrokeColor(), clip.Stroke{Path: p.End(), Width: st.Weight}.Op())
}

func drawPolygon(ops *op.Ops, st layers.Style, poly orb.Polygon) {
	if st.Fill {
		var p clip.Path
		p.Begin(ops)
		for _, ring := range poly {
			appendPoints(&p, ring)
			p.Close()
		}
		paint.FillShape(ops, st.FillPaint(), clip.Outline{Path: p.End()}.Op())
	}
	if st.Weight > 0 {
		var p clip.Path
		p.Begin(ops)
		for _, ring := range poly {
			appendPoints(&p, ring)
			p.Close()
		}
		paint.FillShape(ops, st.StrokeColor(), clip.Stroke{Path: p.End(), Width: st.Weight}.Op())
	}
}

func appendPoints(p *clip.Path, pts []orb.Point) {
	for i, q := range pts {
		pt := f32.Pt(float32(q.X()), float32(q.Y()))
		if i == 0 {
			p.MoveTo(pt)
			continue
		}
		p.LineTo(pt)
	}
}

func (mv *MapView) drawMarkers(gtx layout.Context) {
	screen := image.Rectangle{Max: mv.size}
	for _, it := range mv.markerItems() {
		r := mv.markerRect(it.marker)
		if !r.Overlaps(screen) {
			continue
		}
		icon := it.marker.Icon
		if icon.Image == nil {
			drawPin(gtx.Ops, r)
			continue
		}
		drawImage(gtx.Ops, mv.iconOp(icon), r.Min, icon.Size)
	}
}

func (mv *MapView) iconOp(icon *layers.Icon) paint.ImageOp {
	if mv.ui.icons == nil {
		mv.ui.icons = make(map[*layers.Icon]paint.ImageOp)
	}
	imgOp, ok := mv.ui.icons[icon]
	if !ok {
		imgOp = paint.NewImageOp(icon.Image)
		mv.ui.icons[icon] = imgOp
	}
	return imgOp
}

// drawImage paints imgOp with its top-left corner at at, scaled to size.
func drawImage(ops *op.Ops, imgOp paint.ImageOp, at image.Point, size image.Point) {
	defer op.Offset(at).Push(ops).Pop()
	src := imgOp.Size()
	if src.X <= 0 || src.Y <= 0 {
		return
	}
	if src != size {
		scale := f32.Pt(float32(size.X)/float32(src.X), float32(size.Y)/float32(src.Y))
		defer op.Affine(f32.Affine2D{}.Scale(f32.Point{}, scale)).Push(ops).Pop()
	}
	defer clip.Rect{Max: src}.Push(ops).Pop()
	imgOp.Add(ops)
	paint.PaintOp{}.Add(ops)
}

// drawPin draws the default marker: a round head over a point at the
// bottom centre of r.
func drawPin(ops *op.Ops, r image.Rectangle) {
	w := float32(r.Dx())
	radius := w / 2
	cx := float32(r.Min.X) + radius
	cy := float32(r.Min.Y) + radius

	var p clip.Path
	p.Begin(ops)
	p.MoveTo(f32.Pt(cx-radius*0.87, cy+radius*0.5))
	p.LineTo(f32.Pt(cx+radius*0.87, cy+radius*0.5))
	p.LineTo(f32.Pt(cx, float32(r.Max.Y)))
	p.Close()
	paint.FillShape(ops, pinColor, clip.Outline{Path: p.End()}.Op())

	head := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+r.Dx())
	paint.FillShape(ops, pinColor, clip.Ellipse(head).Op(ops))
	dot := head.Inset(r.Dx() / 3)
	paint.FillShape(ops, popupColor, clip.Ellipse(dot).Op(ops))
}
