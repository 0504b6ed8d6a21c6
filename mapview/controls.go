package mapview

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/olablt/gio-geomap/layers"
	"github.com/olablt/gio-geomap/tiles"
)

var (
	panelColor       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xee}
	attributionColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb3}
	scaleColor       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}
	scaleLineColor   = color.NRGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xff}
	separatorColor   = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
)

// ui is the Gio widget state behind popups and controls.
type ui struct {
	theme      *material.Theme
	icons      map[*layers.Icon]paint.ImageOp
	popupClose widget.Clickable
	zoomIn     widget.Clickable
	zoomOut    widget.Clickable
	baseLayer  widget.Enum
	overlays   map[string]*widget.Bool
}

func (mv *MapView) theme() *material.Theme {
	if mv.ui.theme == nil {
		th := material.NewTheme()
		th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
		mv.ui.theme = th
	}
	return mv.ui.theme
}

func (mv *MapView) overlayBool(name string) *widget.Bool {
	if mv.ui.overlays == nil {
		mv.ui.overlays = make(map[string]*widget.Bool)
	}
	b, ok := mv.ui.overlays[name]
	if !ok {
		b = new(widget.Bool)
		mv.ui.overlays[name] = b
	}
	return b
}

func (mv *MapView) drawPopup(gtx layout.Context) {
	if mv.popup == nil {
		return
	}
	if mv.ui.popupClose.Clicked(gtx) {
		mv.ClosePopup()
		return
	}
	th := mv.theme()
	pp := mv.popup

	cgtx := gtx
	cgtx.Constraints = layout.Constraints{Max: image.Pt(gtx.Dp(300), gtx.Dp(400))}
	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(unit.Dp(10)).Layout(cgtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Alignment: layout.Start}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lines := pp.popup.Lines()
				children := make([]layout.FlexChild, 0, len(lines))
				for _, line := range lines {
					children = append(children, layout.Rigid(material.Body2(th, line).Layout))
				}
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.Clickable(gtx, &mv.ui.popupClose, func(gtx layout.Context) layout.Dimensions {
					return material.Body2(th, "×").Layout(gtx)
				})
			}),
		)
	})
	call := macro.Stop()

	tip := gtx.Dp(8)
	anchor := mv.Project(pp.at)
	pos := image.Pt(int(anchor.X)+pp.offset.X-dims.Size.X/2, int(anchor.Y)+pp.offset.Y-dims.Size.Y-tip)

	defer op.Offset(pos).Push(gtx.Ops).Pop()
	w, h := float32(dims.Size.X), float32(dims.Size.Y)
	var p clip.Path
	p.Begin(gtx.Ops)
	p.MoveTo(f32.Pt(w/2-float32(tip), h))
	p.LineTo(f32.Pt(w/2+float32(tip), h))
	p.LineTo(f32.Pt(w/2, h+float32(tip)))
	p.Close()
	paint.FillShape(gtx.Ops, popupColor, clip.Outline{Path: p.End()}.Op())
	paint.FillShape(gtx.Ops, popupColor, clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(6)).Op(gtx.Ops))
	blockPointer(gtx, pp, dims.Size)
	call.Add(gtx.Ops)
}

// blockPointer keeps clicks on an opaque box from reaching the map below.
func blockPointer(gtx layout.Context, tag event.Tag, size image.Point) {
	for {
		_, ok := gtx.Event(pointer.Filter{Target: tag, Kinds: pointer.Press | pointer.Release | pointer.Scroll})
		if !ok {
			break
		}
	}
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)
}

func (mv *MapView) layoutControls(gtx layout.Context) {
	gtx.Constraints = layout.Exact(mv.size)
	corners := []struct {
		pos layers.Position
		dir layout.Direction
	}{
		{layers.TopLeft, layout.NW},
		{layers.TopRight, layout.NE},
		{layers.BottomLeft, layout.SW},
		{layers.BottomRight, layout.SE},
	}

	for _, corner := range corners {
		var children []layout.FlexChild
		for _, c := range mv.controls {
			if c.ControlPosition() != corner.pos {
				continue
			}
			if len(children) > 0 {
				children = append(children, layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout))
			}
			children = append(children, layout.Rigid(mv.controlWidget(c)))
		}
		if len(children) == 0 {
			continue
		}

		alignment := layout.Start
		if corner.dir == layout.NE || corner.dir == layout.SE {
			alignment = layout.End
		}
		corner.dir.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical, Alignment: alignment}.Layout(gtx, children...)
			})
		})
	}
}

func (mv *MapView) controlWidget(c layers.Control) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		switch c := c.(type) {
		case *layers.ZoomControl:
			return mv.layoutZoom(gtx, c)
		case *layers.ScaleControl:
			return mv.layoutScale(gtx, c)
		case *layers.LayersControl:
			return mv.layoutLayersControl(gtx, c)
		case *layers.AttributionControl:
			return mv.layoutAttribution(gtx, c)
		}
		return layout.Dimensions{}
	}
}

func (mv *MapView) layoutZoom(gtx layout.Context, c *layers.ZoomControl) layout.Dimensions {
	for mv.ui.zoomIn.Clicked(gtx) {
		mv.ZoomIn()
	}
	for mv.ui.zoomOut.Clicked(gtx) {
		mv.ZoomOut()
	}
	th := mv.theme()
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(material.Button(th, &mv.ui.zoomIn, "+").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(2)}.Layout),
		layout.Rigid(material.Button(th, &mv.ui.zoomOut, "−").Layout),
	)
}

func (mv *MapView) layoutScale(gtx layout.Context, c *layers.ScaleControl) layout.Dimensions {
	th := mv.theme()
	bars := c.Bars(tiles.CalculateMetersPerPixel(mv.Center.Lat, mv.Zoom))
	children := make([]layout.FlexChild, 0, len(bars))
	for _, bar := range bars {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			label := material.Caption(th, bar.Label)
			macro := op.Record(gtx.Ops)
			dims := layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4), Top: unit.Dp(1)}.Layout(gtx, label.Layout)
			call := macro.Stop()

			size := image.Pt(max(bar.Width, dims.Size.X), dims.Size.Y+2)
			paint.FillShape(gtx.Ops, scaleColor, clip.Rect{Max: size}.Op())
			line := []image.Rectangle{
				image.Rect(0, size.Y-2, size.X, size.Y), // bottom
				image.Rect(0, 0, 2, size.Y),             // left
				image.Rect(size.X-2, 0, size.X, size.Y), // right
			}
			for _, r := range line {
				paint.FillShape(gtx.Ops, scaleLineColor, clip.Rect(r).Op())
			}
			call.Add(gtx.Ops)
			return layout.Dimensions{Size: size}
		}))
	}
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.End}.Layout(gtx, children...)
}

func (mv *MapView) layoutLayersControl(gtx layout.Context, c *layers.LayersControl) layout.Dimensions {
	if mv.ui.baseLayer.Update(gtx) {
		_ = c.SelectBase(mv, mv.ui.baseLayer.Value)
	}
	if name, ok := c.ActiveBase(mv); ok {
		mv.ui.baseLayer.Value = name
	}

	th := mv.theme()
	var children []layout.FlexChild
	for _, e := range c.Base {
		children = append(children, layout.Rigid(material.RadioButton(th, &mv.ui.baseLayer, e.Name, e.Name).Layout))
	}
	if len(c.Base) > 0 && len(c.Overlays) > 0 {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			size := image.Pt(max(gtx.Constraints.Min.X, gtx.Dp(120)), gtx.Dp(1))
			return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				paint.FillShape(gtx.Ops, separatorColor, clip.Rect{Max: size}.Op())
				return layout.Dimensions{Size: size}
			})
		}))
	}
	for _, e := range c.Overlays {
		b := mv.overlayBool(e.Name)
		if b.Update(gtx) {
			_, _ = c.ToggleOverlay(mv, e.Name)
		}
		b.Value = mv.HasLayer(e.Layer)
		children = append(children, layout.Rigid(material.CheckBox(th, b, e.Name).Layout))
	}

	return panel(gtx, c, panelColor, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

func (mv *MapView) layoutAttribution(gtx layout.Context, c *layers.AttributionControl) layout.Dimensions {
	txt := c.Text(mv.layers)
	if txt == "" {
		return layout.Dimensions{}
	}
	label := material.Caption(mv.theme(), txt)
	gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(480))
	return panel(gtx, c, attributionColor, label.Layout)
}

// panel draws w on a rounded background that swallows pointer input.
func panel(gtx layout.Context, tag event.Tag, bg color.NRGBA, w layout.Widget) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(unit.Dp(6)).Layout(gtx, w)
	call := macro.Stop()

	paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(4)).Op(gtx.Ops))
	blockPointer(gtx, tag, dims.Size)
	call.Add(gtx.Ops)
	return dims
}
