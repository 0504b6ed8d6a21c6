package layers

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io/fs"

	"github.com/olablt/gio-geomap/tiles"
)

// Icon is a marker image. Anchor is the pixel inside the icon that sits on
// the marker position; PopupAnchor is where a popup tip attaches, relative
// to Anchor. A nil Image is drawn as the default pin.
type Icon struct {
	Path        string
	Size        image.Point
	Anchor      image.Point
	PopupAnchor image.Point
	Image       image.Image
}

// DefaultIcon is the stock 25x41 pin anchored at its tip.
func DefaultIcon() *Icon {
	return &Icon{
		Size:        image.Pt(25, 41),
		Anchor:      image.Pt(12, 41),
		PopupAnchor: image.Pt(1, -34),
	}
}

// NewIcon wraps img as an icon of the given size, anchored at its centre.
func NewIcon(path string, size image.Point, img image.Image) *Icon {
	return &Icon{
		Path:        path,
		Size:        size,
		Anchor:      image.Pt(size.X/2, size.Y/2),
		PopupAnchor: image.Pt(0, -size.Y/2),
		Image:       img,
	}
}

// LoadIcon decodes the image at path in fsys.
func LoadIcon(fsys fs.FS, path string, size image.Point) (*Icon, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", path, err)
	}
	return NewIcon(path, size, img), nil
}

// Rect returns the icon's screen rectangle when its anchor is at p.
func (i *Icon) Rect(p image.Point) image.Rectangle {
	tl := p.Sub(i.Anchor)
	return image.Rectangle{Min: tl, Max: tl.Add(i.Size)}
}

// Marker is a point with an icon and an optional popup.
type Marker struct {
	Position tiles.LatLng
	Title    string
	Icon     *Icon
	popup    *Popup
}

// NewMarker places a marker; a nil icon selects DefaultIcon.
func NewMarker(pos tiles.LatLng, title string, icon *Icon) *Marker {
	if icon == nil {
		icon = DefaultIcon()
	}
	return &Marker{Position: pos, Title: title, Icon: icon}
}

func (m *Marker) BindPopup(content string) *Marker {
	m.popup = &Popup{Content: content}
	return m
}

// Popup returns the bound popup or nil.
func (m *Marker) Popup() *Popup {
	return m.popup
}

// MarkerLayer groups standalone markers under one toggleable name.
type MarkerLayer struct {
	name    string
	Markers []*Marker
}

func NewMarkerLayer(name string, markers ...*Marker) *MarkerLayer {
	return &MarkerLayer{name: name, Markers: markers}
}

func (l *MarkerLayer) Name() string      { return l.name }
func (*MarkerLayer) Attribution() string { return "" }
