package layers

import "github.com/olablt/gio-geomap/tiles"

// TileLayer is a raster layer addressed by a URL template. The manager
// that actually loads its tiles is attached by whoever builds the map.
type TileLayer struct {
	name        string
	attribution string
	Template    tiles.URLTemplate
	manager     *tiles.TileManager
}

func NewTileLayer(name string, template tiles.URLTemplate, attribution string) *TileLayer {
	return &TileLayer{name: name, Template: template, attribution: attribution}
}

func (l *TileLayer) Name() string        { return l.name }
func (l *TileLayer) Attribution() string { return l.attribution }

func (l *TileLayer) SetManager(m *tiles.TileManager) { l.manager = m }
func (l *TileLayer) Manager() *tiles.TileManager     { return l.manager }
