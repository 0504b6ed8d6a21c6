// Package mapconfig builds the Salzburg map: base layers, markers, GeoJSON
// overlays, the national parks interactivity and the controls.
package mapconfig

import (
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olablt/gio-geomap/data"
	"github.com/olablt/gio-geomap/geo"
	"github.com/olablt/gio-geomap/layers"
	"github.com/olablt/gio-geomap/mapview"
	"github.com/olablt/gio-geomap/tiles"
	"github.com/olablt/gio-geomap/tiles/worker"
)

// InitialZoom and InitialCenter define the view the map opens with.
const InitialZoom = 9

var InitialCenter = tiles.LatLng{Lat: 47.5, Lng: 13.05}

// Layer names as they appear in the layer control.
const (
	LandscapeName = "Thunderforest landscape"
	TonerName     = "Toner"
	Marker2Name   = "Marker 2"
	HouseName     = "My house"
	WalkName      = "City walk"
	ParksName     = "National parks"
	FedStateName  = "Salzburg"
	SummitsName   = "Summits"
)

const (
	landscapeURL = "http://{s}.tile.thunderforest.com/landscape/{z}/{x}/{y}.png"
	tonerURL     = "http://tile.stamen.com/toner/{z}/{x}/{y}.png"

	landscapeAttribution = "Tiles from Thunderforest"
	tonerAttribution     = "Map tiles by Stamen Design, under CC BY 3.0. Data by OpenStreetMap, under ODbL"
)

// TileOptions configure how base layer tiles are fetched.
type TileOptions struct {
	UserAgent string
	Timeout   time.Duration
	Workers   int
	CacheSize int
	// Offline replaces every tile source with labelled placeholders.
	Offline bool
	// PlaceholderOnError shows a placeholder instead of a blank tile when
	// a fetch fails.
	PlaceholderOnError bool
}

type Options struct {
	// Assets holds the GeoJSON files and icons; nil selects data.FS.
	Assets fs.FS
	Tiles  TileOptions
	// Client overrides the HTTP client used for tiles.
	Client *http.Client
	// Refresh receives a value whenever the map needs to be redrawn.
	Refresh chan<- struct{}
}

// Configurator owns the map and every layer and control placed on it.
type Configurator struct {
	Map *mapview.MapView

	Landscape *layers.TileLayer
	Toner     *layers.TileLayer

	Marker2 *layers.MarkerLayer
	House   *layers.MarkerLayer

	FedState *layers.GeoJSONLayer
	Summits  *layers.GeoJSONLayer
	Walk     *layers.GeoJSONLayer
	Parks    *layers.GeoJSONLayer

	ZoomButtons *layers.ZoomControl
	Scale       *layers.ScaleControl
	LayerSwitch *layers.LayersControl
	Attribution *layers.AttributionControl

	pool *worker.Pool
}

// New builds the fully populated map. Malformed static data is a fatal
// configuration error and is returned as is.
func New(opts Options) (*Configurator, error) {
	assets := opts.Assets
	if assets == nil {
		assets = data.FS
	}
	if opts.Tiles.Workers <= 0 {
		opts.Tiles.Workers = 4
	}

	c := &Configurator{
		Map:  mapview.New(opts.Refresh),
		pool: worker.NewPool(opts.Tiles.Workers, 256, opts.Tiles.Timeout),
	}
	c.Map.SetView(InitialCenter, InitialZoom)

	// base layers
	c.Landscape = c.tileLayer(opts, LandscapeName, tiles.URLTemplate{Pattern: landscapeURL}, landscapeAttribution)
	c.Toner = c.tileLayer(opts, TonerName, tiles.URLTemplate{Pattern: tonerURL}, tonerAttribution)
	c.Map.AddLayer(c.Toner)

	// markers
	c.Marker2 = layers.NewMarkerLayer(Marker2Name,
		layers.NewMarker(tiles.LatLng{Lat: 47, Lng: 12}, "markerrrrrr", nil).BindPopup("this is my popup"))
	c.Map.AddLayer(c.Marker2)

	houseIcon, err := layers.LoadIcon(assets, data.HouseIcon, image.Pt(38, 38))
	if err != nil {
		c.Close()
		return nil, err
	}
	c.House = layers.NewMarkerLayer(HouseName, layers.NewMarker(tiles.LatLng{Lat: 48, Lng: 13}, "theHouse", houseIcon))
	c.Map.AddLayer(c.House)

	if err := c.addOverlays(assets); err != nil {
		c.Close()
		return nil, err
	}

	// controls
	c.ZoomButtons = &layers.ZoomControl{Position: layers.TopLeft}
	c.Scale = &layers.ScaleControl{Position: layers.BottomRight, MaxWidth: 100, Metric: true, Imperial: false}
	c.LayerSwitch = &layers.LayersControl{
		Position: layers.TopLeft,
		Base: []layers.LayerEntry{
			{Name: LandscapeName, Layer: c.Landscape},
			{Name: TonerName, Layer: c.Toner},
		},
		Overlays: []layers.LayerEntry{
			{Name: Marker2Name, Layer: c.Marker2},
			{Name: HouseName, Layer: c.House},
			{Name: WalkName, Layer: c.Walk},
			{Name: ParksName, Layer: c.Parks},
			{Name: FedStateName, Layer: c.FedState},
		},
	}
	c.Attribution = &layers.AttributionControl{Position: layers.BottomRight, Prefix: "Gio"}
	c.Map.AddControl(c.ZoomButtons)
	c.Map.AddControl(c.LayerSwitch)
	c.Map.AddControl(c.Scale)
	c.Map.AddControl(c.Attribution)

	slog.Info("map configured",
		"center", InitialCenter.String(),
		"zoom", InitialZoom,
		"layers", len(c.Map.Layers()),
		"offline", opts.Tiles.Offline)
	return c, nil
}

func (c *Configurator) addOverlays(assets fs.FS) error {
	fedState, err := loadCollection(assets, data.FederalStateFile)
	if err != nil {
		return err
	}
	fedStyle := layers.DefaultPathStyle()
	fedStyle.Color = layers.MustHex("#ff9985")
	fedStyle.Weight = 5
	fedStyle.Opacity = 0.65
	c.FedState = layers.NewGeoJSONLayer(FedStateName, fedState, layers.GeoJSONOptions{
		Style: layers.Uniform(fedStyle),
		OnEachFeature: func(f *geo.Feature, fl *layers.FeatureLayer) {
			fl.BindPopup("Federal state: " + f.Properties.NameOr(""))
		},
	})
	c.Map.AddLayer(c.FedState)

	summits, err := loadCollection(assets, data.SummitsFile)
	if err != nil {
		return err
	}
	summitIcon, err := layers.LoadIcon(assets, data.SummitIcon, image.Pt(18, 18))
	if err != nil {
		return err
	}
	c.Summits = layers.NewGeoJSONLayer(SummitsName, summits, layers.GeoJSONOptions{
		PointToLayer: func(_ *geo.Feature, at tiles.LatLng) *layers.Marker {
			return layers.NewMarker(at, "Summits in Salzburg", summitIcon)
		},
		OnEachFeature: func(f *geo.Feature, fl *layers.FeatureLayer) {
			fl.BindPopup(SummitPopup(f, fl.Marker.Position))
		},
	})
	c.Map.AddLayer(c.Summits)

	walk, err := loadCollection(assets, data.WalkFile)
	if err != nil {
		return err
	}
	walkStyle := layers.DefaultPathStyle()
	walkStyle.Color = layers.MustHex("#6d32a8")
	walkStyle.Weight = 4
	walkStyle.Opacity = 0.65
	c.Walk = layers.NewGeoJSONLayer(WalkName, walk, layers.GeoJSONOptions{Style: layers.Uniform(walkStyle)})
	c.Map.AddLayer(c.Walk)

	parks, err := loadCollection(assets, data.NatParksFile)
	if err != nil {
		return err
	}
	parkStyle := layers.DefaultPathStyle()
	parkStyle.Color = layers.MustHex("#D34137")
	parkStyle.Weight = 5
	parkStyle.Opacity = 0.65
	c.Parks = layers.NewGeoJSONLayer(ParksName, parks, layers.GeoJSONOptions{
		Style: layers.Uniform(parkStyle),
	})
	for _, fl := range c.Parks.Features() {
		fl.On(parkHandlers(c.Parks, c.Map))
	}
	c.Map.AddLayer(c.Parks)
	return nil
}

// parkHandlers highlights a park while hovered and zooms to it on click.
func parkHandlers(parks *layers.GeoJSONLayer, mv *mapview.MapView) layers.Handlers {
	return layers.Handlers{
		MouseOver: func(e layers.Event) {
			s := e.Target.Style()
			s.Weight = 5
			s.Color = layers.MustHex("#666")
			s.FillOpacity = 0.7
			e.Target.SetStyle(s)
			e.Target.BringToFront()
		},
		MouseOut: func(e layers.Event) {
			parks.ResetStyle(e.Target)
		},
		Click: func(e layers.Event) {
			mv.FitBounds(e.Target.Bound())
		},
	}
}

// SummitPopup is the popup text of a summit marker.
func SummitPopup(f *geo.Feature, at tiles.LatLng) string {
	height := ""
	if f.Properties.Height != nil {
		height = strconv.FormatFloat(*f.Properties.Height, 'f', -1, 64)
	}
	return "Summit: " + f.Properties.NameOr("") + "\n" +
		"with height: " + height + "\n" +
		"at location: " + at.String()
}

func (c *Configurator) tileLayer(opts Options, name string, tmpl tiles.URLTemplate, attribution string) *layers.TileLayer {
	l := layers.NewTileLayer(name, tmpl, attribution)

	var provider tiles.TileProvider
	switch {
	case opts.Tiles.Offline:
		provider = tiles.NewLocalTileProvider(name)
	default:
		httpOpts := []tiles.HTTPOption{tiles.WithUserAgent(opts.Tiles.UserAgent)}
		switch {
		case opts.Client != nil:
			httpOpts = append(httpOpts, tiles.WithClient(opts.Client))
		case opts.Tiles.Timeout > 0:
			httpOpts = append(httpOpts, tiles.WithClient(&http.Client{Timeout: opts.Tiles.Timeout}))
		}
		provider = tiles.NewHTTPTileProvider(name, l.Template, httpOpts...)
		if opts.Tiles.PlaceholderOnError {
			provider = tiles.NewCombinedTileProvider(provider, tiles.NewLocalTileProvider(name))
		}
	}

	m := tiles.NewTileManager(name, provider, c.pool, opts.Tiles.CacheSize)
	m.SetOnLoadCallback(c.Map.Invalidate)
	l.SetManager(m)
	return l
}

func loadCollection(assets fs.FS, path string) (*geo.Collection, error) {
	raw, err := fs.ReadFile(assets, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return geo.Load(path, raw)
}

// Close stops the tile loaders.
func (c *Configurator) Close() {
	c.pool.Shutdown()
}
