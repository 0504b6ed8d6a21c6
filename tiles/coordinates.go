package tiles

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const (
	TileSize           = 256
	earthCircumference = 40075016.686 // meters at equator
	maxLatitude        = 85.0511287798
)

// Tile represents a map tile coordinates
type Tile struct {
	X, Y, Zoom int
}

// Key returns the z/x/y string used for caching and logging.
func (t Tile) Key() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// Wrap folds X back into the valid column range so the map repeats
// horizontally. Y is left alone.
func (t Tile) Wrap() Tile {
	n := 1 << t.Zoom
	t.X = ((t.X % n) + n) % n
	return t
}

// Valid reports whether the row lies inside the world at this zoom.
func (t Tile) Valid() bool {
	return t.Zoom >= 0 && t.Y >= 0 && t.Y < 1<<t.Zoom
}

// LatLng represents a geographical point
type LatLng struct {
	Lat, Lng float64
}

// Point returns the orb point (lng, lat).
func (ll LatLng) Point() orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// FromPoint converts an orb point (lng, lat) to a LatLng.
func FromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// String formats the point with six decimals, trailing zeros trimmed,
// e.g. "LatLng(47.22421, 13.153268)".
func (ll LatLng) String() string {
	return "LatLng(" + formatCoord(ll.Lat) + ", " + formatCoord(ll.Lng) + ")"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

// LatLngToTile converts geographical coordinates to tile coordinates
func LatLngToTile(ll LatLng, zoom int) Tile {
	t := maptile.At(clampLatLng(ll).Point(), maptile.Zoom(zoom))
	return Tile{X: int(t.X), Y: int(t.Y), Zoom: zoom}
}

// TileToLatLng converts tile coordinates to the geographical coordinates
// of the tile's north-west corner.
func TileToLatLng(tile Tile) LatLng {
	n := math.Pow(2, float64(tile.Zoom))
	lon_deg := float64(tile.X)/n*360.0 - 180.0
	lat_rad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(tile.Y)/n)))
	lat_deg := lat_rad * 180.0 / math.Pi
	return LatLng{Lat: lat_deg, Lng: lon_deg}
}

// CalculateWorldCoordinates converts geographical coordinates to world pixel coordinates at given zoom level
func CalculateWorldCoordinates(ll LatLng, zoom int) (float64, float64) {
	ll = clampLatLng(ll)
	n := math.Pow(2, float64(zoom))
	lat_rad := ll.Lat * math.Pi / 180.0
	worldX := float64(TileSize) * n * (ll.Lng + 180) / 360
	worldY := float64(TileSize) * n * (1 - math.Log(math.Tan(lat_rad)+1/math.Cos(lat_rad))/math.Pi) / 2
	return worldX, worldY
}

// WorldToLatLng converts world pixel coordinates back to geographical coordinates
func WorldToLatLng(worldX, worldY float64, zoom int) LatLng {
	n := math.Pow(2, float64(zoom))
	lng := (worldX/(float64(TileSize)*n))*360 - 180
	latRad := math.Pi * (1 - 2*worldY/(float64(TileSize)*n))
	lat := 180 / math.Pi * math.Atan(math.Sinh(latRad))
	return LatLng{Lat: lat, Lng: lng}
}

// CalculateMetersPerPixel calculates the meters per pixel at a given latitude and zoom level
func CalculateMetersPerPixel(latitude float64, zoom int) float64 {
	return earthCircumference * math.Cos(latitude*math.Pi/180) / (math.Pow(2, float64(zoom)) * TileSize)
}

// CalculateVisibleTiles calculates which tiles cover a screen of the given
// size centred on center. Columns are returned unwrapped so callers can
// position them on screen; call Wrap before fetching. Rows outside the
// world are skipped.
func CalculateVisibleTiles(center LatLng, zoom int, screenSize image.Point) []Tile {
	if screenSize.X <= 0 || screenSize.Y <= 0 {
		return nil
	}
	cx, cy := CalculateWorldCoordinates(center, zoom)
	halfW, halfH := float64(screenSize.X)/2, float64(screenSize.Y)/2

	// Right and bottom screen edges are exclusive.
	minX := int(math.Floor((cx - halfW) / TileSize))
	maxX := int(math.Ceil((cx+halfW)/TileSize)) - 1
	minY := int(math.Floor((cy - halfH) / TileSize))
	maxY := int(math.Ceil((cy+halfH)/TileSize)) - 1

	visibleTiles := make([]Tile, 0, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			tile := Tile{X: x, Y: y, Zoom: zoom}
			if !tile.Valid() {
				continue
			}
			visibleTiles = append(visibleTiles, tile)
		}
	}
	return visibleTiles
}

func clampLatLng(ll LatLng) LatLng {
	ll.Lat = max(-maxLatitude, min(ll.Lat, maxLatitude))
	return ll
}
