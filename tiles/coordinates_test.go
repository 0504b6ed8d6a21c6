package tiles

import (
	"image"
	"math"
	"testing"
)

func TestLatLngToTile(t *testing.T) {
	tests := []struct {
		name string
		ll   LatLng
		zoom int
		want Tile
	}{
		{"origin zoom 0", LatLng{0, 0}, 0, Tile{0, 0, 0}},
		{"salzburg zoom 9", LatLng{47.5, 13.05}, 9, Tile{274, 179, 9}},
		{"south east quadrant", LatLng{-10, 10}, 1, Tile{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatLngToTile(tt.ll, tt.zoom); got != tt.want {
				t.Errorf("LatLngToTile(%v, %d) = %v, want %v", tt.ll, tt.zoom, got, tt.want)
			}
		})
	}
}

func TestTileToLatLng_NorthWestCorner(t *testing.T) {
	ll := TileToLatLng(Tile{X: 0, Y: 0, Zoom: 1})
	if math.Abs(ll.Lng+180) > 1e-9 {
		t.Errorf("lng = %v, want -180", ll.Lng)
	}
	if math.Abs(ll.Lat-maxLatitude) > 1e-6 {
		t.Errorf("lat = %v, want %v", ll.Lat, maxLatitude)
	}
}

func TestWorldCoordinatesRoundTrip(t *testing.T) {
	for _, ll := range []LatLng{{47.5, 13.05}, {-33.9, 151.2}, {0, 0}, {60, -120}} {
		x, y := CalculateWorldCoordinates(ll, 12)
		got := WorldToLatLng(x, y, 12)
		if math.Abs(got.Lat-ll.Lat) > 1e-9 || math.Abs(got.Lng-ll.Lng) > 1e-9 {
			t.Errorf("round trip of %v gave %v", ll, got)
		}
	}
}

func TestTileWrap(t *testing.T) {
	tests := []struct {
		in, want Tile
	}{
		{Tile{X: -1, Y: 0, Zoom: 2}, Tile{X: 3, Y: 0, Zoom: 2}},
		{Tile{X: 4, Y: 1, Zoom: 2}, Tile{X: 0, Y: 1, Zoom: 2}},
		{Tile{X: 2, Y: 1, Zoom: 2}, Tile{X: 2, Y: 1, Zoom: 2}},
	}
	for _, tt := range tests {
		if got := tt.in.Wrap(); got != tt.want {
			t.Errorf("%v.Wrap() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCalculateVisibleTiles(t *testing.T) {
	got := CalculateVisibleTiles(LatLng{0, 0}, 1, image.Pt(512, 512))
	if len(got) != 4 {
		t.Fatalf("expected 4 tiles, got %d: %v", len(got), got)
	}
	for _, tile := range got {
		if !tile.Valid() {
			t.Errorf("invalid tile %v returned", tile)
		}
	}

	// Zoom 0 seen through a tall window: rows above and below the world
	// are skipped.
	got = CalculateVisibleTiles(LatLng{0, 0}, 0, image.Pt(100, 1000))
	if len(got) != 1 || got[0] != (Tile{0, 0, 0}) {
		t.Errorf("expected only the single world tile, got %v", got)
	}

	if got := CalculateVisibleTiles(LatLng{0, 0}, 3, image.Point{}); got != nil {
		t.Errorf("expected nil for an empty screen, got %v", got)
	}
}

func TestLatLngString(t *testing.T) {
	tests := []struct {
		ll   LatLng
		want string
	}{
		{LatLng{47.22421, 13.153268}, "LatLng(47.22421, 13.153268)"},
		{LatLng{47, 12}, "LatLng(47, 12)"},
		{LatLng{47.12345678, -13.0000004}, "LatLng(47.123457, -13)"},
	}
	for _, tt := range tests {
		if got := tt.ll.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCalculateMetersPerPixel(t *testing.T) {
	got := CalculateMetersPerPixel(0, 0)
	want := earthCircumference / TileSize
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("CalculateMetersPerPixel(0, 0) = %v, want %v", got, want)
	}
	if half := CalculateMetersPerPixel(60, 0); math.Abs(half-want/2) > 1e-6 {
		t.Errorf("at 60° expected half the equator resolution, got %v", half)
	}
}
