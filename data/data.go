// Package data embeds the static feature collections and icon images the
// Salzburg map is built from.
package data

import "embed"

// FS holds geojson/*.geojson and icons/*.png.
//
//go:embed geojson/*.geojson icons/*.png
var FS embed.FS

const (
	FederalStateFile = "geojson/federalstate_sbg.geojson"
	SummitsFile      = "geojson/summits.geojson"
	WalkFile         = "geojson/mywalk.geojson"
	NatParksFile     = "geojson/natparks.geojson"

	HouseIcon  = "icons/house.png"
	SummitIcon = "icons/summit.png"
)
