package tiles

import (
	"strconv"
	"strings"
)

// DefaultSubdomains are used for {s} when a template does not name its own.
const DefaultSubdomains = "abc"

// URLTemplate addresses a raster tile source, e.g.
// "http://{s}.tile.example.com/{z}/{x}/{y}.png".
type URLTemplate struct {
	Pattern    string
	Subdomains string
}

// Expand substitutes the placeholders for tile. The subdomain rotates with
// the tile position so neighbouring tiles spread over hosts.
func (t URLTemplate) Expand(tile Tile) string {
	subdomains := t.Subdomains
	if subdomains == "" {
		subdomains = DefaultSubdomains
	}
	idx := (tile.X + tile.Y) % len(subdomains)
	if idx < 0 {
		idx = -idx
	}

	r := strings.NewReplacer(
		"{s}", string(subdomains[idx]),
		"{z}", strconv.Itoa(tile.Zoom),
		"{x}", strconv.Itoa(tile.X),
		"{y}", strconv.Itoa(tile.Y),
		"{r}", "",
	)
	return r.Replace(t.Pattern)
}
