package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const defaultUserAgent = "gio-geomap/1.0 (+https://github.com/olablt/gio-geomap)"

// HTTPTileProvider fetches raster tiles from a URL template.
type HTTPTileProvider struct {
	layer     string
	template  URLTemplate
	client    *http.Client
	userAgent string
}

type HTTPOption func(*HTTPTileProvider)

// WithClient replaces the default client (10s timeout).
func WithClient(c *http.Client) HTTPOption {
	return func(p *HTTPTileProvider) { p.client = c }
}

func WithUserAgent(ua string) HTTPOption {
	return func(p *HTTPTileProvider) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

func NewHTTPTileProvider(layer string, template URLTemplate, opts ...HTTPOption) *HTTPTileProvider {
	p := &HTTPTileProvider{
		layer:     layer,
		template:  template,
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPTileProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	url := p.GetTileURL(tile)
	slog.Debug("requesting tile", "layer", p.layer, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		tileRequests.WithLabelValues(p.layer, "error").Inc()
		return nil, fmt.Errorf("build request for %s: %w", tile.Key(), err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "image/png,image/*;q=0.8,*/*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		tileRequests.WithLabelValues(p.layer, "error").Inc()
		return nil, fmt.Errorf("fetch tile %s: %w", tile.Key(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		tileRequests.WithLabelValues(p.layer, strconv.Itoa(resp.StatusCode)).Inc()
		return nil, fmt.Errorf("fetch tile %s: unexpected status code: %d", tile.Key(), resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		tileRequests.WithLabelValues(p.layer, "decode_error").Inc()
		return nil, fmt.Errorf("decode tile %s: %w", tile.Key(), err)
	}

	tileRequests.WithLabelValues(p.layer, "ok").Inc()
	return img, nil
}

// GetTileURL returns the URL for downloading the map tile
func (p *HTTPTileProvider) GetTileURL(tile Tile) string {
	return p.template.Expand(tile)
}
