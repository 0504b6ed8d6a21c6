package tiles

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func pngTile(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestHTTPTileProvider_GetTile(t *testing.T) {
	body := pngTile(t)
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	p := NewHTTPTileProvider("http-ok", URLTemplate{Pattern: srv.URL + "/{z}/{x}/{y}.png"},
		WithClient(srv.Client()), WithUserAgent("geomap-test"))

	img, err := p.GetTile(context.Background(), Tile{X: 3, Y: 5, Zoom: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != TileSize {
		t.Errorf("expected a %dpx tile, got %v", TileSize, img.Bounds())
	}
	if gotPath != "/4/3/5.png" {
		t.Errorf("requested %q, want /4/3/5.png", gotPath)
	}
	if gotUA != "geomap-test" {
		t.Errorf("User-Agent = %q, want geomap-test", gotUA)
	}
	if v := testutil.ToFloat64(tileRequests.WithLabelValues("http-ok", "ok")); v != 1 {
		t.Errorf("ok counter = %v, want 1", v)
	}
}

func TestHTTPTileProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  string
	}{
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
			status:  "404",
		},
		{
			name: "not an image",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>rate limited</html>"))
			},
			status: "decode_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			layer := "http-" + tt.status
			p := NewHTTPTileProvider(layer, URLTemplate{Pattern: srv.URL + "/{z}/{x}/{y}.png"}, WithClient(srv.Client()))
			if _, err := p.GetTile(context.Background(), Tile{Zoom: 1}); err == nil {
				t.Fatal("expected an error")
			}
			if v := testutil.ToFloat64(tileRequests.WithLabelValues(layer, tt.status)); v != 1 {
				t.Errorf("%s counter = %v, want 1", tt.status, v)
			}
		})
	}
}

func TestHTTPTileProvider_DefaultUserAgent(t *testing.T) {
	p := NewHTTPTileProvider("ua", URLTemplate{}, WithUserAgent(""))
	if p.userAgent != defaultUserAgent {
		t.Errorf("userAgent = %q, want the default", p.userAgent)
	}
}
