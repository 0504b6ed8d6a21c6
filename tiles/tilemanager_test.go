package tiles

import (
	"context"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/olablt/gio-geomap/tiles/worker"
)

type fakeProvider struct {
	calls atomic.Int32
	err   error
}

func (f *fakeProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, TileSize, TileSize)), nil
}

func TestTileManager_LoadsAsynchronously(t *testing.T) {
	pool := worker.NewPool(1, 4, 0)
	defer pool.Shutdown()

	provider := &fakeProvider{}
	tm := NewTileManager("async", provider, pool, 8)
	loaded := make(chan struct{}, 1)
	tm.SetOnLoadCallback(func() { loaded <- struct{}{} })

	tile := Tile{X: 1, Y: 1, Zoom: 2}
	if _, ok := tm.Tile(tile); ok {
		t.Fatal("expected a miss before the tile is loaded")
	}

	select {
	case <-loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("tile was never loaded")
	}

	if _, ok := tm.Tile(tile); !ok {
		t.Fatal("expected the tile to be cached")
	}
	if n := provider.calls.Load(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}
	if v := testutil.ToFloat64(tileLookups.WithLabelValues("async", "hit")); v != 1 {
		t.Errorf("hit lookups = %v, want 1", v)
	}
	if v := testutil.ToFloat64(tileLookups.WithLabelValues("async", "scheduled")); v != 1 {
		t.Errorf("scheduled lookups = %v, want 1", v)
	}
}

func TestTileManager_FailedTileBackOff(t *testing.T) {
	pool := worker.NewPool(1, 4, 0)
	defer pool.Shutdown()

	provider := &fakeProvider{err: errors.New("offline")}
	tm := NewTileManager("backoff", provider, pool, 8)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return now }

	tile := Tile{X: 0, Y: 0, Zoom: 0}
	if _, err := tm.Load(context.Background(), tile); err == nil {
		t.Fatal("expected the load to fail")
	}

	// Inside the back-off window nothing is scheduled.
	if _, ok := tm.Tile(tile); ok {
		t.Fatal("failed tile must not be reported as cached")
	}
	tm.mu.Lock()
	scheduled := tm.loading[tile.Key()]
	tm.mu.Unlock()
	if scheduled {
		t.Error("failed tile was rescheduled inside the back-off window")
	}
	if v := testutil.ToFloat64(tileLookups.WithLabelValues("backoff", "backoff")); v != 1 {
		t.Errorf("backoff lookups = %v, want 1", v)
	}

	now = now.Add(DefaultRetryAfter + time.Second)
	tm.Tile(tile)
	deadline := time.After(5 * time.Second)
	for provider.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("tile was not retried after the back-off window")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTileManager_LoadCachesResult(t *testing.T) {
	pool := worker.NewPool(1, 1, 0)
	defer pool.Shutdown()

	provider := &fakeProvider{}
	tm := NewTileManager("sync", provider, pool, 8)
	calls := 0
	tm.SetOnLoadCallback(func() { calls++ })

	tile := Tile{X: 2, Y: 3, Zoom: 3}
	if _, err := tm.Load(context.Background(), tile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("onLoad called %d times, want 1", calls)
	}
	if _, ok := tm.Tile(tile); !ok {
		t.Error("expected Load to populate the cache")
	}
	if n := provider.calls.Load(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}
}

func TestTileManager_FetchesEachTileOnce(t *testing.T) {
	pool := worker.NewPool(4, 64, 0)
	defer pool.Shutdown()

	provider := &fakeProvider{}
	tm := NewTileManager("once", provider, pool, 64)

	// Several render loops ask for the same tiles until all are cached; a
	// tile must never be fetched again once its first load is done.
	want := []Tile{{0, 0, 2}, {1, 0, 2}, {2, 1, 2}, {3, 3, 2}}
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) {
				done := 0
				for _, tile := range want {
					if _, ok := tm.Tile(tile); ok {
						done++
					}
				}
				if done == len(want) {
					return
				}
			}
			t.Error("tiles were not loaded in time")
		}()
	}
	wg.Wait()

	if n := provider.calls.Load(); n != int32(len(want)) {
		t.Errorf("provider called %d times for %d tiles", n, len(want))
	}
}

// slowTileServer answers with a PNG tile after delay, or gives up when the
// request is cancelled.
func slowTileServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	body := pngTile(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
			_, _ = w.Write(body)
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTileManager_PoolTimeoutGovernsSlowTiles(t *testing.T) {
	srv := slowTileServer(t, 300*time.Millisecond)
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"timeout shorter than the server", 100 * time.Millisecond, true},
		{"timeout longer than the server", 5 * time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := worker.NewPool(1, 1, tt.timeout)
			defer pool.Shutdown()

			// The client itself would wait far longer than the pool allows.
			client := &http.Client{Timeout: time.Minute}
			provider := NewHTTPTileProvider("slow", URLTemplate{Pattern: srv.URL + "/{z}/{x}/{y}.png"}, WithClient(client))
			tm := NewTileManager("slow", provider, pool, 4)

			errs := make(chan error, 1)
			pool.Submit(worker.Task{Work: func(ctx context.Context) error {
				_, err := tm.Load(ctx, Tile{Zoom: 1})
				errs <- err
				return err
			}})
			select {
			case err := <-errs:
				if (err != nil) != tt.wantErr {
					t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				}
			case <-time.After(10 * time.Second):
				t.Fatal("load never finished")
			}
		})
	}
}
