package tiles

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"gioui.org/op/paint"

	"github.com/olablt/gio-geomap/tiles/worker"
)

// DefaultRetryAfter is how long a failed tile is left blank before the
// manager asks the provider again.
const DefaultRetryAfter = 30 * time.Second

type TileProvider interface {
	GetTile(ctx context.Context, tile Tile) (image.Image, error)
}

// TileManager caches decoded tiles for one layer and loads missing ones on
// a worker pool so the render loop never waits on the network.
type TileManager struct {
	layer    string
	cache    *Cache[paint.ImageOp]
	provider TileProvider
	pool     *worker.Pool
	onLoad   func()

	mu         sync.Mutex
	loading    map[string]bool
	failed     map[string]time.Time
	retryAfter time.Duration
	now        func() time.Time
}

func NewTileManager(layer string, provider TileProvider, pool *worker.Pool, cacheSize int) *TileManager {
	return &TileManager{
		layer:      layer,
		cache:      NewCache[paint.ImageOp](cacheSize),
		provider:   provider,
		pool:       pool,
		loading:    make(map[string]bool),
		failed:     make(map[string]time.Time),
		retryAfter: DefaultRetryAfter,
		now:        time.Now,
	}
}

func (tm *TileManager) Layer() string {
	return tm.layer
}

func (tm *TileManager) SetOnLoadCallback(callback func()) {
	tm.onLoad = callback
}

// Tile returns the cached tile or schedules a load and reports false.
// Failed tiles stay blank until the retry delay passes.
func (tm *TileManager) Tile(tile Tile) (paint.ImageOp, bool) {
	key := tile.Key()
	if imgOp, ok := tm.cache.Get(key); ok {
		tileLookups.WithLabelValues(tm.layer, "hit").Inc()
		return imgOp, true
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.loading[key] {
		tileLookups.WithLabelValues(tm.layer, "pending").Inc()
		return paint.ImageOp{}, false
	}
	if at, ok := tm.failed[key]; ok && tm.now().Sub(at) < tm.retryAfter {
		tileLookups.WithLabelValues(tm.layer, "backoff").Inc()
		return paint.ImageOp{}, false
	}

	tm.loading[key] = true
	submitted := tm.pool.Submit(worker.Task{
		Ctx: context.Background(),
		Work: func(ctx context.Context) error {
			_, err := tm.Load(ctx, tile)
			return err
		},
	})
	if !submitted {
		delete(tm.loading, key)
		tileLookups.WithLabelValues(tm.layer, "dropped").Inc()
		return paint.ImageOp{}, false
	}
	tileLookups.WithLabelValues(tm.layer, "scheduled").Inc()
	return paint.ImageOp{}, false
}

// Load fetches tile synchronously, caches it and fires the load callback.
// The tile stays marked as loading until it is in the cache.
func (tm *TileManager) Load(ctx context.Context, tile Tile) (paint.ImageOp, error) {
	key := tile.Key()
	img, err := tm.provider.GetTile(ctx, tile)
	if err != nil {
		tm.mu.Lock()
		delete(tm.loading, key)
		tm.failed[key] = tm.now()
		tm.mu.Unlock()
		slog.Warn("tile load failed", "layer", tm.layer, "tile", key, "error", err)
		return paint.ImageOp{}, err
	}

	imgOp := paint.NewImageOp(img)
	tm.cache.Set(key, imgOp)

	tm.mu.Lock()
	delete(tm.loading, key)
	delete(tm.failed, key)
	tm.mu.Unlock()

	if tm.onLoad != nil {
		tm.onLoad()
	}
	return imgOp, nil
}
