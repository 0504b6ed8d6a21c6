package tiles

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// CombinedTileProvider serves tiles from primary and falls back to a
// second provider when primary fails.
type CombinedTileProvider struct {
	primary  TileProvider
	fallback TileProvider
}

func NewCombinedTileProvider(primary, fallback TileProvider) *CombinedTileProvider {
	return &CombinedTileProvider{
		primary:  primary,
		fallback: fallback,
	}
}

func (p *CombinedTileProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	img, err := p.primary.GetTile(ctx, tile)
	if err == nil {
		return img, nil
	}
	slog.Debug("primary tile provider failed, using fallback", "tile", tile.Key(), "error", err)

	fallbackImg, ferr := p.fallback.GetTile(ctx, tile)
	if ferr != nil {
		return nil, fmt.Errorf("both primary and fallback providers failed: %w", ferr)
	}
	return fallbackImg, nil
}
