package tiles

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LocalTileProvider renders placeholder tiles labelled with their z/x/y
// address. It never fails and needs no network.
type LocalTileProvider struct {
	label string
}

func NewLocalTileProvider(label string) *LocalTileProvider {
	return &LocalTileProvider{label: label}
}

func (p *LocalTileProvider) GetTile(_ context.Context, tile Tile) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))

	bgColor := color.RGBA{200, 220, 255, 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{bgColor}, image.Point{}, draw.Src)

	drawText(img, fmt.Sprintf("%d/%d/%d", tile.Zoom, tile.X, tile.Y), 120)
	if p.label != "" {
		drawText(img, p.label, 150)
	}

	borderColor := color.RGBA{100, 100, 100, 255}
	borders := []image.Rectangle{
		image.Rect(0, 0, TileSize, 1),                 // Top
		image.Rect(0, TileSize-1, TileSize, TileSize), // Bottom
		image.Rect(0, 0, 1, TileSize),                 // Left
		image.Rect(TileSize-1, 0, TileSize, TileSize), // Right
	}
	for _, rect := range borders {
		draw.Draw(img, rect, &image.Uniform{borderColor}, image.Point{}, draw.Src)
	}

	return img, nil
}

// drawText writes text centred horizontally on a translucent box whose
// vertical centre is midY.
func drawText(img *image.RGBA, text string, midY int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()

	padding := 6
	textBgRect := image.Rect(
		(TileSize-textWidth)/2-padding,
		midY-textHeight/2-padding,
		(TileSize+textWidth)/2+padding,
		midY+textHeight/2+padding,
	)
	textBgColor := color.RGBA{255, 255, 255, 220}
	draw.Draw(img, textBgRect, &image.Uniform{textBgColor}, image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{
		X: fixed.I((TileSize - textWidth) / 2),
		Y: fixed.I(midY + textHeight/2 - 2),
	}
	d.DrawString(text)
}
