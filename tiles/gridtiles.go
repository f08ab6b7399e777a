package tiles

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// GridProvider synthesizes labeled placeholder tiles so the map renders
// without any tile data on disk. It is the chain's last resort and the
// provider of choice in tests.
type GridProvider struct {
	cache *lru.Cache[Tile, *Image]
}

func NewGridProvider(cacheTiles int) (*GridProvider, error) {
	cache, err := lru.NewWithEvict[Tile, *Image](max(cacheTiles, 1), func(_ Tile, img *Image) {
		img.Release()
	})
	if err != nil {
		return nil, err
	}
	return &GridProvider{cache: cache}, nil
}

func (p *GridProvider) GetTile(t Tile) (*Image, error) {
	if img, ok := p.cache.Get(t); ok {
		return img, nil
	}
	img := NewImage(renderGridTile(t))
	p.cache.Add(t, img)
	return img, nil
}

func (p *GridProvider) Close() {
	p.cache.Purge()
}

func renderGridTile(t Tile) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))

	bg := color.RGBA{214, 222, 230, 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	// One-pixel frame so tile boundaries stay visible when composited.
	edge := color.RGBA{120, 128, 136, 255}
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, TileSize, 1),
		image.Rect(0, TileSize-1, TileSize, TileSize),
		image.Rect(0, 0, 1, TileSize),
		image.Rect(TileSize-1, 0, TileSize, TileSize),
	} {
		draw.Draw(img, r, &image.Uniform{edge}, image.Point{}, draw.Src)
	}

	label := fmt.Sprintf("%d/%d/%d", t.Level, t.X, t.Y)
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{60, 64, 70, 255}),
		Face: face,
	}
	w := d.MeasureString(label).Round()
	d.Dot = fixed.Point26_6{
		X: fixed.I((TileSize - w) / 2),
		Y: fixed.I(TileSize/2 + face.Metrics().Height.Round()/2),
	}
	d.DrawString(label)

	return img
}
