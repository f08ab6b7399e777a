package tiles

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DiskProvider serves pre-rendered tiles from a local directory laid out
// as <base>/<level>/<x>/<y>.<ext>. Decoded tiles are kept in an LRU cache
// sized by the caller (the map engine derives the capacity from its
// viewport geometry). Eviction releases the cache's reference; a tile
// still borrowed by the current frame stays alive until the patch list
// releases it.
type DiskProvider struct {
	base  string
	ext   string
	cache *lru.Cache[Tile, *Image]
}

// NewDiskProvider creates a provider rooted at base serving tiles with the
// given file extension ("png", "jpg"), caching up to cacheTiles decoded
// tiles.
func NewDiskProvider(base, ext string, cacheTiles int) (*DiskProvider, error) {
	cache, err := lru.NewWithEvict[Tile, *Image](max(cacheTiles, 1), func(_ Tile, img *Image) {
		img.Release()
	})
	if err != nil {
		return nil, err
	}
	return &DiskProvider{base: base, ext: ext, cache: cache}, nil
}

// GetTile returns the cached tile or decodes it from disk. A missing file
// reports ErrTileNotFound; a present but undecodable file is a real error.
func (p *DiskProvider) GetTile(t Tile) (*Image, error) {
	if img, ok := p.cache.Get(t); ok {
		return img, nil
	}

	path := p.tilePath(t)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrTileNotFound)
		}
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	img := NewImage(src)
	p.cache.Add(t, img)
	return img, nil
}

// Close drops every cached tile, releasing the cache's references.
func (p *DiskProvider) Close() {
	p.cache.Purge()
}

func (p *DiskProvider) tilePath(t Tile) string {
	return filepath.Join(p.base,
		strconv.Itoa(t.Level),
		strconv.Itoa(t.X),
		strconv.Itoa(t.Y)+"."+p.ext)
}
