package tiles

import (
	"errors"
	"fmt"
)

// ErrTileNotFound is returned by providers that do not have the requested
// tile. A chain treats it as "try the next source"; the compositor treats
// a chain-wide miss as a rendering gap, not a failure.
var ErrTileNotFound = errors.New("tile not found")

// Provider is a single source of map tiles. Implementations cache
// internally and hand out reference-counted images; the returned image is
// owned by the provider's cache and callers must Retain it if they keep it
// past the next GetTile call.
type Provider interface {
	GetTile(t Tile) (*Image, error)
	Close()
}

// Key returns the canonical level/x/y cache key for a tile.
func (t Tile) Key() string {
	return fmt.Sprintf("%d/%d/%d", t.Level, t.X, t.Y)
}

func (t Tile) String() string {
	return t.Key()
}
