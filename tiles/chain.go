package tiles

import "errors"

// Chain queries an ordered list of providers and returns the first hit,
// giving fallback semantics: a high-resolution aeronautical source first,
// a general-purpose source behind it. A tile absent from every provider
// reports ErrTileNotFound.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// GetTile walks the chain in priority order. Providers failing with
// ErrTileNotFound are skipped; any other provider error ends the walk for
// this tile, since a decode failure is unlikely to be healed by a
// lower-priority source holding the same data.
func (c *Chain) GetTile(t Tile) (*Image, error) {
	for _, p := range c.providers {
		img, err := p.GetTile(t)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, ErrTileNotFound) {
			return nil, err
		}
	}
	return nil, ErrTileNotFound
}

// Close closes every provider in the chain.
func (c *Chain) Close() {
	for _, p := range c.providers {
		p.Close()
	}
}
