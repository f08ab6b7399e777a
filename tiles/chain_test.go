package tiles

import (
	"errors"
	"image"
	"testing"
)

// stubProvider serves a fixed set of tiles from memory.
type stubProvider struct {
	have map[Tile]*Image
	hits int
	err  error
}

func newStubProvider(have ...Tile) *stubProvider {
	p := &stubProvider{have: make(map[Tile]*Image)}
	for _, t := range have {
		p.have[t] = NewImage(image.NewRGBA(image.Rect(0, 0, TileSize, TileSize)))
	}
	return p
}

func (p *stubProvider) GetTile(t Tile) (*Image, error) {
	p.hits++
	if p.err != nil {
		return nil, p.err
	}
	if img, ok := p.have[t]; ok {
		return img, nil
	}
	return nil, ErrTileNotFound
}

func (p *stubProvider) Close() {
	for _, img := range p.have {
		img.Release()
	}
}

func TestChainPrimaryWins(t *testing.T) {
	tile := Tile{X: 1, Y: 2, Level: 3}
	primary := newStubProvider(tile)
	fallback := newStubProvider(tile)
	c := NewChain(primary, fallback)
	defer c.Close()

	img, err := c.GetTile(tile)
	if err != nil {
		t.Fatalf("GetTile: %v", err)
	}
	if img != primary.have[tile] {
		t.Error("chain did not return the primary provider's tile")
	}
	if fallback.hits != 0 {
		t.Errorf("fallback queried %d times on a primary hit", fallback.hits)
	}
}

func TestChainFallsBack(t *testing.T) {
	tile := Tile{X: 4, Y: 4, Level: 5}
	primary := newStubProvider()
	fallback := newStubProvider(tile)
	c := NewChain(primary, fallback)
	defer c.Close()

	img, err := c.GetTile(tile)
	if err != nil {
		t.Fatalf("GetTile: %v", err)
	}
	if img != fallback.have[tile] {
		t.Error("chain did not fall back")
	}
}

func TestChainMissEverywhere(t *testing.T) {
	c := NewChain(newStubProvider(), newStubProvider())
	defer c.Close()

	_, err := c.GetTile(Tile{X: 0, Y: 0, Level: 1})
	if !errors.Is(err, ErrTileNotFound) {
		t.Errorf("want ErrTileNotFound, got %v", err)
	}
}

func TestChainStopsOnRealError(t *testing.T) {
	tile := Tile{X: 0, Y: 0, Level: 0}
	broken := newStubProvider()
	broken.err = errors.New("corrupt tile store")
	fallback := newStubProvider(tile)
	c := NewChain(broken, fallback)
	defer c.Close()

	if _, err := c.GetTile(tile); err == nil {
		t.Error("expected the provider error to surface")
	}
	if fallback.hits != 0 {
		t.Error("chain fell through a non-miss error")
	}
}
