package tiles

import (
	"math"
	"testing"
)

func TestWorldSize(t *testing.T) {
	for _, tc := range []struct{ level, want int }{
		{0, 256},
		{1, 512},
		{5, 8192},
		{15, 8388608},
	} {
		if got := WorldSize(tc.level); got != tc.want {
			t.Errorf("WorldSize(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestGeoWorldRoundTrip(t *testing.T) {
	points := []LatLng{
		{0, 0},
		{48.8566, 2.3522},
		{-33.8688, 151.2093},
		{61.2181, -149.9003},
		{84.9, 179.9},
		{-84.9, -179.9},
	}
	for level := 0; level <= MaxLevel; level++ {
		for _, p := range points {
			x, y := GeoToWorld(p, level)
			got := WorldToGeo(x, y, level)
			if math.Abs(got.Lat-p.Lat) > 1e-9 || math.Abs(got.Lng-p.Lng) > 1e-9 {
				t.Errorf("level %d: round trip of %+v gave %+v", level, p, got)
			}
		}
	}
}

func TestPixelRoundTripAtMaxLevel(t *testing.T) {
	// Whole pixels quantize the position; at level 15 one pixel is under
	// 5e-5 degrees of longitude.
	p := LatLng{52.5200, 13.4050}
	x, y := GeoToPixel(p, MaxLevel)
	got := PixelToGeo(x, y, MaxLevel)
	if math.Abs(got.Lat-p.Lat) > 1e-4 || math.Abs(got.Lng-p.Lng) > 1e-4 {
		t.Errorf("pixel round trip of %+v gave %+v", p, got)
	}
}

func TestGeoToPixelClampsToWorld(t *testing.T) {
	for _, p := range []LatLng{{90, 200}, {-90, -200}, {89.9999, 180}} {
		x, y := GeoToPixel(p, 3)
		last := WorldSize(3) - 1
		if x < 0 || y < 0 || x > last || y > last {
			t.Errorf("GeoToPixel(%+v) = (%d,%d) outside [0,%d]", p, x, y, last)
		}
	}
}

func TestLatLngToTile(t *testing.T) {
	// The origin of the projection (lat 0, lng 0) is the exact center of
	// the world square: first tile of the south-east quadrant.
	tile := LatLngToTile(LatLng{0, 0}, 4)
	if tile.X != 8 || tile.Y != 8 {
		t.Errorf("center tile at level 4 = %v, want 8/8", tile)
	}
	if tile.Level != 4 {
		t.Errorf("tile level = %d, want 4", tile.Level)
	}
}

func TestTileToLatLngInverse(t *testing.T) {
	tile := Tile{X: 33, Y: 22, Level: 6}
	if got := LatLngToTile(TileToLatLng(tile), 6); got != tile {
		t.Errorf("center of %v maps back to %v", tile, got)
	}
}

func TestConstrainTile(t *testing.T) {
	for _, tc := range []struct{ in, want Tile }{
		{Tile{-1, -5, 3}, Tile{0, 0, 3}},
		{Tile{8, 9, 3}, Tile{7, 7, 3}},
		{Tile{4, 4, 3}, Tile{4, 4, 3}},
	} {
		if got := ConstrainTile(tc.in); got != tc.want {
			t.Errorf("ConstrainTile(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
