package tiles

import "math"

const (
	// TileSize is the side length of every map tile, in pixels.
	TileSize = 256

	// MaxLevel is the deepest zoom level supported by the world-pixel math.
	MaxLevel = 15

	// MaxLatitude is the Mercator cutoff; latitudes beyond it project
	// outside the square world and are clipped to it.
	MaxLatitude = 85.05112878
)

// Tile represents a map tile coordinates
type Tile struct {
	X, Y, Level int
}

// LatLng represents a geographical point
type LatLng struct {
	Lat, Lng float64
}

// WorldSize returns the side length, in pixels, of the whole map at the
// given zoom level: 256·2^level.
func WorldSize(level int) int {
	return TileSize << level
}

// GeoToWorld converts geographical coordinates to world pixel coordinates
// at the given zoom level, using the standard slippy-map projection
// (equirectangular longitude, Mercator latitude).
func GeoToWorld(ll LatLng, level int) (float64, float64) {
	lat := clip(ll.Lat, -MaxLatitude, MaxLatitude)
	lng := clip(ll.Lng, -180, 180)
	latRad := lat * math.Pi / 180
	size := float64(WorldSize(level))
	x := size * (lng + 180) / 360
	y := size * (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2
	return x, y
}

// WorldToGeo converts world pixel coordinates back to geographical
// coordinates at the given zoom level. Inverse of GeoToWorld up to
// floating-point error.
func WorldToGeo(x, y float64, level int) LatLng {
	size := float64(WorldSize(level))
	lng := x/size*360 - 180
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*y/size)))
	return LatLng{Lat: latRad * 180 / math.Pi, Lng: lng}
}

// GeoToPixel is GeoToWorld rounded to whole pixels and clamped to the
// world square. The map controllers track positions in whole pixels.
func GeoToPixel(ll LatLng, level int) (int, int) {
	x, y := GeoToWorld(ll, level)
	last := float64(WorldSize(level) - 1)
	return int(clip(math.Round(x), 0, last)), int(clip(math.Round(y), 0, last))
}

// PixelToGeo converts whole world pixels back to geographical coordinates.
func PixelToGeo(x, y, level int) LatLng {
	return WorldToGeo(float64(x), float64(y), level)
}

// LatLngToTile converts geographical coordinates to the tile containing them.
func LatLngToTile(ll LatLng, level int) Tile {
	x, y := GeoToPixel(ll, level)
	return Tile{X: x / TileSize, Y: y / TileSize, Level: level}
}

// TileToLatLng converts tile coordinates to geographical coordinates
// (returns center of tile).
func TileToLatLng(t Tile) LatLng {
	cx := float64(t.X*TileSize) + TileSize/2
	cy := float64(t.Y*TileSize) + TileSize/2
	return WorldToGeo(cx, cy, t.Level)
}

// ConstrainTile ensures tile coordinates are within valid bounds for the
// tile's zoom level.
func ConstrainTile(t Tile) Tile {
	maxTile := (1 << t.Level) - 1
	t.X = max(0, min(t.X, maxTile))
	t.Y = max(0, min(t.Y, maxTile))
	return t
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
