package mapview

import (
	"errors"
	"image"
	"time"

	"movingmap/tiles"
)

// invalidRect is the sentinel for "marker not visible this frame"; the
// renderer skips any marker rectangle with a negative origin.
var invalidRect = image.Rect(-1, -1, -1, -1)

// UpdateState advances any viewport transition by dt and, when the view
// has changed since the last frame, recomputes the patch list. The host
// calls it once per display refresh, before Render.
func (mv *MapView) UpdateState(dt time.Duration) {
	mv.stepAnimation(dt)
	if !mv.dirty {
		return
	}
	mv.dirty = false
	mv.composePatches()
}

func (mv *MapView) stepAnimation(dt time.Duration) {
	if !mv.anim.active {
		return
	}
	a := &mv.anim
	a.elapsed += dt
	if a.elapsed >= a.duration {
		a.active = false
		mv.worldX = a.toX
		mv.worldY = a.toY
	} else {
		t := float64(a.elapsed) / float64(a.duration)
		e := t * t * (3 - 2*t)
		mv.worldX = a.fromX + int(float64(a.toX-a.fromX)*e)
		mv.worldY = a.fromY + int(float64(a.toY-a.fromY)*e)
	}
	mv.dirty = true
}

// composePatches rebuilds the visible patch set against the current
// viewport: the covering tile range is walked row-major, each tile is
// fetched through the provider chain (first source that has it wins), and
// its viewport intersection becomes one patch. Previous-frame references
// are released first; the backing buffer only ever grows.
func (mv *MapView) composePatches() {
	tlTileX := mv.worldX / tiles.TileSize
	tlTileY := mv.worldY / tiles.TileSize
	brTileX := (mv.worldX + mv.width - 1) / tiles.TileSize
	brTileY := (mv.worldY + mv.height - 1) / tiles.TileSize

	span := (brTileX - tlTileX + 1) * (brTileY - tlTileY + 1)
	if span > len(mv.buf) {
		grown := make([]Patch, span)
		copy(grown, mv.buf)
		mv.buf = grown
	}

	mv.releasePatches()

	vp := mv.Viewport()
	lastTile := (1 << mv.level) - 1
	for tileY := tlTileY; tileY <= brTileY; tileY++ {
		for tileX := tlTileX; tileX <= brTileX; tileX++ {
			if tileX < 0 || tileY < 0 || tileX > lastTile || tileY > lastTile {
				continue
			}
			img, err := mv.chain.GetTile(tiles.Tile{X: tileX, Y: tileY, Level: mv.level})
			if err != nil {
				if errors.Is(err, tiles.ErrTileNotFound) {
					mv.log.Debug("no tile", "level", mv.level, "x", tileX, "y", tileY)
				} else {
					mv.log.Warn("tile load failed", "level", mv.level, "x", tileX, "y", tileY, "err", err)
				}
				continue
			}

			tileRect := image.Rect(
				tileX*tiles.TileSize,
				tileY*tiles.TileSize,
				(tileX+1)*tiles.TileSize,
				(tileY+1)*tiles.TileSize,
			)
			world := vp.Intersect(tileRect)
			p := &mv.buf[mv.np]
			p.Src = world.Sub(tileRect.Min)
			p.Dst = world.Sub(vp.Min)
			p.Img = img.Retain()
			mv.np++
		}
	}

	markerWorld := vp.Intersect(mv.markerWorldBox())
	if markerWorld.Empty() {
		mv.markerSrc = invalidRect
		mv.markerDst = invalidRect
	} else {
		mv.markerSrc = markerWorld.Sub(mv.markerWorldBox().Min)
		mv.markerDst = markerWorld.Sub(vp.Min)
	}
}

// releasePatches drops the previous frame's borrowed tile references and
// empties the active patch list without shrinking the buffer.
func (mv *MapView) releasePatches() {
	for i := 0; i < mv.np; i++ {
		mv.buf[i].Img.Release()
		mv.buf[i].Img = nil
	}
	mv.np = 0
}

// Patches returns the live patches composed for the current frame.
func (mv *MapView) Patches() []Patch {
	return mv.buf[:mv.np]
}

// MarkerPatch returns the marker's source and destination rectangles and
// whether the marker is visible this frame.
func (mv *MapView) MarkerPatch() (src, dst image.Rectangle, visible bool) {
	return mv.markerSrc, mv.markerDst, mv.markerSrc.Min.X >= 0
}
