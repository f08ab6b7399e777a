// Package mapview implements the moving-map widget of the flight display:
// a scrollable, zoomable slippy map with a heading-aware aircraft marker,
// composited every frame from an ordered chain of tile sources.
package mapview

import (
	"image"
	"time"

	"movingmap/log"
	"movingmap/tiles"
)

const (
	// markerSize is the side length of the aircraft sprite, in pixels.
	markerSize = 32

	// roamingTimeout is how long the viewport stays free after the last
	// manual pan before snapping back to the marker.
	roamingTimeout = 2000 * time.Millisecond

	// edgeLimit is the safety margin: when the marker's bounding box gets
	// this close to a viewport edge, the view recenters.
	edgeLimit = 10

	// panDuration is the length of an animated viewport transition.
	panDuration = 300 * time.Millisecond
)

// TileSource names one tile directory, highest priority first.
type TileSource struct {
	Path   string
	Format string
}

// Patch is one tile's visible portion for the current frame: a source
// rectangle in tile-local coordinates, a destination rectangle in
// viewport-local coordinates, and a borrowed reference to the tile image.
type Patch struct {
	Src image.Rectangle
	Dst image.Rectangle
	Img *tiles.Image
}

type animation struct {
	active   bool
	fromX    int
	fromY    int
	toX      int
	toY      int
	elapsed  time.Duration
	duration time.Duration
}

// MapView owns the viewport, the marker, the roaming state machine and the
// per-frame patch list. It is synchronous and frame-paced: the host calls
// UpdateState then Render once per display refresh, and every mutation
// happens on that thread.
type MapView struct {
	width  int
	height int

	level  int
	worldX int
	worldY int

	marker struct {
		x       int
		y       int
		heading float64
	}
	markerImg *markerSprite

	roaming          bool
	lastManipulation time.Time

	anim animation

	chain *tiles.Chain

	// buf is the patch backing store; its length only ever grows, sized to
	// the worst-case tile span seen so far. np counts the live patches.
	buf []Patch
	np  int

	markerSrc image.Rectangle
	markerDst image.Rectangle

	dirty bool
	now   func() time.Time
	log   *log.Logger

	// pointer-drag and frame-pacing bookkeeping for Layout
	dragging    bool
	lastDragPos image.Point
	lastFrame   time.Time
}

// New creates a map view of fixed pixel dimensions. Each tile source gets
// its own disk provider whose cache is sized from the viewport geometry:
// worst case is the view centered on a four-tile junction, times the tiles
// in view, kept for two viewports' worth. A generated-grid provider always
// backs the chain so the map renders without tile data.
func New(width, height int, sources []TileSource, lg *log.Logger) (*MapView, error) {
	across := width / tiles.TileSize
	cacheTiles := max(across, 1) * max(across, 1) * 4

	providers := make([]tiles.Provider, 0, len(sources)+1)
	for _, src := range sources {
		p, err := tiles.NewDiskProvider(src.Path, src.Format, cacheTiles*2)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	grid, err := tiles.NewGridProvider(cacheTiles * 2)
	if err != nil {
		return nil, err
	}
	providers = append(providers, grid)

	mv := &MapView{
		width:     width,
		height:    height,
		markerImg: newMarkerSprite(markerSize),
		chain:     tiles.NewChain(providers...),
		dirty:     true,
		now:       time.Now,
		log:       lg,
	}
	mv.markerSrc = invalidRect
	mv.markerDst = invalidRect
	return mv, nil
}

// Close releases the frame's borrowed tile references and shuts down the
// provider chain.
func (mv *MapView) Close() {
	mv.releasePatches()
	mv.chain.Close()
}

// Level returns the current zoom level.
func (mv *MapView) Level() int { return mv.level }

// Viewport returns the visible window in world coordinates.
func (mv *MapView) Viewport() image.Rectangle {
	return image.Rect(mv.worldX, mv.worldY, mv.worldX+mv.width, mv.worldY+mv.height)
}

// MarkerWorld returns the marker's center in world pixels.
func (mv *MapView) MarkerWorld() (int, int) { return mv.marker.x, mv.marker.y }

// MarkerHeading returns the marker heading in degrees.
func (mv *MapView) MarkerHeading() float64 { return mv.marker.heading }

// Roaming reports whether the viewport is currently free-roaming.
func (mv *MapView) Roaming() bool { return mv.roaming }

// MarkerGeo returns the marker position as geographical coordinates.
func (mv *MapView) MarkerGeo() tiles.LatLng {
	return tiles.PixelToGeo(mv.marker.x, mv.marker.y, mv.level)
}

// SetLevel switches the zoom level, keeping the viewport and the marker
// over the same geographical area. Levels above MaxLevel are rejected
// without touching any state; setting the current level is a successful
// no-op.
func (mv *MapView) SetLevel(level int) bool {
	if level < 0 || level > tiles.MaxLevel {
		return false
	}
	if level == mv.level {
		return true
	}

	viewGeo := tiles.PixelToGeo(mv.worldX, mv.worldY, mv.level)
	markerGeo := tiles.PixelToGeo(mv.marker.x, mv.marker.y, mv.level)
	mv.level = level

	x, y := tiles.GeoToPixel(viewGeo, level)
	mv.SetViewport(x, y, false)
	mv.SetMarkerPosition(markerGeo.Lat, markerGeo.Lng)
	return true
}

// SetViewport moves the viewport's world top-left to (x, y), clamped so
// the viewport stays fully inside the map. Returns false without mutation
// when the clamped target is where the viewport already is. An animated
// move eases there over a fixed duration, advanced by UpdateState; a
// non-animated move applies immediately and cancels any transition in
// flight.
func (mv *MapView) SetViewport(x, y int, animated bool) bool {
	x = clampInt(x, 0, max(tiles.WorldSize(mv.level)-mv.width, 0))
	y = clampInt(y, 0, max(tiles.WorldSize(mv.level)-mv.height, 0))

	if x == mv.worldX && y == mv.worldY && !mv.anim.active {
		return false
	}

	if animated {
		mv.anim = animation{
			active:   true,
			fromX:    mv.worldX,
			fromY:    mv.worldY,
			toX:      x,
			toY:      y,
			duration: panDuration,
		}
	} else {
		mv.anim.active = false
		mv.worldX = x
		mv.worldY = y
	}
	mv.dirty = true
	return true
}

// MoveViewport moves the viewport by the given world-pixel increment.
func (mv *MapView) MoveViewport(dx, dy int, animated bool) bool {
	return mv.SetViewport(mv.worldX+dx, mv.worldY+dy, animated)
}

// ManipulateViewport is the entry point for direct user panning: it moves
// the viewport like MoveViewport and puts the view in roaming mode, which
// expires roamingTimeout after the last manipulation.
func (mv *MapView) ManipulateViewport(dx, dy int, animated bool) bool {
	mv.lastManipulation = mv.now()
	mv.roaming = true
	return mv.MoveViewport(dx, dy, animated)
}

// SetMarkerPosition updates the marker from a geographical fix. If the
// roaming timeout has expired this first snaps the view back onto the
// marker's previous position; the check runs before the new fix is even
// projected, so the transition fires on the next update after the timeout
// rather than on a background timer. Returns whether the marker's pixel
// position changed.
func (mv *MapView) SetMarkerPosition(lat, lng float64) bool {
	if mv.roaming && mv.now().Sub(mv.lastManipulation) > roamingTimeout {
		mv.roaming = false
		mv.CenterOnMarker(true)
	}

	x, y := tiles.GeoToPixel(tiles.LatLng{Lat: lat, Lng: lng}, mv.level)
	if x == mv.marker.x && y == mv.marker.y {
		return false
	}
	mv.marker.x = x
	mv.marker.y = y
	if !mv.roaming {
		mv.follow()
	}
	mv.dirty = true
	return true
}

// SetMarkerHeading updates the marker heading in degrees, clamped to
// [0, 360]. Returns whether the heading changed.
func (mv *MapView) SetMarkerHeading(heading float64) bool {
	heading = clampFloat(heading, 0, 360)
	if heading == mv.marker.heading {
		return false
	}
	mv.marker.heading = heading
	mv.dirty = true
	return true
}

// CenterOnMarker moves the viewport so the marker's bounding-box top-left
// sits at the viewport's geometric center.
func (mv *MapView) CenterOnMarker(animated bool) bool {
	box := mv.markerWorldBox()
	return mv.SetViewport(box.Min.X-mv.width/2, box.Min.Y-mv.height/2, animated)
}

// follow keeps the marker comfortably in view while not roaming: it
// recenters when the marker has left the viewport entirely, or when its
// bounding box comes within edgeLimit pixels of any viewport edge.
func (mv *MapView) follow() bool {
	vp := mv.Viewport()
	box := mv.markerWorldBox()
	if !box.Overlaps(vp) {
		return mv.CenterOnMarker(true)
	}
	if box.Min.X <= vp.Min.X+edgeLimit ||
		box.Max.X >= vp.Max.X-edgeLimit ||
		box.Min.Y <= vp.Min.Y+edgeLimit ||
		box.Max.Y >= vp.Max.Y-edgeLimit {
		return mv.CenterOnMarker(true)
	}
	return true
}

// markerWorldBox returns the marker sprite's bounding box in world pixels,
// centered on the marker position.
func (mv *MapView) markerWorldBox() image.Rectangle {
	s := mv.markerImg.size
	return image.Rect(
		mv.marker.x-s/2,
		mv.marker.y-s/2,
		mv.marker.x-s/2+s,
		mv.marker.y-s/2+s,
	)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
