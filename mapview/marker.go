package mapview

import (
	"image"
	"image/color"

	"gioui.org/op/paint"
)

// markerSprite is the aircraft symbol, drawn once at construction: a dart
// shape pointing up, so heading 0 is north and rotation needs no offset.
type markerSprite struct {
	size  int
	img   *image.RGBA
	op    paint.ImageOp
	hasOp bool
}

func newMarkerSprite(size int) *markerSprite {
	return &markerSprite{size: size, img: renderDart(size)}
}

func (m *markerSprite) imageOp() paint.ImageOp {
	if !m.hasOp {
		m.op = paint.NewImageOp(m.img)
		m.hasOp = true
	}
	return m.op
}

// renderDart rasterizes the marker as two triangles sharing the nose and a
// tail notch, on a transparent background.
func renderDart(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	s := float64(size)
	nose := point{s / 2, 1}
	right := point{s - 3, s - 3}
	notch := point{s / 2, s * 0.72}
	left := point{3, s - 3}

	body := color.RGBA{250, 250, 250, 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := point{float64(x) + 0.5, float64(y) + 0.5}
			if inTriangle(p, nose, right, notch) || inTriangle(p, nose, notch, left) {
				img.SetRGBA(x, y, body)
			}
		}
	}
	return img
}

type point struct{ x, y float64 }

func inTriangle(p, a, b, c point) bool {
	d1 := edge(p, a, b)
	d2 := edge(p, b, c)
	d3 := edge(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edge(p, a, b point) float64 {
	return (p.x-b.x)*(a.y-b.y) - (a.x-b.x)*(p.y-b.y)
}
