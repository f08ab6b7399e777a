package tiles

import (
	"image"
	"sync/atomic"

	"gioui.org/op/paint"
)

// Image is a reference-counted tile image. A provider's cache owns the
// canonical reference; the per-frame patch list borrows additional
// references and releases them when the next frame is composed, so a tile
// can never be evicted out from under the renderer.
type Image struct {
	img   image.Image
	op    paint.ImageOp
	hasOp bool
	refs  atomic.Int32
}

// NewImage wraps img with an initial reference count of one, owned by the
// caller (normally the provider cache).
func NewImage(img image.Image) *Image {
	t := &Image{img: img}
	t.refs.Store(1)
	return t
}

// Retain takes an additional reference and returns the same image.
func (t *Image) Retain() *Image {
	t.refs.Add(1)
	return t
}

// Release drops one reference. The backing pixels are reclaimed by the
// garbage collector once every holder has released.
func (t *Image) Release() {
	t.refs.Add(-1)
}

// Refs reports the current reference count.
func (t *Image) Refs() int {
	return int(t.refs.Load())
}

// Bounds returns the pixel bounds of the backing image.
func (t *Image) Bounds() image.Rectangle {
	return t.img.Bounds()
}

// Src returns the backing image.
func (t *Image) Src() image.Image {
	return t.img
}

// Op returns a paint.ImageOp for the backing image, built on first use and
// cached so repeated frames do not re-upload the texture.
func (t *Image) Op() paint.ImageOp {
	if !t.hasOp {
		t.op = paint.NewImageOp(t.img)
		t.hasOp = true
	}
	return t.op
}
