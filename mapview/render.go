package mapview

import (
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

var outlineColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Render draws the frame composed by UpdateState: every live patch copied
// from its tile to its viewport rectangle, then the marker sprite rotated
// about its center by the current heading, then the widget outline on top.
func (mv *MapView) Render(ops *op.Ops) {
	defer clip.Rect(image.Rect(0, 0, mv.width, mv.height)).Push(ops).Pop()

	for i := 0; i < mv.np; i++ {
		p := &mv.buf[i]
		cl := clip.Rect(p.Dst).Push(ops)
		off := op.Offset(p.Dst.Min.Sub(p.Src.Min)).Push(ops)
		p.Img.Op().Add(ops)
		paint.PaintOp{}.Add(ops)
		off.Pop()
		cl.Pop()
	}

	if mv.markerSrc.Min.X >= 0 {
		center := f32.Pt(float32(mv.marker.x-mv.worldX), float32(mv.marker.y-mv.worldY))
		angle := float32(mv.marker.heading * math.Pi / 180)
		aff := op.Affine(f32.Affine2D{}.Rotate(center, angle)).Push(ops)
		off := op.Offset(mv.markerDst.Min.Sub(mv.markerSrc.Min)).Push(ops)
		mv.markerImg.imageOp().Add(ops)
		paint.PaintOp{}.Add(ops)
		off.Pop()
		aff.Pop()
	}

	paint.FillShape(ops, outlineColor, clip.Stroke{
		Path:  clip.UniformRRect(image.Rect(0, 0, mv.width, mv.height), 0).Path(ops),
		Width: 2,
	}.Op())
}

// Layout is the Gio widget surface: it turns pointer drags into viewport
// manipulation and scrolls into zoom changes, advances the frame state and
// renders it.
func (mv *MapView) Layout(gtx layout.Context) layout.Dimensions {
	tag := mv

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  tag,
			Kinds:   pointer.Scroll | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Press:
			mv.dragging = true
			mv.lastDragPos = image.Pt(int(e.Position.X), int(e.Position.Y))
		case pointer.Drag:
			if !mv.dragging {
				break
			}
			pos := image.Pt(int(e.Position.X), int(e.Position.Y))
			if d := pos.Sub(mv.lastDragPos); d != (image.Point{}) {
				// Dragging the map moves the world under the viewport.
				mv.ManipulateViewport(-d.X, -d.Y, false)
				mv.lastDragPos = pos
			}
		case pointer.Scroll:
			if e.Scroll.Y < 0 {
				mv.SetLevel(mv.level + 1)
			} else if e.Scroll.Y > 0 {
				mv.SetLevel(mv.level - 1)
			}
		case pointer.Release, pointer.Cancel:
			mv.dragging = false
		}
	}

	defer clip.Rect(image.Rect(0, 0, mv.width, mv.height)).Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)

	var dt time.Duration
	if !mv.lastFrame.IsZero() {
		dt = gtx.Now.Sub(mv.lastFrame)
	}
	mv.lastFrame = gtx.Now

	mv.UpdateState(dt)
	mv.Render(gtx.Ops)

	if mv.anim.active {
		gtx.Execute(op.InvalidateCmd{})
	}
	return layout.Dimensions{Size: image.Pt(mv.width, mv.height)}
}
