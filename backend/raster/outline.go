package raster

import (
	"image"
	"image/draw"

	"github.com/golang/freetype/raster"
	"github.com/npillmayer/captext/core"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Outline is a glyph outline at a pixel size, in 26.6 fixed point pixel
// coordinates relative to the glyph origin, with y pointing downwards.
type Outline struct {
	segments []sfnt.Segment
}

// number of line segments a cubic Bézier curve is flattened to for stroking
const cubicFlatteningSteps = 8

func (o *Outline) scaleX(num, denom int) {
	for i := range o.segments {
		for j := range o.segments[i].Args {
			x := &o.segments[i].Args[j].X
			*x = fixed.Int26_6(int64(*x) * int64(num) / int64(denom))
		}
	}
}

// bounds returns the pixel bounds of all points of the outline, including
// control points, or an empty rectangle for an outline without contours.
func (o *Outline) bounds() image.Rectangle {
	var r fixed.Rectangle26_6
	first := true
	for _, seg := range o.segments {
		for _, p := range seg.Args[:argCount(seg.Op)] {
			if first {
				r.Min, r.Max = p, p
				first = false
				continue
			}
			r.Min.X, r.Max.X = min26(r.Min.X, p.X), max26(r.Max.X, p.X)
			r.Min.Y, r.Max.Y = min26(r.Min.Y, p.Y), max26(r.Max.Y, p.Y)
		}
	}
	if first {
		return image.Rectangle{}
	}
	return image.Rect(r.Min.X.Floor(), r.Min.Y.Floor(), r.Max.X.Ceil(), r.Max.Y.Ceil())
}

func argCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	}
	return 1
}

// RasterizeFill fills the outline with the non-zero winding rule.
func (o *Outline) RasterizeFill() (*image.Alpha, error) {
	bounds := o.bounds()
	if bounds.Empty() {
		return image.NewAlpha(image.Rectangle{}), nil
	}
	dx, dy := float32(bounds.Min.X), float32(bounds.Min.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 - dx, float32(p.Y)/64 - dy
	}
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Src
	for _, seg := range o.segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			z.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	mask.Rect = bounds
	return mask, nil
}

// RasterizeStroke strokes the contours of the outline with a pen of the given
// radius, using round caps and joins. Only the border is covered; the inside
// of the glyph is left as it is.
func (o *Outline) RasterizeStroke(radius fixed.Int26_6) (*image.Alpha, error) {
	if radius <= 0 {
		return nil, core.Error(core.EINVALID, "stroke radius must be positive")
	}
	bounds := o.bounds()
	if bounds.Empty() {
		return image.NewAlpha(image.Rectangle{}), nil
	}
	border := radius.Ceil() + 1
	bounds = bounds.Inset(-border)
	shift := fixed.P(bounds.Min.X, bounds.Min.Y)
	path := o.strokePath(shift)
	r := raster.NewRasterizer(bounds.Dx(), bounds.Dy())
	r.UseNonZeroWinding = true
	raster.Stroke(r, path, 2*radius, raster.RoundCapper, raster.RoundJoiner)
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	r.Rasterize(raster.NewAlphaSrcPainter(mask))
	mask.Rect = bounds
	tracer().Debugf("stroked outline with radius %v, bounds %v", radius, bounds)
	return mask, nil
}

// strokePath converts the outline into a path for the freetype stroker,
// translated by -shift. Contours are closed explicitly, and cubic segments
// are flattened, as the stroker does not handle them.
func (o *Outline) strokePath(shift fixed.Point26_6) raster.Path {
	var path raster.Path
	var start, last fixed.Point26_6
	open := false
	closeContour := func() {
		if open && last != start {
			path.Add1(start)
		}
		open = false
	}
	for _, seg := range o.segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			start = seg.Args[0].Sub(shift)
			path.Start(start)
			last, open = start, true
		case sfnt.SegmentOpLineTo:
			last = seg.Args[0].Sub(shift)
			path.Add1(last)
		case sfnt.SegmentOpQuadTo:
			b, c := seg.Args[0].Sub(shift), seg.Args[1].Sub(shift)
			path.Add2(b, c)
			last = c
		case sfnt.SegmentOpCubeTo:
			b, c, d := seg.Args[0].Sub(shift), seg.Args[1].Sub(shift), seg.Args[2].Sub(shift)
			for i := 1; i <= cubicFlatteningSteps; i++ {
				path.Add1(cubicPoint(last, b, c, d, i, cubicFlatteningSteps))
			}
			last = d
		}
	}
	closeContour()
	return path
}

// cubicPoint evaluates a cubic Bézier curve at t = i/n.
func cubicPoint(a, b, c, d fixed.Point26_6, i, n int) fixed.Point26_6 {
	if i == n {
		return d
	}
	t := float64(i) / float64(n)
	s := 1 - t
	f := func(a, b, c, d fixed.Int26_6) fixed.Int26_6 {
		v := s*s*s*float64(a) + 3*s*s*t*float64(b) + 3*s*t*t*float64(c) + t*t*t*float64(d)
		return fixed.Int26_6(v + 0.5)
	}
	return fixed.Point26_6{X: f(a.X, b.X, c.X, d.X), Y: f(a.Y, b.Y, c.Y, d.Y)}
}

func min26(a, b fixed.Int26_6) fixed.Int26_6 {
	if a < b {
		return a
	}
	return b
}

func max26(a, b fixed.Int26_6) fixed.Int26_6 {
	if a > b {
		return a
	}
	return b
}
