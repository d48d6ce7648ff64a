/*
Package gfx implements the drawing surface characters are rendered onto.

A Bitmap is an RGBA pixel buffer, usually representing a subtitle overlay
for a video frame. Glyphs arrive as coverage masks and are composited with a
solid color, using Porter-Duff source-over.

BSD License

Copyright (c) 2017-21, Norbert Pillmayer <norbert@pillmayer.com>

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of Norbert Pillmayer nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package gfx

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/draw"
)

// G traces to the graphics tracer.
func G() tracing.Trace {
	return tracing.Select("captext.render")
}

// Bitmap is a drawing surface of RGBA pixels. Its origin is the top left
// corner, with y pointing downwards. A new bitmap is fully transparent.
type Bitmap struct {
	img *image.RGBA
}

// NewBitmap creates a transparent bitmap of w × h pixels.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Bounds returns the pixel rectangle of the bitmap.
func (b *Bitmap) Bounds() image.Rectangle {
	return b.img.Bounds()
}

// Image returns the pixels of the bitmap. Changes to the bitmap will be
// visible in the image.
func (b *Bitmap) Image() *image.RGBA {
	return b.img
}

// Clear sets every pixel to c, disregarding the current content.
func (b *Bitmap) Clear(c color.Color) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect composites a solid rectangle onto the bitmap. r is clipped
// to the bitmap.
func (b *Bitmap) FillRect(c color.Color, r image.Rectangle) {
	r = r.Intersect(b.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(b.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// BlitCoverage composites a color through a coverage mask onto the bitmap.
// The mask's origin (0,0) is placed at (x,y); the mask's bounds may extend
// to negative coordinates. Pixels outside of the bitmap are clipped.
func (b *Bitmap) BlitCoverage(cov *image.Alpha, c color.Color, x, y int) {
	if cov == nil || cov.Rect.Empty() {
		return
	}
	dr := cov.Rect.Add(image.Pt(x, y))
	clipped := dr.Intersect(b.img.Bounds())
	if clipped.Empty() {
		G().Debugf("coverage at %v is outside of bitmap", dr)
		return
	}
	mp := cov.Rect.Min.Add(clipped.Min.Sub(dr.Min))
	draw.DrawMask(b.img, clipped, image.NewUniform(c), image.Point{}, cov, mp, draw.Over)
}

// Scaled returns a copy of the bitmap, magnified by an integer factor
// without interpolation. This is helpful for inspecting rendered glyphs.
func (b *Bitmap) Scaled(factor int) *image.RGBA {
	if factor <= 1 {
		factor = 1
	}
	r := b.img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx()*factor, r.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), b.img, r, draw.Src, nil)
	return dst
}

// WritePNG encodes the bitmap as a PNG image.
func (b *Bitmap) WritePNG(w io.Writer) error {
	return png.Encode(w, b.img)
}
