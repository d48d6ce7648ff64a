/*
Package raster implements a font engine for rendering single glyphs into
coverage masks.

Fonts are parsed with golang.org/x/image/font/sfnt, for single fonts as well
as for font collections. Glyph outlines are filled with the anti-aliasing
rasterizer of golang.org/x/image/vector. Stroking (drawing the border of a
glyph with a given radius, as used for outlined subtitles) is done by the
stroker of github.com/golang/freetype/raster, with round caps and joins.

Coverage masks are of type *image.Alpha. Their bounds are relative to the
glyph origin on the baseline, with y pointing downwards.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raster

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'captext.raster'
func tracer() tracing.Trace {
	return tracing.Select("captext.raster")
}
